package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// The sample business store the system is demonstrated against. Schema
// names are deliberately messy (abbreviations, unnamed columns, mixed
// casing) and the data carries quality issues: missing emails, empty
// phones, NULL segments and statuses, price variations.
const (
	seedRandSource = 42

	customerCount = 100
	productCount  = 50
	orderCount    = 500
	finMonths     = 24
)

// seedAnchor fixes "today" for generated dates so repeated seeds produce
// identical content
var seedAnchor = time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)

// seedTables lists the sample tables in drop order (children first)
var seedTables = []string{"OrderData", "fin_data", "prod_master", "cust_tbl"}

// Seed creates and populates the sample business database. With force it
// drops and recreates the sample tables; otherwise existing sample tables
// are an error.
func (s *Store) Seed(ctx context.Context, force bool) error {
	existing, err := s.tableNames(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect existing tables: %w", err)
	}

	present := map[string]bool{}
	for _, name := range existing {
		present[name] = true
	}

	hasAny := false

	for _, name := range seedTables {
		if present[name] {
			hasAny = true
		}
	}

	if hasAny && !force {
		return fmt.Errorf("sample tables already exist (use force to recreate)")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	if hasAny {
		for _, name := range seedTables {
			if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(name)); err != nil {
				return fmt.Errorf("failed to drop table %s: %w", name, err)
			}
		}
	}

	for _, ddl := range seedDDL {
		if _, err := tx.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("failed to create sample table: %w", err)
		}
	}

	rng := rand.New(rand.NewSource(seedRandSource))

	prices, err := s.seedCustomersAndProducts(ctx, tx, rng)
	if err != nil {
		return err
	}

	if err := s.seedOrders(ctx, tx, rng, prices); err != nil {
		return err
	}

	if err := s.seedFinancials(ctx, tx, rng); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sample data: %w", err)
	}

	return nil
}

var seedDDL = []string{
	`CREATE TABLE cust_tbl (
		id INTEGER PRIMARY KEY,
		nm VARCHAR(100),
		em VARCHAR(100),
		ph VARCHAR(20),
		addr TEXT,
		reg_dt DATE,
		seg VARCHAR(20),
		status VARCHAR(10)
	)`,
	`CREATE TABLE prod_master (
		pid INTEGER PRIMARY KEY,
		pname TEXT,
		cat VARCHAR(50),
		subcategory VARCHAR(50),
		price DECIMAL(10,2),
		cost DECIMAL(10,2),
		col6 VARCHAR(50),
		col7 DATE,
		col8 INTEGER
	)`,
	`CREATE TABLE OrderData (
		order_id INTEGER PRIMARY KEY,
		customer_id INTEGER,
		product_id INTEGER,
		OrderDate DATE,
		qty INTEGER,
		unit_price DECIMAL(10,2),
		discount_pct DECIMAL(5,2),
		sales_rep VARCHAR(100),
		region VARCHAR(50),
		FOREIGN KEY (customer_id) REFERENCES cust_tbl(id),
		FOREIGN KEY (product_id) REFERENCES prod_master(pid)
	)`,
	`CREATE TABLE fin_data (
		id INTEGER PRIMARY KEY,
		period DATE,
		rev DECIMAL(15,2),
		cogs DECIMAL(15,2),
		opex DECIMAL(15,2),
		mkting DECIMAL(15,2),
		misc_exp DECIMAL(15,2)
	)`,
}

type txExecer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) seedCustomersAndProducts(
	ctx context.Context,
	tx txExecer,
	rng *rand.Rand,
) ([]float64, error) {
	customerNames := []string{
		"John Smith", "Jane Doe", "Bob Johnson", "Alice Wilson", "Charlie Brown",
		"Diana Prince", "Eve Adams", "Frank Miller", "Grace Lee", "Henry Ford",
	}
	segments := []string{"Premium", "Standard", "Basic", "VIP", "Regular"}
	statuses := []any{"Active", "Inactive", "Suspended", "New", nil}

	insertCustomer := fmt.Sprintf("INSERT INTO cust_tbl VALUES (%s)", s.placeholders(8))

	for i := 1; i <= customerCount; i++ {
		name := fmt.Sprintf("%s %d", customerNames[rng.Intn(len(customerNames))], i)

		var email any
		if rng.Float64() > 0.1 {
			email = fmt.Sprintf("customer%d@email.com", i)
		}

		phone := ""
		if rng.Float64() > 0.15 {
			phone = fmt.Sprintf("555-%d", 1000+rng.Intn(9000))
		}

		address := fmt.Sprintf("%d Main St, City %d", 100+rng.Intn(9900), i)
		regDate := seedAnchor.AddDate(0, 0, -(1 + rng.Intn(1000))).Format("2006-01-02")
		segment := segments[rng.Intn(len(segments))]
		status := statuses[rng.Intn(len(statuses))]

		args := []any{i, name, email, phone, address, regDate, segment, status}
		if _, err := tx.ExecContext(ctx, insertCustomer, args...); err != nil {
			return nil, fmt.Errorf("failed to insert customer %d: %w", i, err)
		}
	}

	categories := []string{"Electronics", "Clothing", "Home & Garden", "Sports", "Books"}
	subcategories := map[string][]string{
		"Electronics":   {"Phones", "Laptops", "Accessories"},
		"Clothing":      {"Shirts", "Pants", "Shoes"},
		"Home & Garden": {"Furniture", "Tools", "Decor"},
		"Sports":        {"Equipment", "Apparel", "Accessories"},
		"Books":         {"Fiction", "Non-Fiction", "Educational"},
	}
	suppliers := []string{"SupplierA", "SupplierB", "SupplierC", "SupplierD"}

	insertProduct := fmt.Sprintf("INSERT INTO prod_master VALUES (%s)", s.placeholders(9))
	prices := make([]float64, productCount+1)

	for i := 1; i <= productCount; i++ {
		cat := categories[rng.Intn(len(categories))]
		subs := subcategories[cat]
		subcat := subs[rng.Intn(len(subs))]
		price := round2(10 + rng.Float64()*490)
		cost := round2(price * (0.4 + rng.Float64()*0.4))
		supplier := suppliers[rng.Intn(len(suppliers))]
		launch := seedAnchor.AddDate(0, 0, -(30 + rng.Intn(336))).Format("2006-01-02")
		stock := rng.Intn(101)

		prices[i] = price

		args := []any{i, fmt.Sprintf("Product %d", i), cat, subcat, price, cost, supplier, launch, stock}
		if _, err := tx.ExecContext(ctx, insertProduct, args...); err != nil {
			return nil, fmt.Errorf("failed to insert product %d: %w", i, err)
		}
	}

	return prices, nil
}

func (s *Store) seedOrders(ctx context.Context, tx txExecer, rng *rand.Rand, prices []float64) error {
	regions := []string{"North", "South", "East", "West", "Central"}
	salesReps := []string{"Alice Rep", "Bob Rep", "Charlie Rep", "Diana Rep", "Eve Rep"}

	insertOrder := fmt.Sprintf("INSERT INTO OrderData VALUES (%s)", s.placeholders(9))

	for i := 1; i <= orderCount; i++ {
		customerID := 1 + rng.Intn(customerCount)
		productID := 1 + rng.Intn(productCount)
		orderDate := seedAnchor.AddDate(0, 0, -(1 + rng.Intn(365))).Format("2006-01-02")
		qty := 1 + rng.Intn(10)
		unitPrice := round2(prices[productID] * (0.9 + rng.Float64()*0.2))

		discount := 0.0
		if rng.Float64() > 0.7 {
			discount = round1(rng.Float64() * 0.3 * 100)
		}

		var rep any
		if rng.Float64() > 0.1 {
			rep = salesReps[rng.Intn(len(salesReps))]
		}

		region := regions[rng.Intn(len(regions))]

		args := []any{i, customerID, productID, orderDate, qty, unitPrice, discount, rep, region}
		if _, err := tx.ExecContext(ctx, insertOrder, args...); err != nil {
			return fmt.Errorf("failed to insert order %d: %w", i, err)
		}
	}

	return nil
}

func (s *Store) seedFinancials(ctx context.Context, tx txExecer, rng *rand.Rand) error {
	insertFin := fmt.Sprintf("INSERT INTO fin_data VALUES (%s)", s.placeholders(7))
	start := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < finMonths; i++ {
		period := start.AddDate(0, 0, 30*i).Format("2006-01-02")
		revenue := 100000 + rng.Float64()*400000
		cogs := revenue * (0.4 + rng.Float64()*0.2)
		opex := revenue * (0.15 + rng.Float64()*0.1)
		marketing := revenue * (0.05 + rng.Float64()*0.1)
		misc := revenue * (0.01 + rng.Float64()*0.04)

		args := []any{
			i + 1, period, round2(revenue), round2(cogs),
			round2(opex), round2(marketing), round2(misc),
		}
		if _, err := tx.ExecContext(ctx, insertFin, args...); err != nil {
			return fmt.Errorf("failed to insert financial period %d: %w", i+1, err)
		}
	}

	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
