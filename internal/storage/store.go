package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"  // Postgres driver
	_ "github.com/marcboeker/go-duckdb" // DuckDB driver
	_ "github.com/mattn/go-sqlite3"     // SQLite driver

	"github.com/sqlsage/sqlsage/internal/config"
)

// Dialects supported by the store
const (
	DialectDuckDB   = "duckdb"
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// Store wraps a relational database handle together with the dialect it
// speaks. All reads the pipeline performs (introspection, execution) go
// through it.
type Store struct {
	db           *sql.DB
	dialect      string
	queryTimeout time.Duration
}

// Open opens a store for the configured dialect with connection pooling
func Open(cfg config.DatabaseConfig) (*Store, error) {
	dialect := strings.ToLower(cfg.Dialect)

	var (
		db  *sql.DB
		err error
	)

	switch dialect {
	case DialectDuckDB, DialectSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("database path is required for dialect %s", dialect)
		}

		// Ensure the directory exists
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}

		driver := "duckdb"
		if dialect == DialectSQLite {
			driver = "sqlite3"
		}

		db, err = sql.Open(driver, cfg.Path)
	case DialectPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("database dsn is required for dialect postgres")
		}

		db, err = sql.Open("pgx", cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database dialect: %s", cfg.Dialect)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewStore(db, dialect, cfg.QueryTimeout), nil
}

// NewStore wraps an existing database handle. Used by Open and by tests
// that inject their own handle.
func NewStore(db *sql.DB, dialect string, queryTimeout time.Duration) *Store {
	return &Store{
		db:           db,
		dialect:      dialect,
		queryTimeout: queryTimeout,
	}
}

// Dialect returns the store's dialect name
func (s *Store) Dialect() string {
	return s.dialect
}

// DB exposes the underlying handle
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the underlying database handle
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}

	return s.db.Close()
}

// quoteIdent quotes an identifier so mixed-case and reserved-word table
// names survive round-tripping into SQL
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// placeholders renders n statement parameters in the store's dialect
func (s *Store) placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		if s.dialect == DialectPostgres {
			parts[i] = fmt.Sprintf("$%d", i+1)
		} else {
			parts[i] = "?"
		}
	}

	return strings.Join(parts, ", ")
}
