package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestExecuteSelect(t *testing.T) {
	store, cleanup := NewTestStore(t)
	defer cleanup()

	MustExec(t, store, `CREATE TABLE cust_tbl (id INTEGER, nm TEXT, status TEXT)`)
	MustExec(t, store, `INSERT INTO cust_tbl VALUES (1, 'John Smith 1', 'Active')`)
	MustExec(t, store, `INSERT INTO cust_tbl VALUES (2, 'Jane Doe 2', NULL)`)
	MustExec(t, store, `INSERT INTO cust_tbl VALUES (3, 'Bob Johnson 3', 'Active')`)

	result := store.Execute(context.Background(), `SELECT id, nm FROM cust_tbl WHERE status = 'Active' ORDER BY id`)

	if !result.Success {
		t.Fatalf("expected success, got error: %s", result.Error)
	}

	if result.RowCount != len(result.Rows) {
		t.Fatalf("row_count %d does not match rows %d", result.RowCount, len(result.Rows))
	}

	if result.RowCount != 2 {
		t.Fatalf("expected 2 rows, got %d", result.RowCount)
	}

	if len(result.Columns) != 2 || result.Columns[0] != "id" || result.Columns[1] != "nm" {
		t.Fatalf("unexpected columns: %v", result.Columns)
	}

	for _, row := range result.Rows {
		if len(row) != len(result.Columns) {
			t.Fatalf("row keys %v inconsistent with columns %v", row, result.Columns)
		}
	}

	if result.Error != "" {
		t.Fatalf("successful result carries error: %s", result.Error)
	}
}

func TestExecuteEmptyResult(t *testing.T) {
	store, cleanup := NewTestStore(t)
	defer cleanup()

	MustExec(t, store, `CREATE TABLE t (v INTEGER)`)

	result := store.Execute(context.Background(), `SELECT v FROM t`)

	if !result.Success {
		t.Fatalf("expected success, got error: %s", result.Error)
	}

	if result.RowCount != 0 {
		t.Fatalf("expected 0 rows, got %d", result.RowCount)
	}

	if result.Rows == nil {
		t.Fatal("rows should be an empty slice, not nil")
	}

	if len(result.Columns) != 1 || result.Columns[0] != "v" {
		t.Fatalf("unexpected columns: %v", result.Columns)
	}
}

func TestExecuteFailure(t *testing.T) {
	store, cleanup := NewTestStore(t)
	defer cleanup()

	result := store.Execute(context.Background(), `SELECT * FROM ordrs`)

	if result.Success {
		t.Fatal("expected failure for missing table")
	}

	if result.Error == "" {
		t.Fatal("failed result must carry an error message")
	}

	if len(result.Rows) != 0 || len(result.Columns) != 0 || result.RowCount != 0 {
		t.Fatalf("failed result must be empty, got %+v", result)
	}
}

func TestExecuteRowIterationFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id"}).
		AddRow(1).
		AddRow(2).
		RowError(1, errors.New("connection reset"))
	mock.ExpectQuery("SELECT id FROM cust_tbl").WillReturnRows(rows)

	store := NewStore(db, DialectSQLite, 0)
	result := store.Execute(context.Background(), "SELECT id FROM cust_tbl")

	if result.Success {
		t.Fatal("expected failure when row iteration breaks")
	}

	if result.Error == "" {
		t.Fatal("expected error message for row iteration failure")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestExecuteQueryFailureViaMock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT \\* FROM fin_data").WillReturnError(errors.New("database is locked"))

	store := NewStore(db, DialectSQLite, 0)
	result := store.Execute(context.Background(), "SELECT * FROM fin_data")

	if result.Success {
		t.Fatal("expected failure")
	}

	if result.Error != "database is locked" {
		t.Fatalf("unexpected error message: %s", result.Error)
	}
}

func TestNormalizeValue(t *testing.T) {
	if got := normalizeValue([]byte("hello")); got != "hello" {
		t.Fatalf("expected []byte normalized to string, got %T %v", got, got)
	}

	if got := normalizeValue(int64(7)); got != int64(7) {
		t.Fatalf("expected int64 passthrough, got %T %v", got, got)
	}

	if got := normalizeValue(nil); got != nil {
		t.Fatalf("expected nil passthrough, got %T %v", got, got)
	}
}
