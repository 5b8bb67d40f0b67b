package storage

import (
	"context"
	"database/sql"

	"github.com/sqlsage/sqlsage/internal/types"
)

// Execute runs a statement once and materializes the full result set.
// Every failure mode collapses into the result's error field; callers never
// see an error value and the statement is never retried or rewritten.
func (s *Store) Execute(ctx context.Context, query string) types.QueryResult {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return failedResult(err)
	}
	defer rows.Close()

	records, columns, err := scanRows(rows)
	if err != nil {
		return failedResult(err)
	}

	return types.QueryResult{
		Success:  true,
		Rows:     records,
		Columns:  columns,
		RowCount: len(records),
	}
}

// failedResult shapes an execution failure into the uniform result form
func failedResult(err error) types.QueryResult {
	return types.QueryResult{
		Success:  false,
		Rows:     []map[string]any{},
		Columns:  []string{},
		RowCount: 0,
		Error:    err.Error(),
	}
}

// scanRows materializes a result set into records keyed by column name,
// in the result set's own column order
func scanRows(rows *sql.Rows) ([]map[string]any, []string, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	records := make([]map[string]any, 0)

	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))

		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, nil, err
		}

		record := make(map[string]any, len(columns))
		for i, col := range columns {
			record[col] = normalizeValue(values[i])
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return records, columns, nil
}

// normalizeValue converts driver-specific representations into plain
// JSON-friendly scalars
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}

	return v
}
