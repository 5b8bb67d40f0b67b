package storage

import (
	"context"
	"fmt"

	"github.com/sqlsage/sqlsage/internal/logging"
	"github.com/sqlsage/sqlsage/internal/types"
)

// Introspect reads the store's structural metadata: every base table with
// its columns (name, declared type, nullability) in catalog order, plus up
// to sampleRows illustrative rows per table. It never writes.
//
// Metadata failures surface as errors so the caller can decide how to
// degrade; a failure reading sample rows only drops the samples for that
// table.
func (s *Store) Introspect(ctx context.Context, sampleRows int) (types.SchemaDescription, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	names, err := s.tableNames(ctx)
	if err != nil {
		return types.SchemaDescription{}, fmt.Errorf("failed to list tables: %w", err)
	}

	schema := types.SchemaDescription{Tables: make([]types.TableDescription, 0, len(names))}

	for _, name := range names {
		columns, err := s.tableColumns(ctx, name)
		if err != nil {
			return types.SchemaDescription{}, fmt.Errorf("failed to describe table %s: %w", name, err)
		}

		table := types.TableDescription{
			Name:       name,
			Columns:    columns,
			SampleRows: []map[string]any{},
		}

		if sampleRows > 0 {
			samples, err := s.tableSamples(ctx, name, sampleRows)
			if err != nil {
				logging.WithField("table", name).WithError(err).Warn("Failed to read sample rows")
			} else {
				table.SampleRows = samples
			}
		}

		schema.Tables = append(schema.Tables, table)
	}

	return schema, nil
}

// withTimeout bounds a store operation with the configured query timeout
func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, s.queryTimeout)
}

// tableNames lists base tables from the dialect's catalog. Name order keeps
// introspection deterministic across dialects.
func (s *Store) tableNames(ctx context.Context) ([]string, error) {
	var query string

	switch s.dialect {
	case DialectSQLite:
		query = `SELECT name FROM sqlite_master
			WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
			ORDER BY name`
	case DialectPostgres:
		query = `SELECT table_name FROM information_schema.tables
			WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
			ORDER BY table_name`
	default:
		query = `SELECT table_name FROM information_schema.tables
			WHERE table_schema = 'main' AND table_type = 'BASE TABLE'
			ORDER BY table_name`
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}

		names = append(names, name)
	}

	return names, rows.Err()
}

// tableColumns reads column metadata preserving the store-reported order
func (s *Store) tableColumns(ctx context.Context, table string) ([]types.ColumnInfo, error) {
	if s.dialect == DialectSQLite {
		return s.sqliteColumns(ctx, table)
	}

	schemaName := "main"
	if s.dialect == DialectPostgres {
		schemaName = "public"
	}

	query := `SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position`
	if s.dialect == DialectPostgres {
		query = `SELECT column_name, data_type, is_nullable
			FROM information_schema.columns
			WHERE table_schema = $1 AND table_name = $2
			ORDER BY ordinal_position`
	}

	rows, err := s.db.QueryContext(ctx, query, schemaName, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []types.ColumnInfo

	for rows.Next() {
		var name, dataType, isNullable string
		if err := rows.Scan(&name, &dataType, &isNullable); err != nil {
			return nil, err
		}

		columns = append(columns, types.ColumnInfo{
			Name:     name,
			Type:     dataType,
			Nullable: isNullable == "YES",
		})
	}

	return columns, rows.Err()
}

// sqliteColumns reads column metadata via PRAGMA table_info
func (s *Store) sqliteColumns(ctx context.Context, table string) ([]types.ColumnInfo, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []types.ColumnInfo

	for rows.Next() {
		var (
			cid, notNull, pk int
			name, colType    string
			dfltValue        any
		)

		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, err
		}

		columns = append(columns, types.ColumnInfo{
			Name:     name,
			Type:     colType,
			Nullable: notNull == 0,
		})
	}

	return columns, rows.Err()
}

// tableSamples reads up to limit rows as illustrative samples
func (s *Store) tableSamples(ctx context.Context, table string, limit int) ([]map[string]any, error) {
	query := fmt.Sprintf("SELECT * FROM %s LIMIT %d", quoteIdent(table), limit)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	samples, _, err := scanRows(rows)
	if err != nil {
		return nil, err
	}

	return samples, nil
}
