package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/sqlsage/sqlsage/internal/types"
)

func testSchemaDescription() types.SchemaDescription {
	return types.SchemaDescription{
		Tables: []types.TableDescription{
			{
				Name: "cust_tbl",
				Columns: []types.ColumnInfo{
					{Name: "id", Type: "INTEGER"},
					{Name: "cust_nm", Type: "VARCHAR"},
				},
				SampleRows: []map[string]any{
					{"id": 1, "cust_nm": "Customer 1"},
				},
			},
			{
				Name: "prod_master",
				Columns: []types.ColumnInfo{
					{Name: "prod_id", Type: "INTEGER"},
				},
				SampleRows: nil,
			},
		},
	}
}

func TestRunSchemaWithStorage(t *testing.T) {
	tests := []struct {
		name     string
		store    *mockStore
		wantErr  bool
		contains []string
	}{
		{
			name:    "populated schema",
			store:   &mockStore{schema: testSchemaDescription()},
			wantErr: false,
			contains: []string{
				"Database Schema",
				"Table: cust_tbl",
				"- id (INTEGER)",
				"- cust_nm (VARCHAR)",
				"Sample rows: 1",
				"Table: prod_master",
				"Total: 2 tables",
			},
		},
		{
			name:     "empty schema",
			store:    &mockStore{},
			wantErr:  false,
			contains: []string{"No tables found."},
		},
		{
			name:     "introspection failure",
			store:    &mockStore{introspectErr: errors.New("connection refused")},
			wantErr:  true,
			contains: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := captureStdout(func() error {
				return runSchemaWithStorage(context.Background(), tt.store, 3, false)
			})

			if (err != nil) != tt.wantErr {
				t.Errorf("runSchemaWithStorage() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			for _, expected := range tt.contains {
				if !strings.Contains(output, expected) {
					t.Errorf("runSchemaWithStorage() output does not contain %q\nOutput: %s", expected, output)
				}
			}
		})
	}
}

func TestRunSchemaWithStorageJSON(t *testing.T) {
	store := &mockStore{schema: testSchemaDescription()}

	output, err := captureStdout(func() error {
		return runSchemaWithStorage(context.Background(), store, 3, true)
	})
	if err != nil {
		t.Fatalf("runSchemaWithStorage() error = %v", err)
	}

	var schema types.SchemaDescription
	if err := json.Unmarshal([]byte(output), &schema); err != nil {
		t.Fatalf("output is not valid JSON: %v\nOutput: %s", err, output)
	}

	if len(schema.Tables) != 2 {
		t.Errorf("tables = %d, want 2", len(schema.Tables))
	}

	if schema.Tables[0].Name != "cust_tbl" {
		t.Errorf("first table = %q, want cust_tbl", schema.Tables[0].Name)
	}
}
