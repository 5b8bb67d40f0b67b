package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sqlsage/sqlsage/internal/errors"
)

func TestExtractSQL(t *testing.T) {
	tests := []struct {
		name       string
		completion string
		want       string
	}{
		{
			name:       "plain statement",
			completion: "SELECT * FROM cust_tbl",
			want:       "SELECT * FROM cust_tbl",
		},
		{
			name:       "surrounding whitespace",
			completion: "\n  SELECT 1  \n",
			want:       "SELECT 1",
		},
		{
			name:       "trailing semicolon",
			completion: "SELECT 1;",
			want:       "SELECT 1",
		},
		{
			name:       "sql fenced block",
			completion: "```sql\nSELECT id FROM t;\n```",
			want:       "SELECT id FROM t",
		},
		{
			name:       "bare fenced block",
			completion: "```\nSELECT id FROM t\n```",
			want:       "SELECT id FROM t",
		},
		{
			name:       "empty completion",
			completion: "   \n ",
			want:       "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSQL(tt.completion))
		})
	}
}

func TestEnsureReadOnly(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{name: "plain select", query: "SELECT * FROM cust_tbl", wantErr: false},
		{name: "lowercase select", query: "select count(*) from fin_data", wantErr: false},
		{name: "leading whitespace", query: "   SELECT 1", wantErr: false},
		{name: "trailing semicolon", query: "SELECT 1;", wantErr: false},
		{name: "cte", query: "WITH top AS (SELECT * FROM prod_master) SELECT * FROM top", wantErr: false},
		{name: "mixed case cte", query: "With x As (Select 1) Select * From x", wantErr: false},
		{name: "keyword inside identifier", query: "SELECT created_at, updated_at FROM events", wantErr: false},
		{name: "keyword prefix of identifier", query: "SELECT * FROM settings_view", wantErr: false},
		{name: "empty", query: "", wantErr: true},
		{name: "only semicolon", query: " ; ", wantErr: true},
		{name: "insert", query: "INSERT INTO cust_tbl VALUES (1)", wantErr: true},
		{name: "update", query: "UPDATE cust_tbl SET nm = 'x'", wantErr: true},
		{name: "delete", query: "DELETE FROM cust_tbl", wantErr: true},
		{name: "drop", query: "DROP TABLE cust_tbl", wantErr: true},
		{name: "create", query: "CREATE TABLE t (id INTEGER)", wantErr: true},
		{name: "truncate", query: "TRUNCATE TABLE t", wantErr: true},
		{name: "pragma", query: "PRAGMA table_info(cust_tbl)", wantErr: true},
		{name: "explain", query: "EXPLAIN SELECT 1", wantErr: true},
		{name: "multi statement", query: "SELECT 1; DROP TABLE cust_tbl", wantErr: true},
		{name: "write keyword after select prefix", query: "SELECT 1 INTO t2 FROM t UNION ALL DELETE FROM t", wantErr: true},
		{name: "keyword in string literal", query: "SELECT * FROM logs WHERE action = 'delete'", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := EnsureReadOnly(tt.query)

			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrTypeGeneration))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestContainsWord(t *testing.T) {
	assert.True(t, containsWord("drop table t", "drop"))
	assert.True(t, containsWord("select 1 union drop", "drop"))
	assert.False(t, containsWord("select dropped from t", "drop"))
	assert.False(t, containsWord("select raindrop from t", "drop"))
	assert.False(t, containsWord("select drop_rate from t", "drop"))
	assert.True(t, containsWord("x drop, y", "drop"))
}
