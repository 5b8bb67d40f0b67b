package types

import "time"

// QueryResult is the uniform shape every statement execution collapses into.
// Success=false implies empty rows/columns, zero count, and a non-empty
// error; success=true implies the error is empty and RowCount == len(Rows).
type QueryResult struct {
	Success  bool             `json:"success"`
	Rows     []map[string]any `json:"rows"`
	Columns  []string         `json:"columns"`
	RowCount int              `json:"row_count"`
	Error    string           `json:"error,omitempty"`
}

// Answer bundles everything returned across the system boundary for one
// question: the echoed question, the generated SQL, the raw result, the
// narrative insights, and the time the answer was produced.
type Answer struct {
	Question  string      `json:"question"`
	SQLQuery  string      `json:"sql_query"`
	Results   QueryResult `json:"results"`
	Insights  string      `json:"insights"`
	Timestamp time.Time   `json:"timestamp"`
}
