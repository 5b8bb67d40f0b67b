package types

// SchemaDescription is the introspected structure of the store: every
// enumerable table with its columns and a few illustrative rows. Built once
// at pipeline construction and treated as read-only afterwards.
type SchemaDescription struct {
	Tables []TableDescription `json:"tables"`
}

// TableDescription represents one table's metadata and sample content
type TableDescription struct {
	Name       string           `json:"name"`
	Columns    []ColumnInfo     `json:"columns"`
	SampleRows []map[string]any `json:"sample_rows"`
}

// ColumnInfo represents a database column
type ColumnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// IsEmpty reports whether introspection produced no usable tables
func (s SchemaDescription) IsEmpty() bool {
	return len(s.Tables) == 0
}

// Table returns the table with the given name, if present
func (s SchemaDescription) Table(name string) (TableDescription, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}

	return TableDescription{}, false
}

// TableNames returns table names in catalog order
func (s SchemaDescription) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		names = append(names, t.Name)
	}

	return names
}
