package db

type Column struct {
	Name       string `json:"name"`
	Type       string `json:"type"` // declared type, UNKNOWN when the column is untyped
	NotNull    bool   `json:"not_null"`
	PrimaryKey bool   `json:"primary_key"`
}

type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// ColumnNames returns the column names in table order.
func (t Table) ColumnNames() []string {
	return columnNames(t.Columns)
}
