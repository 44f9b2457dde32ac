package db

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Inspector answers metadata questions about the tables in a Store and runs
// ad-hoc SQL against it.
type Inspector struct {
	store *Store
}

// NewInspector returns an Inspector for store.
func NewInspector(store *Store) *Inspector {
	return &Inspector{store: store}
}

// QueryResult is the outcome of Exec. Row-returning statements fill Columns
// and Rows; other statements fill RowsAffected.
type QueryResult struct {
	Columns      []string
	Rows         [][]Value
	RowsAffected int64
	IsQuery      bool
}

// Tables lists user tables ordered by name.
func (in *Inspector) Tables(ctx context.Context) ([]string, error) {
	h, err := in.store.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	rows, err := h.DB.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, newError(KindStorage, "list tables", "", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, newError(KindStorage, "list tables", "scanning table name", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, newError(KindStorage, "list tables", "", err)
	}
	return tables, nil
}

// TableExists reports whether table is defined in the store.
func (in *Inspector) TableExists(ctx context.Context, table string) (bool, error) {
	h, err := in.store.Open(ctx)
	if err != nil {
		return false, err
	}
	defer h.Close()

	ok, err := h.tableExists(ctx, table)
	if err != nil {
		return false, storageError("lookup", table, "", err)
	}
	return ok, nil
}

// Describe returns the live definition of table.
func (in *Inspector) Describe(ctx context.Context, table string) (*Table, error) {
	h, err := in.openExisting(ctx, "describe", table)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	columns, err := tableColumns(ctx, h.DB, table)
	if err != nil {
		return nil, storageError("describe", table, "reading columns", err)
	}
	return &Table{Name: table, Columns: columns}, nil
}

// RowCount returns the number of rows in table.
func (in *Inspector) RowCount(ctx context.Context, table string) (int64, error) {
	h, err := in.openExisting(ctx, "count", table)
	if err != nil {
		return 0, err
	}
	defer h.Close()

	var n int64
	if err := h.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(table)).Scan(&n); err != nil {
		return 0, storageError("count", table, "", err)
	}
	return n, nil
}

// Sample returns up to limit rows of table in storage order.
func (in *Inspector) Sample(ctx context.Context, table string, limit int) ([]Record, error) {
	h, err := in.openExisting(ctx, "sample", table)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	rows, err := h.DB.QueryContext(ctx,
		fmt.Sprintf("SELECT * FROM %s LIMIT ?", quoteIdent(table)), limit)
	if err != nil {
		return nil, storageError("sample", table, "", err)
	}
	defer rows.Close()

	_, records, err := scanRecords(rows, blobHex)
	if err != nil {
		return nil, wrapStorage(err, "sample", table)
	}
	return records, nil
}

// Exec runs query. Statements that return rows are read fully; anything else
// is executed and its affected row count reported.
func (in *Inspector) Exec(ctx context.Context, query string) (*QueryResult, error) {
	h, err := in.store.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	if returnsRows(query) {
		rows, err := h.DB.QueryContext(ctx, query)
		if err != nil {
			return nil, newError(KindStorage, "sql", "", err)
		}
		defer rows.Close()

		columns, records, err := scanRecords(rows, blobHex)
		if err != nil {
			return nil, wrapStorage(err, "sql", "")
		}
		result := &QueryResult{Columns: columns, IsQuery: true}
		for _, rec := range records {
			result.Rows = append(result.Rows, rec.Values)
		}
		return result, nil
	}

	res, err := h.DB.ExecContext(ctx, query)
	if err != nil {
		return nil, newError(KindStorage, "sql", "", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, newError(KindStorage, "sql", "reading rows affected", err)
	}
	return &QueryResult{RowsAffected: affected}, nil
}

func (in *Inspector) openExisting(ctx context.Context, op, table string) (*Handle, error) {
	h, err := in.store.Open(ctx)
	if err != nil {
		return nil, err
	}
	ok, err := h.tableExists(ctx, table)
	if err != nil {
		h.Close()
		return nil, storageError(op, table, "", err)
	}
	if !ok {
		h.Close()
		return nil, newError(KindTableNotFound, op, "", nil).withTable(table)
	}
	return h, nil
}

var (
	rowKeywords     = []string{"select", "with", "pragma", "explain", "values"}
	returningClause = regexp.MustCompile(`\breturning\b`)
)

// returnsRows reports whether query produces a result set: a read statement,
// or a write with a RETURNING clause. Leading comments are skipped.
func returnsRows(query string) bool {
	q := strings.ToLower(skipLeadingComments(query))
	for _, kw := range rowKeywords {
		if strings.HasPrefix(q, kw) {
			return true
		}
	}
	return returningClause.MatchString(q)
}

func skipLeadingComments(query string) string {
	q := strings.TrimSpace(query)
	for {
		switch {
		case strings.HasPrefix(q, "--"):
			end := strings.IndexByte(q, '\n')
			if end < 0 {
				return ""
			}
			q = strings.TrimSpace(q[end+1:])
		case strings.HasPrefix(q, "/*"):
			end := strings.Index(q[2:], "*/")
			if end < 0 {
				return ""
			}
			q = strings.TrimSpace(q[end+4:])
		default:
			return q
		}
	}
}

// tableColumns reads the column definitions of table in declaration order.
func tableColumns(ctx context.Context, q querier, table string) ([]Column, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var (
			cid     int
			name    string
			colType string
			notNull bool
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		if colType == "" {
			colType = "UNKNOWN"
		}
		columns = append(columns, Column{
			Name:       name,
			Type:       colType,
			NotNull:    notNull,
			PrimaryKey: pk > 0,
		})
	}
	return columns, rows.Err()
}

// wrapStorage classifies err as a storage failure unless it already carries
// a kind.
func wrapStorage(err error, op, table string) error {
	if KindOf(err) != "" {
		return annotate(err, op, table, "")
	}
	return storageError(op, table, "", err)
}

func columnNames(columns []Column) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return names
}

// scanRecords drains rows into records keyed by the result's column names.
func scanRecords(rows *sql.Rows, blobs blobMode) ([]string, []Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, nil, err
	}
	declTypes := make([]string, len(types))
	for i, ct := range types {
		declTypes[i] = ct.DatabaseTypeName()
	}

	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	var records []Record
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		rec := Record{Keys: columns, Values: make([]Value, len(columns))}
		for i, raw := range values {
			v, err := valueFromColumn(raw, declTypes[i], blobs)
			if err != nil {
				return nil, nil, &Error{Kind: KindSerialization, Op: "read", Msg: "column " + columns[i], Err: err}
			}
			rec.Values[i] = v
		}
		records = append(records, rec)
	}
	return columns, records, rows.Err()
}
