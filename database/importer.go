package db

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Importer loads CSV and JSON files into tables of a Store.
type Importer struct {
	store *Store
}

// NewImporter returns an Importer writing into store.
func NewImporter(store *Store) *Importer {
	return &Importer{store: store}
}

// ImportFile decodes the file at path and inserts every record into table,
// creating the table from the first record's keys when it does not exist.
// The whole batch commits or nothing does. An input without records returns
// 0 and leaves the store untouched.
func (im *Importer) ImportFile(ctx context.Context, path, table string) (int, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return 0, annotate(err, "import", table, path)
	}
	if strings.TrimSpace(table) == "" {
		return 0, newError(KindInvalidInputShape, "import", "table name is required", nil).withPath(path)
	}

	records, err := readRecords(path, format)
	if err != nil {
		return 0, annotate(err, "import", table, path)
	}
	return im.ImportRecords(ctx, table, records)
}

// ImportRecords inserts an already decoded batch into table.
func (im *Importer) ImportRecords(ctx context.Context, table string, records []Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	if err := checkUniformKeys(records); err != nil {
		return 0, err.withTable(table)
	}

	h, err := im.store.Open(ctx)
	if err != nil {
		return 0, err
	}
	defer h.Close()

	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, storageError("import", table, "beginning transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, createTableSQL(table, records[0].Keys)); err != nil {
		return 0, storageError("import", table, "creating table", err)
	}

	columns, err := tableColumns(ctx, tx, table)
	if err != nil {
		return 0, storageError("import", table, "reading columns", err)
	}
	if len(columns) != records[0].Len() {
		return 0, storageError("import", table,
			fmt.Sprintf("table has %d columns but records have %d values", len(columns), records[0].Len()), nil)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL(table, columnNames(columns)))
	if err != nil {
		return 0, storageError("import", table, "preparing insert", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.Args()...); err != nil {
			return 0, storageError("import", table, fmt.Sprintf("inserting record %d", i+1), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, storageError("import", table, "committing", err)
	}
	return len(records), nil
}

func readRecords(path string, format Format) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, newError(KindDecode, "import", "opening input file", err)
	}
	defer file.Close()

	switch format {
	case FormatCSV:
		return DecodeCSV(file)
	case FormatJSON:
		return DecodeJSON(file)
	default:
		return nil, newError(KindUnsupportedFormat, "import", string(format), nil)
	}
}

// checkUniformKeys enforces that every record carries the first record's keys
// in the same order. Values are bound positionally, so any deviation would
// shift them into the wrong columns.
func checkUniformKeys(records []Record) *Error {
	first := records[0]
	if first.Len() == 0 {
		return newError(KindInvalidInputShape, "import", "first record has no fields", nil)
	}
	for i, rec := range records[1:] {
		if !rec.sameKeys(first) {
			return newError(KindInvalidInputShape, "import", fmt.Sprintf(
				"record %d has keys %v, expected %v", i+2, rec.Keys, first.Keys), nil)
		}
	}
	return nil
}

// createTableSQL declares one untyped column per key so SQLite picks the
// storage class per value.
func createTableSQL(table string, keys []string) string {
	cols := make([]string, len(keys))
	for i, k := range keys {
		cols[i] = quoteIdent(k)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(table), strings.Join(cols, ", "))
}

func insertSQL(table string, columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(quoted, ", "), placeholders(len(columns)))
}

func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

func storageError(op, table, msg string, err error) *Error {
	return newError(KindStorage, op, msg, err).withTable(table)
}

// annotate fills in table and path on errors raised below the operation.
func annotate(err error, op, table, path string) error {
	e, ok := err.(*Error)
	if !ok {
		return err
	}
	e.Op = op
	if e.Table == "" {
		e.Table = table
	}
	if e.Path == "" {
		e.Path = path
	}
	return e
}
