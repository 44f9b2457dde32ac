package db

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
)

// Exporter writes the full contents of a table to CSV or JSON files.
type Exporter struct {
	store *Store
}

// NewExporter returns an Exporter reading from store.
func NewExporter(store *Store) *Exporter {
	return &Exporter{store: store}
}

// Export picks the output format from the extension of path.
func (ex *Exporter) Export(ctx context.Context, table, path string) (int, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return 0, annotate(err, "export", table, path)
	}
	switch format {
	case FormatJSON:
		return ex.ExportJSON(ctx, table, path)
	default:
		return ex.ExportCSV(ctx, table, path)
	}
}

// ExportCSV writes a header line with the table's column names followed by
// one line per row. An empty table still produces the header.
func (ex *Exporter) ExportCSV(ctx context.Context, table, path string) (int, error) {
	columns, records, err := ex.readTable(ctx, table)
	if err != nil {
		return 0, annotate(err, "export csv", table, path)
	}

	err = writeAtomic(path, func(w io.Writer) error {
		writer := csv.NewWriter(w)
		if err := writer.Write(columns); err != nil {
			return err
		}
		row := make([]string, len(columns))
		for _, rec := range records {
			for i, v := range rec.Values {
				row[i] = v.String()
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
		writer.Flush()
		return writer.Error()
	})
	if err != nil {
		return 0, annotate(err, "export csv", table, path)
	}
	return len(records), nil
}

// ExportJSON writes an array of objects keyed by column name, keys in column
// order. An empty table produces [].
func (ex *Exporter) ExportJSON(ctx context.Context, table, path string) (int, error) {
	_, records, err := ex.readTable(ctx, table)
	if err != nil {
		return 0, annotate(err, "export json", table, path)
	}
	if records == nil {
		records = []Record{}
	}

	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return 0, newError(KindSerialization, "export json", "", err).withTable(table).withPath(path)
	}

	err = writeAtomic(path, func(w io.Writer) error {
		_, err := w.Write(payload)
		return err
	})
	if err != nil {
		return 0, annotate(err, "export json", table, path)
	}
	return len(records), nil
}

// readTable checks the table exists, then reads every row together with the
// column names of the result set.
func (ex *Exporter) readTable(ctx context.Context, table string) ([]string, []Record, error) {
	h, err := ex.store.Open(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer h.Close()

	ok, err := h.tableExists(ctx, table)
	if err != nil {
		return nil, nil, storageError("export", table, "", err)
	}
	if !ok {
		return nil, nil, newError(KindTableNotFound, "export", "", nil).withTable(table)
	}

	rows, err := h.DB.QueryContext(ctx, "SELECT * FROM "+quoteIdent(table))
	if err != nil {
		return nil, nil, storageError("export", table, "", err)
	}
	defer rows.Close()

	columns, records, err := scanRecords(rows, blobStrict)
	if err != nil {
		return nil, nil, wrapStorage(err, "export", table)
	}
	return columns, records, nil
}

// writeAtomic streams into a temporary file next to path and renames it over
// path once everything was written. On failure path is left untouched.
func writeAtomic(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return newError(KindWrite, "write", "creating output directory", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return newError(KindWrite, "write", "", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	buf := bufio.NewWriter(tmp)
	if err := write(buf); err != nil {
		if KindOf(err) != "" {
			return err
		}
		return newError(KindWrite, "write", "", err)
	}
	if err := buf.Flush(); err != nil {
		return newError(KindWrite, "write", "flushing output", err)
	}
	if err := tmp.Sync(); err != nil {
		return newError(KindWrite, "write", "syncing output", err)
	}
	if err := tmp.Close(); err != nil {
		return newError(KindWrite, "write", "closing output", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return newError(KindWrite, "write", "", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return newError(KindWrite, "write", "moving output into place", err)
	}
	return nil
}
