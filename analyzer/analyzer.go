// Package analyzer builds structural summaries of tables and turns them into
// prompts for an optional language-model interpretation.
package analyzer

import (
	"context"

	db "github.com/KazanKK/sqtab/database"
)

// SampleSize is how many rows a summary carries.
const SampleSize = 5

// Summary describes one table at the time it was analyzed.
type Summary struct {
	Table       string      `json:"table"`
	RowCount    int64       `json:"row_count"`
	ColumnCount int         `json:"column_count"`
	Schema      []db.Column `json:"schema"`
	Samples     []db.Record `json:"samples"`
}

// Source is the subset of *db.Inspector the analyzer reads from.
type Source interface {
	Describe(ctx context.Context, table string) (*db.Table, error)
	RowCount(ctx context.Context, table string) (int64, error)
	Sample(ctx context.Context, table string, limit int) ([]db.Record, error)
}

// Analyze collects the schema, row count and first rows of table. A missing
// table is reported with db.ErrTableNotFound.
func Analyze(ctx context.Context, src Source, table string) (*Summary, error) {
	def, err := src.Describe(ctx, table)
	if err != nil {
		return nil, err
	}
	count, err := src.RowCount(ctx, table)
	if err != nil {
		return nil, err
	}
	samples, err := src.Sample(ctx, table, SampleSize)
	if err != nil {
		return nil, err
	}
	if samples == nil {
		samples = []db.Record{}
	}

	return &Summary{
		Table:       table,
		RowCount:    count,
		ColumnCount: len(def.Columns),
		Schema:      def.Columns,
		Samples:     samples,
	}, nil
}
