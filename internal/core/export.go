package core

// export.go writes the catalog and import failures back out as CSV.
//
// Backup layout is fixed and differs from the import layout:
//
//	product_name,product_price,product_quantity,date_updated
//
// Prices carry the currency symbol and dates are unpadded month/day/year, so
// a backup can be fed straight back into an import.

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// backupRow is one line of a backup file.
type backupRow struct {
	Name     string `csv:"product_name"`
	Price    string `csv:"product_price"`
	Quantity int64  `csv:"product_quantity"`
	Date     string `csv:"date_updated"`
}

func toBackupRow(p Product) backupRow {
	return backupRow{
		Name:     p.Name,
		Price:    FormatPrice(p.Price),
		Quantity: p.Quantity,
		Date:     FormatDate(p.LastUpdated),
	}
}

// Exporter serializes the store to CSV.
type Exporter struct {
	store Store
}

// NewExporter creates an exporter reading from store.
func NewExporter(store Store) *Exporter {
	return &Exporter{store: store}
}

// Export writes every product, in ID order, to w.
// Returns the number of products written.
func (e *Exporter) Export(ctx context.Context, w io.Writer) (int, error) {
	products, err := e.store.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list products: %w", err)
	}

	rows := make([]backupRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, toBackupRow(p))
	}

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(newCSVWriter(w))); err != nil {
		return 0, fmt.Errorf("encode backup: %w", err)
	}
	return len(rows), nil
}

// BackupFile writes the backup to path atomically.
func (e *Exporter) BackupFile(ctx context.Context, path string) (int, error) {
	var n int
	err := WriteFileAtomic(path, func(w io.Writer) error {
		var err error
		n, err = e.Export(ctx, w)
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// WriteFailedRows writes skipped import rows to path, each prefixed with a
// Status column holding the reason and line number.
func WriteFailedRows(path string, summary ImportSummary) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		cw := newCSVWriter(w)

		header := append([]string{"Status"}, summary.Header...)
		if err := cw.Write(header); err != nil {
			return err
		}
		for _, re := range summary.Errors {
			status := fmt.Sprintf("line %d: %s", re.Line, re.Reason)
			if err := cw.Write(append([]string{status}, re.Record...)); err != nil {
				return err
			}
		}

		cw.Flush()
		return cw.Error()
	})
}

// newCSVWriter returns a writer using CRLF line endings, matching files
// produced by spreadsheet tools.
func newCSVWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	return cw
}
