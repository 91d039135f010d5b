package core

// reconcile.go merges an inventory CSV into the store.
//
// Import files have a header row followed by rows of
//
//	name, price, quantity, date
//
// (price before quantity, unlike the backup layout). Each row is parsed on
// its own; a row that fails to parse is recorded in the summary and skipped,
// the rest of the file still imports. For a known name the row only wins if
// its date is strictly later than the stored one, so replaying an older or
// identical file changes nothing.
//
// Every create and update is written before the next row is read, so a name
// that appears twice in one file sees its own earlier row.

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/JonMunkholm/inventory/internal/logging"
	"github.com/google/uuid"
)

// Import file column positions.
const (
	colName = iota
	colPrice
	colQuantity
	colDate
	importColumns
)

// Reconciler merges CSV rows into a Store, latest date wins.
type Reconciler struct {
	store Store
}

// NewReconciler creates a reconciler writing to store.
func NewReconciler(store Store) *Reconciler {
	return &Reconciler{store: store}
}

// ImportFile opens path and reconciles it. See Reconcile.
func (r *Reconciler) ImportFile(ctx context.Context, path string) (ImportSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportSummary{FileName: filepath.Base(path)}, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	summary, err := r.Reconcile(ctx, f)
	summary.FileName = filepath.Base(path)
	return summary, err
}

// Reconcile reads an import CSV from in and applies every row to the store.
//
// Row-level problems (bad values, short rows, malformed CSV on a line) are
// counted in the summary and never stop the import. Read and store errors
// do stop it; the summary then covers the rows processed so far.
func (r *Reconciler) Reconcile(ctx context.Context, in io.Reader) (ImportSummary, error) {
	start := time.Now()
	summary := ImportSummary{RunID: uuid.NewString()}

	ctx = logging.WithRunID(ctx, summary.RunID)
	logger := logging.FromContext(ctx)
	logger.Debug("import started")

	reader := csv.NewReader(WrapForImport(in))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	seenHeader := false
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				summary.Duration = time.Since(start)
				return summary, fmt.Errorf("read import file: %w", err)
			}
			if !seenHeader {
				seenHeader = true
				continue
			}
			summary.Rows++
			summary.fail(pe.StartLine, pe.Err.Error(), record)
			logger.Debug("row skipped", "line", pe.StartLine, "reason", pe.Err)
			continue
		}

		if !seenHeader {
			seenHeader = true
			summary.Header = append([]string(nil), record...)
			continue
		}

		if blankRecord(record) {
			continue
		}

		line, _ := reader.FieldPos(0)
		summary.Rows++

		outcome, err := r.apply(ctx, record)
		if err != nil {
			if IsParseError(err) {
				summary.fail(line, err.Error(), record)
				logger.Debug("row skipped", "line", line, "reason", err)
				continue
			}
			summary.Duration = time.Since(start)
			return summary, fmt.Errorf("line %d: %w", line, err)
		}
		summary.record(outcome)
	}

	summary.Duration = time.Since(start)
	logger.Info("import complete",
		"rows", summary.Rows,
		"created", summary.Created,
		"updated", summary.Updated,
		"unchanged", summary.Unchanged,
		"errored", summary.Errored,
		"duration", summary.Duration,
	)

	return summary, nil
}

// apply parses one record and merges it into the store.
func (r *Reconciler) apply(ctx context.Context, record []string) (RowOutcome, error) {
	d, err := ParseRecord(record)
	if err != nil {
		return OutcomeErrored, err
	}
	return mergeLatest(ctx, r.store, d)
}

// ParseRecord converts one import row into a Draft.
// Columns past the fourth are ignored.
func ParseRecord(record []string) (Draft, error) {
	if len(record) < importColumns {
		return Draft{}, &ParseError{
			Field:  "row",
			Reason: fmt.Sprintf("has %d columns, expected %d", len(record), importColumns),
		}
	}

	name := record[colName]
	if err := ValidateName(name); err != nil {
		return Draft{}, err
	}

	price, err := ParsePrice(CleanCell(record[colPrice]))
	if err != nil {
		return Draft{}, err
	}

	quantity, err := ParseQuantity(CleanCell(record[colQuantity]))
	if err != nil {
		return Draft{}, err
	}

	date, err := ParseDate(CleanCell(record[colDate]))
	if err != nil {
		return Draft{}, err
	}

	return Draft{Name: name, Quantity: quantity, Price: price, LastUpdated: date}, nil
}

// mergeLatest creates d, or overwrites the stored product of the same name
// when d is strictly newer.
func mergeLatest(ctx context.Context, store Store, d Draft) (RowOutcome, error) {
	existing, found, err := store.FindByName(ctx, d.Name)
	if err != nil {
		return OutcomeErrored, fmt.Errorf("find product %q: %w", d.Name, err)
	}

	if !found {
		if _, err := store.Create(ctx, d); err != nil {
			return OutcomeErrored, fmt.Errorf("create product %q: %w", d.Name, err)
		}
		return OutcomeCreated, nil
	}

	if !d.LastUpdated.After(existing.LastUpdated) {
		return OutcomeUnchanged, nil
	}

	if err := store.UpdateByID(ctx, existing.ID, d.Fields()); err != nil {
		return OutcomeErrored, fmt.Errorf("update product %q: %w", d.Name, err)
	}
	return OutcomeUpdated, nil
}

// fail records a skipped row.
func (s *ImportSummary) fail(line int, reason string, record []string) {
	s.record(OutcomeErrored)
	s.Errors = append(s.Errors, RowError{
		Line:   line,
		Reason: reason,
		Record: append([]string(nil), record...),
	})
}

// blankRecord reports whether every cell is empty or whitespace.
func blankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
