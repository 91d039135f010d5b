package core

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore() *memStore {
	store := newMemStore()
	store.products = []Product{
		{ID: 1, Name: "Widget", Quantity: 5, Price: 1099, LastUpdated: day(2024, 3, 5)},
		{ID: 2, Name: "Gadget", Quantity: 3, Price: 150, LastUpdated: day(2023, 12, 31)},
		{ID: 3, Name: "Thing, large", Quantity: 0, Price: 100, LastUpdated: day(2024, 1, 1)},
	}
	store.nextID = 4
	return store
}

func TestExport_Format(t *testing.T) {
	var buf bytes.Buffer
	n, err := NewExporter(seededStore()).Export(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	want := "product_name,product_price,product_quantity,date_updated\r\n" +
		"Widget,$10.99,5,3/5/2024\r\n" +
		"Gadget,$1.5,3,12/31/2023\r\n" +
		"\"Thing, large\",$1.0,0,1/1/2024\r\n"
	assert.Equal(t, want, buf.String())
}

func TestExport_Empty(t *testing.T) {
	var buf bytes.Buffer
	n, err := NewExporter(newMemStore()).Export(context.Background(), &buf)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "product_name,product_price,product_quantity,date_updated\r\n", buf.String())
}

func TestExport_RoundTrip(t *testing.T) {
	src := seededStore()

	var buf bytes.Buffer
	_, err := NewExporter(src).Export(context.Background(), &buf)
	require.NoError(t, err)

	// Backup columns are name, price, quantity, date, the import order.
	dst := newMemStore()
	summary, err := NewReconciler(dst).Reconcile(context.Background(), &buf)
	require.NoError(t, err)
	assert.Zero(t, summary.Errored)
	assert.Equal(t, src.products, dst.products)
}

func TestBackupFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.csv")
	require.NoError(t, os.WriteFile(path, []byte("old contents"), 0o644))

	n, err := NewExporter(seededStore()).BackupFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "product_name,"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestBackupFile_StoreErrorKeepsOldFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.csv")
	require.NoError(t, os.WriteFile(path, []byte("old contents"), 0o644))

	store := seededStore()
	store.failOn = "ListAll"
	store.err = errors.New("database is locked")

	_, err := NewExporter(store).BackupFile(context.Background(), path)
	require.ErrorIs(t, err, store.err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old contents", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be removed")
}

func TestWriteFileAtomic_WriteError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	boom := errors.New("boom")

	err := WriteFileAtomic(path, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "out.csv")
	err := WriteFileAtomic(path, func(io.Writer) error { return nil })
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteFailedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failed.csv")
	summary := ImportSummary{
		Header: []string{"product_name", "product_price", "product_quantity", "date_updated"},
		Errors: []RowError{
			{Line: 3, Reason: `invalid date "13/1/2024": expected month/day/year`, Record: []string{"Bad", "$1.00", "1", "13/1/2024"}},
			{Line: 5, Reason: "invalid row: has 2 columns, expected 4", Record: []string{"Short", "$1.00"}},
		},
	}

	require.NoError(t, WriteFailedRows(path, summary))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "Status,product_name,product_price,product_quantity,date_updated\r\n" +
		"\"line 3: invalid date \"\"13/1/2024\"\": expected month/day/year\",Bad,$1.00,1,13/1/2024\r\n" +
		"\"line 5: invalid row: has 2 columns, expected 4\",Short,$1.00\r\n"
	assert.Equal(t, want, string(data))
}
