package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 7, 4, 18, 0, 0, 0, time.UTC)

func newTestService(store Store, opts ...Option) *Service {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewService(store, opts...)
}

func TestAddProduct_Creates(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	p, created, err := svc.AddProduct(context.Background(), "Widget", 5, 1099)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, Product{ID: 1, Name: "Widget", Quantity: 5, Price: 1099, LastUpdated: day(2024, 7, 4)}, p)
}

func TestAddProduct_OverwritesRegardlessOfDate(t *testing.T) {
	store := newMemStore()
	store.products = []Product{{ID: 1, Name: "Widget", Quantity: 1, Price: 100, LastUpdated: day(2030, 1, 1)}}
	store.nextID = 2
	svc := newTestService(store)

	p, created, err := svc.AddProduct(context.Background(), "Widget", 9, 250)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, Product{ID: 1, Name: "Widget", Quantity: 9, Price: 250, LastUpdated: day(2024, 7, 4)}, p)
	assert.Equal(t, p, store.products[0])
}

func TestAddProduct_Validation(t *testing.T) {
	svc := newTestService(newMemStore())
	ctx := context.Background()

	_, _, err := svc.AddProduct(ctx, "  ", 1, 1)
	assert.True(t, IsParseError(err))

	_, _, err = svc.AddProduct(ctx, "Widget", -1, 1)
	assert.True(t, IsParseError(err))

	_, _, err = svc.AddProduct(ctx, "Widget", 1, -1)
	assert.True(t, IsParseError(err))
}

func TestProduct(t *testing.T) {
	svc := newTestService(seededStore())

	p, err := svc.Product(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Gadget", p.Name)

	_, err = svc.Product(context.Background(), 42)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, int64(42), nf.ID)
}

func TestProductsAndIDs(t *testing.T) {
	svc := newTestService(seededStore())

	products, err := svc.Products(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 3)

	ids, err := svc.ProductIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids.Sorted())
}

func TestImport_WritesFailedRows(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "inventory.csv")
	failed := filepath.Join(dir, "failed.csv")
	require.NoError(t, os.WriteFile(input, []byte(header+
		"Widget,$1.00,1,1/1/2024\n"+
		"Bad,$1.00,1,13/1/2024\n"), 0o644))

	svc := newTestService(newMemStore(), WithFailedRowsPath(failed))
	summary, err := svc.Import(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Errored)

	data, err := os.ReadFile(failed)
	require.NoError(t, err)
	assert.Contains(t, string(data), "line 3: invalid date")
}

func TestImport_NoFailedRowsFileWhenClean(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "inventory.csv")
	failed := filepath.Join(dir, "failed.csv")
	require.NoError(t, os.WriteFile(input, []byte(header+"Widget,$1.00,1,1/1/2024\n"), 0o644))

	svc := newTestService(newMemStore(), WithFailedRowsPath(failed))
	_, err := svc.Import(context.Background(), input)
	require.NoError(t, err)

	_, err = os.Stat(failed)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.csv")
	svc := newTestService(seededStore())

	n, err := svc.Backup(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	store := newMemStore()
	store.failOn = "ListAll"
	store.err = errors.New("connection refused")
	_, err = newTestService(store).Backup(context.Background(), path)
	assert.Equal(t, "DB002", MapError(err).Code)
}
