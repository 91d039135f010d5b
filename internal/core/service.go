package core

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/inventory/internal/logging"
)

// Service is the main entry point for inventory operations.
// It holds no state besides its collaborators; the store is owned by the
// caller, which opens it before and closes it after.
type Service struct {
	store          Store
	reconciler     *Reconciler
	exporter       *Exporter
	failedRowsPath string
	now            func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithFailedRowsPath writes skipped import rows to path after each import.
func WithFailedRowsPath(path string) Option {
	return func(s *Service) { s.failedRowsPath = path }
}

// WithClock overrides the clock used to date interactive edits.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a service over store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:      store,
		reconciler: NewReconciler(store),
		exporter:   NewExporter(store),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddProduct creates a product dated today, or overwrites quantity, price
// and date of the product with the same name. Unlike import, an interactive
// edit always wins regardless of the stored date.
// created reports which of the two happened.
func (s *Service) AddProduct(ctx context.Context, name string, quantity, price int64) (p Product, created bool, err error) {
	if err := ValidateName(name); err != nil {
		return Product{}, false, err
	}
	if quantity < 0 {
		return Product{}, false, &ParseError{Field: "quantity", Reason: "must not be negative"}
	}
	if price < 0 {
		return Product{}, false, &ParseError{Field: "price", Reason: "must not be negative"}
	}

	d := Draft{Name: name, Quantity: quantity, Price: price, LastUpdated: DateOf(s.now())}

	existing, found, err := s.store.FindByName(ctx, name)
	if err != nil {
		return Product{}, false, fmt.Errorf("find product %q: %w", name, err)
	}

	if !found {
		p, err := s.store.Create(ctx, d)
		if err != nil {
			return Product{}, false, fmt.Errorf("create product %q: %w", name, err)
		}
		logging.FromContext(ctx).Info("product added", "id", p.ID, "name", p.Name)
		return p, true, nil
	}

	if err := s.store.UpdateByID(ctx, existing.ID, d.Fields()); err != nil {
		return Product{}, false, fmt.Errorf("update product %q: %w", name, err)
	}
	existing.Quantity = d.Quantity
	existing.Price = d.Price
	existing.LastUpdated = d.LastUpdated

	logging.FromContext(ctx).Info("product updated", "id", existing.ID, "name", existing.Name)
	return existing, false, nil
}

// Product returns the product with id, or a *NotFoundError.
func (s *Service) Product(ctx context.Context, id int64) (Product, error) {
	p, found, err := s.store.FindByID(ctx, id)
	if err != nil {
		return Product{}, fmt.Errorf("find product %d: %w", id, err)
	}
	if !found {
		return Product{}, &NotFoundError{ID: id}
	}
	return p, nil
}

// Products returns all products in ID order.
func (s *Service) Products(ctx context.Context) ([]Product, error) {
	products, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// ProductIDs returns the set of stored IDs.
func (s *Service) ProductIDs(ctx context.Context) (IDSet, error) {
	ids, err := s.store.AllIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list product ids: %w", err)
	}
	return ids, nil
}

// Import reconciles the CSV at path into the store. When a failed rows path
// is configured and rows were skipped, they are written there as well.
func (s *Service) Import(ctx context.Context, path string) (ImportSummary, error) {
	summary, err := s.reconciler.ImportFile(ctx, path)
	if err != nil {
		return summary, err
	}

	if s.failedRowsPath != "" && summary.Errored > 0 {
		if err := WriteFailedRows(s.failedRowsPath, summary); err != nil {
			return summary, fmt.Errorf("write failed rows: %w", err)
		}
		logging.WithFields(logging.WithRunID(ctx, summary.RunID),
			"path", s.failedRowsPath,
		).Warn("skipped rows written", "count", summary.Errored)
	}

	return summary, nil
}

// Backup writes every product to path. Returns the number written.
func (s *Service) Backup(ctx context.Context, path string) (int, error) {
	n, err := s.exporter.BackupFile(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("backup: %w", err)
	}
	logging.FromContext(ctx).Info("backup written", "path", path, "products", n)
	return n, nil
}
