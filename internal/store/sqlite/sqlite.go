// Package sqlite provides the default SQLite-backed product store.
//
// The schema matches files created by earlier versions of the tool, so an
// existing inventory.db opens as is:
//
//	products(product_id, "Product", "Quantity", "Price", "Date Updated")
//
// Each statement runs in autocommit mode and is durable when it returns.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/inventory/internal/core"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	product_id INTEGER NOT NULL PRIMARY KEY,
	"Product" VARCHAR,
	"Quantity" INTEGER,
	"Price" INTEGER,
	"Date Updated" DATE
)`

const selectColumns = `SELECT product_id, "Product", "Quantity", "Price", "Date Updated" FROM products`

// dateLayout is how dates are stored as text.
const dateLayout = "2006-01-02"

// Store implements core.Store on a SQLite file.
type Store struct {
	db *sql.DB
}

var _ core.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and ensures the
// products table exists.
func Open(ctx context.Context, path string, busyTimeout time.Duration) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d", path, busyTimeout.Milliseconds())

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	// Single process, single writer
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create products table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Create(ctx context.Context, d core.Draft) (core.Product, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO products ("Product", "Quantity", "Price", "Date Updated") VALUES (?, ?, ?, ?)`,
		d.Name, d.Quantity, d.Price, d.LastUpdated.Format(dateLayout),
	)
	if err != nil {
		return core.Product{}, fmt.Errorf("insert product: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Product{}, fmt.Errorf("insert product id: %w", err)
	}

	return core.Product{
		ID:          id,
		Name:        d.Name,
		Quantity:    d.Quantity,
		Price:       d.Price,
		LastUpdated: core.DateOf(d.LastUpdated),
	}, nil
}

func (s *Store) UpdateByID(ctx context.Context, id int64, f core.Fields) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET "Quantity" = ?, "Price" = ?, "Date Updated" = ? WHERE product_id = ?`,
		f.Quantity, f.Price, f.LastUpdated.Format(dateLayout), id,
	)
	if err != nil {
		return fmt.Errorf("update product %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product %d: %w", id, err)
	}
	if n == 0 {
		return &core.NotFoundError{ID: id}
	}
	return nil
}

func (s *Store) FindByName(ctx context.Context, name string) (core.Product, bool, error) {
	row := s.db.QueryRowContext(ctx,
		selectColumns+` WHERE "Product" = ? ORDER BY product_id LIMIT 1`, name)
	return scanOne(row)
}

func (s *Store) FindByID(ctx context.Context, id int64) (core.Product, bool, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE product_id = ?`, id)
	return scanOne(row)
}

func (s *Store) ListAll(ctx context.Context) ([]core.Product, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []core.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func (s *Store) AllIDs(ctx context.Context) (core.IDSet, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT product_id FROM products`)
	if err != nil {
		return nil, fmt.Errorf("list product ids: %w", err)
	}
	defer rows.Close()

	ids := core.NewIDSet()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product id: %w", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list product ids: %w", err)
	}
	return ids, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanOne(row *sql.Row) (core.Product, bool, error) {
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Product{}, false, nil
	}
	if err != nil {
		return core.Product{}, false, err
	}
	return p, true, nil
}

func scanProduct(sc scanner) (core.Product, error) {
	var (
		p       core.Product
		updated time.Time
	)
	if err := sc.Scan(&p.ID, &p.Name, &p.Quantity, &p.Price, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Product{}, err
		}
		return core.Product{}, fmt.Errorf("scan product: %w", err)
	}
	p.LastUpdated = core.DateOf(updated)
	return p, nil
}
