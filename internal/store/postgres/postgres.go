// Package postgres provides a PostgreSQL product store on a pgx connection
// pool, for inventories shared between several machines.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/JonMunkholm/inventory/internal/config"
	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	product_id BIGSERIAL PRIMARY KEY,
	"Product" TEXT NOT NULL,
	"Quantity" BIGINT NOT NULL,
	"Price" BIGINT NOT NULL,
	"Date Updated" DATE NOT NULL
)`

const selectColumns = `SELECT product_id, "Product", "Quantity", "Price", "Date Updated" FROM products`

// Store implements core.Store on a PostgreSQL pool.
type Store struct {
	pool *pgxpool.Pool
}

var _ core.Store = (*Store)(nil)

// Open connects to cfg.URL, verifies the connection and ensures the
// products table exists.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create products table: %w", err)
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	}

	return &Store{pool: pool}, nil
}

// Close releases every pooled connection.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) Create(ctx context.Context, d core.Draft) (core.Product, error) {
	p := core.Product{
		Name:        d.Name,
		Quantity:    d.Quantity,
		Price:       d.Price,
		LastUpdated: core.DateOf(d.LastUpdated),
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO products ("Product", "Quantity", "Price", "Date Updated") VALUES ($1, $2, $3, $4) RETURNING product_id`,
		d.Name, d.Quantity, d.Price, toDate(d.LastUpdated),
	).Scan(&p.ID)
	if err != nil {
		return core.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (s *Store) UpdateByID(ctx context.Context, id int64, f core.Fields) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE products SET "Quantity" = $1, "Price" = $2, "Date Updated" = $3 WHERE product_id = $4`,
		f.Quantity, f.Price, toDate(f.LastUpdated), id,
	)
	if err != nil {
		return fmt.Errorf("update product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return &core.NotFoundError{ID: id}
	}
	return nil
}

func (s *Store) FindByName(ctx context.Context, name string) (core.Product, bool, error) {
	row := s.pool.QueryRow(ctx,
		selectColumns+` WHERE "Product" = $1 ORDER BY product_id LIMIT 1`, name)
	return scanOne(row)
}

func (s *Store) FindByID(ctx context.Context, id int64) (core.Product, bool, error) {
	row := s.pool.QueryRow(ctx, selectColumns+` WHERE product_id = $1`, id)
	return scanOne(row)
}

func (s *Store) ListAll(ctx context.Context) ([]core.Product, error) {
	rows, err := s.pool.Query(ctx, selectColumns+` ORDER BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.Product, error) {
		return scanProduct(row)
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *Store) AllIDs(ctx context.Context) (core.IDSet, error) {
	rows, err := s.pool.Query(ctx, `SELECT product_id FROM products`)
	if err != nil {
		return nil, fmt.Errorf("list product ids: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("list product ids: %w", err)
	}

	set := core.NewIDSet()
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func scanOne(row pgx.Row) (core.Product, bool, error) {
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Product{}, false, nil
	}
	if err != nil {
		return core.Product{}, false, err
	}
	return p, true, nil
}

func scanProduct(row pgx.Row) (core.Product, error) {
	var (
		p       core.Product
		updated pgtype.Date
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Quantity, &p.Price, &updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.Product{}, err
		}
		return core.Product{}, fmt.Errorf("scan product: %w", err)
	}
	if updated.Valid {
		p.LastUpdated = core.DateOf(updated.Time)
	}
	return p, nil
}

func toDate(t time.Time) pgtype.Date {
	return pgtype.Date{Time: core.DateOf(t), Valid: true}
}
