package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = 8
	cfg.MinConns = 1
	cfg.HealthCheckPeriod = 30 * time.Second
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// EnsureSchema creates the tables the stores expect, if absent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS catalog_items (
  id            text PRIMARY KEY,
  name          text NOT NULL,
  category      text NOT NULL DEFAULT '',
  unit          text NOT NULL DEFAULT '',
  price_cents   int  NOT NULL CHECK (price_cents >= 0),
  stock         int  NOT NULL CHECK (stock >= 0),
  supplier      text NOT NULL DEFAULT '',
  rating        int  NOT NULL DEFAULT 0,
  min_order_qty int  NOT NULL DEFAULT 1,
  description   text NOT NULL DEFAULT '',
  created_at    timestamptz NOT NULL DEFAULT now(),
  updated_at    timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS seller_applications (
  id         text PRIMARY KEY,
  name       text NOT NULL,
  email      text NOT NULL,
  phone      text NOT NULL,
  products   text[] NOT NULL DEFAULT '{}',
  documents  jsonb,
  status     text NOT NULL,
  rating     int  NOT NULL DEFAULT 0,
  created_at timestamptz NOT NULL DEFAULT now(),
  updated_at timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS orders (
  id               text PRIMARY KEY,
  vendor_id        text NOT NULL,
  seller_id        text NOT NULL,
  total_cents      int  NOT NULL,
  status           text NOT NULL,
  delivery_address text NOT NULL DEFAULT '',
  notes            text NOT NULL DEFAULT '',
  created_at       timestamptz NOT NULL DEFAULT now(),
  updated_at       timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS order_lines (
  order_id    text NOT NULL REFERENCES orders(id),
  pos         int  NOT NULL,
  item_id     text NOT NULL,
  name        text NOT NULL,
  qty         int  NOT NULL CHECK (qty > 0),
  price_cents int  NOT NULL,
  PRIMARY KEY (order_id, pos)
);

CREATE INDEX IF NOT EXISTS idx_orders_vendor ON orders(vendor_id);
CREATE INDEX IF NOT EXISTS idx_orders_seller ON orders(seller_id);
CREATE INDEX IF NOT EXISTS idx_sellers_status ON seller_applications(status);
`)
	return err
}
