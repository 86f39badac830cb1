package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rasoisetu/marketplace/internal/lifecycle"
)

// PostgresStore implements Store on pgx. Reservation is a conditional
// UPDATE guarded by stock >= qty, so concurrent reservations on the same
// row serialize on the row lock and can never drive stock negative.
type PostgresStore struct{ DB *pgxpool.Pool }

var _ Store = (*PostgresStore)(nil)

const itemColumns = `id, name, category, unit, price_cents, stock, supplier, rating, min_order_qty, description, created_at, updated_at`

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.Name, &it.Category, &it.Unit, &it.PriceCents, &it.Stock,
		&it.Supplier, &it.Rating, &it.MinOrderQty, &it.Description, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, lifecycle.ErrNotFound
	}
	return it, err
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Item, error) {
	return scanItem(s.DB.QueryRow(ctx, `SELECT `+itemColumns+` FROM catalog_items WHERE id=$1`, id))
}

func (s *PostgresStore) List(ctx context.Context, f Filter) ([]Item, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Category != "" {
		where = append(where, `lower(category) = lower(`+arg(f.Category)+`)`)
	}
	if f.MinStock > 0 {
		where = append(where, `stock >= `+arg(f.MinStock))
	}
	if f.MaxPriceCents > 0 {
		where = append(where, `price_cents <= `+arg(f.MaxPriceCents))
	}
	if f.Search != "" {
		p := arg("%" + strings.ToLower(f.Search) + "%")
		where = append(where, `(lower(name) LIKE `+p+` OR lower(supplier) LIKE `+p+` OR lower(description) LIKE `+p+`)`)
	}
	q := `SELECT ` + itemColumns + ` FROM catalog_items`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, ` AND `)
	}
	q += ` ORDER BY created_at, id`
	return s.queryItems(ctx, q, args...)
}

func (s *PostgresStore) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, `SELECT DISTINCT category FROM catalog_items WHERE category <> '' ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListLowStock(ctx context.Context, threshold int) ([]Item, error) {
	return s.queryItems(ctx,
		`SELECT `+itemColumns+` FROM catalog_items WHERE stock <= $1 ORDER BY created_at, id`, threshold)
}

func (s *PostgresStore) Put(ctx context.Context, it Item) (Item, error) {
	if it.Name == "" {
		return Item{}, lifecycle.Invalid("name", "must not be empty")
	}
	if it.PriceCents < 0 {
		return Item{}, lifecycle.Invalid("price_cents", "must not be negative")
	}
	if it.Stock < 0 {
		return Item{}, lifecycle.Invalid("stock", "must not be negative")
	}
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.MinOrderQty <= 0 {
		it.MinOrderQty = 1
	}
	return scanItem(s.DB.QueryRow(ctx, `
		INSERT INTO catalog_items(id, name, category, unit, price_cents, stock, supplier, rating, min_order_qty, description)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
			name=EXCLUDED.name, category=EXCLUDED.category, unit=EXCLUDED.unit,
			price_cents=EXCLUDED.price_cents, stock=EXCLUDED.stock, supplier=EXCLUDED.supplier,
			rating=EXCLUDED.rating, min_order_qty=EXCLUDED.min_order_qty,
			description=EXCLUDED.description, updated_at=now()
		RETURNING `+itemColumns,
		it.ID, it.Name, it.Category, it.Unit, it.PriceCents, it.Stock,
		it.Supplier, it.Rating, it.MinOrderQty, it.Description))
}

func (s *PostgresStore) ReserveStock(ctx context.Context, id string, qty int) error {
	if qty <= 0 {
		return lifecycle.Invalid("quantity", "must be positive")
	}
	ct, err := s.DB.Exec(ctx,
		`UPDATE catalog_items SET stock = stock - $2, updated_at = now() WHERE id=$1 AND stock >= $2`, id, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 1 {
		return nil
	}
	// either the row is missing or stock ran short; look again to say which
	var name string
	var stock int
	err = s.DB.QueryRow(ctx, `SELECT name, stock FROM catalog_items WHERE id=$1`, id).Scan(&name, &stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return lifecycle.ErrNotFound
	}
	if err != nil {
		return err
	}
	return &InsufficientStockError{ItemID: id, Name: name, Required: qty, Available: stock}
}

func (s *PostgresStore) ReleaseStock(ctx context.Context, id string, qty int) error {
	if qty <= 0 {
		return lifecycle.Invalid("quantity", "must be positive")
	}
	ct, err := s.DB.Exec(ctx,
		`UPDATE catalog_items SET stock = stock + $2, updated_at = now() WHERE id=$1`, id, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return lifecycle.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) SetRating(ctx context.Context, id string, rating int) (Item, error) {
	if rating < RatingMin || rating > RatingMax {
		return Item{}, lifecycle.Invalid("rating", "must be between 1 and 10")
	}
	return scanItem(s.DB.QueryRow(ctx,
		`UPDATE catalog_items SET rating=$2, updated_at=now() WHERE id=$1 RETURNING `+itemColumns, id, rating))
}

func (s *PostgresStore) queryItems(ctx context.Context, q string, args ...any) ([]Item, error) {
	rows, err := s.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Category, &it.Unit, &it.PriceCents, &it.Stock,
			&it.Supplier, &it.Rating, &it.MinOrderQty, &it.Description, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
