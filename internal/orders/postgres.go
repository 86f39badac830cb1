package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rasoisetu/marketplace/internal/lifecycle"
)

type PostgresStore struct{ DB *pgxpool.Pool }

var _ Store = (*PostgresStore)(nil)

const orderColumns = `id, vendor_id, seller_id, total_cents, status, delivery_address, notes, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, o Order) (Order, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO orders(id, vendor_id, seller_id, total_cents, status, delivery_address, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING `+orderColumns,
		o.ID, o.VendorID, o.SellerID, o.TotalCents, o.Status, o.DeliveryAddress, o.Notes)
	created, err := scanOrder(row)
	if err != nil {
		return Order{}, err
	}
	for i, ln := range o.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_lines(order_id, pos, item_id, name, qty, price_cents)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			o.ID, i, ln.ItemID, ln.Name, ln.Qty, ln.PriceCents); err != nil {
			return Order{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	created.Items = o.Items
	return created, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Order, error) {
	o, err := scanOrder(s.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if err != nil {
		return Order{}, err
	}
	items, err := s.linesFor(ctx, []string{id})
	if err != nil {
		return Order{}, err
	}
	o.Items = items[id]
	return o, nil
}

func (s *PostgresStore) ListByVendor(ctx context.Context, vendorID string, status Status) ([]Order, error) {
	return s.listBy(ctx, `vendor_id`, vendorID, status)
}

func (s *PostgresStore) ListBySeller(ctx context.Context, sellerID string, status Status) ([]Order, error) {
	return s.listBy(ctx, `seller_id`, sellerID, status)
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, from, to Status) (Order, error) {
	row := s.DB.QueryRow(ctx, `
		UPDATE orders SET status=$3, updated_at=now()
		WHERE id=$1 AND status=$2
		RETURNING `+orderColumns, id, from, to)
	o, err := scanOrder(row)
	if errors.Is(err, lifecycle.ErrNotFound) {
		// row missing, or the CAS guard lost: say which
		var exists bool
		if err2 := s.DB.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id=$1)`, id).Scan(&exists); err2 != nil {
			return Order{}, err2
		}
		if exists {
			return Order{}, ErrStale
		}
		return Order{}, lifecycle.ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	items, err := s.linesFor(ctx, []string{id})
	if err != nil {
		return Order{}, err
	}
	o.Items = items[id]
	return o, nil
}

func (s *PostgresStore) listBy(ctx context.Context, column, value string, status Status) ([]Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE ` + column + `=$1`
	args := []any{value}
	if status != "" {
		q += ` AND status=$2`
		args = append(args, status)
	}
	q += ` ORDER BY created_at, id`
	rows, err := s.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	var ids []string
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}
	items, err := s.linesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Items = items[out[i].ID]
	}
	return out, nil
}

func (s *PostgresStore) linesFor(ctx context.Context, orderIDs []string) (map[string][]Line, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT order_id, item_id, name, qty, price_cents
		FROM order_lines WHERE order_id = ANY($1) ORDER BY order_id, pos`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string][]Line, len(orderIDs))
	for rows.Next() {
		var oid string
		var ln Line
		if err := rows.Scan(&oid, &ln.ItemID, &ln.Name, &ln.Qty, &ln.PriceCents); err != nil {
			return nil, err
		}
		out[oid] = append(out[oid], ln)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.VendorID, &o.SellerID, &o.TotalCents, &o.Status,
		&o.DeliveryAddress, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, lifecycle.ErrNotFound
	}
	return o, err
}
