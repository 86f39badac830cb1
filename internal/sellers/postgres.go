package sellers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rasoisetu/marketplace/internal/lifecycle"
)

type PostgresStore struct{ DB *pgxpool.Pool }

var _ Store = (*PostgresStore)(nil)

const appColumns = `id, name, email, phone, products, documents, status, rating, created_at, updated_at`

func scanApp(row pgx.Row) (Application, error) {
	var a Application
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Products, &a.Documents,
		&a.Status, &a.Rating, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Application{}, lifecycle.ErrNotFound
	}
	return a, err
}

func (s *PostgresStore) Create(ctx context.Context, app Application) (Application, error) {
	return scanApp(s.DB.QueryRow(ctx, `
		INSERT INTO seller_applications(id, name, email, phone, products, documents, status, rating)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING `+appColumns,
		app.ID, app.Name, app.Email, app.Phone, app.Products, app.Documents, app.Status, app.Rating))
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Application, error) {
	return scanApp(s.DB.QueryRow(ctx, `SELECT `+appColumns+` FROM seller_applications WHERE id=$1`, id))
}

func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (Application, error) {
	return scanApp(s.DB.QueryRow(ctx,
		`SELECT `+appColumns+` FROM seller_applications WHERE lower(email)=lower($1) ORDER BY created_at LIMIT 1`, email))
}

func (s *PostgresStore) List(ctx context.Context, status Status) ([]Application, error) {
	q := `SELECT ` + appColumns + ` FROM seller_applications`
	args := []any{}
	if status != "" {
		q += ` WHERE status=$1`
		args = append(args, status)
	}
	q += ` ORDER BY created_at, id`
	rows, err := s.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Application
	for rows.Next() {
		var a Application
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Products, &a.Documents,
			&a.Status, &a.Rating, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, to Status) (Application, error) {
	return scanApp(s.DB.QueryRow(ctx,
		`UPDATE seller_applications SET status=$2, updated_at=now() WHERE id=$1 RETURNING `+appColumns, id, to))
}

func (s *PostgresStore) UpdateRating(ctx context.Context, id string, rating int) (Application, error) {
	return scanApp(s.DB.QueryRow(ctx,
		`UPDATE seller_applications SET rating=$2, updated_at=now() WHERE id=$1 RETURNING `+appColumns, id, rating))
}

func (s *PostgresStore) CountByStatus(ctx context.Context) (map[Status]int, error) {
	rows, err := s.DB.Query(ctx, `SELECT status, COUNT(*) FROM seller_applications GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[Status]int)
	for rows.Next() {
		var st Status
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, err
		}
		counts[st] = n
	}
	return counts, rows.Err()
}
