package sellers

import "context"

// Store persists applications. List order is submission order.
// UpdateStatus/UpdateRating are atomic per record.
type Store interface {
	Create(ctx context.Context, app Application) (Application, error)
	Get(ctx context.Context, id string) (Application, error)
	GetByEmail(ctx context.Context, email string) (Application, error)
	// List returns applications with the given status; empty status means all.
	List(ctx context.Context, status Status) ([]Application, error)
	UpdateStatus(ctx context.Context, id string, to Status) (Application, error)
	UpdateRating(ctx context.Context, id string, rating int) (Application, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
}
