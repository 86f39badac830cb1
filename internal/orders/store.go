package orders

import (
	"context"
	"errors"
)

// ErrStale reports that an order's status moved between the ledger's read
// and its compare-and-swap write. The ledger rereads and re-evaluates.
var ErrStale = errors.New("order status changed concurrently")

// Store persists orders. UpdateStatus is a compare-and-swap on the current
// status, which serializes concurrent advancement per record.
type Store interface {
	Create(ctx context.Context, o Order) (Order, error)
	Get(ctx context.Context, id string) (Order, error)
	// List order is creation order. Empty status means no status filter.
	ListByVendor(ctx context.Context, vendorID string, status Status) ([]Order, error)
	ListBySeller(ctx context.Context, sellerID string, status Status) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, from, to Status) (Order, error)
}
