package catalog

import (
	"context"
	"fmt"
)

// Store is the single source of truth for items and their stock.
// ReserveStock and ReleaseStock must be safe under concurrent callers:
// the check-and-decrement is atomic per item, so stock can never go
// negative regardless of interleaving.
type Store interface {
	Get(ctx context.Context, id string) (Item, error)
	List(ctx context.Context, f Filter) ([]Item, error)
	Categories(ctx context.Context) ([]string, error)
	ListLowStock(ctx context.Context, threshold int) ([]Item, error)
	Put(ctx context.Context, it Item) (Item, error)
	ReserveStock(ctx context.Context, id string, qty int) error
	ReleaseStock(ctx context.Context, id string, qty int) error
	SetRating(ctx context.Context, id string, rating int) (Item, error)
}

// InsufficientStockError names the item that could not be reserved so the
// caller can react (and the gateway can report it verbatim).
type InsufficientStockError struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name,omitempty"`
	Required  int    `json:"required"`
	Available int    `json:"available"`
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: required %d, available %d",
		e.ItemID, e.Required, e.Available)
}
