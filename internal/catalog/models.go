package catalog

import "time"

// Item is a sellable raw material. Prices are integer cents so totals
// stay exact. Stock is never negative.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Unit        string    `json:"unit"`
	PriceCents  int       `json:"price_cents"`
	Stock       int       `json:"stock"`
	Supplier    string    `json:"supplier"`
	Rating      int       `json:"rating"` // 1..10, 0 = unrated
	MinOrderQty int       `json:"min_order_quantity"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Filter narrows List results. Zero values mean "no constraint";
// predicates are conjunctive.
type Filter struct {
	Category      string
	MinStock      int
	MaxPriceCents int
	Search        string // matches name, supplier or description, case-insensitive
}

const (
	RatingMin = 1
	RatingMax = 10
)
