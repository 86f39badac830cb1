package orders

import "time"

// Line is one order line. Name and price are snapshotted from the catalog
// at reservation time, so later catalog edits never change what the buyer
// agreed to pay.
type Line struct {
	ItemID     string `json:"item_id"`
	Name       string `json:"name"`
	Qty        int    `json:"qty"`
	PriceCents int    `json:"price_cents"`
}

type Order struct {
	ID              string    `json:"id"`
	VendorID        string    `json:"vendor_id"`
	SellerID        string    `json:"seller_id"`
	Items           []Line    `json:"items"`
	TotalCents      int       `json:"total_cents"` // computed once at creation
	Status          Status    `json:"status"`
	DeliveryAddress string    `json:"delivery_address,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// LineInput is what the vendor sends when placing an order.
type LineInput struct {
	ItemID string `json:"item_id"`
	Qty    int    `json:"qty"`
}

type PlaceInput struct {
	VendorID        string      `json:"vendor_id"`
	SellerID        string      `json:"seller_id"`
	Items           []LineInput `json:"items"`
	DeliveryAddress string      `json:"delivery_address"`
	Notes           string      `json:"notes"`
}
