package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rasoisetu/marketplace/internal/catalog"
	"github.com/rasoisetu/marketplace/internal/events"
	"github.com/rasoisetu/marketplace/internal/lifecycle"
)

// Ledger enforces order validity, coordinates stock reservation against
// the catalog, and drives status transitions. Orders are never partially
// persisted: either every line is reserved and the order exists, or
// nothing changed.
type Ledger struct {
	Store          Store
	Catalog        catalog.Store
	PlacedProducer events.Publisher // publishes order.placed, optional
	StatusProducer events.Publisher // publishes order.status, optional
	ServiceName    string
}

// Place reserves stock line by line in caller order. If any reservation
// fails, the ones already made are released in reverse order (LIFO) and
// the failure is returned naming the offending item. A release that
// itself fails is joined into the returned error, never dropped: a lost
// compensation corrupts stock.
func (l *Ledger) Place(ctx context.Context, in PlaceInput) (Order, error) {
	if in.VendorID == "" {
		return Order{}, lifecycle.Invalid("vendor_id", "must not be empty")
	}
	if in.SellerID == "" {
		return Order{}, lifecycle.Invalid("seller_id", "must not be empty")
	}
	if len(in.Items) == 0 {
		return Order{}, lifecycle.Invalid("items", "must not be empty")
	}
	for _, it := range in.Items {
		if it.ItemID == "" {
			return Order{}, lifecycle.Invalid("items", "item_id must not be empty")
		}
		if it.Qty <= 0 {
			return Order{}, lifecycle.Invalid("items", fmt.Sprintf("quantity for %s must be positive", it.ItemID))
		}
	}

	var (
		lines    []Line
		reserved []LineInput
		total    int
	)
	for _, it := range in.Items {
		item, err := l.Catalog.Get(ctx, it.ItemID)
		if err != nil {
			if errors.Is(err, lifecycle.ErrNotFound) {
				err = lifecycle.Invalid("items", "unknown item "+it.ItemID)
			}
			return Order{}, l.rollback(ctx, reserved, err)
		}
		if it.Qty < item.MinOrderQty {
			err = lifecycle.Invalid("items",
				fmt.Sprintf("minimum order quantity for %s is %d", item.Name, item.MinOrderQty))
			return Order{}, l.rollback(ctx, reserved, err)
		}
		if err := l.Catalog.ReserveStock(ctx, it.ItemID, it.Qty); err != nil {
			return Order{}, l.rollback(ctx, reserved, err)
		}
		reserved = append(reserved, it)
		lines = append(lines, Line{ItemID: item.ID, Name: item.Name, Qty: it.Qty, PriceCents: item.PriceCents})
		total += it.Qty * item.PriceCents
	}

	o, err := l.Store.Create(ctx, Order{
		ID:              uuid.NewString(),
		VendorID:        in.VendorID,
		SellerID:        in.SellerID,
		Items:           lines,
		TotalCents:      total,
		Status:          StatusPending,
		DeliveryAddress: in.DeliveryAddress,
		Notes:           in.Notes,
	})
	if err != nil {
		return Order{}, l.rollback(ctx, reserved, err)
	}

	ev := events.OrderPlacedPayload{
		OrderID: o.ID, VendorID: o.VendorID, SellerID: o.SellerID, TotalCents: o.TotalCents,
	}
	for _, ln := range o.Items {
		ev.Items = append(ev.Items, events.LineQty{ItemID: ln.ItemID, Qty: ln.Qty})
	}
	events.Emit(l.PlacedProducer, events.EventOrderPlaced, l.ServiceName, "", o.ID, ev)
	return o, nil
}

func (l *Ledger) Get(ctx context.Context, id string) (Order, error) {
	return l.Store.Get(ctx, id)
}

func (l *Ledger) ListByVendor(ctx context.Context, vendorID, statusFilter string) ([]Order, error) {
	st, err := parseFilter(statusFilter)
	if err != nil {
		return nil, err
	}
	return l.Store.ListByVendor(ctx, vendorID, st)
}

func (l *Ledger) ListBySeller(ctx context.Context, sellerID, statusFilter string) ([]Order, error) {
	st, err := parseFilter(statusFilter)
	if err != nil {
		return nil, err
	}
	return l.Store.ListBySeller(ctx, sellerID, st)
}

// Advance moves an order along the transition table. Re-applying the
// current status is a no-op success (gateway retries), so a double
// "cancelled" releases stock exactly once. The status write is a CAS, so
// two racing advancements cannot both win.
func (l *Ledger) Advance(ctx context.Context, id, target string) (Order, error) {
	to, err := ParseStatus(target)
	if err != nil {
		return Order{}, err
	}
	for {
		cur, err := l.Store.Get(ctx, id)
		if err != nil {
			return Order{}, err
		}
		if cur.Status == to {
			return cur, nil
		}
		if err := Transitions.Check(cur.Status, to); err != nil {
			return Order{}, err
		}
		o, err := l.Store.UpdateStatus(ctx, id, cur.Status, to)
		if errors.Is(err, ErrStale) {
			continue // someone moved it first; re-evaluate from the new state
		}
		if err != nil {
			return Order{}, err
		}
		if to == StatusCancelled {
			if err := l.releaseAll(ctx, o.Items); err != nil {
				return o, err
			}
		}
		events.Emit(l.StatusProducer, events.EventOrderStatusChanged, l.ServiceName, "", o.ID,
			events.OrderStatusPayload{OrderID: o.ID, From: string(cur.Status), To: string(to)})
		return o, nil
	}
}

// rollback releases already-reserved lines in reverse order and returns
// cause, with any release failures joined in.
func (l *Ledger) rollback(ctx context.Context, reserved []LineInput, cause error) error {
	err := cause
	for i := len(reserved) - 1; i >= 0; i-- {
		if relErr := l.Catalog.ReleaseStock(ctx, reserved[i].ItemID, reserved[i].Qty); relErr != nil {
			err = errors.Join(err, fmt.Errorf("release %s: %w", reserved[i].ItemID, relErr))
		}
	}
	return err
}

func (l *Ledger) releaseAll(ctx context.Context, lines []Line) error {
	var err error
	for _, ln := range lines {
		if relErr := l.Catalog.ReleaseStock(ctx, ln.ItemID, ln.Qty); relErr != nil {
			err = errors.Join(err, fmt.Errorf("release %s: %w", ln.ItemID, relErr))
		}
	}
	return err
}

func parseFilter(s string) (Status, error) {
	if s == "" || s == "all" {
		return "", nil
	}
	return ParseStatus(s)
}
