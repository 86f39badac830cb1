package orders

import (
	"context"
	"errors"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasoisetu/marketplace/internal/catalog"
	"github.com/rasoisetu/marketplace/internal/lifecycle"
)

type recordingPublisher struct {
	values [][]byte
}

func (p *recordingPublisher) Publish(key, value []byte, headers ...kafkago.Header) {
	p.values = append(p.values, value)
}

func newLedger(t *testing.T) (*Ledger, *catalog.MemoryStore, *recordingPublisher) {
	t.Helper()
	cat := catalog.NewMemoryStore()
	ctx := context.Background()
	seed := []catalog.Item{
		{ID: "potato", Name: "Potato", PriceCents: 2500, Stock: 5},
		{ID: "onion", Name: "Red Onion", PriceCents: 3000, Stock: 100},
		{ID: "oil", Name: "Sunflower Oil", PriceCents: 12000, Stock: 40, MinOrderQty: 5},
	}
	for _, it := range seed {
		_, err := cat.Put(ctx, it)
		require.NoError(t, err)
	}
	pub := &recordingPublisher{}
	return &Ledger{
		Store:          NewMemoryStore(),
		Catalog:        cat,
		PlacedProducer: pub,
		StatusProducer: pub,
		ServiceName:    "test",
	}, cat, pub
}

func stockOf(t *testing.T, cat *catalog.MemoryStore, id string) int {
	t.Helper()
	it, err := cat.Get(context.Background(), id)
	require.NoError(t, err)
	return it.Stock
}

func TestPlace(t *testing.T) {
	ctx := context.Background()
	l, cat, pub := newLedger(t)

	o, err := l.Place(ctx, PlaceInput{
		VendorID: "v1",
		SellerID: "s1",
		Items: []LineInput{
			{ItemID: "potato", Qty: 2},
			{ItemID: "onion", Qty: 3},
		},
		DeliveryAddress: "stall 14, gandhi market",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, 2*2500+3*3000, o.TotalCents)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "Potato", o.Items[0].Name)
	assert.Equal(t, 2500, o.Items[0].PriceCents)

	// stock decremented atomically with creation
	assert.Equal(t, 3, stockOf(t, cat, "potato"))
	assert.Equal(t, 97, stockOf(t, cat, "onion"))

	got, err := l.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	assert.Len(t, pub.values, 1)
}

func TestPlacePriceSnapshot(t *testing.T) {
	ctx := context.Background()
	l, cat, _ := newLedger(t)

	o, err := l.Place(ctx, PlaceInput{
		VendorID: "v1", SellerID: "s1",
		Items: []LineInput{{ItemID: "potato", Qty: 1}},
	})
	require.NoError(t, err)

	// catalog price change must not touch the stored order
	it, err := cat.Get(ctx, "potato")
	require.NoError(t, err)
	it.PriceCents = 9999
	_, err = cat.Put(ctx, it)
	require.NoError(t, err)

	got, err := l.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 2500, got.TotalCents)
	assert.Equal(t, 2500, got.Items[0].PriceCents)
}

func TestPlaceValidation(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newLedger(t)

	tests := []struct {
		name string
		in   PlaceInput
	}{
		{"missing vendor", PlaceInput{SellerID: "s", Items: []LineInput{{ItemID: "potato", Qty: 1}}}},
		{"missing seller", PlaceInput{VendorID: "v", Items: []LineInput{{ItemID: "potato", Qty: 1}}}},
		{"no items", PlaceInput{VendorID: "v", SellerID: "s"}},
		{"zero qty", PlaceInput{VendorID: "v", SellerID: "s", Items: []LineInput{{ItemID: "potato", Qty: 0}}}},
		{"negative qty", PlaceInput{VendorID: "v", SellerID: "s", Items: []LineInput{{ItemID: "potato", Qty: -2}}}},
		{"unknown item", PlaceInput{VendorID: "v", SellerID: "s", Items: []LineInput{{ItemID: "ghost", Qty: 1}}}},
		{"below min order qty", PlaceInput{VendorID: "v", SellerID: "s", Items: []LineInput{{ItemID: "oil", Qty: 2}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Place(ctx, tt.in)
			var ve *lifecycle.ValidationError
			assert.True(t, errors.As(err, &ve), "got %v", err)
		})
	}
}

func TestPlaceInsufficientStockNamesItem(t *testing.T) {
	ctx := context.Background()
	l, cat, _ := newLedger(t)

	_, err := l.Place(ctx, PlaceInput{
		VendorID: "v1", SellerID: "s1",
		Items: []LineInput{{ItemID: "potato", Qty: 10}},
	})
	var ise *catalog.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, "potato", ise.ItemID)
	assert.Equal(t, 10, ise.Required)
	assert.Equal(t, 5, ise.Available)

	assert.Equal(t, 5, stockOf(t, cat, "potato"))
}

// First line reserves fine, second fails: the first reservation must be
// fully released and no order persisted.
func TestPlaceRollsBackEarlierReservations(t *testing.T) {
	ctx := context.Background()
	l, cat, pub := newLedger(t)

	_, err := l.Place(ctx, PlaceInput{
		VendorID: "v1", SellerID: "s1",
		Items: []LineInput{
			{ItemID: "onion", Qty: 50},
			{ItemID: "potato", Qty: 10}, // only 5 in stock
		},
	})
	var ise *catalog.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, "potato", ise.ItemID)

	assert.Equal(t, 100, stockOf(t, cat, "onion"))
	assert.Equal(t, 5, stockOf(t, cat, "potato"))

	orders, err := l.ListByVendor(ctx, "v1", "")
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, pub.values)
}

func place(t *testing.T, l *Ledger) Order {
	t.Helper()
	o, err := l.Place(context.Background(), PlaceInput{
		VendorID: "v1", SellerID: "s1",
		Items: []LineInput{{ItemID: "potato", Qty: 5}},
	})
	require.NoError(t, err)
	return o
}

func TestAdvanceFollowsTable(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newLedger(t)
	o := place(t, l)

	for _, target := range []string{"confirmed", "processing", "shipped", "delivered"} {
		got, err := l.Advance(ctx, o.ID, target)
		require.NoError(t, err)
		assert.Equal(t, Status(target), got.Status)
	}

	// delivered is terminal
	_, err := l.Advance(ctx, o.ID, "cancelled")
	var te *lifecycle.TransitionError[Status]
	assert.True(t, errors.As(err, &te))
}

func TestAdvanceRejectsBackwardMove(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newLedger(t)
	o := place(t, l)

	for _, target := range []string{"confirmed", "processing", "shipped"} {
		_, err := l.Advance(ctx, o.ID, target)
		require.NoError(t, err)
	}

	_, err := l.Advance(ctx, o.ID, "processing")
	var te *lifecycle.TransitionError[Status]
	require.True(t, errors.As(err, &te))
	assert.Equal(t, StatusShipped, te.From)
	assert.Equal(t, StatusProcessing, te.To)

	got, err := l.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, got.Status)
}

func TestAdvanceSkippingStagesForbidden(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newLedger(t)
	o := place(t, l)

	_, err := l.Advance(ctx, o.ID, "shipped")
	var te *lifecycle.TransitionError[Status]
	assert.True(t, errors.As(err, &te))
}

func TestAdvanceIdempotentRepeat(t *testing.T) {
	ctx := context.Background()
	l, _, pub := newLedger(t)
	o := place(t, l)

	_, err := l.Advance(ctx, o.ID, "confirmed")
	require.NoError(t, err)
	emitted := len(pub.values)

	got, err := l.Advance(ctx, o.ID, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)
	// no second status event, no double side effects
	assert.Len(t, pub.values, emitted)
}

func TestCancelReleasesStock(t *testing.T) {
	ctx := context.Background()
	l, cat, _ := newLedger(t)
	o := place(t, l) // potato x5, stock now 0
	require.Equal(t, 0, stockOf(t, cat, "potato"))

	got, err := l.Advance(ctx, o.ID, "cancelled")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)
	assert.Equal(t, 5, stockOf(t, cat, "potato"))

	// repeating cancel is a no-op: stock released exactly once
	_, err = l.Advance(ctx, o.ID, "cancelled")
	require.NoError(t, err)
	assert.Equal(t, 5, stockOf(t, cat, "potato"))

	// cancelled is terminal
	_, err = l.Advance(ctx, o.ID, "confirmed")
	var te *lifecycle.TransitionError[Status]
	assert.True(t, errors.As(err, &te))
}

func TestCancelFromLaterStages(t *testing.T) {
	ctx := context.Background()
	for _, stage := range []string{"confirmed", "processing", "shipped"} {
		t.Run(stage, func(t *testing.T) {
			l, cat, _ := newLedger(t)
			o := place(t, l)
			_, err := l.Advance(ctx, o.ID, "confirmed")
			require.NoError(t, err)
			if stage == "processing" || stage == "shipped" {
				_, err = l.Advance(ctx, o.ID, "processing")
				require.NoError(t, err)
			}
			if stage == "shipped" {
				_, err = l.Advance(ctx, o.ID, "shipped")
				require.NoError(t, err)
			}
			_, err = l.Advance(ctx, o.ID, "cancelled")
			require.NoError(t, err)
			assert.Equal(t, 5, stockOf(t, cat, "potato"))
		})
	}
}

func TestAdvanceErrors(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newLedger(t)

	_, err := l.Advance(ctx, "missing", "confirmed")
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)

	o := place(t, l)
	_, err = l.Advance(ctx, o.ID, "teleported")
	var ve *lifecycle.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newLedger(t)

	o1, err := l.Place(ctx, PlaceInput{VendorID: "v1", SellerID: "s1",
		Items: []LineInput{{ItemID: "onion", Qty: 1}}})
	require.NoError(t, err)
	o2, err := l.Place(ctx, PlaceInput{VendorID: "v1", SellerID: "s2",
		Items: []LineInput{{ItemID: "onion", Qty: 1}}})
	require.NoError(t, err)
	_, err = l.Place(ctx, PlaceInput{VendorID: "v2", SellerID: "s1",
		Items: []LineInput{{ItemID: "onion", Qty: 1}}})
	require.NoError(t, err)

	_, err = l.Advance(ctx, o2.ID, "confirmed")
	require.NoError(t, err)

	byVendor, err := l.ListByVendor(ctx, "v1", "")
	require.NoError(t, err)
	require.Len(t, byVendor, 2)
	assert.Equal(t, o1.ID, byVendor[0].ID) // creation order

	confirmed, err := l.ListByVendor(ctx, "v1", "confirmed")
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, o2.ID, confirmed[0].ID)

	bySeller, err := l.ListBySeller(ctx, "s1", "")
	require.NoError(t, err)
	assert.Len(t, bySeller, 2)

	_, err = l.ListByVendor(ctx, "v1", "sideways")
	var ve *lifecycle.ValidationError
	assert.True(t, errors.As(err, &ve))
}
