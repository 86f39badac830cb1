package orders

import (
	"context"
	"sync"
	"time"

	"github.com/rasoisetu/marketplace/internal/lifecycle"
)

type MemoryStore struct {
	mu     sync.RWMutex
	orders map[string]*Order
	// creation order
	order []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: make(map[string]*Order)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Create(ctx context.Context, o Order) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	cp := o
	cp.Items = append([]Line(nil), o.Items...)
	s.orders[o.ID] = &cp
	s.order = append(s.order, o.ID)
	return o, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return Order{}, lifecycle.ErrNotFound
	}
	return snapshot(o), nil
}

func (s *MemoryStore) ListByVendor(ctx context.Context, vendorID string, status Status) ([]Order, error) {
	return s.list(func(o *Order) bool {
		return o.VendorID == vendorID && (status == "" || o.Status == status)
	}), nil
}

func (s *MemoryStore) ListBySeller(ctx context.Context, sellerID string, status Status) ([]Order, error) {
	return s.list(func(o *Order) bool {
		return o.SellerID == sellerID && (status == "" || o.Status == status)
	}), nil
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, id string, from, to Status) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return Order{}, lifecycle.ErrNotFound
	}
	if o.Status != from {
		return Order{}, ErrStale
	}
	o.Status = to
	o.UpdatedAt = time.Now().UTC()
	return snapshot(o), nil
}

func (s *MemoryStore) list(keep func(*Order) bool) []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Order
	for _, id := range s.order {
		if o := s.orders[id]; keep(o) {
			out = append(out, snapshot(o))
		}
	}
	return out
}

func snapshot(o *Order) Order {
	cp := *o
	cp.Items = append([]Line(nil), o.Items...)
	return cp
}
