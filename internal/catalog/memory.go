package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rasoisetu/marketplace/internal/lifecycle"
)

// MemoryStore keeps items in insertion order behind a mutex. It backs the
// test suites and the dev mode of the binaries when no DSN is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*Item
	order []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]*Item)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Get(ctx context.Context, id string) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	if !ok {
		return Item{}, lifecycle.ErrNotFound
	}
	return *it, nil
}

func (s *MemoryStore) List(ctx context.Context, f Filter) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Item, 0, len(s.order))
	for _, id := range s.order {
		it := s.items[id]
		if matches(*it, f) {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (s *MemoryStore) Categories(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, id := range s.order {
		c := s.items[id].Category
		if c != "" && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStore) ListLowStock(ctx context.Context, threshold int) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Item
	for _, id := range s.order {
		if it := s.items[id]; it.Stock <= threshold {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (s *MemoryStore) Put(ctx context.Context, it Item) (Item, error) {
	if it.Name == "" {
		return Item{}, lifecycle.Invalid("name", "must not be empty")
	}
	if it.PriceCents < 0 {
		return Item{}, lifecycle.Invalid("price_cents", "must not be negative")
	}
	if it.Stock < 0 {
		return Item{}, lifecycle.Invalid("stock", "must not be negative")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.MinOrderQty <= 0 {
		it.MinOrderQty = 1
	}
	if _, exists := s.items[it.ID]; !exists {
		it.CreatedAt = now
		s.order = append(s.order, it.ID)
	}
	it.UpdatedAt = now
	cp := it
	s.items[it.ID] = &cp
	return it, nil
}

func (s *MemoryStore) ReserveStock(ctx context.Context, id string, qty int) error {
	if qty <= 0 {
		return lifecycle.Invalid("quantity", "must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return lifecycle.ErrNotFound
	}
	if it.Stock < qty {
		return &InsufficientStockError{ItemID: id, Name: it.Name, Required: qty, Available: it.Stock}
	}
	it.Stock -= qty
	it.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) ReleaseStock(ctx context.Context, id string, qty int) error {
	if qty <= 0 {
		return lifecycle.Invalid("quantity", "must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return lifecycle.ErrNotFound
	}
	it.Stock += qty
	it.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) SetRating(ctx context.Context, id string, rating int) (Item, error) {
	if rating < RatingMin || rating > RatingMax {
		return Item{}, lifecycle.Invalid("rating", "must be between 1 and 10")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return Item{}, lifecycle.ErrNotFound
	}
	it.Rating = rating
	it.UpdatedAt = time.Now().UTC()
	return *it, nil
}

func matches(it Item, f Filter) bool {
	if f.Category != "" && !strings.EqualFold(it.Category, f.Category) {
		return false
	}
	if f.MinStock > 0 && it.Stock < f.MinStock {
		return false
	}
	if f.MaxPriceCents > 0 && it.PriceCents > f.MaxPriceCents {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(it.Name), q) &&
			!strings.Contains(strings.ToLower(it.Supplier), q) &&
			!strings.Contains(strings.ToLower(it.Description), q) {
			return false
		}
	}
	return true
}
