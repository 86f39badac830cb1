package sellers

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rasoisetu/marketplace/internal/lifecycle"
)

type MemoryStore struct {
	mu   sync.RWMutex
	apps map[string]*Application
	// submission order
	order []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{apps: make(map[string]*Application)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Create(ctx context.Context, app Application) (Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	cp := app
	s.apps[app.ID] = &cp
	s.order = append(s.order, app.ID)
	return app, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.apps[id]
	if !ok {
		return Application{}, lifecycle.ErrNotFound
	}
	return *a, nil
}

func (s *MemoryStore) GetByEmail(ctx context.Context, email string) (Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		if strings.EqualFold(s.apps[id].Email, email) {
			return *s.apps[id], nil
		}
	}
	return Application{}, lifecycle.ErrNotFound
}

func (s *MemoryStore) List(ctx context.Context, status Status) ([]Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Application, 0, len(s.order))
	for _, id := range s.order {
		a := s.apps[id]
		if status == "" || a.Status == status {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, id string, to Status) (Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.apps[id]
	if !ok {
		return Application{}, lifecycle.ErrNotFound
	}
	a.Status = to
	a.UpdatedAt = time.Now().UTC()
	return *a, nil
}

func (s *MemoryStore) UpdateRating(ctx context.Context, id string, rating int) (Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.apps[id]
	if !ok {
		return Application{}, lifecycle.ErrNotFound
	}
	a.Rating = rating
	a.UpdatedAt = time.Now().UTC()
	return *a, nil
}

func (s *MemoryStore) CountByStatus(ctx context.Context) (map[Status]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[Status]int)
	for _, id := range s.order {
		counts[s.apps[id].Status]++
	}
	return counts, nil
}
