package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"renewal-gateway/internal/licence/models"
	"renewal-gateway/pkg/platform/sentinel"
)

// InMemory is a process-local licence store used for development and tests.
type InMemory struct {
	mu       sync.RWMutex
	licences map[int64]*models.Licence
	numbers  map[string]int64
	nextID   int64
}

func NewInMemory() *InMemory {
	return &InMemory{
		licences: make(map[int64]*models.Licence),
		numbers:  make(map[string]int64),
	}
}

// Create inserts a licence and returns its id. Licence numbers are unique.
func (s *InMemory) Create(_ context.Context, l *models.Licence) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.numbers[l.Number]; taken {
		return 0, sentinel.ErrConflict
	}
	s.nextID++
	stored := *l
	stored.ID = s.nextID
	s.licences[stored.ID] = &stored
	s.numbers[stored.Number] = stored.ID
	return stored.ID, nil
}

func (s *InMemory) FindByID(_ context.Context, id int64) (*models.Licence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.licences[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	found := *l
	return &found, nil
}

func (s *InMemory) Exists(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.licences[id]
	return ok, nil
}

// ListExpiringBefore returns licences whose expiry date is strictly before threshold, ordered by id.
func (s *InMemory) ListExpiringBefore(_ context.Context, threshold time.Time) ([]*models.Licence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Licence
	for _, l := range s.licences {
		if l.ExpiresBefore(threshold) {
			found := *l
			out = append(out, &found)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemory) UpdateAddress(_ context.Context, id int64, address string) error {
	return s.update(id, func(l *models.Licence) { l.Address = address })
}

func (s *InMemory) UpdateEmail(_ context.Context, id int64, email string) error {
	return s.update(id, func(l *models.Licence) { l.Email = email })
}

func (s *InMemory) UpdateExpiryDate(_ context.Context, id int64, expiry time.Time) error {
	return s.update(id, func(l *models.Licence) { l.ExpiryDate = expiry })
}

func (s *InMemory) update(id int64, apply func(*models.Licence)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.licences[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	apply(l)
	return nil
}
