package store

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"renewal-gateway/internal/payment/models"
	"renewal-gateway/pkg/platform/sentinel"
)

// InMemory is a process-local payment store. Like the Postgres schema it
// allows at most one payment per renewal.
type InMemory struct {
	mu        sync.RWMutex
	payments  map[int64]*models.Payment
	byRenewal map[int64]int64
	nextID    int64
}

func NewInMemory() *InMemory {
	return &InMemory{
		payments:  make(map[int64]*models.Payment),
		byRenewal: make(map[int64]int64),
	}
}

func (s *InMemory) Create(_ context.Context, p *models.Payment) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byRenewal[p.RenewalID]; taken {
		return 0, sentinel.ErrConflict
	}
	s.nextID++
	stored := clone(p)
	stored.ID = s.nextID
	s.payments[stored.ID] = stored
	s.byRenewal[stored.RenewalID] = stored.ID
	return stored.ID, nil
}

func (s *InMemory) FindByID(_ context.Context, id int64) (*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(p), nil
}

func (s *InMemory) UpdateAmount(_ context.Context, id int64, amount decimal.Decimal) error {
	return s.update(id, func(p *models.Payment) {
		p.Amount = amount
	})
}

func (s *InMemory) UpdatePaidDate(_ context.Context, id int64, paid time.Time) error {
	return s.update(id, func(p *models.Payment) {
		p.PaidDate = &paid
	})
}

func (s *InMemory) update(id int64, apply func(*models.Payment)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	apply(p)
	return nil
}

func clone(p *models.Payment) *models.Payment {
	c := *p
	if p.PaidDate != nil {
		paid := *p.PaidDate
		c.PaidDate = &paid
	}
	return &c
}
