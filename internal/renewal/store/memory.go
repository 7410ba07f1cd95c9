package store

import (
	"context"
	"sort"
	"sync"

	"renewal-gateway/internal/renewal/models"
	"renewal-gateway/pkg/platform/sentinel"
)

// InMemory is a process-local renewal store. It enforces the same uniqueness
// rules as the Postgres schema: one open renewal per licence and each payment
// attached to at most one renewal.
type InMemory struct {
	mu       sync.RWMutex
	renewals map[int64]*models.Renewal
	open     map[int64]int64 // licence id -> open renewal id
	payments map[int64]int64 // payment id -> renewal id
	nextID   int64
}

func NewInMemory() *InMemory {
	return &InMemory{
		renewals: make(map[int64]*models.Renewal),
		open:     make(map[int64]int64),
		payments: make(map[int64]int64),
	}
}

func (s *InMemory) Create(_ context.Context, r *models.Renewal) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.IsOpen() {
		if _, taken := s.open[r.LicenceID]; taken {
			return 0, sentinel.ErrConflict
		}
	}
	s.nextID++
	stored := clone(r)
	stored.ID = s.nextID
	s.renewals[stored.ID] = stored
	if stored.IsOpen() {
		s.open[stored.LicenceID] = stored.ID
	}
	return stored.ID, nil
}

func (s *InMemory) FindByID(_ context.Context, id int64) (*models.Renewal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.renewals[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(r), nil
}

func (s *InMemory) FindOpenByLicence(_ context.Context, licenceID int64) (*models.Renewal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.open[licenceID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(s.renewals[id]), nil
}

func (s *InMemory) ListByStatus(_ context.Context, status models.Status) ([]*models.Renewal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Renewal
	for _, r := range s.renewals {
		if r.Status == status {
			out = append(out, clone(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemory) UpdateAddress(_ context.Context, id int64, address string) error {
	return s.update(id, func(r *models.Renewal) error {
		r.Address = address
		return nil
	})
}

func (s *InMemory) UpdateEmail(_ context.Context, id int64, email string) error {
	return s.update(id, func(r *models.Renewal) error {
		r.Email = email
		return nil
	})
}

func (s *InMemory) UpdateOwnedBy(_ context.Context, id int64, ownedBy string) error {
	return s.update(id, func(r *models.Renewal) error {
		owner := ownedBy
		r.OwnedBy = &owner
		return nil
	})
}

// UpdateStatus moves a renewal to status, keeping the open-renewal index in step.
func (s *InMemory) UpdateStatus(_ context.Context, id int64, status models.Status) error {
	return s.update(id, func(r *models.Renewal) error {
		if status.IsOpen() && !r.IsOpen() {
			if _, taken := s.open[r.LicenceID]; taken {
				return sentinel.ErrConflict
			}
		}
		if r.IsOpen() && !status.IsOpen() {
			delete(s.open, r.LicenceID)
		}
		if status.IsOpen() {
			s.open[r.LicenceID] = r.ID
		}
		r.Status = status
		return nil
	})
}

// AttachPayment links paymentID to a renewal that has no payment yet.
func (s *InMemory) AttachPayment(_ context.Context, id int64, paymentID int64) error {
	return s.update(id, func(r *models.Renewal) error {
		if r.PaymentID != nil {
			return sentinel.ErrNotFound
		}
		if _, taken := s.payments[paymentID]; taken {
			return sentinel.ErrConflict
		}
		pid := paymentID
		r.PaymentID = &pid
		s.payments[paymentID] = r.ID
		return nil
	})
}

func (s *InMemory) update(id int64, apply func(*models.Renewal) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.renewals[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	return apply(r)
}

func clone(r *models.Renewal) *models.Renewal {
	out := *r
	if r.OwnedBy != nil {
		owner := *r.OwnedBy
		out.OwnedBy = &owner
	}
	if r.PaymentID != nil {
		pid := *r.PaymentID
		out.PaymentID = &pid
	}
	return &out
}
