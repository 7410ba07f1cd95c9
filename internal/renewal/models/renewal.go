package models

import (
	"strings"

	dErrors "renewal-gateway/pkg/domain-errors"
)

// Status is the lifecycle state of a renewal. COMPLETED is terminal.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []Status{StatusPending, StatusProcessing, StatusCompleted}

// ParseStatus matches raw case-insensitively against the known statuses.
// Anything else, including the empty string, is rejected.
func ParseStatus(raw string) (Status, error) {
	candidate := Status(strings.ToUpper(strings.TrimSpace(raw)))
	for _, s := range Statuses {
		if s == candidate {
			return s, nil
		}
	}
	return "", dErrors.New(dErrors.CodeBadRequest, "status must be one of PENDING, PROCESSING, COMPLETED")
}

// IsOpen reports whether a renewal in this status still blocks new renewals for its licence.
func (s Status) IsOpen() bool {
	return s != StatusCompleted
}

// Renewal is a request to extend a licence. At most one open renewal exists per licence.
type Renewal struct {
	ID        int64
	LicenceID int64
	Address   string
	Email     string
	Status    Status
	OwnedBy   *string
	PaymentID *int64
}

// IsOpen reports whether the renewal has not been completed.
func (r *Renewal) IsOpen() bool {
	return r.Status.IsOpen()
}

// HasPayment reports whether a payment has been attached.
func (r *Renewal) HasPayment() bool {
	return r.PaymentID != nil
}

// Update carries the fields supplied on a partial update. Nil means "leave as is".
type Update struct {
	Address *string
	Email   *string
	Status  *Status
	OwnedBy *string
}

func (u Update) IsEmpty() bool {
	return u.Address == nil && u.Email == nil && u.Status == nil && u.OwnedBy == nil
}

// CanTransition reports whether a renewal in from may move to to.
// Completed renewals stay completed.
func CanTransition(from, to Status) bool {
	return from != StatusCompleted || to == StatusCompleted
}
