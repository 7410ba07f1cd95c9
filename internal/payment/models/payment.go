package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a monetary record attached to exactly one renewal.
type Payment struct {
	ID        int64
	RenewalID int64
	Amount    decimal.Decimal
	PaidDate  *time.Time
}

// IsPaid reports whether a paid date has been recorded.
func (p *Payment) IsPaid() bool {
	return p.PaidDate != nil
}

// Update carries the fields of a partial payment update. Nil fields are left untouched.
type Update struct {
	Amount   *decimal.Decimal
	PaidDate *time.Time
}

func (u Update) IsEmpty() bool {
	return u.Amount == nil && u.PaidDate == nil
}
