package models

import "time"

// Licence is a driving-licence record. Licences are created outside this
// service; only address, email and expiry date change here.
type Licence struct {
	ID           int64
	Number       string
	Name         string
	LicenceClass string
	Address      string
	Email        string
	ExpiryDate   time.Time
}

// Update carries the fields supplied on a partial update. Nil means "leave as is".
type Update struct {
	Address    *string
	Email      *string
	ExpiryDate *time.Time
}

// IsEmpty reports whether the update would write nothing.
func (u Update) IsEmpty() bool {
	return u.Address == nil && u.Email == nil && u.ExpiryDate == nil
}

// ExpiresBefore reports whether the licence expires strictly before threshold,
// comparing calendar dates only.
func (l *Licence) ExpiresBefore(threshold time.Time) bool {
	return civil(l.ExpiryDate).Before(civil(threshold))
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
