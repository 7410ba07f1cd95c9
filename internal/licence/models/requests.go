package models

import (
	"strings"

	"renewal-gateway/pkg/civildate"
	dErrors "renewal-gateway/pkg/domain-errors"
)

// UpdateLicenceRequest is the form body of PUT /licences/{id}. Absent fields are nil.
type UpdateLicenceRequest struct {
	Address    *string `form:"address" validate:"omitnil,min=1,max=255"`
	Email      *string `form:"email" validate:"omitnil,email,max=254"`
	ExpiryDate *string `form:"expiryDate"`
}

// Normalize trims whitespace from supplied fields.
func (r *UpdateLicenceRequest) Normalize() {
	trim(r.Address)
	trim(r.Email)
	trim(r.ExpiryDate)
}

// ToUpdate converts the request, parsing the DDMMYYYY expiry date.
func (r *UpdateLicenceRequest) ToUpdate() (Update, error) {
	upd := Update{Address: r.Address, Email: r.Email}
	if r.ExpiryDate != nil {
		expiry, err := civildate.ParseDDMMYYYY(*r.ExpiryDate)
		if err != nil {
			return Update{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "expiryDate must be a valid DDMMYYYY date")
		}
		upd.ExpiryDate = &expiry
	}
	return upd, nil
}

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
