package models

import (
	"strconv"
	"strings"

	dErrors "renewal-gateway/pkg/domain-errors"
)

// CreateRenewalRequest is the form body of POST /renewals.
type CreateRenewalRequest struct {
	LicenceID string `form:"licenceId" validate:"required"`
	Address   string `form:"address" validate:"required,max=255"`
	Email     string `form:"email" validate:"required,email,max=254"`
}

func (r *CreateRenewalRequest) Normalize() {
	r.LicenceID = strings.TrimSpace(r.LicenceID)
	r.Address = strings.TrimSpace(r.Address)
	r.Email = strings.TrimSpace(r.Email)
}

// ParsedLicenceID returns the licence id as an integer.
func (r *CreateRenewalRequest) ParsedLicenceID() (int64, error) {
	id, err := strconv.ParseInt(r.LicenceID, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeBadRequest, "licenceId must be an integer")
	}
	return id, nil
}

// UpdateRenewalRequest is the form body of PUT /renewals/{id}. Absent fields are nil.
type UpdateRenewalRequest struct {
	Address *string `form:"address" validate:"omitnil,min=1,max=255"`
	Email   *string `form:"email" validate:"omitnil,email,max=254"`
	Status  *string `form:"status"`
	OwnedBy *string `form:"ownedBy" validate:"omitnil,max=255"`
}

func (r *UpdateRenewalRequest) Normalize() {
	for _, field := range []*string{r.Address, r.Email, r.Status, r.OwnedBy} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
}

// ToUpdate converts the request, parsing the status when supplied.
func (r *UpdateRenewalRequest) ToUpdate() (Update, error) {
	upd := Update{Address: r.Address, Email: r.Email, OwnedBy: r.OwnedBy}
	if r.Status != nil {
		status, err := ParseStatus(*r.Status)
		if err != nil {
			return Update{}, err
		}
		upd.Status = &status
	}
	return upd, nil
}
