package models

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"renewal-gateway/pkg/civildate"
	dErrors "renewal-gateway/pkg/domain-errors"
)

// maxAmount is the first value that does not fit NUMERIC(12, 2).
var maxAmount = decimal.New(1, 10)

// CreatePaymentRequest is the form body of POST /payments.
type CreatePaymentRequest struct {
	RenewalID string `form:"renewalId" validate:"required"`
	Amount    string `form:"amount" validate:"required"`
}

func (r *CreatePaymentRequest) Normalize() {
	r.RenewalID = strings.TrimSpace(r.RenewalID)
	r.Amount = strings.TrimSpace(r.Amount)
}

// Parse returns the renewal id and amount.
func (r *CreatePaymentRequest) Parse() (int64, decimal.Decimal, error) {
	renewalID, err := strconv.ParseInt(r.RenewalID, 10, 64)
	if err != nil {
		return 0, decimal.Decimal{}, dErrors.New(dErrors.CodeBadRequest, "renewalId must be an integer")
	}
	amount, err := ParseAmount(r.Amount)
	if err != nil {
		return 0, decimal.Decimal{}, err
	}
	return renewalID, amount, nil
}

// UpdatePaymentRequest is the form body of PUT /payments/{id}. Absent fields are nil.
type UpdatePaymentRequest struct {
	Amount   *string `form:"amount" validate:"omitnil,min=1"`
	PaidDate *string `form:"paidDate" validate:"omitnil,min=1"`
}

func (r *UpdatePaymentRequest) Normalize() {
	for _, field := range []*string{r.Amount, r.PaidDate} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
}

// ToUpdate converts the request, parsing the amount and the DDMMYYYY paid date.
func (r *UpdatePaymentRequest) ToUpdate() (Update, error) {
	var upd Update
	if r.Amount != nil {
		amount, err := ParseAmount(*r.Amount)
		if err != nil {
			return Update{}, err
		}
		upd.Amount = &amount
	}
	if r.PaidDate != nil {
		paid, err := civildate.ParseDDMMYYYY(*r.PaidDate)
		if err != nil {
			return Update{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "paidDate must be a valid DDMMYYYY date")
		}
		upd.PaidDate = &paid
	}
	return upd, nil
}

// ParseAmount accepts a non-negative decimal with at most two fractional digits.
func ParseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, dErrors.New(dErrors.CodeBadRequest, "amount must be a decimal number")
	}
	switch {
	case amount.IsNegative():
		return decimal.Decimal{}, dErrors.New(dErrors.CodeBadRequest, "amount must not be negative")
	case !amount.Equal(amount.Round(2)):
		return decimal.Decimal{}, dErrors.New(dErrors.CodeBadRequest, "amount must have at most two decimal places")
	case amount.GreaterThanOrEqual(maxAmount):
		return decimal.Decimal{}, dErrors.New(dErrors.CodeBadRequest, "amount is too large")
	}
	return amount, nil
}
