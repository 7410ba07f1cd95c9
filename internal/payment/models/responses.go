package models

import (
	"encoding/xml"

	"renewal-gateway/pkg/civildate"
)

// PaymentResponse is the wire form of a payment. Amounts are fixed two-place strings.
type PaymentResponse struct {
	XMLName   xml.Name `json:"-" xml:"payment"`
	ID        int64    `json:"id" xml:"id"`
	RenewalID int64    `json:"renewalId" xml:"renewalId"`
	Amount    string   `json:"amount" xml:"amount"`
	PaidDate  string   `json:"paidDate,omitempty" xml:"paidDate,omitempty"`
}

func ToResponse(p *Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:        p.ID,
		RenewalID: p.RenewalID,
		Amount:    p.Amount.StringFixed(2),
	}
	if p.PaidDate != nil {
		resp.PaidDate = civildate.FormatISO(*p.PaidDate)
	}
	return resp
}
