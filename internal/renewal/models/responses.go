package models

import "encoding/xml"

// RenewalResponse is the wire form of a renewal.
type RenewalResponse struct {
	XMLName   xml.Name `json:"-" xml:"renewal"`
	ID        int64    `json:"id" xml:"id"`
	LicenceID int64    `json:"licenceId" xml:"licenceId"`
	Address   string   `json:"address" xml:"address"`
	Email     string   `json:"email" xml:"email"`
	Status    Status   `json:"status" xml:"status"`
	OwnedBy   *string  `json:"ownedBy,omitempty" xml:"ownedBy,omitempty"`
	PaymentID *int64   `json:"paymentId,omitempty" xml:"paymentId,omitempty"`
}

// RenewalList wraps a list for XML output. JSON lists are bare arrays.
type RenewalList struct {
	XMLName  xml.Name          `xml:"renewals"`
	Renewals []RenewalResponse `xml:"renewal"`
}

func ToResponse(r *Renewal) RenewalResponse {
	return RenewalResponse{
		ID:        r.ID,
		LicenceID: r.LicenceID,
		Address:   r.Address,
		Email:     r.Email,
		Status:    r.Status,
		OwnedBy:   r.OwnedBy,
		PaymentID: r.PaymentID,
	}
}

func ToResponses(renewals []*Renewal) []RenewalResponse {
	out := make([]RenewalResponse, 0, len(renewals))
	for _, r := range renewals {
		out = append(out, ToResponse(r))
	}
	return out
}
