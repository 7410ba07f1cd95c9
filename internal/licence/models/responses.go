package models

import (
	"encoding/xml"

	"renewal-gateway/pkg/civildate"
)

// LicenceResponse is the wire form of a licence. Dates are ISO-8601.
type LicenceResponse struct {
	XMLName      xml.Name `json:"-" xml:"licence"`
	ID           int64    `json:"id" xml:"id"`
	Number       string   `json:"number" xml:"number"`
	Name         string   `json:"name" xml:"name"`
	LicenceClass string   `json:"licenceClass" xml:"licenceClass"`
	Address      string   `json:"address" xml:"address"`
	Email        string   `json:"email" xml:"email"`
	ExpiryDate   string   `json:"expiryDate" xml:"expiryDate"`
}

// LicenceList wraps a list for XML output. JSON lists are bare arrays.
type LicenceList struct {
	XMLName  xml.Name          `xml:"licences"`
	Licences []LicenceResponse `xml:"licence"`
}

func ToResponse(l *Licence) LicenceResponse {
	return LicenceResponse{
		ID:           l.ID,
		Number:       l.Number,
		Name:         l.Name,
		LicenceClass: l.LicenceClass,
		Address:      l.Address,
		Email:        l.Email,
		ExpiryDate:   civildate.FormatISO(l.ExpiryDate),
	}
}

func ToResponses(licences []*Licence) []LicenceResponse {
	out := make([]LicenceResponse, 0, len(licences))
	for _, l := range licences {
		out = append(out, ToResponse(l))
	}
	return out
}
