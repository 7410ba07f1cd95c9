package models

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "renewal-gateway/pkg/domain-errors"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
		ok   bool
	}{
		{raw: "PENDING", want: StatusPending, ok: true},
		{raw: "processing", want: StatusProcessing, ok: true},
		{raw: " Completed ", want: StatusCompleted, ok: true},
		{raw: "bogus"},
		{raw: ""},
		{raw: "PENDING,COMPLETED"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseStatus(tt.raw)
			if !tt.ok {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStatusFailsClosed(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("accepted strings always name a known status", prop.ForAll(
		func(raw string) bool {
			s, err := ParseStatus(raw)
			if err != nil {
				return s == ""
			}
			for _, known := range Statuses {
				if s == known {
					return true
				}
			}
			return false
		},
		gen.AnyString(),
	))
	properties.TestingRun(t)
}

func TestCanTransition(t *testing.T) {
	for _, from := range Statuses {
		for _, to := range Statuses {
			want := from != StatusCompleted || to == StatusCompleted
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.False(t, CanTransition(StatusCompleted, StatusPending))
	assert.True(t, CanTransition(StatusPending, StatusCompleted))
}

func TestUpdateRenewalRequestToUpdate(t *testing.T) {
	status := " processing "
	owner := " officer-7 "
	req := UpdateRenewalRequest{Status: &status, OwnedBy: &owner}
	req.Normalize()

	upd, err := req.ToUpdate()
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, *upd.Status)
	assert.Equal(t, "officer-7", *upd.OwnedBy)

	bad := "DONE"
	_, err = (&UpdateRenewalRequest{Status: &bad}).ToUpdate()
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestCreateRenewalRequestLicenceID(t *testing.T) {
	req := CreateRenewalRequest{LicenceID: " 12 "}
	req.Normalize()
	id, err := req.ParsedLicenceID()
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	_, err = (&CreateRenewalRequest{LicenceID: "twelve"}).ParsedLicenceID()
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}
