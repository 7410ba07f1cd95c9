package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "renewal-gateway/pkg/domain-errors"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "0", want: "0"},
		{raw: "49.5", want: "49.5"},
		{raw: "125.00", want: "125"},
		{raw: "9999999999.99", want: "9999999999.99"},
		{raw: "-1", wantErr: true},
		{raw: "1.005", wantErr: true},
		{raw: "10000000000", wantErr: true},
		{raw: "ten", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseAmount(tt.raw)
			if tt.wantErr {
				assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), got.String())
		})
	}
}

func TestCreatePaymentRequestParse(t *testing.T) {
	req := CreatePaymentRequest{RenewalID: " 4 ", Amount: " 80.25 "}
	req.Normalize()

	renewalID, amount, err := req.Parse()
	require.NoError(t, err)
	assert.Equal(t, int64(4), renewalID)
	assert.Equal(t, "80.25", amount.String())

	bad := CreatePaymentRequest{RenewalID: "four", Amount: "1"}
	_, _, err = bad.Parse()
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestUpdatePaymentRequestToUpdate(t *testing.T) {
	t.Run("absent fields stay nil", func(t *testing.T) {
		upd, err := (&UpdatePaymentRequest{}).ToUpdate()
		require.NoError(t, err)
		assert.True(t, upd.IsEmpty())
	})

	t.Run("parses both fields", func(t *testing.T) {
		amount, paid := "12.50", "29022024"
		upd, err := (&UpdatePaymentRequest{Amount: &amount, PaidDate: &paid}).ToUpdate()
		require.NoError(t, err)
		require.NotNil(t, upd.Amount)
		assert.Equal(t, "12.5", upd.Amount.String())
		require.NotNil(t, upd.PaidDate)
		assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), *upd.PaidDate)
	})

	t.Run("malformed date", func(t *testing.T) {
		paid := "29022023"
		_, err := (&UpdatePaymentRequest{PaidDate: &paid}).ToUpdate()
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func TestToResponse(t *testing.T) {
	paid := time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)
	resp := ToResponse(&Payment{ID: 1, RenewalID: 2, Amount: decimal.RequireFromString("45.5"), PaidDate: &paid})
	assert.Equal(t, "45.50", resp.Amount)
	assert.Equal(t, "2025-07-04", resp.PaidDate)

	unpaid := ToResponse(&Payment{ID: 3, RenewalID: 4, Amount: decimal.Zero})
	assert.Equal(t, "0.00", unpaid.Amount)
	assert.Empty(t, unpaid.PaidDate)
}
