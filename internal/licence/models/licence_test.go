package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	dErrors "renewal-gateway/pkg/domain-errors"
)

func TestExpiresBefore(t *testing.T) {
	l := &Licence{ExpiryDate: time.Date(2030, time.March, 15, 0, 0, 0, 0, time.UTC)}

	assert.True(t, l.ExpiresBefore(time.Date(2030, time.March, 16, 0, 0, 0, 0, time.UTC)))
	assert.False(t, l.ExpiresBefore(time.Date(2030, time.March, 15, 0, 0, 0, 0, time.UTC)), "same day is not before")
	assert.False(t, l.ExpiresBefore(time.Date(2030, time.March, 15, 23, 0, 0, 0, time.UTC)), "time of day is ignored")
	assert.False(t, l.ExpiresBefore(time.Date(2030, time.March, 14, 0, 0, 0, 0, time.UTC)))
}

func TestUpdateIsEmpty(t *testing.T) {
	assert.True(t, Update{}.IsEmpty())
	email := "a@b.io"
	assert.False(t, Update{Email: &email}.IsEmpty())
}

func TestUpdateLicenceRequestToUpdate(t *testing.T) {
	t.Run("parses expiry date", func(t *testing.T) {
		raw := " 29022028 "
		req := UpdateLicenceRequest{ExpiryDate: &raw}
		req.Normalize()

		upd, err := req.ToUpdate()
		assert.NoError(t, err)
		assert.Equal(t, time.Date(2028, time.February, 29, 0, 0, 0, 0, time.UTC), *upd.ExpiryDate)
		assert.Nil(t, upd.Address)
	})

	t.Run("rejects malformed expiry date", func(t *testing.T) {
		raw := "29022021"
		req := UpdateLicenceRequest{ExpiryDate: &raw}

		_, err := req.ToUpdate()
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func TestToResponse(t *testing.T) {
	resp := ToResponse(&Licence{ID: 3, Number: "L-3", ExpiryDate: time.Date(2030, time.July, 4, 0, 0, 0, 0, time.UTC)})
	assert.Equal(t, "2030-07-04", resp.ExpiryDate)
	assert.Equal(t, int64(3), resp.ID)
}
