package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "renewal-gateway/pkg/domain-errors"
)

type createRequest struct {
	LicenceID int64   `form:"licenceId" validate:"required,gt=0"`
	Email     string  `form:"email" validate:"required,email,max=254"`
	Address   *string `form:"address" validate:"omitempty,max=12"`
	OwnedBy   *string `form:"ownedBy" validate:"omitnil,min=1"`
}

func TestStruct(t *testing.T) {
	t.Run("valid request passes", func(t *testing.T) {
		require.NoError(t, Struct(&createRequest{LicenceID: 3, Email: "a@b.com"}))
	})

	t.Run("missing fields are reported by form name", func(t *testing.T) {
		err := Struct(&createRequest{})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
		assert.Contains(t, err.Error(), "licenceId is required")
		assert.Contains(t, err.Error(), "email is required")
	})

	t.Run("bad email is rejected", func(t *testing.T) {
		err := Struct(&createRequest{LicenceID: 1, Email: "not-an-email"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "email must be a valid email address")
	})

	t.Run("optional pointer is length checked when present", func(t *testing.T) {
		long := "this address is far too long"
		err := Struct(&createRequest{LicenceID: 1, Email: "a@b.com", Address: &long})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "address must be at most 12 characters")
	})

	t.Run("present but empty pointer fails min", func(t *testing.T) {
		empty := ""
		err := Struct(&createRequest{LicenceID: 1, Email: "a@b.com", OwnedBy: &empty})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ownedBy must be at least 1 characters")
	})

	t.Run("nil request is rejected", func(t *testing.T) {
		assert.True(t, dErrors.HasCode(Struct(nil), dErrors.CodeBadRequest))
	})
}
