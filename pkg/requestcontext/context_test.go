package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccessorsDefaultToZeroValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestID(ctx))
	assert.Nil(t, Roles(ctx))
	assert.WithinDuration(t, time.Now(), Now(ctx), time.Second)
}

func TestAccessorsRoundTrip(t *testing.T) {
	fixed := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithRoles(ctx, []string{"officer"})
	ctx = WithTime(ctx, fixed)

	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, []string{"officer"}, Roles(ctx))
	assert.Equal(t, fixed, Now(ctx))
}
