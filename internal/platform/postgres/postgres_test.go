package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "renewal-gateway/pkg/domain-errors"
)

func TestIsUniqueViolation(t *testing.T) {
	wrapped := fmt.Errorf("insert renewal: %w", &pq.Error{Code: "23505"})

	assert.True(t, IsUniqueViolation(wrapped))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.True(t, IsForeignKeyViolation(&pq.Error{Code: "23503"}))
}

func TestRunInTxRejectsCancelledContext(t *testing.T) {
	runner := NewTxRunner(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := runner.RunInTx(ctx, func(ctx context.Context) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
	assert.False(t, called)
}
