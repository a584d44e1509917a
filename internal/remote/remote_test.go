package remote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"teakspice-catalog/internal/apperr"
)

func fastPolicy() Policy {
	return Policy{Timeout: 50 * time.Millisecond, Retries: 1, InitialBackoff: time.Millisecond, Logger: zap.NewNop()}
}

func TestDo_Success(t *testing.T) {
	calls := 0
	err := fastPolicy().Do(context.Background(), "op", func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesNetworkOnce(t *testing.T) {
	calls := 0
	err := fastPolicy().Do(context.Background(), "op", func(context.Context) error {
		calls++
		if calls == 1 {
			return apperr.Network("flaky", nil)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDo_GivesUpAfterSingleRetry(t *testing.T) {
	calls := 0
	err := fastPolicy().Do(context.Background(), "save cart", func(context.Context) error {
		calls++
		return errors.New("connection refused")
	})
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.True(t, apperr.Is(err, apperr.KindNetwork))
	assert.Contains(t, err.Error(), "save cart")
}

func TestDo_DomainErrorNotRetried(t *testing.T) {
	calls := 0
	err := fastPolicy().Do(context.Background(), "op", func(context.Context) error {
		calls++
		return apperr.OutOfStock("sold out")
	})
	assert.True(t, apperr.Is(err, apperr.KindOutOfStock))
	assert.Equal(t, 1, calls)
}

func TestDo_AttemptTimeout(t *testing.T) {
	calls := 0
	err := fastPolicy().Do(context.Background(), "slow", func(ctx context.Context) error {
		calls++
		<-ctx.Done()
		return ctx.Err()
	})
	assert.True(t, apperr.Is(err, apperr.KindNetwork))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 2, calls)
}

func TestDo_CancelledParentStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := fastPolicy().Do(ctx, "op", func(context.Context) error {
		calls++
		cancel()
		return apperr.Network("down", nil)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, uint64(1), p.Retries)
	assert.Positive(t, p.Timeout)
}
