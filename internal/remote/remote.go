// Package remote runs mutations against remote state with a per-attempt
// timeout and a bounded retry on network failures.
package remote

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"teakspice-catalog/internal/apperr"
)

type Policy struct {
	Timeout        time.Duration
	Retries        uint64
	InitialBackoff time.Duration
	Logger         *zap.Logger
}

func DefaultPolicy() Policy {
	return Policy{
		Timeout:        5 * time.Second,
		Retries:        1,
		InitialBackoff: 200 * time.Millisecond,
	}
}

// Do calls fn until it succeeds, fails with a non-network error, or the retry
// budget is spent. Errors without an apperr kind are treated as network
// failures. fn must be safe to repeat.
func (p Policy) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	exp := backoff.NewExponentialBackOff()
	if p.InitialBackoff > 0 {
		exp.InitialInterval = p.InitialBackoff
	}
	exp.MaxElapsedTime = 0
	b := backoff.WithContext(backoff.WithMaxRetries(exp, p.Retries), ctx)

	attempt := func() error {
		err := p.attempt(ctx, op, fn)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !apperr.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		if p.Logger != nil {
			p.Logger.Warn("retrying remote call", zap.String("op", op), zap.Duration("wait", wait), zap.Error(err))
		}
	}
	return backoff.RetryNotify(attempt, b, notify)
}

func (p Policy) attempt(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	err := fn(ctx)
	if err == nil {
		return nil
	}
	if apperr.KindOf(err) == apperr.KindUnknown {
		return apperr.Network(op, err)
	}
	return err
}
