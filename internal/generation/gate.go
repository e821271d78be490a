package generation

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"

	"server/internal/domain"
)

// Gate bounds how many synthesis calls may be in flight process-wide. It is
// constructed explicitly and injected so tests get their own instance.
//
// Acquisition waits for a free slot up to acquireTimeout and then fails with
// domain.ErrBusy, making saturation visible to callers instead of queueing
// them indefinitely. A zero acquireTimeout waits as long as the request
// context allows.
type Gate struct {
	sem            *semaphore.Weighted
	acquireTimeout time.Duration
}

// NewGate creates a gate admitting at most size concurrent holders.
func NewGate(size int64, acquireTimeout time.Duration) *Gate {
	if size < 1 {
		size = 1
	}
	return &Gate{
		sem:            semaphore.NewWeighted(size),
		acquireTimeout: acquireTimeout,
	}
}

// Acquire claims a slot and returns its release func. Exactly one call to
// release is expected; further calls panic inside the semaphore.
func (g *Gate) Acquire(ctx context.Context) (func(), error) {
	acquireCtx := ctx
	if g.acquireTimeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, g.acquireTimeout)
		defer cancel()
	}
	if err := g.sem.Acquire(acquireCtx, 1); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, domain.ErrBusy
	}
	return func() { g.sem.Release(1) }, nil
}
