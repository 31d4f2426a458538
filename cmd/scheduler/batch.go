package main

import (
	"context"
	"sync"
	"sync/atomic"
)

// batchRunner runs at most one notification batch at a time off the
// scheduler loop, so a slow send never delays the lock timer.
type batchRunner struct {
	running atomic.Bool
	wg      sync.WaitGroup
}

// Start launches fn in a goroutine. It reports false and does nothing when
// the previous batch is still running.
func (b *batchRunner) Start(ctx context.Context, fn func(context.Context)) bool {
	if !b.running.CompareAndSwap(false, true) {
		return false
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer b.running.Store(false)
		fn(ctx)
	}()
	return true
}

// Wait blocks until the in-flight batch, if any, returns.
func (b *batchRunner) Wait() {
	b.wg.Wait()
}
