package main

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchRunner_SkipsOverlappingTicks(t *testing.T) {
	var b batchRunner
	release := make(chan struct{})
	var calls atomic.Int32

	slow := func(context.Context) {
		calls.Add(1)
		<-release
	}

	require.True(t, b.Start(context.Background(), slow))
	assert.False(t, b.Start(context.Background(), slow))
	assert.False(t, b.Start(context.Background(), slow))

	close(release)
	b.Wait()
	assert.Equal(t, int32(1), calls.Load())

	// the guard clears once the batch returns
	require.True(t, b.Start(context.Background(), func(context.Context) { calls.Add(1) }))
	b.Wait()
	assert.Equal(t, int32(2), calls.Load())
}

func TestBatchRunner_DoesNotBlockCaller(t *testing.T) {
	var b batchRunner
	release := make(chan struct{})
	defer func() {
		close(release)
		b.Wait()
	}()

	done := make(chan bool, 1)
	go func() { done <- b.Start(context.Background(), func(context.Context) { <-release }) }()

	select {
	case started := <-done:
		assert.True(t, started)
	case <-time.After(time.Second):
		t.Fatal("Start blocked on a running batch")
	}
}

func TestBatchRunner_PassesContext(t *testing.T) {
	var b batchRunner
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var sawCanceled atomic.Bool
	require.True(t, b.Start(ctx, func(ctx context.Context) { sawCanceled.Store(ctx.Err() != nil) }))
	b.Wait()
	assert.True(t, sawCanceled.Load())
}
