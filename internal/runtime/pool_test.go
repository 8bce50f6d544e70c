package runtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPoolAcquireRelease(t *testing.T) {
	pool, err := NewPool(DefaultConfig(), 2)
	require.NoError(t, err)
	defer pool.Close()

	ctx := context.Background()

	rt, err := pool.Acquire(ctx)
	require.NoError(t, err)
	assert.Equal(t, PoolStats{Size: 2, Available: 1, InUse: 1}, pool.Stats())

	result, err := rt.Execute(ctx, "state.js", "globalThis.leftover = 42; leftover")
	require.NoError(t, err)
	assert.Equal(t, int64(42), result.Value)

	require.NoError(t, pool.Release(rt))
	assert.Equal(t, 2, pool.Stats().Available)

	// Released runtimes come back without script state.
	for i := 0; i < 2; i++ {
		result, err := pool.Execute(ctx, "check.js", "typeof leftover")
		require.NoError(t, err)
		assert.Equal(t, "undefined", result.Value)
	}
}

func TestPoolConcurrentExecute(t *testing.T) {
	pool, err := NewPool(DefaultConfig(), 2)
	require.NoError(t, err)
	defer pool.Close()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := pool.Execute(context.Background(), "readdir.js", "require('fs/promises').readdir('testdata/.cargo')")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestPoolClosed(t *testing.T) {
	pool, err := NewPool(DefaultConfig(), 1)
	require.NoError(t, err)
	require.NoError(t, pool.Close())
	require.NoError(t, pool.Close())

	_, err = pool.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrPoolClosed)
	assert.True(t, pool.Stats().Closed)
}

func TestPoolAcquireContext(t *testing.T) {
	pool, err := NewPool(DefaultConfig(), 1)
	require.NoError(t, err)
	defer pool.Close()

	rt, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	defer pool.Release(rt)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = pool.Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPoolCloseWhileAcquireWaits(t *testing.T) {
	pool, err := NewPool(DefaultConfig(), 1)
	require.NoError(t, err)

	held, err := pool.Acquire(context.Background())
	require.NoError(t, err)

	waiting := make(chan error, 1)
	go func() {
		_, err := pool.Acquire(context.Background())
		waiting <- err
	}()
	time.Sleep(20 * time.Millisecond)

	start := time.Now()
	require.NoError(t, pool.Close())
	assert.Less(t, time.Since(start), time.Second)

	select {
	case err := <-waiting:
		assert.ErrorIs(t, err, ErrPoolClosed)
	case <-time.After(time.Second):
		t.Fatal("Acquire still waiting after Close")
	}
	assert.NoError(t, pool.Release(held))
}

func TestPoolReleaseBrokenRuntime(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	pool, err := NewPool(DefaultConfig(), 1, WithLogger(zap.New(core)))
	require.NoError(t, err)
	defer pool.Close()

	rt, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	require.NoError(t, rt.Close())

	pool.release(rt)

	entries := logs.FilterMessage("failed to release runtime").All()
	require.Len(t, entries, 1)
	assert.Equal(t, rt.ID().String(), entries[0].ContextMap()["runtime"])
	assert.Equal(t, "pool", entries[0].LoggerName)

	// The broken runtime was replaced.
	assert.Equal(t, 1, pool.Stats().Available)
	result, err := pool.Execute(context.Background(), "after.js", "'ok'")
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Value)
}
