package runtime

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrPoolClosed     = errors.New("runtime pool is closed")
	ErrAcquireTimeout = errors.New("runtime acquisition timeout")
)

// Pool manages a pool of reusable runtimes. A released runtime is reset
// before it is handed out again, so executions never share script state.
type Pool struct {
	config   Config
	opts     []Option
	runtimes chan *Runtime
	size     int
	wait     time.Duration
	log      *zap.Logger
	mu       sync.RWMutex
	closed   bool
}

// NewPool creates a runtime pool. opts apply to every runtime it creates.
func NewPool(config Config, size int, opts ...Option) (*Pool, error) {
	if size <= 0 {
		size = 4
	}

	pool := &Pool{
		config:   config,
		opts:     opts,
		runtimes: make(chan *Runtime, size),
		size:     size,
		wait:     5 * time.Second,
		log:      optionLogger(opts).Named("pool"),
	}

	// Pre-create runtimes
	for i := 0; i < size; i++ {
		rt, err := New(config, opts...)
		if err != nil {
			pool.Close()
			return nil, err
		}
		pool.runtimes <- rt
	}

	return pool, nil
}

// optionLogger returns the logger opts would give a runtime.
func optionLogger(opts []Option) *zap.Logger {
	scratch := &Runtime{log: zap.NewNop()}
	for _, opt := range opts {
		opt(scratch)
	}
	return scratch.log
}

// Acquire gets a runtime from the pool with timeout. The wait does not hold
// the pool lock, so Close is never blocked by a waiting caller.
func (p *Pool) Acquire(ctx context.Context) (*Runtime, error) {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return nil, ErrPoolClosed
	}

	timer := time.NewTimer(p.wait)
	defer timer.Stop()

	select {
	case rt, ok := <-p.runtimes:
		if !ok {
			return nil, ErrPoolClosed
		}
		return rt, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, ErrAcquireTimeout
	}
}

// Release returns a runtime to the pool
func (p *Pool) Release(rt *Runtime) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return rt.Close()
	}

	if err := rt.Reset(); err != nil {
		rt.Close()
		// Replace the broken runtime
		if fresh, newErr := New(p.config, p.opts...); newErr == nil {
			select {
			case p.runtimes <- fresh:
			default:
				fresh.Close()
			}
		}
		return err
	}

	select {
	case p.runtimes <- rt:
		return nil
	default:
		// Pool full, close runtime
		return rt.Close()
	}
}

// Execute runs script on a pooled runtime
func (p *Pool) Execute(ctx context.Context, name, script string) (*Result, error) {
	rt, err := p.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.release(rt)

	return rt.Execute(ctx, name, script)
}

// release is Release for callers with nowhere to return the error.
func (p *Pool) release(rt *Runtime) {
	if err := p.Release(rt); err != nil {
		p.log.Warn("failed to release runtime",
			zap.String("runtime", rt.ID().String()),
			zap.Error(err))
	}
}

// Close closes the pool and all idle runtimes
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true
	close(p.runtimes)

	for rt := range p.runtimes {
		rt.Close()
	}

	return nil
}

// PoolStats is a point-in-time view of pool occupancy.
type PoolStats struct {
	Size      int  `json:"size"`
	Available int  `json:"available"`
	InUse     int  `json:"in_use"`
	Closed    bool `json:"closed"`
}

// Stats returns pool statistics
func (p *Pool) Stats() PoolStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return PoolStats{
		Size:      p.size,
		Available: len(p.runtimes),
		InUse:     p.size - len(p.runtimes),
		Closed:    p.closed,
	}
}
