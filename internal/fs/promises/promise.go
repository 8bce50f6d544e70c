package promises

import (
	"context"
	"fmt"
)

// Promise is the eventual result of an asynchronous operation. It settles
// exactly once; Await may be called any number of times from any
// goroutine.
type Promise[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Go runs fn on a new goroutine and returns a promise for its result. A
// panic in fn rejects the promise.
func Go[T any](fn func() (T, error)) *Promise[T] {
	p := &Promise[T]{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		defer func() {
			if r := recover(); r != nil {
				p.err = fmt.Errorf("promise panicked: %v", r)
			}
		}()
		p.value, p.err = fn()
	}()
	return p
}

// Resolved returns an already fulfilled promise.
func Resolved[T any](v T) *Promise[T] {
	p := &Promise[T]{done: make(chan struct{}), value: v}
	close(p.done)
	return p
}

// Rejected returns an already rejected promise.
func Rejected[T any](err error) *Promise[T] {
	p := &Promise[T]{done: make(chan struct{}), err: err}
	close(p.done)
	return p
}

// Done is closed once the promise has settled.
func (p *Promise[T]) Done() <-chan struct{} {
	return p.done
}

// Await blocks until the promise settles or ctx is done. Abandoning the
// wait does not cancel the underlying operation.
func (p *Promise[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then chains a transformation onto p. fn only runs if p fulfils.
func Then[T, U any](p *Promise[T], fn func(T) (U, error)) *Promise[U] {
	return Go(func() (U, error) {
		<-p.done
		if p.err != nil {
			var zero U
			return zero, p.err
		}
		return fn(p.value)
	})
}

// All waits for every promise and returns their values in order, or the
// first rejection in argument order.
func All[T any](ctx context.Context, ps ...*Promise[T]) ([]T, error) {
	out := make([]T, len(ps))
	for i, p := range ps {
		v, err := p.Await(ctx)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Result is one outcome reported by AllSettled.
type Result[T any] struct {
	Value T
	Err   error
}

// AllSettled waits for every promise and reports each outcome.
func AllSettled[T any](ctx context.Context, ps ...*Promise[T]) ([]Result[T], error) {
	out := make([]Result[T], len(ps))
	for i, p := range ps {
		select {
		case <-p.done:
			out[i] = Result[T]{Value: p.value, Err: p.err}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return out, nil
}
