package runtime

import (
	"context"
	"time"

	"github.com/dop251/goja"
)

// execution is the event loop state of one Execute call. Every field but
// ctx, jobs and done is owned by the loop goroutine.
type execution struct {
	ctx  context.Context
	jobs chan func() error
	done chan struct{}

	// pending counts promises and timers that will still post a job.
	pending   int
	timers    map[int64]*time.Timer
	nextTimer int64
}

func newExecution(ctx context.Context) *execution {
	return &execution{
		ctx:    ctx,
		jobs:   make(chan func() error, 64),
		done:   make(chan struct{}),
		timers: make(map[int64]*time.Timer),
	}
}

// post queues fn for the loop. Jobs posted after the execution finished
// are dropped.
func (ex *execution) post(fn func() error) {
	select {
	case ex.jobs <- fn:
	case <-ex.done:
	}
}

// finish stops outstanding timers and releases blocked posters.
func (ex *execution) finish() {
	close(ex.done)
	for id, t := range ex.timers {
		t.Stop()
		delete(ex.timers, id)
	}
}

// drain runs posted jobs until nothing is pending. A job error (an uncaught
// exception in a timer callback) or a done context ends the loop.
func (r *Runtime) drain(ex *execution) error {
	for ex.pending > 0 {
		select {
		case job := <-ex.jobs:
			if err := job(); err != nil {
				return err
			}
		case <-ex.ctx.Done():
			return ex.ctx.Err()
		}
	}
	return nil
}

// async runs work off the loop, bounded by the runtime's in-flight limit,
// and returns a promise settled on the loop with convert(result) or the
// JavaScript form of the error.
func (r *Runtime) async(work func(ctx context.Context) (interface{}, error), convert func(interface{}) goja.Value) goja.Value {
	p, resolve, reject := r.vm.NewPromise()

	ex := r.exec
	if ex == nil {
		reject(r.newError("Error", "", ErrClosed.Error()))
		return r.vm.ToValue(p)
	}

	ex.pending++
	if r.metrics != nil {
		r.metrics.IncInflight()
	}

	go func() {
		var (
			v   interface{}
			err error
		)
		if err = r.sem.Acquire(ex.ctx, 1); err == nil {
			v, err = work(ex.ctx)
			r.sem.Release(1)
		}
		if r.metrics != nil {
			r.metrics.DecInflight()
		}

		ex.post(func() error {
			ex.pending--
			if err != nil {
				reject(r.toJSError(err))
				return nil
			}
			resolve(convert(v))
			return nil
		})
	}()

	return r.vm.ToValue(p)
}

// setTimeout backs the prelude's timer globals.
func (r *Runtime) setTimeout(call goja.FunctionCall) goja.Value {
	fn, ok := goja.AssertFunction(call.Argument(0))
	if !ok {
		r.throwArgType("callback", "of type function", call.Argument(0))
	}
	ex := r.exec
	if ex == nil {
		panic(r.newError("Error", "", ErrClosed.Error()))
	}

	delay := time.Duration(call.Argument(1).ToInteger()) * time.Millisecond
	if delay < 0 {
		delay = 0
	}

	ex.nextTimer++
	tid := ex.nextTimer
	ex.pending++
	ex.timers[tid] = time.AfterFunc(delay, func() {
		ex.post(func() error {
			if _, ok := ex.timers[tid]; !ok {
				return nil
			}
			delete(ex.timers, tid)
			ex.pending--
			_, err := fn(goja.Undefined())
			return err
		})
	})
	return r.vm.ToValue(tid)
}

func (r *Runtime) clearTimeout(call goja.FunctionCall) goja.Value {
	ex := r.exec
	if ex == nil {
		return goja.Undefined()
	}
	tid := call.Argument(0).ToInteger()
	if t, ok := ex.timers[tid]; ok {
		t.Stop()
		delete(ex.timers, tid)
		ex.pending--
	}
	return goja.Undefined()
}
