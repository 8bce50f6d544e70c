package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imaitland/llrt/internal/monitoring"
)

func newTestRuntime(t *testing.T, opts ...Option) *Runtime {
	t.Helper()
	rt, err := New(DefaultConfig(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { rt.Close() })
	return rt
}

func run(t *testing.T, rt *Runtime, script string) interface{} {
	t.Helper()
	result, err := rt.Execute(context.Background(), "test.js", script)
	require.NoError(t, err)
	return result.Value
}

func TestRuntimeExecution(t *testing.T) {
	rt := newTestRuntime(t)

	tests := []struct {
		name   string
		script string
		want   interface{}
	}{
		{"simple return", "42", int64(42)},
		{"math operations", "Math.max(2, 4)", int64(4)},
		{"string operations", "'hello'.toUpperCase()", "HELLO"},
		{"undefined", "undefined", nil},
		{"resolved promise", "Promise.resolve('done')", "done"},
		{"async function", "(async () => { await null; return 7 })()", int64(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, run(t, rt, tt.script))
		})
	}
}

func TestRuntimeResultMetadata(t *testing.T) {
	rt := newTestRuntime(t)

	result, err := rt.Execute(context.Background(), "test.js", "1")
	require.NoError(t, err)
	assert.NotEmpty(t, result.ID)
	assert.Positive(t, result.Duration)
	assert.Nil(t, result.Error)
}

func TestRuntimeTimeout(t *testing.T) {
	config := DefaultConfig()
	config.Timeout = 100 * time.Millisecond
	rt, err := New(config)
	require.NoError(t, err)
	defer rt.Close()

	result, err := rt.Execute(context.Background(), "loop.js", `
		let i = 0;
		while(true) {
			i++;
		}
	`)
	assert.ErrorIs(t, err, ErrTimeout)
	require.NotNil(t, result)
	assert.ErrorIs(t, result.Error, ErrTimeout)

	// Pending timers count against the timeout too.
	_, err = rt.Execute(context.Background(), "timer.js", "setTimeout(() => {}, 10000)")
	assert.ErrorIs(t, err, ErrTimeout)

	// The runtime stays usable.
	result, err = rt.Execute(context.Background(), "after.js", "'ok'")
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Value)
}

func TestRuntimeCancelled(t *testing.T) {
	rt := newTestRuntime(t)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := rt.Execute(ctx, "loop.js", "while(true) {}")
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestRuntimeConsoleCapture(t *testing.T) {
	rt := newTestRuntime(t)

	result, err := rt.Execute(context.Background(), "console.js", `
		console.log('info message', 42, { a: 1 });
		console.warn('warning message');
		console.error(Buffer.from('he'));
		'done'
	`)
	require.NoError(t, err)
	require.Len(t, result.Console, 3)

	assert.Equal(t, "log", result.Console[0].Level)
	assert.Equal(t, `info message 42 {"a":1}`, result.Console[0].Message)
	assert.Equal(t, "warn", result.Console[1].Level)
	assert.Equal(t, "error", result.Console[2].Level)
	assert.Equal(t, "<Buffer 68 65>", result.Console[2].Message)
}

func TestRuntimeConsoleDisabled(t *testing.T) {
	config := DefaultConfig()
	config.EnableConsole = false
	rt, err := New(config)
	require.NoError(t, err)
	defer rt.Close()

	result, err := rt.Execute(context.Background(), "console.js", "console.log('x'); 1")
	require.NoError(t, err)
	assert.Empty(t, result.Console)
}

func TestRuntimeErrors(t *testing.T) {
	rt := newTestRuntime(t)
	ctx := context.Background()

	_, err := rt.Execute(ctx, "throw.js", "throw new TypeError('bad input')")
	var se *ScriptError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "TypeError", se.Name)
	assert.Equal(t, "bad input", se.Message)
	assert.False(t, se.Unhandled)

	_, err = rt.Execute(ctx, "reject.js", "Promise.reject(new RangeError('nope'))")
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "RangeError", se.Name)
	assert.False(t, se.Unhandled)

	_, err = rt.Execute(ctx, "unhandled.js", "Promise.reject(new Error('lost')); 1")
	require.ErrorAs(t, err, &se)
	assert.True(t, se.Unhandled)
	assert.Equal(t, "Uncaught (in promise) Error: lost", se.Error())

	_, err = rt.Execute(ctx, "handled.js", "Promise.reject(new Error('caught')).catch(() => {}); 1")
	assert.NoError(t, err)

	_, err = rt.Execute(ctx, "syntax.js", "let = ;")
	assert.Error(t, err)
}

func TestRuntimeTimers(t *testing.T) {
	rt := newTestRuntime(t)

	got := run(t, rt, `
		const order = [];
		new Promise((resolve) => {
			setTimeout(() => order.push('b'), 20);
			setTimeout(() => order.push('a'), 0);
			const cancelled = setTimeout(() => order.push('never'), 5);
			clearTimeout(cancelled);
			setTimeout(() => resolve(order), 40);
		})
	`)
	assert.Equal(t, []interface{}{"a", "b"}, got)

	got = run(t, rt, `
		new Promise((resolve) => {
			let n = 0;
			const h = setInterval(() => {
				n++;
				if (n === 3) {
					clearInterval(h);
					resolve(n);
				}
			}, 1);
		})
	`)
	assert.Equal(t, int64(3), got)

	got = run(t, rt, `
		const seen = [];
		process.nextTick((v) => seen.push(v), 'tick');
		queueMicrotask(() => seen.push('micro'));
		Promise.resolve().then(() => seen)
	`)
	assert.Equal(t, []interface{}{"tick", "micro"}, got)
}

func TestRuntimeTimerException(t *testing.T) {
	rt := newTestRuntime(t)

	_, err := rt.Execute(context.Background(), "timer.js", "setTimeout(() => { throw new Error('late') }, 1)")
	var se *ScriptError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "late", se.Message)
}

func TestRuntimeModuleGlobals(t *testing.T) {
	rt := newTestRuntime(t)

	got := run(t, rt, `[typeof module.exports, typeof exports, __filename.endsWith('test.js'), process.argv.length >= 2]`)
	assert.Equal(t, []interface{}{"object", "object", true, true}, got)
}

func TestRuntimeReset(t *testing.T) {
	rt := newTestRuntime(t)

	run(t, rt, "globalThis.leftover = 1")
	assert.Equal(t, "number", run(t, rt, "typeof leftover"))

	require.NoError(t, rt.Reset())
	assert.Equal(t, "undefined", run(t, rt, "typeof leftover"))
}

func TestRuntimeClosed(t *testing.T) {
	rt, err := New(DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, rt.Close())

	_, err = rt.Execute(context.Background(), "test.js", "1")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, rt.Reset(), ErrClosed)
}

func TestRuntimeMetrics(t *testing.T) {
	metrics := monitoring.NewMetrics()
	rt := newTestRuntime(t, WithMetrics(metrics))

	run(t, rt, "require('fs/promises').readdir('testdata/.cargo')")
	_, err := rt.Execute(context.Background(), "fail.js", "require('fs/promises').readFile('testdata/nothing')")
	require.Error(t, err)

	snap := metrics.Snapshot()
	assert.Equal(t, int64(1), snap.Ops["readdir"])
	assert.Equal(t, int64(1), snap.Ops["readFile"])
	assert.Equal(t, int64(1), snap.Errors["NotFound"])
	assert.Equal(t, int64(1), snap.Scripts["success"])
	assert.Equal(t, int64(1), snap.Scripts["error"])
	assert.Equal(t, int64(0), snap.Inflight)
}
