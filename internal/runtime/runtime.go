package runtime

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/imaitland/llrt/internal/fs"
	"github.com/imaitland/llrt/internal/monitoring"
	"github.com/imaitland/llrt/internal/shared/id"
)

// Runtime wraps a goja VM with a Node-compatible module set and an event
// loop that settles asynchronous filesystem calls.
type Runtime struct {
	id      id.RuntimeID
	vm      *goja.Runtime
	config  Config
	engine  *fs.Engine
	log     *zap.Logger
	metrics *monitoring.Metrics
	sem     *semaphore.Weighted
	mu      sync.Mutex

	internals   *internals
	modules     map[string]goja.Value
	fsConstants *goja.Object

	// Per-execution state, touched only on the loop goroutine.
	exec       *execution
	console    []LogEntry
	rejections []*goja.Promise
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithEngine binds the fs modules to engine.
func WithEngine(engine *fs.Engine) Option {
	return func(r *Runtime) {
		r.engine = engine
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Runtime) {
		if log != nil {
			r.log = log
		}
	}
}

// WithMetrics records script runs and in-flight operations.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(r *Runtime) {
		r.metrics = m
	}
}

// New creates a runtime. Without WithEngine the runtime uses fs.Default(),
// or a fresh engine reporting to the metrics collector when one is given.
func New(config Config, opts ...Option) (*Runtime, error) {
	r := &Runtime{
		id:     id.NewRuntimeID(),
		config: config,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.engine == nil {
		if r.metrics != nil {
			r.engine = fs.New(fs.WithLogger(r.log), fs.WithObserver(r.metrics))
		} else {
			r.engine = fs.Default()
		}
	}
	if config.MaxInflight <= 0 {
		config.MaxInflight = DefaultConfig().MaxInflight
	}
	r.sem = semaphore.NewWeighted(config.MaxInflight)
	r.log = r.log.With(zap.String("runtime", r.id.String()))

	if err := r.setup(); err != nil {
		return nil, err
	}
	return r, nil
}

// ID returns the runtime's identifier.
func (r *Runtime) ID() id.RuntimeID {
	return r.id
}

// Engine returns the filesystem engine the fs modules are bound to.
func (r *Runtime) Engine() *fs.Engine {
	return r.engine
}

// setup builds a fresh VM with globals, prelude and module registry.
func (r *Runtime) setup() error {
	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))
	if r.config.MaxCallStackSize > 0 {
		vm.SetMaxCallStackSize(r.config.MaxCallStackSize)
	}
	vm.SetPromiseRejectionTracker(r.trackRejection)

	r.vm = vm
	r.modules = make(map[string]goja.Value)
	r.fsConstants = nil

	if err := r.loadPrelude(r.newHost()); err != nil {
		return err
	}
	if err := vm.Set("require", r.require); err != nil {
		return err
	}
	return vm.Set("process", r.newProcess())
}

// Execute runs a script as a CommonJS module body. The completion value is
// returned once the event loop is idle; a promise completion value is
// unwrapped. The timeout covers pending asynchronous work too.
func (r *Runtime) Execute(ctx context.Context, name, script string) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.vm == nil {
		return nil, ErrClosed
	}

	start := time.Now()
	timer := monitoring.NewTimer(r.metrics)
	result := &Result{
		ID:      id.NewExecutionID().String(),
		Console: []LogEntry{},
	}

	var cancel context.CancelFunc
	if r.config.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	ex := newExecution(ctx)
	r.exec = ex
	r.console = []LogEntry{}
	r.rejections = nil

	// Setup interrupt handler
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			r.vm.Interrupt(ctx.Err())
		case <-stop:
		}
	}()

	val, err := r.run(ex, name, script)

	close(stop)
	wg.Wait()
	ex.finish()
	r.vm.ClearInterrupt()
	r.exec = nil
	r.rejections = nil

	result.Duration = time.Since(start)
	result.Console = r.console
	r.console = nil

	status := "success"
	if err != nil {
		err = classify(ctx, err)
		status = statusOf(err)
		result.Error = err
	} else {
		result.Value = exportValue(val)
	}
	timer.Stop(status)

	r.log.Debug("script finished",
		zap.String("execution", result.ID),
		zap.String("script", name),
		zap.String("status", status),
		zap.Duration("duration", result.Duration),
		zap.Error(err))

	return result, err
}

func (r *Runtime) run(ex *execution, name, script string) (goja.Value, error) {
	if err := r.setScriptGlobals(name); err != nil {
		return nil, err
	}

	val, err := r.vm.RunScript(name, script)
	if err != nil {
		return nil, r.scriptErrorFrom(err)
	}
	if err := r.drain(ex); err != nil {
		return nil, r.scriptErrorFrom(err)
	}

	if val != nil {
		if p, ok := val.Export().(*goja.Promise); ok {
			switch p.State() {
			case goja.PromiseStateFulfilled:
				val = p.Result()
			case goja.PromiseStateRejected:
				r.forgetRejection(p)
				return nil, r.scriptError(p.Result(), "")
			default:
				val = goja.Undefined()
			}
		}
	}

	if len(r.rejections) > 0 {
		se := r.scriptError(r.rejections[0].Result(), "")
		se.Unhandled = true
		return nil, se
	}
	return val, nil
}

// setScriptGlobals installs module, exports, __filename and __dirname for
// the script about to run.
func (r *Runtime) setScriptGlobals(name string) error {
	filename := name
	if abs, err := filepath.Abs(name); err == nil {
		filename = abs
	}

	module := r.vm.NewObject()
	exports := r.vm.NewObject()
	_ = module.Set("exports", exports)
	_ = module.Set("id", ".")
	_ = module.Set("filename", filename)

	for k, v := range map[string]interface{}{
		"module":     module,
		"exports":    exports,
		"__filename": filename,
		"__dirname":  filepath.Dir(filename),
	} {
		if err := r.vm.Set(k, v); err != nil {
			return err
		}
	}

	argv := append([]interface{}{"llrt", filename}, toInterfaces(r.config.Argv)...)
	return r.vm.Get("process").ToObject(r.vm).Set("argv", r.vm.NewArray(argv...))
}

func (r *Runtime) trackRejection(p *goja.Promise, op goja.PromiseRejectionOperation) {
	switch op {
	case goja.PromiseRejectionReject:
		r.rejections = append(r.rejections, p)
	case goja.PromiseRejectionHandle:
		r.forgetRejection(p)
	}
}

func (r *Runtime) forgetRejection(p *goja.Promise) {
	for i, q := range r.rejections {
		if q == p {
			r.rejections = append(r.rejections[:i], r.rejections[i+1:]...)
			return
		}
	}
}

// scriptErrorFrom converts a VM error into a *ScriptError, leaving
// interrupts and context errors for classify.
func (r *Runtime) scriptErrorFrom(err error) error {
	var exc *goja.Exception
	if errors.As(err, &exc) {
		return r.scriptError(exc.Value(), exc.String())
	}
	return err
}

func (r *Runtime) scriptError(v goja.Value, stack string) *ScriptError {
	se := &ScriptError{Stack: stack}
	obj, ok := v.(*goja.Object)
	if !ok {
		se.Message = valueString(v)
		return se
	}
	se.Name = valueString(obj.Get("name"))
	se.Message = valueString(obj.Get("message"))
	se.Code = valueString(obj.Get("code"))
	if s := valueString(obj.Get("stack")); s != "" {
		se.Stack = s
	}
	if se.Name == "" && se.Message == "" {
		se.Message = obj.String()
	}
	return se
}

func classify(ctx context.Context, err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ErrCancelled
	}
	return err
}

func statusOf(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrCancelled):
		return "cancelled"
	default:
		return "error"
	}
}

// makeConsoleFunc records a console call
func (r *Runtime) logConsole(level, msg string) {
	if !r.config.EnableConsole {
		return
	}
	r.console = append(r.console, LogEntry{
		Level:   level,
		Message: msg,
		Time:    time.Now(),
	})
	r.log.Debug("console", zap.String("level", level), zap.String("message", msg))
}

// exportValue converts goja value to Go value
func exportValue(val goja.Value) interface{} {
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return nil
	}
	return val.Export()
}

func valueString(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	return v.String()
}

func toInterfaces(s []string) []interface{} {
	out := make([]interface{}, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

// Reset discards all script state by rebuilding the VM
func (r *Runtime) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.vm == nil {
		return ErrClosed
	}
	return r.setup()
}

// Close releases resources
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.vm = nil
	r.modules = nil
	r.internals = nil
	return nil
}
