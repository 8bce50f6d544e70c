package runtime

import (
	_ "embed"
	"fmt"

	"github.com/dop251/goja"
)

//go:embed prelude.js
var preludeSource string

var preludeProgram = goja.MustCompile("prelude.js", preludeSource, true)

// internals are the prelude's exports the host calls back into.
type internals struct {
	buffer        *goja.Object
	dirent        goja.Value
	stats         goja.Value
	wrap          goja.Callable
	toArrayBuffer goja.Callable
	describe      goja.Callable
	makeFS        goja.Callable
}

// loadPrelude runs the prelude against host and collects its exports.
func (r *Runtime) loadPrelude(host *goja.Object) error {
	factory, err := r.vm.RunProgram(preludeProgram)
	if err != nil {
		return fmt.Errorf("prelude: %w", err)
	}
	fn, ok := goja.AssertFunction(factory)
	if !ok {
		return fmt.Errorf("prelude: factory is not a function")
	}
	exported, err := fn(goja.Undefined(), host)
	if err != nil {
		return fmt.Errorf("prelude: %w", err)
	}
	obj := exported.ToObject(r.vm)

	in := &internals{
		buffer: obj.Get("Buffer").ToObject(r.vm),
		dirent: obj.Get("Dirent"),
		stats:  obj.Get("Stats"),
	}
	for name, dst := range map[string]*goja.Callable{
		"wrap":          &in.wrap,
		"toArrayBuffer": &in.toArrayBuffer,
		"describe":      &in.describe,
		"makeFS":        &in.makeFS,
	} {
		f, ok := goja.AssertFunction(obj.Get(name))
		if !ok {
			return fmt.Errorf("prelude: %s is not a function", name)
		}
		*dst = f
	}
	r.internals = in
	return nil
}
