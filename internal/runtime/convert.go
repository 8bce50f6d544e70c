package runtime

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"strconv"
	"strings"

	"github.com/dop251/goja"

	"github.com/imaitland/llrt/internal/encoding"
	"github.com/imaitland/llrt/internal/fs"
)

// newError builds a JavaScript error of the given constructor name with an
// optional Node error code.
func (r *Runtime) newError(ctor, code, msg string) *goja.Object {
	name := ctor
	if r.vm.Get(ctor) == nil {
		ctor = "Error"
	}
	c, ok := goja.AssertConstructor(r.vm.Get(ctor))
	if !ok {
		panic(r.vm.NewTypeError(msg))
	}
	obj, err := c(nil, r.vm.ToValue(msg))
	if err != nil {
		panic(err)
	}
	if name != ctor {
		_ = obj.Set("name", name)
	}
	if code != "" {
		_ = obj.Set("code", code)
	}
	return obj
}

func (r *Runtime) received(v goja.Value) string {
	s, err := r.internals.describe(goja.Undefined(), v)
	if err != nil {
		return "Received " + valueString(v)
	}
	return s.String()
}

// throwArgType throws Node's ERR_INVALID_ARG_TYPE.
func (r *Runtime) throwArgType(name, expected string, v goja.Value) {
	msg := fmt.Sprintf("The %q argument must be %s. %s", name, expected, r.received(v))
	panic(r.newError("TypeError", "ERR_INVALID_ARG_TYPE", msg))
}

// toJSError converts an engine error into the value a promise rejects with.
func (r *Runtime) toJSError(err error) goja.Value {
	var fsErr *fs.Error
	if errors.As(err, &fsErr) {
		obj := r.newError("Error", fsErr.Code, fsErr.Error())
		_ = obj.Set("errno", fsErr.Errno)
		_ = obj.Set("syscall", fsErr.Syscall)
		_ = obj.Set("kind", string(fsErr.Kind))
		if fsErr.Path != "" {
			_ = obj.Set("path", fsErr.Path)
		}
		if fsErr.Dest != "" {
			_ = obj.Set("dest", fsErr.Dest)
		}
		return obj
	}

	var argErr *fs.ArgumentError
	if errors.As(err, &argErr) {
		ctor := "TypeError"
		if argErr.Code == "ERR_OUT_OF_RANGE" {
			ctor = "RangeError"
		}
		return r.newError(ctor, argErr.Code, argErr.Message)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		obj := r.newError("AbortError", "ABORT_ERR", "The operation was aborted")
		return obj
	}

	return r.newError("Error", "", err.Error())
}

// pathArg validates a path argument: a string or a Buffer without NUL
// bytes.
func (r *Runtime) pathArg(v goja.Value, name string) string {
	var p string
	switch {
	case v == nil || goja.IsUndefined(v) || goja.IsNull(v):
		r.throwArgType(name, "of type string or an instance of Buffer or URL", v)
	default:
		if s, ok := v.Export().(string); ok {
			p = s
		} else if b, ok := r.bytesOf(v); ok {
			p = string(b)
		} else {
			r.throwArgType(name, "of type string or an instance of Buffer or URL", v)
		}
	}
	if strings.IndexByte(p, 0) >= 0 {
		msg := fmt.Sprintf("The argument '%s' must be a string, Uint8Array, or URL without null bytes. %s", name, r.received(v))
		panic(r.newError("TypeError", "ERR_INVALID_ARG_VALUE", msg))
	}
	return p
}

// stringArg coerces a required string argument.
func (r *Runtime) stringArg(v goja.Value, name string) string {
	if v != nil {
		if s, ok := v.Export().(string); ok {
			return s
		}
	}
	r.throwArgType(name, "of type string", v)
	return ""
}

// bytesOf copies the contents of an ArrayBuffer or view.
func (r *Runtime) bytesOf(v goja.Value) ([]byte, bool) {
	if _, ok := v.(*goja.Object); !ok {
		return nil, false
	}
	ab, err := r.internals.toArrayBuffer(goja.Undefined(), v)
	if err != nil || goja.IsUndefined(ab) {
		return nil, false
	}
	buf, ok := ab.Export().(goja.ArrayBuffer)
	if !ok {
		return nil, false
	}
	return buf.Bytes(), true
}

// newBuffer wraps b in a Buffer.
func (r *Runtime) newBuffer(b []byte) goja.Value {
	v, err := r.internals.wrap(goja.Undefined(), r.vm.ToValue(r.vm.NewArrayBuffer(b)))
	if err != nil {
		panic(err)
	}
	return v
}

// optionsArg normalizes an options argument. A string is shorthand for
// {encoding}; undefined and null mean no options.
func (r *Runtime) optionsArg(v goja.Value) *goja.Object {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	if s, ok := v.Export().(string); ok {
		obj := r.vm.NewObject()
		_ = obj.Set("encoding", s)
		return obj
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		r.throwArgType("options", "of type object", v)
	}
	return obj
}

func option(opts *goja.Object, key string) goja.Value {
	if opts == nil {
		return nil
	}
	v := opts.Get(key)
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	return v
}

func optBool(opts *goja.Object, key string) bool {
	v := option(opts, key)
	return v != nil && v.ToBoolean()
}

// encodingOption reads options.encoding. It returns "" when none is set and
// "buffer" when Buffers were requested.
func (r *Runtime) encodingOption(opts *goja.Object) encoding.Encoding {
	v := option(opts, "encoding")
	if v == nil {
		return ""
	}
	name := v.String()
	if strings.EqualFold(name, "buffer") {
		return "buffer"
	}
	enc, err := encoding.Parse(name)
	if err != nil || name == "" {
		msg := fmt.Sprintf("The argument 'encoding' is invalid encoding. %s", r.received(v))
		panic(r.newError("TypeError", "ERR_INVALID_ARG_VALUE", msg))
	}
	return enc
}

// modeValue parses a file mode given as a number or an octal string.
func (r *Runtime) modeValue(v goja.Value, name string) iofs.FileMode {
	if v == nil {
		return 0
	}
	if s, ok := v.Export().(string); ok {
		m, err := strconv.ParseUint(s, 8, 32)
		if err != nil {
			msg := fmt.Sprintf("The argument '%s' must be a 32-bit unsigned integer or an octal string. %s", name, r.received(v))
			panic(r.newError("TypeError", "ERR_INVALID_ARG_VALUE", msg))
		}
		return iofs.FileMode(m) & iofs.ModePerm
	}
	switch v.Export().(type) {
	case int64, float64:
	default:
		r.throwArgType(name, "of type number", v)
	}
	return iofs.FileMode(v.ToInteger()) & iofs.ModePerm
}

// nameValue renders a file name in the requested encoding.
func (r *Runtime) nameValue(name string, enc encoding.Encoding) goja.Value {
	switch enc {
	case "", encoding.UTF8:
		return r.vm.ToValue(name)
	case "buffer":
		return r.newBuffer([]byte(name))
	}
	s, err := encoding.Decode([]byte(name), enc)
	if err != nil {
		return r.vm.ToValue(name)
	}
	return r.vm.ToValue(s)
}
