package runtime

import (
	"os"
	goruntime "runtime"
	"strings"

	"github.com/dop251/goja"
	"github.com/google/uuid"

	"github.com/imaitland/llrt/internal/encoding"
	"github.com/imaitland/llrt/internal/shared/id"
	"github.com/imaitland/llrt/internal/shared/paths"
	"github.com/imaitland/llrt/internal/shared/urlutil"
)

// Version is reported as process.version.
const Version = "v0.4.0"

// newHost returns the natives the prelude is built on.
func (r *Runtime) newHost() *goja.Object {
	host := r.vm.NewObject()
	_ = host.Set("encode", func(call goja.FunctionCall) goja.Value {
		enc := r.encodingArg(call.Argument(1))
		b, err := encoding.Encode(call.Argument(0).String(), enc)
		if err != nil {
			panic(r.newError("TypeError", "ERR_UNKNOWN_ENCODING", err.Error()))
		}
		return r.vm.ToValue(r.vm.NewArrayBuffer(b))
	})
	_ = host.Set("decode", func(call goja.FunctionCall) goja.Value {
		enc := r.encodingArg(call.Argument(1))
		var b []byte
		if ab, ok := call.Argument(0).Export().(goja.ArrayBuffer); ok {
			b = ab.Bytes()
		}
		s, err := encoding.Decode(b, enc)
		if err != nil {
			panic(r.newError("TypeError", "ERR_UNKNOWN_ENCODING", err.Error()))
		}
		return r.vm.ToValue(s)
	})
	_ = host.Set("isEncoding", encoding.IsEncoding)
	_ = host.Set("console", r.logConsole)
	_ = host.Set("setTimeout", r.setTimeout)
	_ = host.Set("clearTimeout", r.clearTimeout)
	return host
}

func (r *Runtime) encodingArg(v goja.Value) encoding.Encoding {
	enc, err := encoding.Parse(valueString(v))
	if err != nil {
		panic(r.newError("TypeError", "ERR_UNKNOWN_ENCODING", err.Error()))
	}
	return enc
}

func (r *Runtime) bufferModule() goja.Value {
	o := r.vm.NewObject()
	_ = o.Set("Buffer", r.internals.buffer)
	_ = o.Set("default", o)
	return o
}

func (r *Runtime) pathModule() goja.Value {
	o := r.vm.NewObject()
	strs := func(call goja.FunctionCall) []string {
		out := make([]string, len(call.Arguments))
		for i, a := range call.Arguments {
			out[i] = r.stringArg(a, "path")
		}
		return out
	}

	_ = o.Set("join", func(call goja.FunctionCall) goja.Value {
		return r.vm.ToValue(paths.Join(strs(call)...))
	})
	_ = o.Set("resolve", func(call goja.FunctionCall) goja.Value {
		return r.vm.ToValue(paths.Resolve(strs(call)...))
	})
	_ = o.Set("normalize", func(call goja.FunctionCall) goja.Value {
		return r.vm.ToValue(paths.Normalize(r.stringArg(call.Argument(0), "path")))
	})
	_ = o.Set("isAbsolute", func(call goja.FunctionCall) goja.Value {
		return r.vm.ToValue(paths.IsAbsolute(r.stringArg(call.Argument(0), "path")))
	})
	_ = o.Set("basename", func(call goja.FunctionCall) goja.Value {
		p := r.stringArg(call.Argument(0), "path")
		ext := ""
		if v := call.Argument(1); !goja.IsUndefined(v) {
			ext = r.stringArg(v, "ext")
		}
		return r.vm.ToValue(paths.Basename(p, ext))
	})
	_ = o.Set("dirname", func(call goja.FunctionCall) goja.Value {
		return r.vm.ToValue(paths.Dirname(r.stringArg(call.Argument(0), "path")))
	})
	_ = o.Set("extname", func(call goja.FunctionCall) goja.Value {
		return r.vm.ToValue(paths.Extname(r.stringArg(call.Argument(0), "path")))
	})
	_ = o.Set("relative", func(call goja.FunctionCall) goja.Value {
		from := r.stringArg(call.Argument(0), "from")
		to := r.stringArg(call.Argument(1), "to")
		return r.vm.ToValue(paths.Relative(from, to))
	})
	_ = o.Set("parse", func(call goja.FunctionCall) goja.Value {
		p := paths.Parse(r.stringArg(call.Argument(0), "path"))
		return r.plainObject(map[string]interface{}{
			"root": p.Root, "dir": p.Dir, "base": p.Base, "ext": p.Ext, "name": p.Name,
		})
	})
	_ = o.Set("format", func(call goja.FunctionCall) goja.Value {
		obj, ok := call.Argument(0).(*goja.Object)
		if !ok {
			r.throwArgType("pathObject", "of type object", call.Argument(0))
		}
		return r.vm.ToValue(paths.Format(paths.Parsed{
			Root: valueString(obj.Get("root")),
			Dir:  valueString(obj.Get("dir")),
			Base: valueString(obj.Get("base")),
			Ext:  valueString(obj.Get("ext")),
			Name: valueString(obj.Get("name")),
		}))
	})
	_ = o.Set("sep", paths.Sep)
	_ = o.Set("delimiter", paths.Delimiter)
	_ = o.Set("default", o)
	return o
}

func (r *Runtime) osModule() goja.Value {
	o := r.vm.NewObject()
	_ = o.Set("tmpdir", func() string {
		dir := os.TempDir()
		if len(dir) > 1 {
			dir = strings.TrimRight(dir, paths.Sep)
		}
		return dir
	})
	_ = o.Set("homedir", func() string {
		home, _ := os.UserHomeDir()
		return home
	})
	_ = o.Set("hostname", func() string {
		name, _ := os.Hostname()
		return name
	})
	_ = o.Set("platform", platform)
	_ = o.Set("arch", arch)
	_ = o.Set("type", osType)
	_ = o.Set("endianness", func() string { return "LE" })
	eol := "\n"
	if goruntime.GOOS == "windows" {
		eol = "\r\n"
	}
	_ = o.Set("EOL", eol)
	_ = o.Set("default", o)
	return o
}

func platform() string {
	if goruntime.GOOS == "windows" {
		return "win32"
	}
	return goruntime.GOOS
}

func arch() string {
	switch goruntime.GOARCH {
	case "amd64":
		return "x64"
	case "386":
		return "ia32"
	}
	return goruntime.GOARCH
}

func osType() string {
	switch goruntime.GOOS {
	case "windows":
		return "Windows_NT"
	case "darwin":
		return "Darwin"
	case "linux":
		return "Linux"
	}
	return goruntime.GOOS
}

func (r *Runtime) urlModule() goja.Value {
	o := r.vm.NewObject()
	_ = o.Set("echo", func(call goja.FunctionCall) goja.Value {
		return r.vm.ToValue(urlutil.Echo(call.Argument(0).String()))
	})
	_ = o.Set("parse", func(call goja.FunctionCall) goja.Value {
		u, err := urlutil.Parse(call.Argument(0).String())
		if err != nil {
			panic(r.newError("TypeError", "ERR_INVALID_URL", err.Error()))
		}
		query := make(map[string]interface{}, len(u.Query))
		for k, v := range u.Query {
			query[k] = v
		}
		return r.plainObject(map[string]interface{}{
			"href":     u.Href,
			"protocol": u.Protocol,
			"username": u.Username,
			"host":     u.Host,
			"hostname": u.Hostname,
			"port":     u.Port,
			"pathname": u.Pathname,
			"search":   u.Search,
			"hash":     u.Hash,
			"query":    r.plainObject(query),
		})
	})

	_ = o.Set("v1", func() string {
		s, err := id.UUIDv1()
		if err != nil {
			panic(r.newError("Error", "", err.Error()))
		}
		return s
	})
	_ = o.Set("v4", id.UUIDv4)
	for name, gen := range map[string]func(string, uuid.UUID) string{
		"v3": id.UUIDv3,
		"v5": id.UUIDv5,
	} {
		fn := r.vm.ToValue(r.nameBasedUUID(gen)).ToObject(r.vm)
		_ = fn.Set("DNS", id.NamespaceDNS)
		_ = fn.Set("URL", id.NamespaceURL)
		_ = o.Set(name, fn)
	}
	_ = o.Set("NIL", id.NilUUID)
	_ = o.Set("validate", func(call goja.FunctionCall) goja.Value {
		s, ok := call.Argument(0).Export().(string)
		return r.vm.ToValue(ok && id.ValidateUUID(s))
	})
	_ = o.Set("version", func(call goja.FunctionCall) goja.Value {
		v, err := id.UUIDVersion(call.Argument(0).String())
		if err != nil {
			panic(r.newError("TypeError", "ERR_INVALID_ARG_VALUE", err.Error()))
		}
		return r.vm.ToValue(v)
	})
	_ = o.Set("stringify", func(call goja.FunctionCall) goja.Value {
		b, ok := r.bytesOf(call.Argument(0))
		if !ok {
			r.throwArgType("arr", "an instance of Buffer or Uint8Array", call.Argument(0))
		}
		offset := r.intArg(call.Argument(1), "offset", 0)
		s, err := id.StringifyUUID(b, int(offset))
		if err != nil {
			panic(r.newError("TypeError", "ERR_INVALID_ARG_VALUE", err.Error()))
		}
		return r.vm.ToValue(s)
	})
	_ = o.Set("default", o)
	return o
}

// nameBasedUUID adapts a v3/v5 generator to (name, namespace) where the
// namespace is UUID text or 16 bytes.
func (r *Runtime) nameBasedUUID(gen func(string, uuid.UUID) string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		name := call.Argument(0)
		if b, ok := r.bytesOf(name); ok {
			name = r.vm.ToValue(string(b))
		}
		nsArg := call.Argument(1)
		raw, _ := r.bytesOf(nsArg)
		ns, err := id.ParseNamespace(valueString(nsArg), raw)
		if err != nil {
			panic(r.newError("TypeError", "ERR_INVALID_ARG_VALUE", err.Error()))
		}
		return r.vm.ToValue(gen(r.stringArg(name, "name"), ns))
	}
}

// newProcess builds the process global. argv is filled in per execution.
func (r *Runtime) newProcess() *goja.Object {
	p := r.vm.NewObject()
	env := r.vm.NewObject()
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			_ = env.Set(k, v)
		}
	}

	_ = p.Set("env", env)
	_ = p.Set("cwd", func() string {
		cwd, _ := os.Getwd()
		return cwd
	})
	_ = p.Set("platform", platform())
	_ = p.Set("arch", arch())
	_ = p.Set("pid", os.Getpid())
	_ = p.Set("version", Version)
	_ = p.Set("versions", r.plainObject(map[string]interface{}{"llrt": Version}))
	_ = p.Set("argv", r.vm.NewArray())
	_ = p.Set("nextTick", func(call goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			r.throwArgType("callback", "of type function", call.Argument(0))
		}
		args := call.Arguments[1:]
		queue, _ := goja.AssertFunction(r.vm.Get("queueMicrotask"))
		tick := func(goja.FunctionCall) goja.Value {
			if _, err := fn(goja.Undefined(), args...); err != nil {
				panic(err)
			}
			return goja.Undefined()
		}
		if _, err := queue(goja.Undefined(), r.vm.ToValue(tick)); err != nil {
			panic(err)
		}
		return goja.Undefined()
	})
	return p
}

func (r *Runtime) plainObject(fields map[string]interface{}) *goja.Object {
	o := r.vm.NewObject()
	for k, v := range fields {
		_ = o.Set(k, v)
	}
	return o
}
