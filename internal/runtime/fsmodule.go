package runtime

import (
	"context"
	"fmt"

	"github.com/dop251/goja"

	"github.com/imaitland/llrt/internal/encoding"
	"github.com/imaitland/llrt/internal/fs"
)

// fsOps lists the operations exposed by both fs and fs/promises.
var fsOps = []string{
	"readdir", "readFile", "writeFile", "appendFile", "mkdtemp", "mkdir",
	"rmdir", "rm", "unlink", "rename", "copyFile", "access", "stat", "lstat",
}

// fsPromisesModule builds require("fs/promises").
func (r *Runtime) fsPromisesModule() goja.Value {
	o := r.vm.NewObject()
	natives := map[string]func(goja.FunctionCall) goja.Value{
		"readdir":    r.fsReaddir,
		"readFile":   r.fsReadFile,
		"writeFile":  r.fsWriteFile(false),
		"appendFile": r.fsWriteFile(true),
		"mkdtemp":    r.fsMkdtemp,
		"mkdir":      r.fsMkdir,
		"rmdir":      r.fsRmdir,
		"rm":         r.fsRm,
		"unlink":     r.fsUnlink,
		"rename":     r.fsRename,
		"copyFile":   r.fsCopyFile,
		"access":     r.fsAccess,
		"stat":       r.fsStat(false),
		"lstat":      r.fsStat(true),
	}
	for _, name := range fsOps {
		_ = o.Set(name, natives[name])
	}
	_ = o.Set("constants", r.constants())
	_ = o.Set("default", o)
	return o
}

// fsModule builds require("fs"): callback-style wrappers over the
// fs/promises natives, with fs.promises being that same object.
func (r *Runtime) fsModule() goja.Value {
	promises := r.loadModule("fs/promises")
	names := make([]interface{}, len(fsOps))
	for i, n := range fsOps {
		names[i] = n
	}
	m, err := r.internals.makeFS(goja.Undefined(), promises, r.constants(), r.vm.NewArray(names...))
	if err != nil {
		panic(err)
	}
	return m
}

func (r *Runtime) constants() *goja.Object {
	if r.fsConstants != nil {
		return r.fsConstants
	}
	c := r.vm.NewObject()
	for _, kv := range []struct {
		name  string
		value int64
	}{
		{"F_OK", int64(fs.AccessExists)},
		{"X_OK", int64(fs.AccessExecute)},
		{"W_OK", int64(fs.AccessWrite)},
		{"R_OK", int64(fs.AccessRead)},
		{"COPYFILE_EXCL", 1},
		{"S_IFMT", fs.S_IFMT},
		{"S_IFREG", fs.S_IFREG},
		{"S_IFDIR", fs.S_IFDIR},
		{"S_IFLNK", fs.S_IFLNK},
	} {
		_ = c.Set(kv.name, kv.value)
	}
	r.fsConstants = c
	return c
}

func (r *Runtime) fsReaddir(call goja.FunctionCall) goja.Value {
	path := r.pathArg(call.Argument(0), "path")
	opts := r.optionsArg(call.Argument(1))
	enc := r.encodingOption(opts)
	ropts := fs.ReadDirOptions{Recursive: optBool(opts, "recursive")}

	if optBool(opts, "withFileTypes") {
		return r.async(func(ctx context.Context) (interface{}, error) {
			return r.engine.ReadDir(ctx, path, ropts)
		}, func(v interface{}) goja.Value {
			entries := v.([]fs.Dirent)
			out := make([]interface{}, len(entries))
			for i, d := range entries {
				out[i] = r.newDirent(d, enc)
			}
			return r.vm.NewArray(out...)
		})
	}

	return r.async(func(ctx context.Context) (interface{}, error) {
		return r.engine.ReadDirNames(ctx, path, ropts)
	}, func(v interface{}) goja.Value {
		names := v.([]string)
		out := make([]interface{}, len(names))
		for i, n := range names {
			out[i] = r.nameValue(n, enc)
		}
		return r.vm.NewArray(out...)
	})
}

func (r *Runtime) fsReadFile(call goja.FunctionCall) goja.Value {
	path := r.pathArg(call.Argument(0), "path")
	enc := r.encodingOption(r.optionsArg(call.Argument(1)))

	if enc == "" || enc == "buffer" {
		return r.async(func(ctx context.Context) (interface{}, error) {
			return r.engine.ReadFile(ctx, path)
		}, func(v interface{}) goja.Value {
			return r.newBuffer(v.([]byte))
		})
	}
	return r.async(func(ctx context.Context) (interface{}, error) {
		return r.engine.ReadFileString(ctx, path, fs.ReadFileOptions{Encoding: enc})
	}, r.vm.ToValue)
}

func (r *Runtime) fsWriteFile(appendOnly bool) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		path := r.pathArg(call.Argument(0), "file")
		opts := r.optionsArg(call.Argument(2))
		enc := r.encodingOption(opts)
		if enc == "" || enc == "buffer" {
			enc = encoding.UTF8
		}

		data := r.dataArg(call.Argument(1), enc)
		wopts := fs.WriteFileOptions{
			Mode:   r.modeValue(option(opts, "mode"), "mode"),
			Append: appendOnly,
		}
		if flag := option(opts, "flag"); flag != nil {
			switch flag.String() {
			case "a", "a+", "as", "as+":
				wopts.Append = true
			}
		}

		return r.async(func(ctx context.Context) (interface{}, error) {
			return nil, r.engine.WriteFile(ctx, path, data, wopts)
		}, r.undefined)
	}
}

// dataArg accepts a string, encoded with enc, or any binary view.
func (r *Runtime) dataArg(v goja.Value, enc encoding.Encoding) []byte {
	if s, ok := v.Export().(string); ok {
		b, err := encoding.Encode(s, enc)
		if err != nil {
			panic(r.newError("TypeError", "ERR_INVALID_ARG_VALUE", err.Error()))
		}
		return b
	}
	if b, ok := r.bytesOf(v); ok {
		return b
	}
	r.throwArgType("data", "of type string or an instance of Buffer, TypedArray, or DataView", v)
	return nil
}

func (r *Runtime) fsMkdtemp(call goja.FunctionCall) goja.Value {
	prefix := r.pathArg(call.Argument(0), "prefix")
	enc := r.encodingOption(r.optionsArg(call.Argument(1)))

	return r.async(func(ctx context.Context) (interface{}, error) {
		return r.engine.MkdirTemp(ctx, prefix)
	}, func(v interface{}) goja.Value {
		return r.nameValue(v.(string), enc)
	})
}

func (r *Runtime) fsMkdir(call goja.FunctionCall) goja.Value {
	path := r.pathArg(call.Argument(0), "path")
	var mopts fs.MkdirOptions
	switch arg := call.Argument(1); arg.Export().(type) {
	case int64, float64, string:
		mopts.Mode = r.modeValue(arg, "mode")
	default:
		opts := r.optionsArg(arg)
		mopts.Recursive = optBool(opts, "recursive")
		mopts.Mode = r.modeValue(option(opts, "mode"), "mode")
	}

	return r.async(func(ctx context.Context) (interface{}, error) {
		return nil, r.engine.Mkdir(ctx, path, mopts)
	}, r.undefined)
}

func (r *Runtime) fsRmdir(call goja.FunctionCall) goja.Value {
	path := r.pathArg(call.Argument(0), "path")
	opts := r.optionsArg(call.Argument(1))
	ropts := fs.RmdirOptions{Recursive: optBool(opts, "recursive")}

	return r.async(func(ctx context.Context) (interface{}, error) {
		return nil, r.engine.Rmdir(ctx, path, ropts)
	}, r.undefined)
}

func (r *Runtime) fsRm(call goja.FunctionCall) goja.Value {
	path := r.pathArg(call.Argument(0), "path")
	opts := r.optionsArg(call.Argument(1))
	ropts := fs.RmOptions{
		Recursive: optBool(opts, "recursive"),
		Force:     optBool(opts, "force"),
	}

	return r.async(func(ctx context.Context) (interface{}, error) {
		return nil, r.engine.Rm(ctx, path, ropts)
	}, r.undefined)
}

func (r *Runtime) fsUnlink(call goja.FunctionCall) goja.Value {
	path := r.pathArg(call.Argument(0), "path")
	return r.async(func(ctx context.Context) (interface{}, error) {
		return nil, r.engine.Unlink(ctx, path)
	}, r.undefined)
}

func (r *Runtime) fsRename(call goja.FunctionCall) goja.Value {
	oldPath := r.pathArg(call.Argument(0), "oldPath")
	newPath := r.pathArg(call.Argument(1), "newPath")
	return r.async(func(ctx context.Context) (interface{}, error) {
		return nil, r.engine.Rename(ctx, oldPath, newPath)
	}, r.undefined)
}

func (r *Runtime) fsCopyFile(call goja.FunctionCall) goja.Value {
	src := r.pathArg(call.Argument(0), "src")
	dest := r.pathArg(call.Argument(1), "dest")
	mode := r.intArg(call.Argument(2), "mode", 0)
	copts := fs.CopyFileOptions{Exclusive: mode&1 != 0}

	return r.async(func(ctx context.Context) (interface{}, error) {
		return nil, r.engine.CopyFile(ctx, src, dest, copts)
	}, r.undefined)
}

func (r *Runtime) fsAccess(call goja.FunctionCall) goja.Value {
	path := r.pathArg(call.Argument(0), "path")
	mode := r.intArg(call.Argument(1), "mode", int64(fs.AccessExists))
	if mode < 0 || mode > 7 {
		msg := fmt.Sprintf(`The value of "mode" is out of range. It must be an integer >= 0 && <= 7. Received %d`, mode)
		panic(r.newError("RangeError", "ERR_OUT_OF_RANGE", msg))
	}

	return r.async(func(ctx context.Context) (interface{}, error) {
		return nil, r.engine.Access(ctx, path, fs.AccessMode(mode))
	}, r.undefined)
}

func (r *Runtime) fsStat(lstat bool) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		path := r.pathArg(call.Argument(0), "path")
		return r.async(func(ctx context.Context) (interface{}, error) {
			if lstat {
				return r.engine.Lstat(ctx, path)
			}
			return r.engine.Stat(ctx, path)
		}, func(v interface{}) goja.Value {
			return r.newStats(v.(*fs.Stats))
		})
	}
}

// intArg reads an optional integer argument.
func (r *Runtime) intArg(v goja.Value, name string, def int64) int64 {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return def
	}
	switch n := v.Export().(type) {
	case int64:
		return n
	case float64:
		if n == float64(int64(n)) {
			return int64(n)
		}
		msg := fmt.Sprintf(`The value of "%s" is out of range. It must be an integer. Received %v`, name, n)
		panic(r.newError("RangeError", "ERR_OUT_OF_RANGE", msg))
	}
	r.throwArgType(name, "of type number", v)
	return 0
}

func (r *Runtime) undefined(interface{}) goja.Value {
	return goja.Undefined()
}

// direntType returns the type code the prelude's Dirent understands.
func direntType(d fs.Dirent) int {
	switch {
	case d.IsFile():
		return 1
	case d.IsDirectory():
		return 2
	case d.IsSymbolicLink():
		return 3
	case d.IsFIFO():
		return 4
	case d.IsSocket():
		return 5
	case d.IsCharacterDevice():
		return 6
	case d.IsBlockDevice():
		return 7
	}
	return 0
}

func (r *Runtime) newDirent(d fs.Dirent, enc encoding.Encoding) goja.Value {
	obj, err := r.vm.New(r.internals.dirent,
		r.nameValue(d.Name, enc),
		r.vm.ToValue(direntType(d)),
		r.vm.ToValue(d.ParentPath))
	if err != nil {
		panic(err)
	}
	return obj
}

func (r *Runtime) newStats(st *fs.Stats) goja.Value {
	fields := r.vm.NewObject()
	for k, v := range map[string]interface{}{
		"dev":     st.Dev,
		"mode":    st.NodeMode(),
		"nlink":   st.Nlink,
		"uid":     st.Uid,
		"gid":     st.Gid,
		"ino":     st.Ino,
		"size":    st.Size,
		"mtimeMs": float64(st.ModTime.UnixNano()) / 1e6,
	} {
		_ = fields.Set(k, v)
	}
	obj, err := r.vm.New(r.internals.stats, fields)
	if err != nil {
		panic(err)
	}
	return obj
}
