package runtime

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"
)

func (r *Runtime) require(call goja.FunctionCall) goja.Value {
	name := r.stringArg(call.Argument(0), "id")
	return r.loadModule(strings.TrimPrefix(name, "node:"))
}

// loadModule returns the cached module object for id, building it on first
// use. Builtins resolve with or without the "node:" scheme; anything else
// throws MODULE_NOT_FOUND.
func (r *Runtime) loadModule(id string) goja.Value {
	if m, ok := r.modules[id]; ok {
		return m
	}

	var m goja.Value
	switch id {
	case "fs":
		m = r.fsModule()
	case "fs/promises":
		m = r.fsPromisesModule()
	case "path":
		m = r.pathModule()
	case "os":
		m = r.osModule()
	case "url":
		m = r.urlModule()
	case "buffer":
		m = r.bufferModule()
	default:
		panic(r.newError("Error", "MODULE_NOT_FOUND", fmt.Sprintf("Cannot find module '%s'", id)))
	}

	r.modules[id] = m
	return m
}
