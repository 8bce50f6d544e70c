/*
Package runtime executes JavaScript with a Node-compatible module set on
top of the goja engine.

# Modules

Scripts run as CommonJS module bodies and may require:

  - fs and fs/promises: the filesystem engine, callback and promise style
  - path, os, url, buffer

The "node:" prefix is accepted for every builtin. fs.promises,
require("fs/promises") and each module's default export are the same
object, so all three facades reach the one engine the runtime was built
with.

# Event loop

JS runs on the goroutine calling Execute. Each fs call starts a goroutine,
bounded by a weighted semaphore, which posts its completion back to the
loop; the loop then settles the promise. Timers post the same way.
Execute returns when nothing is pending, or when the timeout or the
caller's context ends the run.

A promise completion value is unwrapped. A rejection nobody handled fails
the execution with a *ScriptError marked Unhandled.

# Usage

	rt, err := runtime.New(runtime.DefaultConfig(), runtime.WithLogger(log))
	if err != nil {
		return err
	}
	defer rt.Close()

	res, err := rt.Execute(ctx, "main.js", `
		const fs = require("fs/promises");
		fs.readdir(".cargo");
	`)
*/
package runtime
