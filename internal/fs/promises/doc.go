// Package promises is the asynchronous face of package fs. Every call
// starts the operation on its own goroutine and returns a *Promise that
// settles with the engine's result.
//
// Three entry points reach the same engine and return identical results
// for identical inputs: the package-level functions, Default() and any
// *API built with New over fs.Default().
package promises
