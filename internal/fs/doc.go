// Package fs implements filesystem operations with Node.js fs semantics on
// top of the host OS: directory listing, whole-file reads and writes,
// directory creation and removal, temporary directories, permission checks
// and metadata.
//
// Every failure is an *Error carrying a Kind from a closed set together
// with the Node-style code, errno, syscall and path, so callers can branch
// with errors.Is(err, fs.ErrNotFound) or KindOf(err). Malformed arguments
// are reported as *ArgumentError before any I/O is attempted.
//
// Each Engine method checks its context before touching the filesystem.
// Once issued, an operation runs to completion.
package fs
