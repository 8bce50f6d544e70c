package fs

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"syscall"
)

// Kind categorizes a filesystem failure. The set is closed; callers branch
// on Kind, never on message text.
type Kind string

const (
	KindNotFound         Kind = "NotFound"
	KindAlreadyExists    Kind = "AlreadyExists"
	KindNotADirectory    Kind = "NotADirectory"
	KindIsADirectory     Kind = "IsADirectory"
	KindNotEmpty         Kind = "NotEmpty"
	KindPermissionDenied Kind = "PermissionDenied"
	KindUnknown          Kind = "Unknown"
)

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrAlreadyExists    = &Error{Kind: KindAlreadyExists}
	ErrNotADirectory    = &Error{Kind: KindNotADirectory}
	ErrIsADirectory     = &Error{Kind: KindIsADirectory}
	ErrNotEmpty         = &Error{Kind: KindNotEmpty}
	ErrPermissionDenied = &Error{Kind: KindPermissionDenied}
)

// Error is a filesystem failure reported by the host OS, carrying both the
// stable Kind and the Node-style code, errno and syscall name.
type Error struct {
	Kind    Kind
	Code    string // "ENOENT", "EACCES", ...
	Errno   int    // negative, as Node reports it; 0 when unknown
	Syscall string
	Path    string
	Dest    string
	Err     error
}

// Error renders the message the way Node does:
//
//	ENOENT: no such file or directory, open 'fixtures/nothing'
func (e *Error) Error() string {
	desc := describe(e)
	msg := fmt.Sprintf("%s: %s", e.Code, desc)
	if e.Syscall != "" {
		msg += ", " + e.Syscall
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" '%s'", e.Path)
	}
	if e.Dest != "" {
		msg += fmt.Sprintf(" -> '%s'", e.Dest)
	}
	return msg
}

// Unwrap returns the underlying OS error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// ArgumentError reports a malformed call: wrong argument type, unknown
// encoding, out-of-range flags. It is raised before any I/O is attempted.
type ArgumentError struct {
	Code    string // ERR_INVALID_ARG_TYPE, ERR_INVALID_ARG_VALUE, ERR_OUT_OF_RANGE
	Arg     string
	Message string
}

func (e *ArgumentError) Error() string {
	return e.Message
}

// NewArgumentError builds an ArgumentError with a formatted message.
func NewArgumentError(code, arg, format string, args ...any) *ArgumentError {
	return &ArgumentError{Code: code, Arg: arg, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of err, KindUnknown for errors that did not come
// from this package and "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var fsErr *Error
	if errors.As(err, &fsErr) {
		return fsErr.Kind
	}
	return KindUnknown
}

// IsNotFound is shorthand for errors.Is(err, ErrNotFound).
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// mapError translates an OS error into an *Error. When path is empty the
// path recorded in the OS error is used, which is what recursive operations
// want: the failing child, not the root.
func mapError(syscallName, path string, err error) *Error {
	if err == nil {
		return nil
	}
	var fsErr *Error
	if errors.As(err, &fsErr) {
		return fsErr
	}

	if path == "" {
		var pathErr *iofs.PathError
		if errors.As(err, &pathErr) {
			path = pathErr.Path
		}
	}

	out := &Error{
		Kind:    KindUnknown,
		Code:    "UNKNOWN",
		Syscall: syscallName,
		Path:    path,
		Err:     err,
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		errno = normalizeErrno(errno)
		out.Errno = -int(errno)
		if info, ok := errnoTable[errno]; ok {
			out.Code = info.code
			out.Kind = info.kind
			return out
		}
	}

	// Fallback for errors without a recognizable errno.
	switch {
	case errors.Is(err, iofs.ErrNotExist):
		out.Kind, out.Code = KindNotFound, "ENOENT"
	case errors.Is(err, iofs.ErrExist):
		out.Kind, out.Code = KindAlreadyExists, "EEXIST"
	case errors.Is(err, iofs.ErrPermission):
		out.Kind, out.Code = KindPermissionDenied, "EACCES"
	}
	return out
}

// newErrno builds an *Error for a condition detected by the engine itself,
// e.g. rmdir on a regular file.
func newErrno(syscallName, path string, errno syscall.Errno) *Error {
	return mapError(syscallName, path, &os.PathError{Op: syscallName, Path: path, Err: errno})
}

func describe(e *Error) string {
	var errno syscall.Errno
	if errors.As(e.Err, &errno) {
		if info, ok := errnoTable[normalizeErrno(errno)]; ok {
			return info.description
		}
		return errno.Error()
	}
	for _, info := range errnoTable {
		if info.code == e.Code {
			return info.description
		}
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}
