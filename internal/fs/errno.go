package fs

import "syscall"

type errnoInfo struct {
	code        string
	description string
	kind        Kind
}

// errnoTable follows libuv's code names and descriptions so messages match
// what Node prints. Anything missing maps to KindUnknown.
var errnoTable = map[syscall.Errno]errnoInfo{
	syscall.ENOENT:       {"ENOENT", "no such file or directory", KindNotFound},
	syscall.EEXIST:       {"EEXIST", "file already exists", KindAlreadyExists},
	syscall.ENOTDIR:      {"ENOTDIR", "not a directory", KindNotADirectory},
	syscall.EISDIR:       {"EISDIR", "illegal operation on a directory", KindIsADirectory},
	syscall.ENOTEMPTY:    {"ENOTEMPTY", "directory not empty", KindNotEmpty},
	syscall.EACCES:       {"EACCES", "permission denied", KindPermissionDenied},
	syscall.EPERM:        {"EPERM", "operation not permitted", KindPermissionDenied},
	syscall.EROFS:        {"EROFS", "read-only file system", KindUnknown},
	syscall.EBUSY:        {"EBUSY", "resource busy or locked", KindUnknown},
	syscall.EINVAL:       {"EINVAL", "invalid argument", KindUnknown},
	syscall.EIO:          {"EIO", "i/o error", KindUnknown},
	syscall.ELOOP:        {"ELOOP", "too many symbolic links encountered", KindUnknown},
	syscall.EMFILE:       {"EMFILE", "too many open files", KindUnknown},
	syscall.ENAMETOOLONG: {"ENAMETOOLONG", "name too long", KindUnknown},
	syscall.ENOSPC:       {"ENOSPC", "no space left on device", KindUnknown},
	syscall.EXDEV:        {"EXDEV", "cross-device link not permitted", KindUnknown},
}
