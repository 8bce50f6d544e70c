//go:build windows

package fs

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// normalizeErrno folds Win32 error codes onto the POSIX names the table
// is keyed by.
func normalizeErrno(errno syscall.Errno) syscall.Errno {
	switch errno {
	case windows.ERROR_FILE_NOT_FOUND, windows.ERROR_PATH_NOT_FOUND, windows.ERROR_INVALID_NAME:
		return syscall.ENOENT
	case windows.ERROR_ALREADY_EXISTS, windows.ERROR_FILE_EXISTS:
		return syscall.EEXIST
	case windows.ERROR_DIR_NOT_EMPTY:
		return syscall.ENOTEMPTY
	case windows.ERROR_DIRECTORY:
		return syscall.ENOTDIR
	case windows.ERROR_ACCESS_DENIED, windows.ERROR_SHARING_VIOLATION:
		return syscall.EACCES
	}
	return errno
}
