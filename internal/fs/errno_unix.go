//go:build !windows

package fs

import "syscall"

func normalizeErrno(errno syscall.Errno) syscall.Errno {
	return errno
}
