//go:build windows

package fs

import (
	"os"
	"syscall"
)

// access has no direct Win32 counterpart. Existence and the read-only
// attribute are all Windows can answer; AccessExecute behaves as
// AccessExists.
func access(path string, mode AccessMode) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode&AccessWrite != 0 && info.Mode().Perm()&0o200 == 0 {
		return &os.PathError{Op: "access", Path: path, Err: syscall.EACCES}
	}
	return nil
}

func rmdir(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "rmdir", Path: path, Err: syscall.ENOTDIR}
	}
	return os.Remove(path)
}
