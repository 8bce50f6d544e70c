//go:build unix

package fs

import (
	"os"

	"golang.org/x/sys/unix"
)

func access(path string, mode AccessMode) error {
	if err := unix.Access(path, uint32(mode)); err != nil {
		return &os.PathError{Op: "access", Path: path, Err: err}
	}
	return nil
}

func rmdir(path string) error {
	if err := unix.Rmdir(path); err != nil {
		return &os.PathError{Op: "rmdir", Path: path, Err: err}
	}
	return nil
}
