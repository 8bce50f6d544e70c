package fs

import (
	iofs "io/fs"

	"github.com/imaitland/llrt/internal/encoding"
)

// AccessMode is the bitmask checked by Access. Values match POSIX access(2).
type AccessMode uint32

const (
	AccessExists  AccessMode = 0
	AccessExecute AccessMode = 1
	AccessWrite   AccessMode = 2
	AccessRead    AccessMode = 4
)

const accessModeMask = AccessExecute | AccessWrite | AccessRead

// ReadDirOptions controls ReadDir.
type ReadDirOptions struct {
	// Recursive lists the whole subtree; entries are ordered by their path
	// relative to the listed directory.
	Recursive bool
}

// ReadFileOptions controls ReadFileString.
type ReadFileOptions struct {
	Encoding encoding.Encoding
}

// WriteFileOptions controls WriteFile. Mode applies only when the file is
// created; zero selects the engine default.
type WriteFileOptions struct {
	Mode     iofs.FileMode
	Append   bool
	Encoding encoding.Encoding
}

// MkdirOptions controls Mkdir. Mode zero selects the engine default.
type MkdirOptions struct {
	Recursive bool
	Mode      iofs.FileMode
}

// RmdirOptions controls Rmdir.
type RmdirOptions struct {
	Recursive bool
}

// RmOptions controls Rm.
type RmOptions struct {
	// Recursive removes directories and their contents.
	Recursive bool
	// Force ignores a missing path.
	Force bool
}

// CopyFileOptions controls CopyFile.
type CopyFileOptions struct {
	// Exclusive fails with AlreadyExists when dest exists.
	Exclusive bool
}

// GlobOptions controls Glob.
type GlobOptions struct {
	// Cwd anchors relative patterns; empty means the process working
	// directory.
	Cwd string
}
