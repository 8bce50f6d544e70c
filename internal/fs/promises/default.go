package promises

import (
	"context"

	"github.com/imaitland/llrt/internal/fs"
)

// The package-level functions below delegate to Default().

// ReadDir lists a directory; see fs.Engine.ReadDir.
func ReadDir(ctx context.Context, path string, opts fs.ReadDirOptions) *Promise[[]fs.Dirent] {
	return Default().ReadDir(ctx, path, opts)
}

// ReadDirNames lists a directory as bare names, or relative paths when recursive.
func ReadDirNames(ctx context.Context, path string, opts fs.ReadDirOptions) *Promise[[]string] {
	return Default().ReadDirNames(ctx, path, opts)
}

// ReadFile reads a whole file.
func ReadFile(ctx context.Context, path string) *Promise[[]byte] {
	return Default().ReadFile(ctx, path)
}

// ReadFileHead reads at most n bytes from the start of a file.
func ReadFileHead(ctx context.Context, path string, n int) *Promise[[]byte] {
	return Default().ReadFileHead(ctx, path, n)
}

// ReadFileString reads a file and decodes it with opts.Encoding.
func ReadFileString(ctx context.Context, path string, opts fs.ReadFileOptions) *Promise[string] {
	return Default().ReadFileString(ctx, path, opts)
}

// WriteFile creates or truncates a file and writes data.
func WriteFile(ctx context.Context, path string, data []byte, opts fs.WriteFileOptions) *Promise[struct{}] {
	return Default().WriteFile(ctx, path, data, opts)
}

// AppendFile is WriteFile with Append set.
func AppendFile(ctx context.Context, path string, data []byte, opts fs.WriteFileOptions) *Promise[struct{}] {
	return Default().AppendFile(ctx, path, data, opts)
}

// MkdirTemp creates a uniquely named directory starting with prefix.
func MkdirTemp(ctx context.Context, prefix string) *Promise[string] {
	return Default().MkdirTemp(ctx, prefix)
}

// Mkdir creates a directory, with parents when opts.Recursive is set.
func Mkdir(ctx context.Context, path string, opts fs.MkdirOptions) *Promise[struct{}] {
	return Default().Mkdir(ctx, path, opts)
}

// Rmdir removes a directory, and its contents when opts.Recursive is set.
func Rmdir(ctx context.Context, path string, opts fs.RmdirOptions) *Promise[struct{}] {
	return Default().Rmdir(ctx, path, opts)
}

// Rm removes a file or, with opts.Recursive, a directory tree.
func Rm(ctx context.Context, path string, opts fs.RmOptions) *Promise[struct{}] {
	return Default().Rm(ctx, path, opts)
}

// Unlink removes a file or symlink.
func Unlink(ctx context.Context, path string) *Promise[struct{}] {
	return Default().Unlink(ctx, path)
}

// Rename moves oldPath to newPath.
func Rename(ctx context.Context, oldPath, newPath string) *Promise[struct{}] {
	return Default().Rename(ctx, oldPath, newPath)
}

// CopyFile copies src to dest.
func CopyFile(ctx context.Context, src, dest string, opts fs.CopyFileOptions) *Promise[struct{}] {
	return Default().CopyFile(ctx, src, dest, opts)
}

// Access resolves when path is reachable with mode.
func Access(ctx context.Context, path string, mode fs.AccessMode) *Promise[struct{}] {
	return Default().Access(ctx, path, mode)
}

// Stat follows symlinks and returns file metadata.
func Stat(ctx context.Context, path string) *Promise[*fs.Stats] {
	return Default().Stat(ctx, path)
}

// Lstat returns metadata of the link itself.
func Lstat(ctx context.Context, path string) *Promise[*fs.Stats] {
	return Default().Lstat(ctx, path)
}

// Glob matches a doublestar pattern.
func Glob(ctx context.Context, pattern string, opts fs.GlobOptions) *Promise[[]string] {
	return Default().Glob(ctx, pattern, opts)
}
