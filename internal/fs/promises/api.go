package promises

import (
	"context"
	"sync"

	"github.com/imaitland/llrt/internal/fs"
)

// API is the promise-returning namespace over one engine. The JS
// require("fs").promises object is bound the same way.
type API struct {
	engine *fs.Engine
}

// New binds an API to engine.
func New(engine *fs.Engine) *API {
	return &API{engine: engine}
}

var (
	defaultAPI  *API
	defaultOnce sync.Once
)

// Default returns the API bound to fs.Default(). Every call returns the
// same value.
func Default() *API {
	defaultOnce.Do(func() {
		defaultAPI = New(fs.Default())
	})
	return defaultAPI
}

// Engine returns the engine the API is bound to.
func (a *API) Engine() *fs.Engine {
	return a.engine
}

// unit adapts an error-only engine call to Promise[struct{}].
func unit(err error) (struct{}, error) {
	return struct{}{}, err
}

// ReadDir lists a directory; see fs.Engine.ReadDir.
func (a *API) ReadDir(ctx context.Context, path string, opts fs.ReadDirOptions) *Promise[[]fs.Dirent] {
	return Go(func() ([]fs.Dirent, error) {
		return a.engine.ReadDir(ctx, path, opts)
	})
}

// ReadDirNames lists a directory as bare names, or relative paths when recursive.
func (a *API) ReadDirNames(ctx context.Context, path string, opts fs.ReadDirOptions) *Promise[[]string] {
	return Go(func() ([]string, error) {
		return a.engine.ReadDirNames(ctx, path, opts)
	})
}

// ReadFile reads a whole file.
func (a *API) ReadFile(ctx context.Context, path string) *Promise[[]byte] {
	return Go(func() ([]byte, error) {
		return a.engine.ReadFile(ctx, path)
	})
}

// ReadFileHead reads at most n bytes from the start of a file.
func (a *API) ReadFileHead(ctx context.Context, path string, n int) *Promise[[]byte] {
	return Go(func() ([]byte, error) {
		return a.engine.ReadFileHead(ctx, path, n)
	})
}

// ReadFileString reads a file and decodes it with opts.Encoding.
func (a *API) ReadFileString(ctx context.Context, path string, opts fs.ReadFileOptions) *Promise[string] {
	return Go(func() (string, error) {
		return a.engine.ReadFileString(ctx, path, opts)
	})
}

// WriteFile creates or truncates a file and writes data.
func (a *API) WriteFile(ctx context.Context, path string, data []byte, opts fs.WriteFileOptions) *Promise[struct{}] {
	return Go(func() (struct{}, error) {
		return unit(a.engine.WriteFile(ctx, path, data, opts))
	})
}

// AppendFile is WriteFile with Append set.
func (a *API) AppendFile(ctx context.Context, path string, data []byte, opts fs.WriteFileOptions) *Promise[struct{}] {
	opts.Append = true
	return a.WriteFile(ctx, path, data, opts)
}

// MkdirTemp creates a uniquely named directory starting with prefix.
func (a *API) MkdirTemp(ctx context.Context, prefix string) *Promise[string] {
	return Go(func() (string, error) {
		return a.engine.MkdirTemp(ctx, prefix)
	})
}

// Mkdir creates a directory, with parents when opts.Recursive is set.
func (a *API) Mkdir(ctx context.Context, path string, opts fs.MkdirOptions) *Promise[struct{}] {
	return Go(func() (struct{}, error) {
		return unit(a.engine.Mkdir(ctx, path, opts))
	})
}

// Rmdir removes a directory, and its contents when opts.Recursive is set.
func (a *API) Rmdir(ctx context.Context, path string, opts fs.RmdirOptions) *Promise[struct{}] {
	return Go(func() (struct{}, error) {
		return unit(a.engine.Rmdir(ctx, path, opts))
	})
}

// Rm removes a file or, with opts.Recursive, a directory tree.
func (a *API) Rm(ctx context.Context, path string, opts fs.RmOptions) *Promise[struct{}] {
	return Go(func() (struct{}, error) {
		return unit(a.engine.Rm(ctx, path, opts))
	})
}

// Unlink removes a file or symlink.
func (a *API) Unlink(ctx context.Context, path string) *Promise[struct{}] {
	return Go(func() (struct{}, error) {
		return unit(a.engine.Unlink(ctx, path))
	})
}

// Rename moves oldPath to newPath.
func (a *API) Rename(ctx context.Context, oldPath, newPath string) *Promise[struct{}] {
	return Go(func() (struct{}, error) {
		return unit(a.engine.Rename(ctx, oldPath, newPath))
	})
}

// CopyFile copies src to dest.
func (a *API) CopyFile(ctx context.Context, src, dest string, opts fs.CopyFileOptions) *Promise[struct{}] {
	return Go(func() (struct{}, error) {
		return unit(a.engine.CopyFile(ctx, src, dest, opts))
	})
}

// Access resolves when path is reachable with mode.
func (a *API) Access(ctx context.Context, path string, mode fs.AccessMode) *Promise[struct{}] {
	return Go(func() (struct{}, error) {
		return unit(a.engine.Access(ctx, path, mode))
	})
}

// Stat follows symlinks and returns file metadata.
func (a *API) Stat(ctx context.Context, path string) *Promise[*fs.Stats] {
	return Go(func() (*fs.Stats, error) {
		return a.engine.Stat(ctx, path)
	})
}

// Lstat returns metadata of the link itself.
func (a *API) Lstat(ctx context.Context, path string) *Promise[*fs.Stats] {
	return Go(func() (*fs.Stats, error) {
		return a.engine.Lstat(ctx, path)
	})
}

// Glob matches a doublestar pattern.
func (a *API) Glob(ctx context.Context, pattern string, opts fs.GlobOptions) *Promise[[]string] {
	return Go(func() ([]string, error) {
		return a.engine.Glob(ctx, pattern, opts)
	})
}
