package fs

import (
	"context"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"syscall"
	"time"

	"github.com/imaitland/llrt/internal/encoding"
)

// ReadFile returns the full contents of a file.
func (e *Engine) ReadFile(ctx context.Context, path string) (data []byte, err error) {
	start := time.Now()
	defer func() { err = e.track("readFile", path, start, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, rerr := os.ReadFile(path)
	if rerr != nil {
		return nil, mapError(syscallOf(rerr, "open"), path, rerr)
	}
	return data, nil
}

// ReadFileHead returns at most n bytes from the start of a file.
func (e *Engine) ReadFileHead(ctx context.Context, path string, n int) (data []byte, err error) {
	start := time.Now()
	defer func() { err = e.track("read", path, start, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, oerr := os.Open(path)
	if oerr != nil {
		return nil, mapError("open", path, oerr)
	}
	defer f.Close()

	data, rerr := io.ReadAll(io.LimitReader(f, int64(n)))
	if rerr != nil {
		return nil, mapError("read", path, rerr)
	}
	return data, nil
}

// ReadFileString reads a file and decodes it with opts.Encoding.
func (e *Engine) ReadFileString(ctx context.Context, path string, opts ReadFileOptions) (string, error) {
	enc, err := encoding.Parse(string(opts.Encoding))
	if err != nil {
		return "", NewArgumentError("ERR_INVALID_ARG_VALUE", "encoding", "%s", err.Error())
	}
	data, err := e.ReadFile(ctx, path)
	if err != nil {
		return "", err
	}
	return encoding.Decode(data, enc)
}

// WriteFile creates or truncates path and writes data. With Append the
// data is added to the end of an existing file instead.
func (e *Engine) WriteFile(ctx context.Context, path string, data []byte, opts WriteFileOptions) (err error) {
	op := "writeFile"
	if opts.Append {
		op = "appendFile"
	}
	start := time.Now()
	defer func() { err = e.track(op, path, start, err) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	mode := opts.Mode.Perm()
	if mode == 0 {
		mode = e.fileMode
	}
	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if opts.Append {
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}

	f, oerr := os.OpenFile(path, flag, mode)
	if oerr != nil {
		return mapError("open", path, oerr)
	}
	_, werr := f.Write(data)
	cerr := f.Close()
	if werr != nil {
		return mapError("write", path, werr)
	}
	if cerr != nil {
		return mapError("close", path, cerr)
	}
	return nil
}

// WriteFileString encodes s with opts.Encoding and writes it.
func (e *Engine) WriteFileString(ctx context.Context, path, s string, opts WriteFileOptions) error {
	enc, err := encoding.Parse(string(opts.Encoding))
	if err != nil {
		return NewArgumentError("ERR_INVALID_ARG_VALUE", "encoding", "%s", err.Error())
	}
	data, err := encoding.Encode(s, enc)
	if err != nil {
		return err
	}
	return e.WriteFile(ctx, path, data, opts)
}

// Unlink removes a file or symlink. Directories are rejected.
func (e *Engine) Unlink(ctx context.Context, path string) (err error) {
	start := time.Now()
	defer func() { err = e.track("unlink", path, start, err) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	info, lerr := os.Lstat(path)
	if lerr != nil {
		return mapError("unlink", path, lerr)
	}
	if info.IsDir() {
		// Linux says EISDIR, macOS EPERM; report the former everywhere.
		return newErrno("unlink", path, syscall.EISDIR)
	}
	if rerr := os.Remove(path); rerr != nil {
		return mapError("unlink", path, rerr)
	}
	return nil
}

// Rename moves oldPath to newPath, replacing newPath if it is a file.
func (e *Engine) Rename(ctx context.Context, oldPath, newPath string) (err error) {
	start := time.Now()
	defer func() { err = e.track("rename", oldPath, start, err) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	if rerr := os.Rename(oldPath, newPath); rerr != nil {
		fsErr := mapError("rename", oldPath, rerr)
		fsErr.Dest = newPath
		return fsErr
	}
	return nil
}

// CopyFile copies the contents and permission bits of src to dest.
func (e *Engine) CopyFile(ctx context.Context, src, dest string, opts CopyFileOptions) (err error) {
	start := time.Now()
	defer func() { err = e.track("copyFile", src, start, err) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	if cerr := copyFile(src, dest, opts.Exclusive); cerr != nil {
		fsErr := mapError("copyfile", src, cerr)
		fsErr.Dest = dest
		return fsErr
	}
	return nil
}

func copyFile(src, dest string, exclusive bool) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &os.PathError{Op: "copyfile", Path: src, Err: syscall.EISDIR}
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if exclusive {
		flag |= os.O_EXCL
	}
	out, err := os.OpenFile(dest, flag, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// syscallOf picks the syscall name Node would report for a failed read:
// "read" when the path opened but turned out to be a directory.
func syscallOf(err error, fallback string) string {
	var pathErr *iofs.PathError
	if errors.As(err, &pathErr) && pathErr.Op == "read" {
		return "read"
	}
	return fallback
}
