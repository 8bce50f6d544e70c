package fs

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/charlievieth/fastwalk"
)

// ReadDir lists the entries of a directory. A flat listing is returned in
// the order the OS reports it; a recursive listing is sorted by path
// relative to the listed directory and excludes the directory itself.
func (e *Engine) ReadDir(ctx context.Context, path string, opts ReadDirOptions) (entries []Dirent, err error) {
	start := time.Now()
	defer func() { err = e.track("readdir", path, start, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Recursive {
		return readDirRecursive(path)
	}

	list, rerr := readDirUnsorted(path)
	if rerr != nil {
		return nil, mapError("scandir", path, rerr)
	}
	entries = make([]Dirent, 0, len(list))
	for _, d := range list {
		entries = append(entries, newDirent(path, d))
	}
	return entries, nil
}

// ReadDirNames is ReadDir reduced to names. Recursive listings yield paths
// relative to the listed directory.
func (e *Engine) ReadDirNames(ctx context.Context, path string, opts ReadDirOptions) ([]string, error) {
	entries, err := e.ReadDir(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	if !opts.Recursive {
		return Names(entries), nil
	}
	return relativeNames(path, entries), nil
}

func relativeNames(root string, entries []Dirent) []string {
	names := make([]string, len(entries))
	for i, d := range entries {
		rel, err := filepath.Rel(root, d.Path())
		if err != nil {
			rel = d.Name
		}
		names[i] = rel
	}
	return names
}

func readDirUnsorted(path string) ([]iofs.DirEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.ReadDir(-1)
}

func readDirRecursive(root string) ([]Dirent, error) {
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, mapError("scandir", root, err)
	}
	if !info.IsDir() {
		return nil, newErrno("scandir", root, syscall.ENOTDIR)
	}

	var (
		mu      sync.Mutex
		entries []Dirent
	)
	conf := fastwalk.Config{Follow: false}
	werr := fastwalk.Walk(&conf, root, func(p string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		entry := newDirent(filepath.Dir(p), d)
		mu.Lock()
		entries = append(entries, entry)
		mu.Unlock()
		return nil
	})
	if werr != nil {
		return nil, mapError("scandir", "", werr)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path() < entries[j].Path()
	})
	return entries, nil
}

// Mkdir creates a directory. With Recursive it creates missing parents and
// succeeds when the directory already exists.
func (e *Engine) Mkdir(ctx context.Context, path string, opts MkdirOptions) (err error) {
	start := time.Now()
	defer func() { err = e.track("mkdir", path, start, err) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	mode := opts.Mode.Perm()
	if mode == 0 {
		mode = e.dirMode
	}

	var merr error
	if opts.Recursive {
		merr = os.MkdirAll(path, mode)
	} else {
		merr = os.Mkdir(path, mode)
	}
	if merr != nil {
		return mapError("mkdir", path, merr)
	}
	return nil
}

// MkdirTemp creates a uniquely named directory whose basename starts with
// the basename of prefix, inside prefix's directory part, and returns its
// path. An empty directory part means the current directory.
func (e *Engine) MkdirTemp(ctx context.Context, prefix string) (dir string, err error) {
	start := time.Now()
	defer func() { err = e.track("mkdtemp", prefix, start, err) }()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	parent, base := filepath.Split(prefix)
	relative := parent == ""
	if relative {
		parent = "."
	}

	name, merr := os.MkdirTemp(parent, base+"*")
	if merr != nil {
		return "", mapError("mkdtemp", prefix+"XXXXXX", merr)
	}
	if relative {
		name = filepath.Base(name)
	}
	return name, nil
}

// Rmdir removes a directory. Without Recursive the directory must be
// empty; with it the whole subtree is removed depth-first and the first
// failure is reported with the path of the entry that caused it.
func (e *Engine) Rmdir(ctx context.Context, path string, opts RmdirOptions) (err error) {
	start := time.Now()
	defer func() { err = e.track("rmdir", path, start, err) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	if !opts.Recursive {
		if rerr := rmdir(path); rerr != nil {
			fsErr := mapError("rmdir", path, rerr)
			// Some systems report a non-empty directory as EEXIST.
			if fsErr.Kind == KindAlreadyExists {
				return newErrno("rmdir", path, syscall.ENOTEMPTY)
			}
			return fsErr
		}
		return nil
	}

	info, lerr := os.Lstat(path)
	if lerr != nil {
		return mapError("rmdir", path, lerr)
	}
	if !info.IsDir() {
		return newErrno("rmdir", path, syscall.ENOTDIR)
	}
	if rerr := removeTree(path); rerr != nil {
		return mapError("rmdir", "", rerr)
	}
	return nil
}

// Rm removes a file, symlink or, with Recursive, a directory tree. Force
// ignores a missing path.
func (e *Engine) Rm(ctx context.Context, path string, opts RmOptions) (err error) {
	start := time.Now()
	defer func() { err = e.track("rm", path, start, err) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	info, lerr := os.Lstat(path)
	if lerr != nil {
		if opts.Force && errors.Is(lerr, iofs.ErrNotExist) {
			return nil
		}
		return mapError("lstat", path, lerr)
	}

	if info.IsDir() {
		if !opts.Recursive {
			return newErrno("rm", path, syscall.EISDIR)
		}
		if rerr := removeTree(path); rerr != nil {
			return mapError("rm", "", rerr)
		}
		return nil
	}
	if rerr := os.Remove(path); rerr != nil {
		return mapError("unlink", path, rerr)
	}
	return nil
}

// removeTree deletes dir and everything below it without following
// symlinks.
func removeTree(dir string) error {
	entries, err := readDirUnsorted(dir)
	if err != nil {
		return err
	}
	for _, d := range entries {
		child := filepath.Join(dir, d.Name())
		if d.IsDir() {
			if err := removeTree(child); err != nil {
				return err
			}
			continue
		}
		if err := os.Remove(child); err != nil {
			return err
		}
	}
	return rmdir(dir)
}
