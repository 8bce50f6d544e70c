package fs

import (
	"context"
	iofs "io/fs"
	"os"
	"time"

	"go.uber.org/zap"
)

// Observer receives one report per engine call.
type Observer interface {
	ObserveOp(op string, duration time.Duration, err error)
}

// Engine performs filesystem operations against the host OS. It holds no
// filesystem state and is safe for concurrent use.
type Engine struct {
	log      *zap.Logger
	observer Observer
	fileMode iofs.FileMode
	dirMode  iofs.FileMode
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug-level operation traces.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithObserver registers an observer, typically the metrics collector.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// WithFileMode sets the permission bits for newly created files.
func WithFileMode(mode iofs.FileMode) Option {
	return func(e *Engine) {
		e.fileMode = mode.Perm()
	}
}

// WithDirMode sets the permission bits for newly created directories.
func WithDirMode(mode iofs.FileMode) Option {
	return func(e *Engine) {
		e.dirMode = mode.Perm()
	}
}

// New creates an engine. Without options it logs nowhere, observes nothing
// and creates files 0666 and directories 0777 before umask, as Node does.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:      zap.NewNop(),
		fileMode: 0o666,
		dirMode:  0o777,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// track logs and reports a finished call, passing err through.
func (e *Engine) track(op, path string, start time.Time, err error) error {
	d := time.Since(start)
	if err != nil {
		e.log.Debug("fs op failed",
			zap.String("op", op),
			zap.String("path", path),
			zap.Duration("duration", d),
			zap.Error(err))
	} else {
		e.log.Debug("fs op",
			zap.String("op", op),
			zap.String("path", path),
			zap.Duration("duration", d))
	}
	if e.observer != nil {
		e.observer.ObserveOp(op, d, err)
	}
	return err
}

// Stat follows symlinks.
func (e *Engine) Stat(ctx context.Context, path string) (st *Stats, err error) {
	start := time.Now()
	defer func() { err = e.track("stat", path, start, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, serr := os.Stat(path)
	if serr != nil {
		return nil, mapError("stat", path, serr)
	}
	return newStats(info), nil
}

// Lstat reports on a symlink itself rather than its target.
func (e *Engine) Lstat(ctx context.Context, path string) (st *Stats, err error) {
	start := time.Now()
	defer func() { err = e.track("lstat", path, start, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, serr := os.Lstat(path)
	if serr != nil {
		return nil, mapError("lstat", path, serr)
	}
	return newStats(info), nil
}

// Access checks that path exists and that the calling process holds every
// permission in mode. AccessExists only checks existence.
func (e *Engine) Access(ctx context.Context, path string, mode AccessMode) (err error) {
	start := time.Now()
	defer func() { err = e.track("access", path, start, err) }()

	if mode&^accessModeMask != 0 {
		return NewArgumentError("ERR_OUT_OF_RANGE", "mode",
			"The value of \"mode\" is out of range. It must be an integer >= 0 && <= 7. Received %d", mode)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if aerr := access(path, mode); aerr != nil {
		return mapError("access", path, aerr)
	}
	return nil
}
