package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Glob returns the paths matching a doublestar pattern ("**" crosses
// directories). Relative patterns resolve against opts.Cwd and yield
// relative matches; absolute patterns yield absolute matches. Results are
// sorted.
func (e *Engine) Glob(ctx context.Context, pattern string, opts GlobOptions) (matches []string, err error) {
	start := time.Now()
	defer func() { err = e.track("glob", pattern, start, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
		return nil, NewArgumentError("ERR_INVALID_ARG_VALUE", "pattern",
			"The argument 'pattern' is not a valid glob pattern. Received '%s'", pattern)
	}

	if filepath.IsAbs(pattern) {
		matches, err = doublestar.FilepathGlob(pattern)
	} else {
		cwd := opts.Cwd
		if cwd == "" {
			cwd = "."
		}
		matches, err = doublestar.Glob(os.DirFS(cwd), filepath.ToSlash(pattern))
		for i, m := range matches {
			matches[i] = filepath.FromSlash(m)
		}
	}
	if err != nil {
		if errors.Is(err, doublestar.ErrBadPattern) {
			return nil, NewArgumentError("ERR_INVALID_ARG_VALUE", "pattern",
				"The argument 'pattern' is not a valid glob pattern. Received '%s'", pattern)
		}
		return nil, mapError("glob", pattern, err)
	}

	sort.Strings(matches)
	return matches, nil
}
