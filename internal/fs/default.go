package fs

import "sync"

var (
	defaultEngine *Engine
	defaultOnce   sync.Once
)

// Default returns the process-wide engine used by the package-level
// promise functions. It is created on first use with New().
func Default() *Engine {
	defaultOnce.Do(func() {
		defaultEngine = New()
	})
	return defaultEngine
}
