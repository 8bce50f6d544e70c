package runtime

import (
	"errors"
	"fmt"
	"time"

	"github.com/imaitland/llrt/internal/config"
)

var (
	ErrTimeout   = errors.New("execution timeout exceeded")
	ErrCancelled = errors.New("execution cancelled")
	ErrClosed    = errors.New("runtime is closed")
)

// Config defines runtime configuration
type Config struct {
	Timeout          time.Duration // Execution timeout, including pending async work
	MaxInflight      int64         // Concurrent filesystem operations per runtime
	EnableConsole    bool          // Capture console.log/warn/error
	MaxCallStackSize int
	Argv             []string // process.argv after the script name
}

// Result holds execution result
type Result struct {
	ID       string        // Execution ID
	Value    interface{}   // Settled completion value
	Console  []LogEntry    // Console output
	Duration time.Duration // Execution time
	Error    error         // Execution error
}

// LogEntry represents console output
type LogEntry struct {
	Level   string    `json:"level"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// ScriptError is an exception thrown by a script, or the reason of a
// rejected promise nobody handled.
type ScriptError struct {
	Name      string
	Message   string
	Code      string
	Stack     string
	Unhandled bool
}

func (e *ScriptError) Error() string {
	msg := e.Message
	if e.Name != "" {
		msg = fmt.Sprintf("%s: %s", e.Name, e.Message)
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Code)
	}
	if e.Unhandled {
		msg = "Uncaught (in promise) " + msg
	}
	return msg
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() Config {
	return Config{
		Timeout:          30 * time.Second,
		MaxInflight:      64,
		EnableConsole:    true,
		MaxCallStackSize: 1024,
	}
}

// ConfigFrom maps the loaded application config onto a runtime Config.
func ConfigFrom(cfg config.RuntimeConfig) Config {
	c := DefaultConfig()
	c.Timeout = cfg.Timeout()
	if cfg.MaxInflight > 0 {
		c.MaxInflight = int64(cfg.MaxInflight)
	}
	c.EnableConsole = cfg.EnableConsole
	return c
}
