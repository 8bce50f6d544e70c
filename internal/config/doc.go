// Package config provides 12-factor configuration management for llrt.
//
// Sources, lowest precedence first:
//   - Built-in defaults
//   - A .env file in the working directory (never overrides set variables)
//   - A TOML or YAML file named by LLRT_CONFIG
//   - Environment variables
//
// Configuration Sections:
//   - Logging: Log level and output format
//   - Runtime: Script timeout, in-flight I/O limit, pool size, console
//   - FS: Default file and directory permission bits
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	rt, err := runtime.New(engine, runtime.Config{Timeout: cfg.Runtime.Timeout()})
//
// Environment Variables:
//   - LOG_LEVEL, LOG_DEV
//   - LLRT_TIMEOUT_MS, LLRT_MAX_INFLIGHT, LLRT_POOL_SIZE, LLRT_CONSOLE
//   - LLRT_FILE_MODE, LLRT_DIR_MODE (octal accepted, e.g. 0644)
package config
