package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// FileEnv names the environment variable pointing at an optional config file.
const FileEnv = "LLRT_CONFIG"

// Config holds all application configuration.
type Config struct {
	Logging LogConfig     `toml:"logging" yaml:"logging"`
	Runtime RuntimeConfig `toml:"runtime" yaml:"runtime"`
	FS      FSConfig      `toml:"fs" yaml:"fs"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" toml:"level" yaml:"level"`
	Development bool   `envconfig:"LOG_DEV" toml:"development" yaml:"development"`
}

// RuntimeConfig holds script runtime configuration.
type RuntimeConfig struct {
	TimeoutMS     int  `envconfig:"LLRT_TIMEOUT_MS" toml:"timeout_ms" yaml:"timeout_ms"`
	MaxInflight   int  `envconfig:"LLRT_MAX_INFLIGHT" toml:"max_inflight" yaml:"max_inflight"`
	PoolSize      int  `envconfig:"LLRT_POOL_SIZE" toml:"pool_size" yaml:"pool_size"`
	EnableConsole bool `envconfig:"LLRT_CONSOLE" toml:"console" yaml:"console"`
}

// FSConfig holds the permission bits used when the caller does not pass one.
type FSConfig struct {
	FileMode uint32 `envconfig:"LLRT_FILE_MODE" toml:"file_mode" yaml:"file_mode"`
	DirMode  uint32 `envconfig:"LLRT_DIR_MODE" toml:"dir_mode" yaml:"dir_mode"`
}

// Timeout returns the script timeout as a duration.
func (c RuntimeConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// Load builds configuration from defaults, an optional .env file, an
// optional config file named by LLRT_CONFIG, and the environment, in that
// order of increasing precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	if path := os.Getenv(FileEnv); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// LoadFile reads a TOML or YAML file on top of the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.mergeFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		return fmt.Errorf("unsupported config file extension %q", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Runtime: RuntimeConfig{
			TimeoutMS:     30000,
			MaxInflight:   64,
			PoolSize:      4,
			EnableConsole: true,
		},
		FS: FSConfig{
			FileMode: 0o666,
			DirMode:  0o777,
		},
	}
}
