package pixelcopy

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvPrivateReadback = "PIXELCOPY_PRIVATE_READBACK"
	EnvBackend         = "PIXELCOPY_BACKEND"
	EnvLogLevel        = "PIXELCOPY_LOG_LEVEL"
)

// Config is the process configuration of a Readback. It is read once at
// startup and copied into the Readback by New.
type Config struct {
	// PrivateReadback enables the direct memory copy fast path.
	PrivateReadback bool `toml:"private_readback"`

	// Backend names the preferred device backend. Empty selects the best
	// available one.
	Backend string `toml:"backend"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns the configuration used when nothing is set: fast
// path off, automatic backend, warnings only.
func DefaultConfig() Config {
	return Config{LogLevel: "warn"}
}

// ParseConfig decodes a TOML document over the defaults.
// Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("pixelcopy: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a TOML config file. An empty path returns DefaultConfig.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return Config{}, fmt.Errorf("pixelcopy: load config: %w", err)
	}
	return ParseConfig(data)
}

// ConfigFromEnv overlays the PIXELCOPY_* environment variables on base.
func ConfigFromEnv(base Config) (Config, error) {
	cfg := base
	if v, ok := os.LookupEnv(EnvPrivateReadback); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return Config{}, fmt.Errorf("pixelcopy: %s: %w", EnvPrivateReadback, err)
		}
		cfg.PrivateReadback = b
	}
	if v, ok := os.LookupEnv(EnvBackend); ok {
		cfg.Backend = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		cfg.LogLevel = strings.TrimSpace(v)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the log level.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel. An empty level is slog.LevelWarn.
func (c Config) Level() (slog.Level, error) {
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("pixelcopy: invalid log level %q: %w", c.LogLevel, err)
	}
	return l, nil
}
