package pixelcopy

import "log/slog"

// Option configures a Readback during creation.
//
// Example:
//
//	cfg, _ := pixelcopy.LoadConfig("pixelcopy.toml")
//	rb := pixelcopy.New(dev, pixelcopy.WithConfig(cfg))
type Option func(*options)

// options holds optional configuration for Readback creation.
type options struct {
	config Config
	logger *slog.Logger
}

// defaultOptions returns the default readback options.
func defaultOptions() options {
	return options{
		config: DefaultConfig(),
		logger: nil, // package Logger() at call time
	}
}

// WithConfig sets the process configuration. The value is copied; later
// changes to the caller's Config have no effect.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithLogger sets a logger for this Readback and its device, overriding the
// package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
