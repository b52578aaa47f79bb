// Package log wires the zerolog base logger shared by rxcore components.
package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config captures options for configuring the package logger.
type Config struct {
	Level  string    // optional log level ("debug", "info", etc.)
	Output io.Writer // optional writer (defaults to os.Stderr)
}

var (
	mu          sync.RWMutex
	base        zerolog.Logger
	initialised bool // base holds a usable logger
	configured  bool // Configure or Replace has been called explicitly
)

// Configure installs the base logger. Only the first explicit call wins;
// the implicit default built on first use does not count, so Configure may
// run after package initialisation. Loggers derived before the call keep
// the previous configuration.
func Configure(cfg Config) {
	l := newLogger(cfg)

	mu.Lock()
	defer mu.Unlock()
	if configured {
		return
	}
	base = l
	initialised, configured = true, true
}

func newLogger(cfg Config) zerolog.Logger {
	level := zerolog.WarnLevel
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(cfg.Level); err == nil {
			level = parsed
		}
	} else if env := os.Getenv("RXCORE_LOG_LEVEL"); env != "" {
		if parsed, err := zerolog.ParseLevel(env); err == nil {
			level = parsed
		}
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano

	writer := cfg.Output
	if writer == nil {
		writer = os.Stderr
	}

	return zerolog.New(writer).Level(level).With().
		Timestamp().
		Str("lib", "rxcore").
		Logger()
}

// Replace swaps the base logger and returns the previous one. A later
// Configure does not override it.
func Replace(l zerolog.Logger) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	prev := base
	if !initialised {
		prev = newLogger(Config{})
	}
	base = l
	initialised, configured = true, true
	return prev
}

func logger() zerolog.Logger {
	mu.RLock()
	if initialised {
		l := base
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if !initialised {
		base = newLogger(Config{})
		initialised = true
	}
	return base
}

// Base returns the configured base logger instance.
func Base() zerolog.Logger {
	return logger()
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	return logger().With().Str(FieldComponent, component).Logger()
}
