// Package config reads the line-oriented key=value options file.
package config

import (
	"winfresh/internal/interval"
)

// FileName is the options file looked for in the working directory.
const FileName = "options.config"

// Default delay bounds, in seconds, used when the options file is absent
// or a key is rejected.
const (
	DefaultMinDelay = 2.0
	DefaultMaxDelay = 7.0
)

// Options holds the effective program configuration.
type Options struct {
	// Bounds is the randomized delay range between keystroke cycles.
	Bounds interval.Bounds
	// ComboName selects a keystroke combination by name. Empty means
	// the built-in default.
	ComboName string
	// LogLevel filters the debug log ("debug", "info", "warning",
	// "error").
	LogLevel string
	// Swapped records that min_delay and max_delay were inverted in
	// the file and have been exchanged.
	Swapped bool
}

// Default returns the configuration used when no file is present.
func Default() Options {
	return Options{
		Bounds:   interval.Bounds{Min: DefaultMinDelay, Max: DefaultMaxDelay},
		LogLevel: "debug",
	}
}
