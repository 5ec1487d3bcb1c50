// Package logging wraps the structured logger used throughout the engine,
// so call sites never import charmbracelet/log directly.
package logging

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	once    sync.Once
	logger  *log.Logger
)

// Default returns the process-wide structured logger, created with the
// engine's standard options on first use.
func Default() *log.Logger {
	once.Do(func() {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "microtune",
		})
	})
	return logger
}

// SetLevel adjusts the default logger's verbosity.
func SetLevel(level log.Level) {
	Default().SetLevel(level)
}
