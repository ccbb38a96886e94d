package main

import (
	"errors"
	"os"

	otl2tex "github.com/otlkit/go-otl2tex"
	"github.com/otlkit/go-otl2tex/internal/config"
	"github.com/otlkit/go-otl2tex/internal/dateutil"
)

// Exit codes for the otl2tex CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error (malformed outline included)
	ExitUsage   = 2 // Invalid flags, config, style code, or validation
	ExitIO      = 3 // File not found, permission denied
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use
// fmt.Errorf("%w", err). Aggregated batch errors report the first
// classifiable component.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadOutline) ||
		errors.Is(err, ErrWriteTeX) ||
		errors.Is(err, otl2tex.ErrIncludeRead) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, otl2tex.ErrEmptyOutline) ||
		errors.Is(err, otl2tex.ErrUnknownStyle) ||
		errors.Is(err, otl2tex.ErrEmptyStyleCode) {
		return ExitUsage
	}

	return ExitGeneral
}
