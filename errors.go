package otl2tex

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyOutline = errors.New("outline content cannot be empty")

	// Style errors.
	ErrUnknownStyle   = errors.New("unknown style id")
	ErrEmptyStyleCode = errors.New("style code cannot be empty")

	// Rendering errors.
	ErrEmptyNode = errors.New("node without content reached rendering")

	// Inclusion errors.
	ErrIncludeRead = errors.New("failed to read included file")

	// Evaluator errors.
	ErrNoEvaluator = errors.New("no script evaluator configured")
)
