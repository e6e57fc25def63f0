package generator

import "errors"

var (
	// ErrUnknownProcess indicates a process label with no generate block.
	ErrUnknownProcess = errors.New("generator: unknown process")

	// ErrUnresolved indicates a deck requested for a point that lacks the
	// coupling (or, with an explicit width, the total width).
	ErrUnresolved = errors.New("generator: point not resolved")

	// ErrNoCrossSection indicates a banner without an integrated weight line.
	ErrNoCrossSection = errors.New("generator: no cross-section in banner")

	// ErrNoExecutable indicates a Runner without a generator executable.
	ErrNoExecutable = errors.New("generator: no executable configured")
)
