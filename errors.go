package kernelc

import "errors"

// Error sentinels, one per failure kind. Every error returned by this
// package wraps exactly one of them, so callers can classify failures with
// errors.Is without parsing messages.
var (
	// ErrInput indicates a missing or empty path argument, an unreadable
	// source file, or a consumed artifact.
	ErrInput = errors.New("kernelc: invalid input")

	// ErrDevice indicates that no suitable device was found or that a
	// device query failed.
	ErrDevice = errors.New("kernelc: device unavailable")

	// ErrResource indicates a required auxiliary header was not found on
	// the search path.
	ErrResource = errors.New("kernelc: resource not found")

	// ErrCompile indicates the compiler backend rejected the program.
	// The compiler log has already been written to the diagnostic writer
	// by the time this is returned.
	ErrCompile = errors.New("kernelc: compilation failed")

	// ErrRuntime indicates a context-creation or module-load failure in
	// the runtime backend.
	ErrRuntime = errors.New("kernelc: runtime failure")
)
