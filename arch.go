package kernelc

import "fmt"

// Architecture identifies the compute-capability revision of a device as a
// (major, minor) pair. Compiled artifacts are only valid for the
// architecture they were compiled for.
//
// The meaning of the pair is backend-defined: the CUDA backend reports SM
// versions (7,5 for Turing), while the wgpu backend reports the SPIR-V
// environment its modules target.
type Architecture struct {
	Major int
	Minor int
}

// String returns the dotted form, e.g. "7.5".
func (a Architecture) String() string {
	return fmt.Sprintf("%d.%d", a.Major, a.Minor)
}

// SM returns the target name used in compile flags. The digits are
// concatenated, not combined arithmetically: (7,5) yields "sm_75" and
// (10,2) yields "sm_102".
func (a Architecture) SM() string {
	return fmt.Sprintf("sm_%d%d", a.Major, a.Minor)
}

// IsZero reports whether the architecture is unset.
func (a Architecture) IsZero() bool {
	return a.Major == 0 && a.Minor == 0
}
