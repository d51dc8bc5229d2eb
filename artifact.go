package kernelc

import (
	"fmt"
	"sync/atomic"
)

// Artifact is a compiled binary for one specific device architecture.
//
// Ownership transfers from the Compiler through the caller to the Loader:
// a successful or failed Load consumes the artifact, after which its bytes
// are no longer reachable and a second Load reports ErrInput. An Artifact
// is never partially valid; the Compiler either returns one with non-empty
// bytes or returns an error.
type Artifact struct {
	data     []byte
	arch     Architecture
	label    string
	consumed atomic.Bool
}

// NewArtifact wraps a compiled binary. Intended for callers that obtain
// binaries out of band (e.g. from a file) and want to load them through a
// Loader.
func NewArtifact(data []byte, arch Architecture, label string) *Artifact {
	return &Artifact{data: data, arch: arch, label: label}
}

// Bytes returns the binary contents, or nil once the artifact has been
// consumed by a Load.
func (a *Artifact) Bytes() []byte {
	if a.consumed.Load() {
		return nil
	}
	return a.data
}

// Size returns the binary size in bytes, or 0 once consumed.
func (a *Artifact) Size() int {
	return len(a.Bytes())
}

// Architecture returns the device architecture the artifact was compiled
// for.
func (a *Artifact) Architecture() Architecture {
	return a.arch
}

// Label returns the diagnostic label, conventionally the source file path.
func (a *Artifact) Label() string {
	return a.label
}

// consume claims the artifact's bytes exactly once. The second and later
// calls fail, guarding against double-loads of a moved-from artifact.
func (a *Artifact) consume() ([]byte, error) {
	if a.consumed.Swap(true) {
		return nil, fmt.Errorf("%w: artifact %q already consumed", ErrInput, a.label)
	}
	data := a.data
	a.data = nil
	return data, nil
}
