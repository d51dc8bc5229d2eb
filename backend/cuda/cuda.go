//go:build cuda

// Package cuda reserves the registry slot for a native CUDA backend,
// enabled with the "cuda" build tag. The stub registers under the highest
// default priority but fails on use; a working implementation would drive
// nvrtc and the CUDA driver API through cgo.
package cuda

import (
	"errors"

	"github.com/gogpu/kernelc"
	"github.com/gogpu/kernelc/backend"
)

// BackendName is the registry name of this backend.
const BackendName = "cuda"

// ErrUnavailable is returned by every operation of the stub.
var ErrUnavailable = errors.New("cuda: backend not implemented")

func init() {
	backend.RegisterCompiler(BackendName, func() kernelc.CompilerBackend {
		return &Backend{}
	})
	backend.RegisterRuntime(BackendName, func() kernelc.RuntimeBackend {
		return &Backend{}
	})
}

// Backend is the CUDA stub. It satisfies both backend interfaces so the
// registry wiring is in place for a real implementation.
type Backend struct{}

func (b *Backend) Name() string { return BackendName }

func (b *Backend) CreateProgram(source []byte, label string) (kernelc.Program, error) {
	return nil, ErrUnavailable
}

func (b *Backend) Init() error {
	return ErrUnavailable
}

func (b *Backend) CreateContext(dev kernelc.Device) (kernelc.Context, error) {
	return nil, ErrUnavailable
}

var (
	_ kernelc.CompilerBackend = (*Backend)(nil)
	_ kernelc.RuntimeBackend  = (*Backend)(nil)
)
