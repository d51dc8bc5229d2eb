package backend

import (
	"errors"
	"sync"

	"github.com/gogpu/kernelc"
)

// ErrNotRegistered is returned when no backend of the requested kind is
// available.
var ErrNotRegistered = errors.New("backend: not registered")

// CompilerFactory creates a new compiler backend instance.
type CompilerFactory func() kernelc.CompilerBackend

// RuntimeFactory creates a new runtime backend instance.
type RuntimeFactory func() kernelc.RuntimeBackend

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	compilers  = make(map[string]CompilerFactory)
	runtimes   = make(map[string]RuntimeFactory)

	// Priority order for default selection (first registered name wins).
	// Native backends come before portable ones.
	compilerPriority = []string{"cuda", "naga"}
	runtimePriority  = []string{"cuda", "wgpu"}
)

// RegisterCompiler registers a compiler backend factory with the given
// name. Typically called from init() functions in backend packages. A
// factory registered under an existing name replaces it.
func RegisterCompiler(name string, factory CompilerFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	compilers[name] = factory
}

// RegisterRuntime registers a runtime backend factory with the given name.
func RegisterRuntime(name string, factory RuntimeFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	runtimes[name] = factory
}

// UnregisterCompiler removes a compiler backend. Useful for testing.
func UnregisterCompiler(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(compilers, name)
}

// UnregisterRuntime removes a runtime backend. Useful for testing.
func UnregisterRuntime(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(runtimes, name)
}

// Compilers returns the registered compiler backend names.
func Compilers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(compilers))
	for name := range compilers {
		names = append(names, name)
	}
	return names
}

// Runtimes returns the registered runtime backend names.
func Runtimes() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(runtimes))
	for name := range runtimes {
		names = append(names, name)
	}
	return names
}

// Compiler returns a compiler backend by name, or an error if the name is
// not registered.
func Compiler(name string) (kernelc.CompilerBackend, error) {
	registryMu.RLock()
	factory, ok := compilers[name]
	registryMu.RUnlock()
	if !ok {
		return nil, ErrNotRegistered
	}
	return factory(), nil
}

// Runtime returns a runtime backend by name, or an error if the name is
// not registered.
func Runtime(name string) (kernelc.RuntimeBackend, error) {
	registryMu.RLock()
	factory, ok := runtimes[name]
	registryMu.RUnlock()
	if !ok {
		return nil, ErrNotRegistered
	}
	return factory(), nil
}

// DefaultCompiler returns the best registered compiler backend based on
// priority, falling back to any registered backend.
func DefaultCompiler() (kernelc.CompilerBackend, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range compilerPriority {
		if factory, ok := compilers[name]; ok {
			return factory(), nil
		}
	}
	for _, factory := range compilers {
		return factory(), nil
	}
	return nil, ErrNotRegistered
}

// DefaultRuntime returns the best registered runtime backend based on
// priority, falling back to any registered backend.
func DefaultRuntime() (kernelc.RuntimeBackend, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range runtimePriority {
		if factory, ok := runtimes[name]; ok {
			return factory(), nil
		}
	}
	for _, factory := range runtimes {
		return factory(), nil
	}
	return nil, ErrNotRegistered
}
