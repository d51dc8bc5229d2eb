package kernelc

import "fmt"

// Pipeline compiles and loads against a single resolved device.
//
// Compiler.CompileFile and Loader.Load each run device selection on their
// own, so a caller whose "best device" changes between the two calls can
// compile for one architecture and load on a context bound to another.
// Pipeline removes that hazard: the device is resolved once, at
// construction, and threaded through both stages.
type Pipeline struct {
	device   Device
	compiler *Compiler
	loader   *Loader
}

// NewPipeline resolves a device with sel and the forwarded process
// arguments, and returns a Pipeline that compiles with cb and loads with
// rb on that device.
func NewPipeline(sel Selector, cb CompilerBackend, rb RuntimeBackend, args []string) (*Pipeline, error) {
	if sel == nil {
		return nil, fmt.Errorf("%w: no device selector configured", ErrDevice)
	}
	dev, err := sel.SelectDevice(args)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDevice, err)
	}
	return &Pipeline{
		device:   dev,
		compiler: &Compiler{Selector: sel, Backend: cb},
		loader:   &Loader{Selector: sel, Runtime: rb},
	}, nil
}

// Device returns the device the pipeline is bound to.
func (p *Pipeline) Device() Device {
	return p.device
}

// Compiler returns the pipeline's compiler for per-call configuration
// (diagnostic writer, aux header name, locator).
func (p *Pipeline) Compiler() *Compiler {
	return p.compiler
}

// Compile compiles the kernel source at path for the pipeline's device.
func (p *Pipeline) Compile(path string, requiresAuxHeaders bool) (*Artifact, error) {
	return p.compiler.CompileFileOn(p.device, path, requiresAuxHeaders)
}

// Load loads an artifact on the pipeline's device, consuming it.
func (p *Pipeline) Load(art *Artifact) (Module, error) {
	return p.loader.LoadOn(p.device, art)
}

// CompileAndLoad compiles the kernel source at path and loads the result,
// both on the pipeline's device.
func (p *Pipeline) CompileAndLoad(path string, requiresAuxHeaders bool) (Module, error) {
	art, err := p.Compile(path, requiresAuxHeaders)
	if err != nil {
		return nil, err
	}
	return p.Load(art)
}
