// Package kernelc compiles device kernel source at run time and loads the
// resulting binary into an executable module on a GPU device.
//
// Accelerator programs are frequently not known at build time: they may
// depend on the architecture of the device present in the system, be
// generated, or be supplied by the user. kernelc therefore compiles against
// the device that is actually available, then loads the produced artifact
// into an execution context on that device.
//
// The package defines two components used in sequence:
//
//	compiler := &kernelc.Compiler{Selector: sel, Backend: cb}
//	art, err := compiler.CompileFile("kernel.wgsl", os.Args, false)
//	...
//	loader := &kernelc.Loader{Selector: sel, Runtime: rb}
//	mod, err := loader.Load(art, os.Args)
//
// Compiler and Loader each resolve a device independently, matching the
// historical contract. Pipeline resolves a single device once and threads
// it through both stages, which is the recommended way to avoid compiling
// for one device and loading on another:
//
//	p, err := kernelc.NewPipeline(sel, cb, rb, os.Args)
//	mod, err := p.CompileAndLoad("kernel.wgsl", false)
//
// Concrete collaborators live in sub-packages: backend/naga provides the
// runtime compiler (WGSL to SPIR-V) and backend/wgpu provides device
// selection and module loading. Both register themselves with the backend
// registry, so a blank import is enough to make them available:
//
//	import _ "github.com/gogpu/kernelc/backend/naga"
//	import _ "github.com/gogpu/kernelc/backend/wgpu"
//
// kernelc produces no log output by default. Call SetLogger to enable it.
// Compiler diagnostics are not log records: they are written verbatim to
// the Compiler's Diag writer (os.Stderr by default).
//
// Neither Compiler nor Loader is safe for concurrent use with the same
// backend: device selection and context creation touch process-wide driver
// state. Serialize externally, or use one Pipeline per process.
package kernelc
