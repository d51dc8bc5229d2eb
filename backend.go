package kernelc

// CompilerBackend turns kernel source text into an architecture-specific
// binary at run time. Implementations wrap a runtime compiler such as naga
// (backend/naga). A backend may be used for many programs; a Program is
// single-use.
type CompilerBackend interface {
	// Name returns the backend identifier (e.g. "naga").
	Name() string

	// CreateProgram creates a compiler program from in-memory source.
	// label tags the program for diagnostics, conventionally the source
	// file path.
	CreateProgram(source []byte, label string) (Program, error)
}

// Program is one compilation unit held by a compiler backend.
//
// Log and Artifact refer to the most recent Compile call. Log must be
// retrievable whether or not Compile succeeded: diagnostics are surfaced
// to the user before a compile failure is acted on.
type Program interface {
	// Compile compiles the program with the given flags.
	Compile(flags []string) error

	// Log returns the diagnostic log of the last Compile, or "" if the
	// compiler produced none.
	Log() string

	// Artifact returns the compiled binary. It is only valid after a
	// successful Compile.
	Artifact() ([]byte, error)

	// Close releases resources held by the program.
	Close()
}

// RuntimeBackend materializes compiled artifacts into executable modules
// on a device. Implementations wrap a device runtime such as wgpu
// (backend/wgpu).
type RuntimeBackend interface {
	// Name returns the backend identifier (e.g. "wgpu").
	Name() string

	// Init initializes the device runtime. Initialization is process-wide
	// and idempotent: repeated calls after a success are no-ops.
	Init() error

	// CreateContext creates an execution context bound to the device.
	// The device must have been produced by this backend's selector.
	CreateContext(dev Device) (Context, error)
}

// Context is a device-side execution context that modules are loaded into.
type Context interface {
	// Device returns the device this context is bound to.
	Device() Device

	// LoadModule loads a compiled artifact into an executable module.
	// label tags the module for diagnostics.
	LoadModule(data []byte, label string) (Module, error)

	// Close releases the context and everything loaded into it.
	Close() error
}

// Module is a loaded, executable unit on a device. Symbol lookup and
// kernel launch are the concern of the runtime backend's own API; kernelc
// only materializes the module.
type Module interface {
	// Label returns the diagnostic label the module was loaded with.
	Label() string
}
