// Package naga provides a kernelc compiler backend that compiles WGSL
// kernel source to SPIR-V at run time using the pure Go naga compiler.
//
// The backend understands two flags:
//
//	--gpu-architecture=sm_<major><minor>
//	--include-path=<dir>
//
// The architecture flag is validated and recorded; naga emits portable
// SPIR-V, so the flag selects no code path but a malformed value is a
// compile error. Include paths are used to resolve //!include directives
// (see Preprocess).
package naga

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/naga"

	"github.com/gogpu/kernelc"
	"github.com/gogpu/kernelc/backend"
)

// BackendName is the registry name of this backend.
const BackendName = "naga"

func init() {
	backend.RegisterCompiler(BackendName, func() kernelc.CompilerBackend {
		return New()
	})
}

// Backend is a compiler backend over naga. The zero value is ready to use;
// a single Backend may create any number of programs.
type Backend struct{}

// New returns a naga compiler backend.
func New() *Backend {
	return &Backend{}
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return BackendName }

// CreateProgram creates a compiler program from in-memory WGSL source.
func (b *Backend) CreateProgram(source []byte, label string) (kernelc.Program, error) {
	if source == nil {
		return nil, errors.New("naga: nil source")
	}
	return &program{source: source, label: label}, nil
}

type program struct {
	source []byte
	label  string
	spirv  []byte
	log    string
}

// Compile preprocesses includes, then compiles the WGSL source to SPIR-V.
// Diagnostics are captured in the program log whether or not compilation
// succeeds.
func (p *program) Compile(flags []string) error {
	opts, err := parseFlags(flags)
	if err != nil {
		p.log = err.Error()
		return err
	}

	src, err := Preprocess(p.source, p.label, opts.includeDirs)
	if err != nil {
		p.log = err.Error()
		return err
	}

	spirv, err := naga.Compile(string(src))
	if err != nil {
		// naga reports source positions and hints in the error text;
		// that text is the compile log.
		p.log = err.Error()
		return fmt.Errorf("naga: compiling %s: %w", p.label, err)
	}
	p.spirv = spirv
	return nil
}

// Log returns the diagnostics of the last Compile.
func (p *program) Log() string { return p.log }

// Artifact returns the SPIR-V binary produced by the last successful
// Compile.
func (p *program) Artifact() ([]byte, error) {
	if p.spirv == nil {
		return nil, fmt.Errorf("naga: %s has no compiled artifact", p.label)
	}
	return p.spirv, nil
}

// Close releases the program's buffers.
func (p *program) Close() {
	p.source = nil
	p.spirv = nil
}

type compileOptions struct {
	arch        kernelc.Architecture
	includeDirs []string
}

// parseFlags validates the flag list assembled by the kernelc compiler.
func parseFlags(flags []string) (compileOptions, error) {
	var opts compileOptions
	for _, flag := range flags {
		switch {
		case strings.HasPrefix(flag, "--gpu-architecture="):
			arch, err := parseArch(strings.TrimPrefix(flag, "--gpu-architecture="))
			if err != nil {
				return opts, err
			}
			opts.arch = arch
		case strings.HasPrefix(flag, "--include-path="):
			opts.includeDirs = append(opts.includeDirs, strings.TrimPrefix(flag, "--include-path="))
		default:
			return opts, fmt.Errorf("naga: unrecognized option %q", flag)
		}
	}
	return opts, nil
}

// parseArch parses a target name of the form sm_<major><minor>, where the
// final digit is the minor revision.
func parseArch(target string) (kernelc.Architecture, error) {
	digits := strings.TrimPrefix(target, "sm_")
	if digits == target || len(digits) < 2 {
		return kernelc.Architecture{}, fmt.Errorf("naga: malformed architecture target %q", target)
	}
	major, err := strconv.Atoi(digits[:len(digits)-1])
	if err != nil {
		return kernelc.Architecture{}, fmt.Errorf("naga: malformed architecture target %q", target)
	}
	minor, err := strconv.Atoi(digits[len(digits)-1:])
	if err != nil {
		return kernelc.Architecture{}, fmt.Errorf("naga: malformed architecture target %q", target)
	}
	return kernelc.Architecture{Major: major, Minor: minor}, nil
}

var _ kernelc.CompilerBackend = (*Backend)(nil)
