package kernelc

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gogpu/kernelc/internal/pathsearch"
	"github.com/gogpu/kernelc/internal/progcache"
)

// DefaultAuxHeader is the auxiliary header located when a compile call
// requests aux headers and the Compiler does not name one explicitly.
const DefaultAuxHeader = "compute_utils.wgsl"

// Markers bracketing the compiler log on the diagnostic writer.
const (
	logBeginMarker = " compilation log ---"
	logEndMarker   = " end log ---"
)

// Compiler compiles a kernel source file into an Artifact for the best
// available device.
//
// Only Selector and Backend are required; the zero values of the remaining
// fields select the default header name, the default locator, and
// os.Stderr for diagnostics.
type Compiler struct {
	// Selector picks the device to compile for.
	Selector Selector

	// Backend is the runtime compiler.
	Backend CompilerBackend

	// AuxHeader is the auxiliary header file located when a compile call
	// sets requiresAuxHeaders. Defaults to DefaultAuxHeader.
	AuxHeader string

	// Locator finds the auxiliary header. Defaults to the standard search
	// path (executable directory, working directory, and their shader/
	// include subdirectories).
	Locator HeaderLocator

	// Diag receives the compiler's diagnostic log verbatim, bracketed by
	// begin/end markers. Defaults to os.Stderr.
	Diag io.Writer

	// Cache, when set, reuses compiled binaries across calls. A compile is
	// keyed by source bytes and the full flag list, so recompiling the same
	// kernel for the same architecture skips the backend entirely.
	Cache *progcache.Cache
}

// NewCachedCompiler returns a compiler with a default-sized artifact cache.
func NewCachedCompiler(sel Selector, cb CompilerBackend) *Compiler {
	return &Compiler{Selector: sel, Backend: cb, Cache: progcache.NewCache(0)}
}

// CompileFile reads the kernel source at path, selects the best available
// device using the forwarded process arguments, and compiles for that
// device's architecture. When requiresAuxHeaders is set, the auxiliary
// header is located first and its directory is added to the include path.
//
// The source file is read before any device work, so an empty or
// unreadable path fails without touching the device.
func (c *Compiler) CompileFile(path string, args []string, requiresAuxHeaders bool) (*Artifact, error) {
	src, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	if c.Selector == nil {
		return nil, fmt.Errorf("%w: no device selector configured", ErrDevice)
	}
	dev, err := c.Selector.SelectDevice(args)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDevice, err)
	}
	return c.compile(src, dev, originHint(args), requiresAuxHeaders)
}

// CompileFileOn compiles the kernel source at path for an already resolved
// device. Use this together with Loader.LoadOn (or Pipeline) to guarantee
// that compilation and loading observe the same device.
func (c *Compiler) CompileFileOn(dev Device, path string, requiresAuxHeaders bool) (*Artifact, error) {
	src, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	if dev == nil {
		return nil, fmt.Errorf("%w: nil device", ErrDevice)
	}
	return c.compile(src, dev, originHint(nil), requiresAuxHeaders)
}

func (c *Compiler) compile(src *SourceBuffer, dev Device, origin string, requiresAuxHeaders bool) (*Artifact, error) {
	if c.Backend == nil {
		return nil, fmt.Errorf("%w: no compiler backend configured", ErrCompile)
	}

	arch, err := dev.Architecture()
	if err != nil {
		return nil, fmt.Errorf("%w: querying compute capability: %v", ErrDevice, err)
	}

	var opts OptionSet
	opts.AddArchitecture(arch)

	if requiresAuxHeaders {
		dir, err := c.locateAuxHeader(origin)
		if err != nil {
			return nil, err
		}
		opts.AddIncludePath(dir)
	}

	var cacheKey progcache.Key
	if c.Cache != nil {
		cacheKey = progcache.MakeKey(src.Data, opts.Flags())
		if data, ok := c.Cache.Get(cacheKey); ok {
			Logger().Debug("kernelc: compile cache hit", "source", src.Name, "arch", arch.String())
			return &Artifact{data: data, arch: arch, label: src.Name}, nil
		}
	}

	Logger().Debug("kernelc: compiling",
		"source", src.Name,
		"backend", c.Backend.Name(),
		"flags", opts.Flags())

	prog, err := c.Backend.CreateProgram(src.Data, src.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: creating program for %s: %v", ErrCompile, src.Name, err)
	}
	defer prog.Close()

	// The compile result is held back until the log has been surfaced:
	// diagnostics reach the user before the failure does.
	cerr := prog.Compile(opts.Flags())
	c.emitLog(prog.Log())
	if cerr != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCompile, src.Name, cerr)
	}

	data, err := prog.Artifact()
	if err != nil {
		return nil, fmt.Errorf("%w: retrieving artifact for %s: %v", ErrCompile, src.Name, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s: compiler produced an empty artifact", ErrCompile, src.Name)
	}

	if c.Cache != nil {
		c.Cache.Put(cacheKey, data)
	}

	Logger().Info("kernelc: compiled",
		"source", src.Name,
		"arch", arch.String(),
		"size", len(data))

	return &Artifact{data: data, arch: arch, label: src.Name}, nil
}

// locateAuxHeader finds the auxiliary header and returns its containing
// directory for use as an include path.
func (c *Compiler) locateAuxHeader(origin string) (string, error) {
	header := c.AuxHeader
	if header == "" {
		header = DefaultAuxHeader
	}
	loc := c.Locator
	if loc == nil {
		loc = pathsearch.Default()
	}
	path, ok := loc.Find(header, origin)
	if !ok {
		return "", fmt.Errorf("%w: header file %s not found", ErrResource, header)
	}
	return filepath.Dir(path), nil
}

// emitLog writes the compiler log verbatim to the diagnostic writer,
// bracketed by markers. Logs shorter than two characters are treated as
// empty: some compilers report a lone terminator for a clean compile.
func (c *Compiler) emitLog(log string) {
	if len(log) < 2 {
		return
	}
	w := c.Diag
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "\n%s\n%s\n%s\n", logBeginMarker, log, logEndMarker)
}

// originHint derives the path-search origin from the process arguments,
// falling back to the running executable.
func originHint(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return exe
}
