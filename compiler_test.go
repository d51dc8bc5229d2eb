package kernelc

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeKernel writes a throwaway kernel source file and returns its path.
func writeKernel(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kernel.wgsl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing kernel source: %v", err)
	}
	return path
}

const trivialKernel = "@compute @workgroup_size(1) fn main() {}\n"

func TestCompileFileEmptyPath(t *testing.T) {
	sel := NewMockSelector(Architecture{Major: 7, Minor: 5})
	c := &Compiler{Selector: sel, Backend: &MockCompilerBackend{}}

	_, err := c.CompileFile("", nil, false)
	if !errors.Is(err, ErrInput) {
		t.Fatalf("CompileFile(\"\") error = %v, want ErrInput", err)
	}
	if sel.Calls != 0 {
		t.Errorf("selector consulted %d times before input validation, want 0", sel.Calls)
	}
}

func TestCompileFileUnreadable(t *testing.T) {
	sel := NewMockSelector(Architecture{Major: 7, Minor: 5})
	c := &Compiler{Selector: sel, Backend: &MockCompilerBackend{}}

	_, err := c.CompileFile(filepath.Join(t.TempDir(), "missing.wgsl"), nil, false)
	if !errors.Is(err, ErrInput) {
		t.Fatalf("CompileFile(missing) error = %v, want ErrInput", err)
	}
	if sel.Calls != 0 {
		t.Errorf("selector consulted %d times for unreadable file, want 0", sel.Calls)
	}
}

func TestCompileFileSuccess(t *testing.T) {
	path := writeKernel(t, trivialKernel)
	sel := NewMockSelector(Architecture{Major: 7, Minor: 5})
	c := &Compiler{Selector: sel, Backend: &MockCompilerBackend{}}

	art, err := c.CompileFile(path, nil, false)
	if err != nil {
		t.Fatalf("CompileFile() error = %v", err)
	}
	if art.Size() == 0 {
		t.Error("artifact size = 0, want > 0")
	}
	if got := art.Architecture(); got != (Architecture{Major: 7, Minor: 5}) {
		t.Errorf("artifact architecture = %v, want 7.5", got)
	}
	if art.Label() != path {
		t.Errorf("artifact label = %q, want source path", art.Label())
	}
	if sel.Calls != 1 {
		t.Errorf("selector consulted %d times, want 1", sel.Calls)
	}
}

func TestCompileFileDeterministic(t *testing.T) {
	path := writeKernel(t, trivialKernel)
	sel := NewMockSelector(Architecture{Major: 8, Minor: 6})
	c := &Compiler{Selector: sel, Backend: &MockCompilerBackend{}}

	first, err := c.CompileFile(path, nil, false)
	if err != nil {
		t.Fatalf("first CompileFile() error = %v", err)
	}
	second, err := c.CompileFile(path, nil, false)
	if err != nil {
		t.Fatalf("second CompileFile() error = %v", err)
	}
	if first.Size() != second.Size() {
		t.Errorf("artifact sizes differ: %d vs %d", first.Size(), second.Size())
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("artifacts differ for identical inputs")
	}
}

func TestCompileFileLogBeforeFailure(t *testing.T) {
	path := writeKernel(t, "@compute fn broken(\n")
	backend := &MockCompilerBackend{
		LogText:    "kernel.wgsl:1: error: unexpected end of input",
		CompileErr: errors.New("parse failed"),
	}
	var diag bytes.Buffer
	c := &Compiler{
		Selector: NewMockSelector(Architecture{Major: 7, Minor: 5}),
		Backend:  backend,
		Diag:     &diag,
	}

	art, err := c.CompileFile(path, nil, false)
	if !errors.Is(err, ErrCompile) {
		t.Fatalf("CompileFile() error = %v, want ErrCompile", err)
	}
	if art != nil {
		t.Error("artifact returned despite compile failure")
	}

	out := diag.String()
	if !strings.Contains(out, backend.LogText) {
		t.Errorf("diagnostic output missing compiler log:\n%s", out)
	}
	if !strings.Contains(out, "\n compilation log ---\n") || !strings.Contains(out, "\n end log ---\n") {
		t.Errorf("diagnostic output missing log markers:\n%s", out)
	}
}

func TestCompileFileLogOnSuccess(t *testing.T) {
	path := writeKernel(t, trivialKernel)
	backend := &MockCompilerBackend{LogText: "warning: unused binding at group(0)"}
	var diag bytes.Buffer
	c := &Compiler{
		Selector: NewMockSelector(Architecture{Major: 7, Minor: 5}),
		Backend:  backend,
		Diag:     &diag,
	}

	if _, err := c.CompileFile(path, nil, false); err != nil {
		t.Fatalf("CompileFile() error = %v", err)
	}
	if !strings.Contains(diag.String(), backend.LogText) {
		t.Error("non-trivial log not emitted on successful compile")
	}
}

func TestCompileFileTrivialLogSuppressed(t *testing.T) {
	path := writeKernel(t, trivialKernel)
	for _, log := range []string{"", "\x00"} {
		var diag bytes.Buffer
		c := &Compiler{
			Selector: NewMockSelector(Architecture{Major: 7, Minor: 5}),
			Backend:  &MockCompilerBackend{LogText: log},
			Diag:     &diag,
		}
		if _, err := c.CompileFile(path, nil, false); err != nil {
			t.Fatalf("CompileFile() error = %v", err)
		}
		if diag.Len() != 0 {
			t.Errorf("log block emitted for trivial log %q:\n%s", log, diag.String())
		}
	}
}

func TestCompileFileSelectorError(t *testing.T) {
	path := writeKernel(t, trivialKernel)
	sel := NewMockSelector(Architecture{})
	sel.Err = errors.New("no devices visible")
	c := &Compiler{Selector: sel, Backend: &MockCompilerBackend{}}

	_, err := c.CompileFile(path, nil, false)
	if !errors.Is(err, ErrDevice) {
		t.Fatalf("CompileFile() error = %v, want ErrDevice", err)
	}
}

func TestCompileFileArchitectureQueryError(t *testing.T) {
	path := writeKernel(t, trivialKernel)
	sel := NewMockSelector(Architecture{})
	sel.Device.ArchErr = errors.New("capability query failed")
	c := &Compiler{Selector: sel, Backend: &MockCompilerBackend{}}

	_, err := c.CompileFile(path, nil, false)
	if !errors.Is(err, ErrDevice) {
		t.Fatalf("CompileFile() error = %v, want ErrDevice", err)
	}
}

// dirLocator resolves headers inside a fixed directory.
type dirLocator struct {
	dir string
}

func (l dirLocator) Find(filename, _ string) (string, bool) {
	path := filepath.Join(l.dir, filename)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

func TestCompileFileAuxHeaderIncludePath(t *testing.T) {
	path := writeKernel(t, trivialKernel)

	headerDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(headerDir, DefaultAuxHeader), []byte("// shared helpers\n"), 0o644); err != nil {
		t.Fatalf("writing aux header: %v", err)
	}

	probe := &flagProbeBackend{}
	c := &Compiler{
		Selector: NewMockSelector(Architecture{Major: 7, Minor: 5}),
		Backend:  probe,
		Locator:  dirLocator{dir: headerDir},
	}

	if _, err := c.CompileFile(path, nil, true); err != nil {
		t.Fatalf("CompileFile() error = %v", err)
	}
	if len(probe.flags) != 2 {
		t.Fatalf("backend saw %d flags, want 2", len(probe.flags))
	}
	if probe.flags[0] != "--gpu-architecture=sm_75" {
		t.Errorf("flags[0] = %q, want architecture flag first", probe.flags[0])
	}
	if want := "--include-path=" + headerDir; probe.flags[1] != want {
		t.Errorf("flags[1] = %q, want %q", probe.flags[1], want)
	}
}

func TestCompileFileAuxHeaderMissing(t *testing.T) {
	path := writeKernel(t, trivialKernel)
	c := &Compiler{
		Selector: NewMockSelector(Architecture{Major: 7, Minor: 5}),
		Backend:  &MockCompilerBackend{},
		Locator:  dirLocator{dir: t.TempDir()},
	}

	_, err := c.CompileFile(path, nil, true)
	if !errors.Is(err, ErrResource) {
		t.Fatalf("CompileFile() error = %v, want ErrResource", err)
	}
}

func TestCompileFileWithoutAuxHeadersSingleFlag(t *testing.T) {
	path := writeKernel(t, trivialKernel)
	probe := &flagProbeBackend{}
	c := &Compiler{
		Selector: NewMockSelector(Architecture{Major: 7, Minor: 5}),
		Backend:  probe,
	}

	if _, err := c.CompileFile(path, nil, false); err != nil {
		t.Fatalf("CompileFile() error = %v", err)
	}
	if len(probe.flags) != 1 {
		t.Errorf("backend saw %d flags, want exactly 1 (architecture)", len(probe.flags))
	}
}

// flagProbeBackend records the flags its programs are compiled with.
type flagProbeBackend struct {
	MockCompilerBackend
	flags []string
}

func (b *flagProbeBackend) CreateProgram(source []byte, label string) (Program, error) {
	prog, err := b.MockCompilerBackend.CreateProgram(source, label)
	if err != nil {
		return nil, err
	}
	return &flagProbeProgram{Program: prog, backend: b}, nil
}

type flagProbeProgram struct {
	Program
	backend *flagProbeBackend
}

func (p *flagProbeProgram) Compile(flags []string) error {
	p.backend.flags = append([]string(nil), flags...)
	return p.Program.Compile(flags)
}

func TestCompileFileCacheReusesArtifacts(t *testing.T) {
	path := writeKernel(t, trivialKernel)
	mock := &MockCompilerBackend{}
	c := NewCachedCompiler(NewMockSelector(Architecture{Major: 7, Minor: 5}), mock)

	first, err := c.CompileFile(path, nil, false)
	if err != nil {
		t.Fatalf("CompileFile() error = %v", err)
	}
	second, err := c.CompileFile(path, nil, false)
	if err != nil {
		t.Fatalf("second CompileFile() error = %v", err)
	}
	if mock.Programs != 1 {
		t.Errorf("backend invoked %d times for identical input, want 1", mock.Programs)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("cached artifact differs from the compiled one")
	}
}

func TestCompileFileCacheKeyedByArchitecture(t *testing.T) {
	path := writeKernel(t, trivialKernel)
	mock := &MockCompilerBackend{}
	c := NewCachedCompiler(NewMockSelector(Architecture{Major: 7, Minor: 5}), mock)

	if _, err := c.CompileFile(path, nil, false); err != nil {
		t.Fatalf("CompileFile() error = %v", err)
	}
	if _, err := c.CompileFileOn(&MockDevice{Name: "other", Arch: Architecture{Major: 8, Minor: 6}}, path, false); err != nil {
		t.Fatalf("CompileFileOn() error = %v", err)
	}
	if mock.Programs != 2 {
		t.Errorf("backend invoked %d times across architectures, want 2", mock.Programs)
	}
}
