package kernelc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
)

// This file provides CPU-backed mock collaborators for development and
// tests. They satisfy the backend interfaces without touching a device.

// MockDevice is a fake device with a fixed architecture.
type MockDevice struct {
	Name string
	Arch Architecture
	// ArchErr, when set, is returned by Architecture to simulate a failed
	// capability query.
	ArchErr error
}

func (d *MockDevice) Info() DeviceInfo {
	return DeviceInfo{Name: d.Name, Vendor: "kernelc", Driver: "mock"}
}

func (d *MockDevice) Architecture() (Architecture, error) {
	if d.ArchErr != nil {
		return Architecture{}, d.ArchErr
	}
	return d.Arch, nil
}

// MockSelector returns a fixed device and counts how often it is
// consulted.
type MockSelector struct {
	Device *MockDevice
	// Err, when set, is returned instead of the device.
	Err error
	// Calls is incremented on every SelectDevice call.
	Calls int
}

// NewMockSelector returns a selector exposing one fake device with the
// given architecture.
func NewMockSelector(arch Architecture) *MockSelector {
	return &MockSelector{Device: &MockDevice{Name: "MockGPU", Arch: arch}}
}

func (s *MockSelector) SelectDevice(_ []string) (Device, error) {
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Device, nil
}

// mockArtifactMagic prefixes every artifact the mock compiler produces.
var mockArtifactMagic = []byte("MOCKBIN\x00")

// MockCompilerBackend compiles deterministically on the CPU: the artifact
// is a digest of the source bytes and flag list, so identical inputs yield
// identical artifacts.
type MockCompilerBackend struct {
	// LogText is returned as the program log of every compile.
	LogText string
	// CompileErr, when set, makes every compile fail after the log is
	// still made available.
	CompileErr error
	// Programs counts CreateProgram calls.
	Programs int
}

func (b *MockCompilerBackend) Name() string { return "mock" }

func (b *MockCompilerBackend) CreateProgram(source []byte, label string) (Program, error) {
	if source == nil {
		return nil, errors.New("mock backend: nil source")
	}
	b.Programs++
	return &mockProgram{backend: b, source: source, label: label}, nil
}

type mockProgram struct {
	backend  *MockCompilerBackend
	source   []byte
	label    string
	compiled bool
	artifact []byte
}

func (p *mockProgram) Compile(flags []string) error {
	h := fnv.New64a()
	_, _ = h.Write(p.source)
	for _, f := range flags {
		_, _ = h.Write([]byte(f))
	}
	buf := make([]byte, 0, len(mockArtifactMagic)+12)
	buf = append(buf, mockArtifactMagic...)
	buf = binary.LittleEndian.AppendUint64(buf, h.Sum64())
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(p.source)))
	p.artifact = buf

	if p.backend.CompileErr != nil {
		return p.backend.CompileErr
	}
	p.compiled = true
	return nil
}

func (p *mockProgram) Log() string {
	return p.backend.LogText
}

func (p *mockProgram) Artifact() ([]byte, error) {
	if !p.compiled {
		return nil, errors.New("mock backend: program not compiled")
	}
	return p.artifact, nil
}

func (p *mockProgram) Close() {
	p.source = nil
	p.artifact = nil
}

// MockRuntimeBackend loads modules into in-memory contexts.
type MockRuntimeBackend struct {
	// InitErr, when set, fails Init.
	InitErr error
	// ContextErr, when set, fails CreateContext.
	ContextErr error
	// LoadErr, when set, fails LoadModule.
	LoadErr error
	// Inits counts Init calls; Init itself stays idempotent.
	Inits int
	// Contexts holds every context created, open or closed.
	Contexts []*MockContext
}

func (b *MockRuntimeBackend) Name() string { return "mock" }

func (b *MockRuntimeBackend) Init() error {
	b.Inits++
	return b.InitErr
}

func (b *MockRuntimeBackend) CreateContext(dev Device) (Context, error) {
	if b.ContextErr != nil {
		return nil, b.ContextErr
	}
	if dev == nil {
		return nil, errors.New("mock backend: nil device")
	}
	ctx := &MockContext{backend: b, device: dev}
	b.Contexts = append(b.Contexts, ctx)
	return ctx, nil
}

// MockContext is an in-memory execution context.
type MockContext struct {
	backend *MockRuntimeBackend
	device  Device
	Closed  bool
	Modules []*MockModule
}

func (c *MockContext) Device() Device { return c.device }

func (c *MockContext) LoadModule(data []byte, label string) (Module, error) {
	if c.Closed {
		return nil, errors.New("mock backend: context closed")
	}
	if c.backend.LoadErr != nil {
		return nil, c.backend.LoadErr
	}
	if len(data) < len(mockArtifactMagic) || string(data[:len(mockArtifactMagic)]) != string(mockArtifactMagic) {
		return nil, fmt.Errorf("mock backend: %s is not a mock artifact", label)
	}
	mod := &MockModule{label: label, size: len(data)}
	c.Modules = append(c.Modules, mod)
	return mod, nil
}

func (c *MockContext) Close() error {
	c.Closed = true
	c.Modules = nil
	return nil
}

// MockModule records what was loaded.
type MockModule struct {
	label string
	size  int
}

func (m *MockModule) Label() string { return m.label }

// Size returns the loaded artifact size in bytes.
func (m *MockModule) Size() int { return m.size }

// Interface conformance.
var (
	_ Device          = (*MockDevice)(nil)
	_ Selector        = (*MockSelector)(nil)
	_ CompilerBackend = (*MockCompilerBackend)(nil)
	_ RuntimeBackend  = (*MockRuntimeBackend)(nil)
	_ Context         = (*MockContext)(nil)
	_ Module          = (*MockModule)(nil)
)
