package wgpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/kernelc"
)

// spirvMagic is the first word of every SPIR-V binary.
const spirvMagic = 0x07230203

// Context is an opened wgpu device holding loaded shader modules.
// Close destroys the modules and, when the context owns its device,
// the device itself.
type Context struct {
	device *Device
	halDev hal.Device
	queue  hal.Queue
	owned  bool

	mu      sync.Mutex
	modules []hal.ShaderModule
	closed  bool
}

// Device returns the device this context was opened on.
func (c *Context) Device() kernelc.Device { return c.device }

// Queue returns the device's command queue, for callers that go on to
// build pipelines from loaded modules. Nil when the device is shared.
func (c *Context) Queue() hal.Queue { return c.queue }

// LoadModule creates a shader module from a SPIR-V binary.
func (c *Context) LoadModule(data []byte, label string) (kernelc.Module, error) {
	words, err := spirvWords(data)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, errors.New("wgpu: context is closed")
	}

	mod, err := c.halDev.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: words},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create shader module %s: %w", label, err)
	}
	c.modules = append(c.modules, mod)
	return &Module{label: label, handle: mod, words: len(words)}, nil
}

// Close destroys all loaded modules and releases the device if this
// context owns it. Close is idempotent.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	for _, m := range c.modules {
		c.halDev.DestroyShaderModule(m)
	}
	c.modules = nil
	if c.owned {
		c.halDev.Destroy()
	}
	return nil
}

// Module is a shader module resident on a device.
type Module struct {
	label  string
	handle hal.ShaderModule
	words  int
}

// Label returns the name the module was loaded under.
func (m *Module) Label() string { return m.label }

// Handle returns the underlying HAL shader module for pipeline creation.
func (m *Module) Handle() hal.ShaderModule { return m.handle }

// Words returns the module's code size in SPIR-V words.
func (m *Module) Words() int { return m.words }

// spirvWords reinterprets a SPIR-V byte stream as little endian words,
// validating alignment and the magic number so a truncated or foreign
// binary is rejected before it reaches the driver.
func spirvWords(data []byte) ([]uint32, error) {
	if len(data) == 0 {
		return nil, errors.New("wgpu: empty SPIR-V binary")
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("wgpu: SPIR-V binary length %d is not word aligned", len(data))
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	if words[0] != spirvMagic {
		return nil, fmt.Errorf("wgpu: bad SPIR-V magic %#08x", words[0])
	}
	return words, nil
}

var (
	_ kernelc.Context = (*Context)(nil)
	_ kernelc.Module  = (*Module)(nil)
)
