// Package wgpu provides kernelc's device selector and runtime backend on
// top of the pure Go wgpu HAL. Devices are wgpu adapters; modules are
// SPIR-V shader modules loaded into an opened HAL device.
package wgpu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/kernelc"
	"github.com/gogpu/kernelc/backend"
)

// BackendName is the registry name of this backend.
const BackendName = "wgpu"

func init() {
	backend.RegisterRuntime(BackendName, func() kernelc.RuntimeBackend {
		return NewRuntime()
	})
}

// spirvArch is the SPIR-V environment this backend's modules target.
// naga emits SPIR-V 1.3, and every adapter wgpu exposes accepts it, so
// the compute capability of a wgpu device is uniform.
var spirvArch = kernelc.Architecture{Major: 1, Minor: 3}

// Runtime is the wgpu runtime backend. It doubles as the device selector,
// so compilation and loading can share one HAL instance.
//
// Runtime is safe for concurrent use; all instance state is protected by
// a mutex. Init is idempotent: the HAL instance is created once per
// Runtime and reused.
type Runtime struct {
	mu       sync.Mutex
	api      hal.Backend
	instance hal.Instance
	provider gpucontext.DeviceProvider
}

// NewRuntime creates a runtime over the platform's Vulkan HAL backend.
func NewRuntime() *Runtime {
	return &Runtime{}
}

// NewRuntimeWithAPI creates a runtime over an explicit HAL API. Tests use
// this with the noop API to exercise the backend without a GPU.
func NewRuntimeWithAPI(api hal.Backend) *Runtime {
	return &Runtime{api: api}
}

// Name returns the backend identifier.
func (r *Runtime) Name() string { return BackendName }

// SetDeviceProvider shares an externally owned device with the runtime.
// When set, CreateContext adopts the provider's device instead of opening
// one, and Close leaves it untouched. The provider's device must be a
// hal.Device.
func (r *Runtime) SetDeviceProvider(p gpucontext.DeviceProvider) error {
	if p != nil {
		if _, ok := p.Device().(hal.Device); !ok {
			return fmt.Errorf("wgpu: provider device %T is not a hal.Device", p.Device())
		}
	}
	r.mu.Lock()
	r.provider = p
	r.mu.Unlock()
	return nil
}

// Init creates the HAL instance. Safe to call repeatedly; only the first
// successful call does work.
func (r *Runtime) Init() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initLocked()
}

func (r *Runtime) initLocked() error {
	if r.instance != nil {
		return nil
	}
	api := r.api
	if api == nil {
		b, ok := hal.GetBackend(gputypes.BackendVulkan)
		if !ok {
			return errors.New("wgpu: vulkan backend not available")
		}
		api = b
	}
	instance, err := api.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("wgpu: create instance: %w", err)
	}
	r.api = api
	r.instance = instance
	return nil
}

// SelectDevice picks the best available adapter. A "device=N" argument
// (with or without leading dashes) forces adapter N; otherwise discrete
// GPUs are preferred over integrated ones, and integrated over the rest.
//
// Selection is deterministic for a fixed environment and argument list:
// the HAL reports adapters in a stable order.
func (r *Runtime) SelectDevice(args []string) (kernelc.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.initLocked(); err != nil {
		return nil, err
	}

	adapters := r.instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return nil, errors.New("wgpu: no GPU adapters found")
	}

	if n, ok := deviceArg(args); ok {
		if n < 0 || n >= len(adapters) {
			return nil, fmt.Errorf("wgpu: device=%d out of range, %d adapter(s) available", n, len(adapters))
		}
		return r.deviceAt(adapters, n), nil
	}

	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU {
			return r.deviceAt(adapters, i), nil
		}
	}
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			return r.deviceAt(adapters, i), nil
		}
	}
	return r.deviceAt(adapters, 0), nil
}

func (r *Runtime) deviceAt(adapters []hal.ExposedAdapter, i int) *Device {
	d := &Device{runtime: r, adapter: adapters[i]}
	kernelc.Logger().Info("wgpu: adapter selected", "index", i, "name", adapters[i].Info.Name)
	return d
}

// CreateContext opens an execution context on the device. The device must
// have been produced by this runtime's SelectDevice. When a device
// provider is shared, its device is adopted and not closed with the
// context.
func (r *Runtime) CreateContext(dev kernelc.Device) (kernelc.Context, error) {
	d, ok := dev.(*Device)
	if !ok {
		return nil, fmt.Errorf("wgpu: device %T was not selected by this backend", dev)
	}

	r.mu.Lock()
	provider := r.provider
	r.mu.Unlock()

	if provider != nil {
		halDev, ok := provider.Device().(hal.Device)
		if !ok {
			return nil, fmt.Errorf("wgpu: provider device %T is not a hal.Device", provider.Device())
		}
		return &Context{device: d, halDev: halDev, owned: false}, nil
	}

	openDev, err := d.adapter.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return nil, fmt.Errorf("wgpu: open device %s: %w", d.adapter.Info.Name, err)
	}
	return &Context{device: d, halDev: openDev.Device, queue: openDev.Queue, owned: true}, nil
}

var (
	_ kernelc.RuntimeBackend = (*Runtime)(nil)
	_ kernelc.Selector       = (*Runtime)(nil)
)
