package wgpu

import (
	"strconv"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/kernelc"
)

// Device is a wgpu adapter exposed as a kernelc device. Selecting a device
// does not open it; CreateContext does.
type Device struct {
	runtime *Runtime
	adapter hal.ExposedAdapter
}

// Info describes the underlying adapter.
func (d *Device) Info() kernelc.DeviceInfo {
	return kernelc.DeviceInfo{
		Name:   d.adapter.Info.Name,
		Vendor: deviceTypeName(d.adapter.Info.DeviceType),
	}
}

// Architecture reports the SPIR-V environment the device consumes.
func (d *Device) Architecture() (kernelc.Architecture, error) {
	return spirvArch, nil
}

func deviceTypeName(t gputypes.DeviceType) string {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return "discrete"
	case gputypes.DeviceTypeIntegratedGPU:
		return "integrated"
	default:
		return "other"
	}
}

// deviceArg extracts an adapter index from an argument list. Accepted
// spellings are "device=N", "-device=N" and "--device=N"; the last
// occurrence wins.
func deviceArg(args []string) (int, bool) {
	index, found := 0, false
	for _, arg := range args {
		trimmed := strings.TrimLeft(arg, "-")
		val, ok := strings.CutPrefix(trimmed, "device=")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			continue
		}
		index, found = n, true
	}
	return index, found
}

var _ kernelc.Device = (*Device)(nil)
