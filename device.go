package kernelc

import "fmt"

// DeviceInfo describes a selected device.
type DeviceInfo struct {
	// Name is the human-readable device name
	// (e.g. "NVIDIA GeForce RTX 3080").
	Name string
	// Vendor is the device vendor, when the backend reports one.
	Vendor string
	// Driver is the driver version string, when available.
	Driver string
}

// String returns a human-readable description of the device.
func (d DeviceInfo) String() string {
	if d.Vendor == "" {
		return d.Name
	}
	return fmt.Sprintf("%s (%s)", d.Name, d.Vendor)
}

// Device is a handle to a single accelerator device exposed by a backend.
//
// Architecture is queried fresh by both Compiler and Loader rather than
// cached: the two may, by construction, observe different devices when
// selection runs twice.
type Device interface {
	// Info returns descriptive information about the device.
	Info() DeviceInfo

	// Architecture returns the device's compute-capability revision.
	Architecture() (Architecture, error)
}

// Selector picks the best available device, parameterized by the process
// command-line arguments (a "device=N" argument forces a specific device).
// Selection must be deterministic for a fixed environment and argument set.
type Selector interface {
	SelectDevice(args []string) (Device, error)
}

// HeaderLocator finds auxiliary header files that are not on the compiler's
// default include search path. originHint is the invoking program's path
// (typically args[0]); implementations search relative to it.
type HeaderLocator interface {
	Find(filename, originHint string) (path string, ok bool)
}
