package kernelc

import "fmt"

// Loader materializes a compiled Artifact into an executable Module on a
// device.
type Loader struct {
	// Selector picks the device to load on.
	Selector Selector

	// Runtime is the device runtime backend.
	Runtime RuntimeBackend
}

// Load selects the best available device using the forwarded process
// arguments, initializes the runtime, creates an execution context bound
// to the device, and loads the artifact into a module.
//
// Load consumes the artifact on every path: whether loading succeeds or
// fails, the artifact's bytes are released and a subsequent Load of the
// same artifact reports ErrInput.
//
// Device selection here is independent of any selection performed during
// compilation. In environments where the best device can change between
// the two calls, prefer Pipeline or the CompileFileOn/LoadOn pair.
func (l *Loader) Load(art *Artifact, args []string) (Module, error) {
	if art == nil {
		return nil, fmt.Errorf("%w: nil artifact", ErrInput)
	}
	if l.Selector == nil {
		// The artifact is still consumed: ownership transferred to Load.
		_, _ = art.consume()
		return nil, fmt.Errorf("%w: no device selector configured", ErrDevice)
	}
	dev, err := l.Selector.SelectDevice(args)
	if err != nil {
		_, _ = art.consume()
		return nil, fmt.Errorf("%w: %v", ErrDevice, err)
	}
	return l.LoadOn(dev, art)
}

// LoadOn loads the artifact on an already resolved device. Like Load, it
// consumes the artifact on every path.
func (l *Loader) LoadOn(dev Device, art *Artifact) (Module, error) {
	if art == nil {
		return nil, fmt.Errorf("%w: nil artifact", ErrInput)
	}
	data, err := art.consume()
	if err != nil {
		return nil, err
	}
	if dev == nil {
		return nil, fmt.Errorf("%w: nil device", ErrDevice)
	}
	if l.Runtime == nil {
		return nil, fmt.Errorf("%w: no runtime backend configured", ErrRuntime)
	}

	arch, err := dev.Architecture()
	if err != nil {
		return nil, fmt.Errorf("%w: querying compute capability: %v", ErrDevice, err)
	}
	Logger().Info("kernelc: device selected",
		"name", dev.Info().Name,
		"capability", arch.String())

	if err := l.Runtime.Init(); err != nil {
		return nil, fmt.Errorf("%w: initializing %s runtime: %v", ErrRuntime, l.Runtime.Name(), err)
	}

	ctx, err := l.Runtime.CreateContext(dev)
	if err != nil {
		return nil, fmt.Errorf("%w: creating context on %s: %v", ErrRuntime, dev.Info().Name, err)
	}

	mod, err := ctx.LoadModule(data, art.Label())
	if err != nil {
		if cerr := ctx.Close(); cerr != nil {
			Logger().Warn("kernelc: releasing context after failed load", "error", cerr)
		}
		return nil, fmt.Errorf("%w: loading module %s: %v", ErrRuntime, art.Label(), err)
	}

	Logger().Info("kernelc: module loaded",
		"label", mod.Label(),
		"runtime", l.Runtime.Name(),
		"size", len(data))

	// The context stays open: the module executes within it, and its
	// lifetime from here on is the caller's responsibility.
	return mod, nil
}
