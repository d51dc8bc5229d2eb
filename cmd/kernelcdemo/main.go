// Command kernelcdemo compiles a WGSL kernel at run time and loads the
// resulting SPIR-V module onto a GPU device:
//
//	kernelcdemo -headers kernel.wgsl
//
// Backends come from the registry; the default pairing is the naga
// compiler and the wgpu runtime. A YAML config file can override backend
// selection, the device, include paths and logging.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/kernelc"
	"github.com/gogpu/kernelc/backend"
	"github.com/gogpu/kernelc/internal/config"
	"github.com/gogpu/kernelc/internal/pathsearch"

	_ "github.com/gogpu/kernelc/backend/naga"
	_ "github.com/gogpu/kernelc/backend/wgpu"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file")
		device     = flag.String("device", "", "adapter selection, e.g. device=1")
		headers    = flag.Bool("headers", false, "resolve the auxiliary kernel header")
	)
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatalf("usage: kernelcdemo [flags] <kernel.wgsl>")
	}
	kernel := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *device != "" {
		cfg.Device = *device
	}
	configureLogging(cfg.LogLevel)

	cb, err := pickCompiler(cfg.Compiler)
	if err != nil {
		log.Fatalf("Failed to pick compiler backend: %v", err)
	}
	rb, err := pickRuntime(cfg.Runtime)
	if err != nil {
		log.Fatalf("Failed to pick runtime backend: %v", err)
	}
	sel, ok := rb.(kernelc.Selector)
	if !ok {
		log.Fatalf("Runtime backend %q cannot select devices", rb.Name())
	}

	p, err := kernelc.NewPipeline(sel, cb, rb, cfg.SelectorArgs())
	if err != nil {
		log.Fatalf("Failed to select device: %v", err)
	}
	log.Printf("Using device %s", p.Device().Info())

	if cfg.AuxHeader != "" {
		p.Compiler().AuxHeader = cfg.AuxHeader
	}
	if len(cfg.IncludePaths) > 0 {
		p.Compiler().Locator = pathsearch.New(cfg.IncludePaths...)
	}

	mod, err := p.CompileAndLoad(kernel, *headers)
	if err != nil {
		log.Fatalf("Failed to compile and load %s: %v", kernel, err)
	}
	log.Printf("Loaded module %s", mod.Label())
}

func configureLogging(level string) {
	var lvl slog.Level
	switch level {
	case "":
		return
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	kernelc.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func pickCompiler(name string) (kernelc.CompilerBackend, error) {
	if name == "" {
		return backend.DefaultCompiler()
	}
	return backend.Compiler(name)
}

func pickRuntime(name string) (kernelc.RuntimeBackend, error) {
	if name == "" {
		return backend.DefaultRuntime()
	}
	return backend.Runtime(name)
}
