package backend

import (
	"errors"
	"testing"

	"github.com/gogpu/kernelc"
)

func TestRegisterCompiler(t *testing.T) {
	RegisterCompiler("test-compiler", func() kernelc.CompilerBackend {
		return &kernelc.MockCompilerBackend{}
	})
	t.Cleanup(func() { UnregisterCompiler("test-compiler") })

	cb, err := Compiler("test-compiler")
	if err != nil {
		t.Fatalf("Compiler() error = %v", err)
	}
	if cb == nil {
		t.Fatal("Compiler() returned nil backend")
	}

	found := false
	for _, name := range Compilers() {
		if name == "test-compiler" {
			found = true
		}
	}
	if !found {
		t.Error("registered compiler not listed by Compilers()")
	}
}

func TestRegisterRuntime(t *testing.T) {
	RegisterRuntime("test-runtime", func() kernelc.RuntimeBackend {
		return &kernelc.MockRuntimeBackend{}
	})
	t.Cleanup(func() { UnregisterRuntime("test-runtime") })

	rb, err := Runtime("test-runtime")
	if err != nil {
		t.Fatalf("Runtime() error = %v", err)
	}
	if rb.Name() != "mock" {
		t.Errorf("Name() = %q, want %q", rb.Name(), "mock")
	}
}

func TestUnknownBackend(t *testing.T) {
	if _, err := Compiler("no-such-backend"); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("Compiler(unknown) error = %v, want ErrNotRegistered", err)
	}
	if _, err := Runtime("no-such-backend"); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("Runtime(unknown) error = %v, want ErrNotRegistered", err)
	}
}

func TestDefaultPrefersPriorityOrder(t *testing.T) {
	// "cuda" outranks "naga" in the priority list; register both under a
	// marker type to observe which one wins.
	RegisterCompiler("naga", func() kernelc.CompilerBackend {
		return &kernelc.MockCompilerBackend{LogText: "naga"}
	})
	RegisterCompiler("cuda", func() kernelc.CompilerBackend {
		return &kernelc.MockCompilerBackend{LogText: "cuda"}
	})
	t.Cleanup(func() {
		UnregisterCompiler("naga")
		UnregisterCompiler("cuda")
	})

	cb, err := DefaultCompiler()
	if err != nil {
		t.Fatalf("DefaultCompiler() error = %v", err)
	}
	mock, ok := cb.(*kernelc.MockCompilerBackend)
	if !ok {
		t.Fatalf("DefaultCompiler() returned %T, want mock", cb)
	}
	if mock.LogText != "cuda" {
		t.Errorf("DefaultCompiler() picked %q, want %q", mock.LogText, "cuda")
	}
}

func TestDefaultWithNothingRegistered(t *testing.T) {
	// The registry may carry backends registered by other tests; only
	// assert the error when it is genuinely empty.
	if len(Runtimes()) == 0 {
		if _, err := DefaultRuntime(); !errors.Is(err, ErrNotRegistered) {
			t.Errorf("DefaultRuntime() error = %v, want ErrNotRegistered", err)
		}
	}
}
