// Package backend registers compiler and runtime backends for kernelc.
//
// Backend packages register factories from their init() functions, so
// selecting backends is a matter of blank imports:
//
//	import (
//	    _ "github.com/gogpu/kernelc/backend/naga" // WGSL compiler
//	    _ "github.com/gogpu/kernelc/backend/wgpu" // wgpu runtime + selector
//	)
//
// DefaultCompiler and DefaultRuntime then return the best registered
// implementation.
package backend
