package kernelc

// Compile flag prefixes understood by compiler backends.
const (
	archFlagPrefix    = "--gpu-architecture="
	includeFlagPrefix = "--include-path="
)

// ArchitectureFlag returns the target-architecture compile flag for arch,
// e.g. "--gpu-architecture=sm_75" for (7,5).
func ArchitectureFlag(arch Architecture) string {
	return archFlagPrefix + arch.SM()
}

// IncludePathFlag returns the include-path compile flag for dir.
func IncludePathFlag(dir string) string {
	return includeFlagPrefix + dir
}

// OptionSet is an ordered list of compile flags, built fresh for each
// compile call. Flags are passed to the compiler backend in insertion
// order; the architecture flag always precedes the include-path flag.
type OptionSet struct {
	flags []string
}

// AddArchitecture appends the target-architecture flag for arch.
func (o *OptionSet) AddArchitecture(arch Architecture) {
	o.flags = append(o.flags, ArchitectureFlag(arch))
}

// AddIncludePath appends an include-path flag for dir.
func (o *OptionSet) AddIncludePath(dir string) {
	o.flags = append(o.flags, IncludePathFlag(dir))
}

// Flags returns the assembled flag list in insertion order. The returned
// slice is owned by the OptionSet; callers must not modify it.
func (o *OptionSet) Flags() []string {
	return o.flags
}

// Len returns the number of flags.
func (o *OptionSet) Len() int {
	return len(o.flags)
}
