package kernelc

import (
	"fmt"
	"os"
)

// SourceBuffer holds the raw bytes of a kernel source file together with a
// logical name. The name is passed to the compiler backend as the
// program's diagnostic label, so compiler messages point back at the file
// the user supplied.
type SourceBuffer struct {
	Name string
	Data []byte
}

// ReadSource reads the kernel source at path into memory. An empty path is
// rejected before touching the filesystem.
func ReadSource(path string) (*SourceBuffer, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty source path", ErrInput)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrInput, path, err)
	}
	return &SourceBuffer{Name: path, Data: data}, nil
}
