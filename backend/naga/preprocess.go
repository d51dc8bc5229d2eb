package naga

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// includePrefix marks an include directive. WGSL has no include mechanism
// of its own, so shared kernel helpers are spliced in textually:
//
//	//!include "compute_utils.wgsl"
const includePrefix = "//!include"

// Preprocess resolves //!include directives in src against the given
// include directories, in order. label names the source in diagnostics.
// Includes do not nest: an included file is spliced verbatim.
//
// A directive naming a file that is not found in any include directory is
// an error; its text doubles as the compile log.
func Preprocess(src []byte, label string, includeDirs []string) ([]byte, error) {
	if !strings.Contains(string(src), includePrefix) {
		return src, nil
	}

	var out strings.Builder
	for lineNo, line := range strings.Split(string(src), "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, includePrefix) {
			out.WriteString(line)
			out.WriteByte('\n')
			continue
		}

		name := strings.Trim(strings.TrimSpace(strings.TrimPrefix(trimmed, includePrefix)), `"`)
		if name == "" {
			return nil, fmt.Errorf("%s:%d: empty include directive", label, lineNo+1)
		}
		data, err := resolveInclude(name, includeDirs)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %v", label, lineNo+1, err)
		}
		out.Write(data)
		out.WriteByte('\n')
	}
	return []byte(out.String()), nil
}

func resolveInclude(name string, includeDirs []string) ([]byte, error) {
	for _, dir := range includeDirs {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("include %q not found on include path %v", name, includeDirs)
}
