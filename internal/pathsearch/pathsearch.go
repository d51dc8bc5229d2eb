// Package pathsearch locates auxiliary data files, such as shared kernel
// headers, relative to the running program. A file is searched for next to
// the origin executable, in the working directory, and in conventional
// shader and include subdirectories of both, walking a few levels up so
// binaries run from a build tree still find their sources.
package pathsearch

import (
	"os"
	"path/filepath"
)

// subdirs are probed inside every candidate directory, in order. The bare
// directory itself is probed first.
var subdirs = []string{"shaders", "include", "data"}

// maxParentHops bounds the upward walk from each root.
const maxParentHops = 3

// Searcher finds files on a fixed list of roots. The zero value searches
// nothing; use Default or New.
type Searcher struct {
	roots []string
}

// Default returns a searcher rooted at the running executable's directory
// and the current working directory.
func Default() *Searcher {
	var roots []string
	if exe, err := os.Executable(); err == nil {
		roots = append(roots, filepath.Dir(exe))
	}
	if wd, err := os.Getwd(); err == nil {
		roots = append(roots, wd)
	}
	return &Searcher{roots: roots}
}

// New returns a searcher over explicit root directories.
func New(roots ...string) *Searcher {
	return &Searcher{roots: roots}
}

// Find looks for filename under the searcher's roots and, when originHint
// names a file or directory, under the hint's directory as well. The hint
// is probed before the fixed roots so files travel with the program that
// references them. Returns the full path of the file.
func (s *Searcher) Find(filename, originHint string) (string, bool) {
	var roots []string
	if originHint != "" {
		dir := originHint
		if info, err := os.Stat(originHint); err != nil || !info.IsDir() {
			dir = filepath.Dir(originHint)
		}
		roots = append(roots, dir)
	}
	roots = append(roots, s.roots...)

	for _, root := range roots {
		dir := root
		for hop := 0; hop <= maxParentHops; hop++ {
			if found, ok := probe(dir, filename); ok {
				return found, true
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	return "", false
}

// probe checks dir and its conventional subdirectories for filename.
func probe(dir, filename string) (string, bool) {
	if path := filepath.Join(dir, filename); fileExists(path) {
		return path, true
	}
	for _, sub := range subdirs {
		if path := filepath.Join(dir, sub, filename); fileExists(path) {
			return path, true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
