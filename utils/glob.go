package utils

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	cp "github.com/otiai10/copy"
	"k8s.io/klog/v2"
)

// Expand resolves a glob pattern relative to dir. Patterns may use ** and
// may reach outside dir through parent traversal.
func Expand(dir, pattern string) ([]string, error) {
	return doublestar.FilepathGlob(filepath.Join(dir, pattern))
}

// Localize expands every pattern against dir and returns the matches as
// paths relative to dir. A match that resolves outside dir (a shared file
// pulled in from a sibling directory) is first copied inward under its base
// name so the directory stays self-contained.
func Localize(dir string, patterns []string) ([]string, error) {
	var local []string
	for _, pattern := range patterns {
		matches, err := Expand(dir, pattern)
		if err != nil {
			return nil, err
		}
		for _, match := range matches {
			rel, err := filepath.Rel(dir, match)
			if err != nil {
				return nil, err
			}
			if strings.HasPrefix(rel, "..") {
				rel = filepath.Base(match)
				klog.V(4).Infof("[localize] copying shared file %s into %s", match, dir)
				if err := cp.Copy(match, filepath.Join(dir, rel)); err != nil {
					return nil, err
				}
			}
			local = append(local, rel)
		}
	}
	return local, nil
}
