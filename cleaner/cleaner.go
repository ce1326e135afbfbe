// Package cleaner deletes the artifacts that builds leave behind, driven by
// the .gitignore files across the framework tree.
package cleaner

import (
	"os"
	"path/filepath"
	"strings"

	"k8s.io/klog/v2"

	"bench-harness/utils"
)

const ignoreFile = ".gitignore"

// protectedRoots are top-level directories the cleaner never descends into:
// lib holds shared sources and bin the built tools.
var protectedRoots = map[string]bool{"lib": true, "bin": true}

// Clean walks root for .gitignore files and removes everything their
// patterns match, relative to each ignore file's directory. Comment, negated
// and .env lines are skipped. Deletion is immediate, there is no dry run.
func Clean(root string) error {
	return filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			// entries can vanish mid-walk once a parent's patterns ran
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if entry.IsDir() {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if protectedRoots[topLevel(rel)] {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.Name() != ignoreFile {
			return nil
		}
		return clean(filepath.Dir(path))
	})
}

func clean(dir string) error {
	raw, err := os.ReadFile(filepath.Join(dir, ignoreFile))
	if err != nil {
		return err
	}
	for _, line := range strings.Split(string(raw), "\n") {
		pattern, ok := usable(line)
		if !ok {
			continue
		}
		matches, err := utils.Expand(dir, pattern)
		if err != nil {
			return err
		}
		for _, match := range matches {
			if err := remove(match); err != nil {
				return err
			}
		}
	}
	return nil
}

// usable filters one ignore line down to a glob pattern: blanks, comments,
// negations and .env entries are skipped, anchoring slashes trimmed.
func usable(line string) (string, bool) {
	line = strings.TrimSpace(line)
	switch {
	case line == "", line == ".env":
		return "", false
	case strings.HasPrefix(line, "#"), strings.HasPrefix(line, "!"):
		return "", false
	}
	return strings.Trim(line, "/"), true
}

func remove(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		klog.Infof("Removing directory %s", path)
		return os.RemoveAll(path)
	}
	klog.Infof("Removing %s", path)
	return os.Remove(path)
}

func topLevel(rel string) string {
	top, _, _ := strings.Cut(rel, string(os.PathSeparator))
	return top
}
