package config

import (
	"os"
	"path/filepath"
	"strings"

	"bench-harness/types"
)

// protected top-level directories that never hold benchmarked frameworks
var protectedRoots = map[string]bool{
	"lib": true,
	"bin": true,
}

// Frameworks enumerates every language/framework pair under root, a pair
// being any second-level directory carrying its own config.yaml. Results are
// sorted by language then framework (os.ReadDir ordering).
func Frameworks(root string) ([]types.Target, error) {
	languages, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var targets []types.Target
	for _, language := range languages {
		if !language.IsDir() || skipDir(language.Name()) {
			continue
		}
		frameworks, err := os.ReadDir(filepath.Join(root, language.Name()))
		if err != nil {
			return nil, err
		}
		for _, framework := range frameworks {
			if !framework.IsDir() || skipDir(framework.Name()) {
				continue
			}
			cfg := filepath.Join(root, language.Name(), framework.Name(), FileName)
			if _, err := os.Stat(cfg); err != nil {
				continue
			}
			targets = append(targets, types.Target{
				Language:  language.Name(),
				Framework: framework.Name(),
			})
		}
	}
	return targets, nil
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || protectedRoots[name]
}
