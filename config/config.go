package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/imdario/mergo"
	"github.com/mitchellh/copystructure"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration document every directory level carries.
const FileName = "config.yaml"

var (
	// ErrNotFound is returned when one of the three layered config files is missing.
	ErrNotFound = errors.New("config not found")
	// ErrParse is returned when a config file is not valid YAML.
	ErrParse = errors.New("config parse error")
)

// Config is one merged configuration tree. Values keep the shapes the YAML
// parser produced: map[string]any for mappings, []any for sequences.
type Config map[string]any

// Load reads and parses a single configuration document.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	cfg := Config{}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}
	return cfg, nil
}

// Merge combines base and override recursively: wherever both sides hold a
// mapping the merge recurses, any other override value (scalars and
// sequences alike) replaces the base value entirely. Neither input is
// mutated; the result is built on a deep copy of base.
func Merge(base, override Config) (Config, error) {
	copied, err := copystructure.Copy(base)
	if err != nil {
		return nil, err
	}
	merged, ok := copied.(Config)
	if !ok {
		merged = Config{}
	}
	if err := mergo.Merge(&merged, override, mergo.WithOverride); err != nil {
		return nil, err
	}
	return merged, nil
}

// Resolve loads and merges the three configuration layers for one framework:
// <root>/config.yaml, <root>/<language>/config.yaml and
// <root>/<language>/<framework>/config.yaml, later layers winning. All three
// files must exist.
func Resolve(root, language, framework string) (Config, error) {
	paths := []string{
		filepath.Join(root, FileName),
		filepath.Join(root, language, FileName),
		filepath.Join(root, language, framework, FileName),
	}
	merged := Config{}
	for _, path := range paths {
		layer, err := Load(path)
		if err != nil {
			return nil, err
		}
		merged, err = Merge(merged, layer)
		if err != nil {
			return nil, fmt.Errorf("merging %s: %v", path, err)
		}
	}
	return merged, nil
}

// Has reports whether key is present, whatever its value.
func (c Config) Has(key string) bool {
	_, ok := c[key]
	return ok
}

// String returns the scalar string at key, or "" when absent or not a string.
func (c Config) String(key string) string {
	s, _ := c[key].(string)
	return s
}

// Strings returns the sequence at key coerced to strings. A single scalar
// string is returned as a one-element slice, anything else as nil.
func (c Config) Strings(key string) []string {
	switch v := c[key].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	case string:
		return []string{v}
	default:
		return nil
	}
}

// Map returns the mapping at key, or nil when absent or not a mapping.
func (c Config) Map(key string) map[string]any {
	m, _ := c[key].(map[string]any)
	return m
}
