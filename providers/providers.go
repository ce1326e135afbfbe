// Package providers decodes deployment provider descriptors out of the
// merged configuration. A provider contributes the command templates the
// manifest generator stitches into a build script.
package providers

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"bench-harness/config"
)

// ErrUnknownProvider is returned when the merged configuration does not
// declare the requested provider.
var ErrUnknownProvider = errors.New("unknown provider")

// Provider is one deployment target's command table. Each list holds
// mustache templates rendered against the option bag; Exec, when set, wraps
// every bootstrap command.
type Provider struct {
	Build    []string `yaml:"build"`
	Metadata []string `yaml:"metadata"`
	Reboot   []string `yaml:"reboot"`
	Clean    []string `yaml:"clean"`
	Exec     string   `yaml:"exec"`
}

// FromConfig looks up providers.<name> in a merged configuration and decodes
// it into a Provider.
func FromConfig(cfg config.Config, name string) (*Provider, error) {
	table := cfg.Map("providers")
	entry, ok := table[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	raw, err := yaml.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("encoding provider %s: %w", name, err)
	}
	provider := &Provider{}
	if err := yaml.Unmarshal(raw, provider); err != nil {
		return nil, fmt.Errorf("decoding provider %s: %w", name, err)
	}
	return provider, nil
}

// IsContainerEngine reports whether the named provider builds with a
// container engine rather than on the host.
func IsContainerEngine(name string) bool {
	return strings.HasPrefix(name, "docker") || strings.HasPrefix(name, "podman")
}
