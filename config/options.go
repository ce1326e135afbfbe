package config

import "strings"

// Options is the flat per-invocation option bag handed to command templates.
// Explicit keys always win over environment fallbacks.
type Options map[string]string

// NewOptions builds an option bag from alternating key/value pairs, skipping
// pairs with an empty value so environment fallbacks can still apply.
func NewOptions(pairs ...string) Options {
	opts := Options{}
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			opts[pairs[i]] = pairs[i+1]
		}
	}
	return opts
}

// Fill widens the bag with an environment snapshot (os.Environ form) at
// lowest precedence: variables never displace keys that are already set.
// Callers take the snapshot once at invocation start.
func (o Options) Fill(environ []string) Options {
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if _, exists := o[key]; !exists {
			o[key] = value
		}
	}
	return o
}

// Disabled reports whether a toggle option is switched off.
func (o Options) Disabled(key string) bool {
	switch o[key] {
	case "off", "false":
		return true
	}
	return false
}
