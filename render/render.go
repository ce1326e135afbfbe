// Package render performs mustache-style template substitution for
// container manifests, provider command templates and service units.
package render

import (
	"errors"
	"fmt"
	"os"

	"github.com/cbroglie/mustache"
)

// ErrTemplateNotFound is returned when a required template file is missing.
var ErrTemplateNotFound = errors.New("template not found")

// Render substitutes {{name}} variables from context into template. Section
// blocks ({{#key}}...{{/key}}) loop over sequences, render once for truthy
// scalars and bind element fields inside the block; inverted sections
// ({{^key}}) render when the key is absent or falsy. Missing keys render as
// the empty string: generators rely on that to share one template across
// configurations that only set some of the keys. Output is raw, no HTML
// escaping, since everything rendered here is shell or file content.
func Render(template string, context ...any) (string, error) {
	return mustache.RenderRaw(template, true, context...)
}

// RenderFile renders the template stored at path against context.
func RenderFile(path string, context ...any) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
		}
		return "", err
	}
	return Render(string(raw), context...)
}
