package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	type test struct {
		name     string
		template string
		context  any
		want     string
	}
	tests := []test{
		{
			name:     "variable substitution",
			template: "{{x}}",
			context:  map[string]any{"x": "v"},
			want:     "v",
		},
		{
			name:     "missing key renders empty",
			template: "a{{x}}b",
			context:  map[string]any{},
			want:     "ab",
		},
		{
			name:     "no escaping of shell text",
			template: "cd {{dir}} && make",
			context:  map[string]any{"dir": "app"},
			want:     "cd app && make",
		},
		{
			name:     "section loops with element fields bound",
			template: "{{#files}}ADD {{from}} {{to}}\n{{/files}}",
			context: map[string]any{"files": []any{
				map[string]any{"from": "a.rb", "to": "/srv/a.rb"},
				map[string]any{"from": "b.rb", "to": "/srv/b.rb"},
			}},
			want: "ADD a.rb /srv/a.rb\nADD b.rb /srv/b.rb\n",
		},
		{
			name:     "implicit iterator",
			template: "{{#deps}}install {{.}};{{/deps}}",
			context:  map[string]any{"deps": []any{"libpq", "libssl"}},
			want:     "install libpq;install libssl;",
		},
		{
			name:     "truthy section renders once",
			template: "{{#service}}unit{{/service}}",
			context:  map[string]any{"service": "web"},
			want:     "unit",
		},
		{
			name:     "inverted section on absent key",
			template: "{{^binaries}}interpreted{{/binaries}}",
			context:  map[string]any{},
			want:     "interpreted",
		},
		{
			name:     "inverted section skipped when present",
			template: "{{^binaries}}interpreted{{/binaries}}",
			context:  map[string]any{"binaries": []any{"bin/server"}},
			want:     "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := Render(tc.template, tc.context)
			require.NoError(t, err)
			assert.Equal(t, tc.want, actual)
		})
	}
}

func TestRenderFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Dockerfile")
	require.NoError(t, os.WriteFile(path, []byte("FROM {{image}}\n"), 0o644))

	actual, err := RenderFile(path, map[string]any{"image": "ruby:3.3"})
	require.NoError(t, err)
	assert.Equal(t, "FROM ruby:3.3\n", actual)
}

func TestRenderFileMissing(t *testing.T) {
	_, err := RenderFile(filepath.Join(t.TempDir(), "nope"), nil)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}
