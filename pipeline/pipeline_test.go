package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"bench-harness/types"
)

func TestNew(t *testing.T) {
	targets := []types.Target{
		{Language: "go", Framework: "gin"},
		{Language: "ruby", Framework: "rails"},
		{Language: "ruby", Framework: "sinatra"},
	}

	doc := New(targets)
	assert.Equal(t, "v1.0", doc.Version)
	assert.Equal(t, 24, doc.ExecutionTimeLimit.Hours)
	assert.Equal(t, "e1-standard-2", doc.Agent.Machine.Type)
	assert.Equal(t, "ubuntu2004", doc.Agent.Machine.OSImage)

	require.Len(t, doc.Blocks, 3)
	setup := doc.Blocks[0]
	assert.Equal(t, "setup", setup.Name)
	assert.Empty(t, setup.Dependencies)
	require.Len(t, setup.Task.Jobs, 1)
	assert.Equal(t, setupCommands, setup.Task.Jobs[0].Commands)

	golang := doc.Blocks[1]
	assert.Equal(t, "go", golang.Name)
	assert.Equal(t, []string{"setup"}, golang.Dependencies)
	require.Len(t, golang.Task.Jobs, 1)
	assert.Equal(t, "gin", golang.Task.Jobs[0].Name)
	assert.Equal(t, []string{
		"checkout",
		"cache restore",
		"./bin/bench-harness build go gin",
		"make -C go/gin build",
	}, golang.Task.Jobs[0].Commands)

	ruby := doc.Blocks[2]
	assert.Equal(t, "ruby", ruby.Name)
	assert.Equal(t, []string{"setup"}, ruby.Dependencies)
	require.Len(t, ruby.Task.Jobs, 2)
	assert.Equal(t, "rails", ruby.Task.Jobs[0].Name)
	assert.Equal(t, "sinatra", ruby.Task.Jobs[1].Name)
}

func TestGenerate(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, filepath.Join(root, "go", "gin"))
	writeConfig(t, filepath.Join(root, "ruby", "rails"))

	require.NoError(t, Generator{Root: root}.Generate())

	raw, err := os.ReadFile(filepath.Join(root, ".semaphore", FileName))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "version: v1.0\n"), string(raw))

	var doc Pipeline
	require.NoError(t, yaml.Unmarshal(raw, &doc))
	require.Len(t, doc.Blocks, 3)
	assert.Equal(t, "setup", doc.Blocks[0].Name)
	assert.Equal(t, []string{"setup"}, doc.Blocks[1].Dependencies)
	assert.Equal(t, "make -C ruby/rails build", doc.Blocks[2].Task.Jobs[0].Commands[3])
}

func writeConfig(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{}\n"), 0o644))
}
