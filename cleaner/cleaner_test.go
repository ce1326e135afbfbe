package cleaner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "go", "gin", ".gitignore"), `# build artifacts

!keep.txt
.env
bin/
*.log
server
`)
	write(t, filepath.Join(root, "go", "gin", "keep.txt"), "x")
	write(t, filepath.Join(root, "go", "gin", ".env"), "SECRET=1")
	write(t, filepath.Join(root, "go", "gin", "server"), "elf")
	write(t, filepath.Join(root, "go", "gin", "debug.log"), "x")
	write(t, filepath.Join(root, "go", "gin", "bin", "tool"), "elf")

	require.NoError(t, Clean(root))

	assert.FileExists(t, filepath.Join(root, "go", "gin", "keep.txt"))
	assert.FileExists(t, filepath.Join(root, "go", "gin", ".env"))
	assert.NoFileExists(t, filepath.Join(root, "go", "gin", "server"))
	assert.NoFileExists(t, filepath.Join(root, "go", "gin", "debug.log"))
	assert.NoDirExists(t, filepath.Join(root, "go", "gin", "bin"))
}

func TestCleanSkipsProtectedRoots(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "lib", ".gitignore"), "*\n")
	write(t, filepath.Join(root, "lib", "sieger.go"), "package main")
	write(t, filepath.Join(root, "bin", ".gitignore"), "*\n")
	write(t, filepath.Join(root, "bin", "sieger"), "elf")

	require.NoError(t, Clean(root))

	assert.FileExists(t, filepath.Join(root, "lib", "sieger.go"))
	assert.FileExists(t, filepath.Join(root, "bin", "sieger"))
}

func TestUsable(t *testing.T) {
	type test struct {
		line string
		want string
		ok   bool
	}
	tests := []test{
		{line: "*.log", want: "*.log", ok: true},
		{line: "bin/", want: "bin", ok: true},
		{line: "/server", want: "server", ok: true},
		{line: "", ok: false},
		{line: "   ", ok: false},
		{line: "# comment", ok: false},
		{line: "!keep.txt", ok: false},
		{line: ".env", ok: false},
	}
	for _, tc := range tests {
		got, ok := usable(tc.line)
		assert.Equal(t, tc.ok, ok, tc.line)
		if ok {
			assert.Equal(t, tc.want, got, tc.line)
		}
	}
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
