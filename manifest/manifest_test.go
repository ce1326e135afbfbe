package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bench-harness/config"
	"bench-harness/providers"
)

func TestAssembleOrder(t *testing.T) {
	provider := &providers.Provider{
		Build:    []string{"a"},
		Metadata: []string{"b"},
		Exec:     "run {{command}}",
	}
	cfg := config.Config{"bootstrap": []any{"c"}}
	opts := config.Options{
		"provider":       "test",
		"language":       "go",
		"framework":      "gin",
		"DATABASE_URL":   "postgres://db",
		"SIEGER_OPTIONS": "-z 1m",
	}

	commands, err := assemble(cfg, provider, opts)
	require.NoError(t, err)
	want := []string{
		"a",
		"b",
		"run c",
		"curl --retry 5 --retry-delay 5 --retry-max-time 180 http://$(cat ip.txt):3000/",
		"../../bin/sieger -d postgres://db -l go -f gin -z 1m -h $(cat ip.txt)",
	}
	assert.Equal(t, want, commands)
}

func TestAssembleToggles(t *testing.T) {
	provider := &providers.Provider{
		Build: []string{"build it"},
		Clean: []string{"tear it down"},
	}

	type test struct {
		name string
		opts config.Options
		want []string
	}
	tests := []test{
		{
			name: "collect and clean disabled",
			opts: config.Options{"collect": "off", "clean": "false"},
			want: []string{
				"build it",
				"curl --retry 5 --retry-delay 5 --retry-max-time 180 http://$(cat ip.txt):3000/",
			},
		},
		{
			name: "clean enabled",
			opts: config.Options{"collect": "off"},
			want: []string{
				"build it",
				"curl --retry 5 --retry-delay 5 --retry-max-time 180 http://$(cat ip.txt):3000/",
				"tear it down",
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			commands, err := assemble(config.Config{}, provider, tc.opts)
			require.NoError(t, err)
			assert.Equal(t, tc.want, commands)
		})
	}
}

func TestAssembleReboot(t *testing.T) {
	provider := &providers.Provider{Reboot: []string{"reboot {{host}}"}}
	opts := config.Options{"host": "10.0.0.9", "collect": "off", "clean": "off"}

	commands, err := assemble(config.Config{}, provider, opts)
	require.NoError(t, err)
	want := []string{
		"reboot 10.0.0.9",
		"sleep 30",
		"curl --retry 5 --retry-delay 5 --retry-max-time 180 http://$(cat ip.txt):3000/",
	}
	assert.Equal(t, want, commands)
}

func TestGenerateContainerProvider(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "config.yaml"), `providers:
  docker:
    build:
      - docker build -f {{manifest}} -t web .
    metadata:
      - echo 127.0.0.1 > ip.txt
`)
	writeFile(t, filepath.Join(root, "go", "config.yaml"), "deps:\n  - git\n")
	writeFile(t, filepath.Join(root, "go", "Dockerfile"), `FROM golang
{{#environment}}
ENV {{.}}
{{/environment}}
{{#sources}}
COPY {{.}} ./
{{/sources}}
`)
	writeFile(t, filepath.Join(root, "go", "gin", "config.yaml"), `environment:
  GIN_MODE: release
  PORT: 3000
sources:
  - '*.go'
`)
	writeFile(t, filepath.Join(root, "go", "gin", "main.go"), "package main\n")

	generator := Generator{Root: root, Options: config.Options{"provider": "docker", "collect": "off", "clean": "off"}}
	result, err := generator.Generate("go", "gin")
	require.NoError(t, err)

	manifest, err := os.ReadFile(result.Manifest)
	require.NoError(t, err)
	assert.Contains(t, string(manifest), "ENV GIN_MODE release")
	assert.Contains(t, string(manifest), "ENV PORT 3000")
	assert.Contains(t, string(manifest), "COPY main.go ./")

	want := []string{
		"docker build -f Dockerfile -t web .",
		"echo 127.0.0.1 > ip.txt",
		"curl --retry 5 --retry-delay 5 --retry-max-time 180 http://$(cat ip.txt):3000/",
	}
	assert.Equal(t, want, result.Commands)

	buildFile, err := os.ReadFile(filepath.Join(root, "go", "gin", BuildFileName))
	require.NoError(t, err)
	assert.Equal(t, "build:\n\t"+strings.Join(want, "\n\t")+"\n", string(buildFile))
}

func TestGenerateBinaryExtraction(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "config.yaml"), `providers:
  linode:
    build:
      - linode-cli linodes create
`)
	writeFile(t, filepath.Join(root, "go", "config.yaml"), "{}\n")
	writeFile(t, filepath.Join(root, "go", "Dockerfile.build"), "FROM golang AS build\n")
	writeFile(t, filepath.Join(root, "go", "gin", "config.yaml"), `binaries:
  - bin/server
`)

	generator := Generator{Root: root, Options: config.Options{"provider": "linode", "collect": "off", "clean": "off"}}
	result, err := generator.Generate("go", "gin")
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(result.Commands), 5)
	assert.Equal(t, "docker build -f Dockerfile -t go.gin .", result.Commands[0])
	assert.True(t, strings.HasPrefix(result.Commands[1], "docker run -td --name=gin-"), result.Commands[1])
	assert.Equal(t, "mkdir -p bin", result.Commands[2])
	assert.True(t, strings.HasPrefix(result.Commands[3], "docker cp gin-"), result.Commands[3])
	assert.True(t, strings.HasSuffix(result.Commands[3], ":/usr/src/app/bin/server bin/server"), result.Commands[3])
	assert.Equal(t, "linode-cli linodes create", result.Commands[4])
}

func TestGenerateSkipsWithoutTemplate(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "config.yaml"), "{}\n")
	writeFile(t, filepath.Join(root, "go", "config.yaml"), "{}\n")
	writeFile(t, filepath.Join(root, "go", "gin", "config.yaml"), "{}\n")

	generator := Generator{Root: root, Options: config.Options{"provider": "linode"}}
	result, err := generator.Generate("go", "gin")
	require.NoError(t, err)
	assert.Empty(t, result.Manifest)
	assert.Empty(t, result.Commands)
	assert.NoFileExists(t, filepath.Join(root, "go", "gin", ManifestName))
}

func TestGenerateLocalizesSharedSources(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "config.yaml"), `providers:
  docker:
    build:
      - docker build .
`)
	writeFile(t, filepath.Join(root, "go", "config.yaml"), "{}\n")
	writeFile(t, filepath.Join(root, "go", "Dockerfile"), "{{#sources}}COPY {{.}} ./\n{{/sources}}")
	writeFile(t, filepath.Join(root, "go", "gin", "config.yaml"), `sources:
  - ../../lib/pg.go
`)
	writeFile(t, filepath.Join(root, "lib", "pg.go"), "package lib\n")

	generator := Generator{Root: root, Options: config.Options{"provider": "docker", "collect": "off", "clean": "off"}}
	result, err := generator.Generate("go", "gin")
	require.NoError(t, err)

	manifest, err := os.ReadFile(result.Manifest)
	require.NoError(t, err)
	assert.Contains(t, string(manifest), "COPY pg.go ./")
	assert.FileExists(t, filepath.Join(root, "go", "gin", "pg.go"))
}

func TestGenerateUnknownProvider(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "config.yaml"), "{}\n")
	writeFile(t, filepath.Join(root, "go", "config.yaml"), "{}\n")
	writeFile(t, filepath.Join(root, "go", "Dockerfile"), "FROM golang\n")
	writeFile(t, filepath.Join(root, "go", "gin", "config.yaml"), "{}\n")

	generator := Generator{Root: root, Options: config.Options{"provider": "docker"}}
	_, err := generator.Generate("go", "gin")
	assert.ErrorIs(t, err, providers.ErrUnknownProvider)
}

func TestGenerateAllSurvivesBrokenFramework(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "config.yaml"), `providers:
  docker:
    build:
      - docker build .
`)
	writeFile(t, filepath.Join(root, "go", "config.yaml"), "{}\n")
	writeFile(t, filepath.Join(root, "go", "Dockerfile"), "FROM golang\n")
	writeFile(t, filepath.Join(root, "go", "gin", "config.yaml"), "{}\n")
	writeFile(t, filepath.Join(root, "ruby", "rails", "config.yaml"), "{}\n")

	generator := Generator{Root: root, Options: config.Options{"provider": "docker", "collect": "off", "clean": "off"}}
	require.NoError(t, generator.GenerateAll())

	assert.FileExists(t, filepath.Join(root, "go", "gin", ManifestName))
	assert.NoFileExists(t, filepath.Join(root, "ruby", "rails", ManifestName))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
