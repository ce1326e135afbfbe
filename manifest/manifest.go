// Package manifest turns a framework directory's merged configuration into
// its two build artifacts: the container manifest and the ordered build
// command file.
package manifest

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"bench-harness/config"
	"bench-harness/providers"
	"bench-harness/render"
	"bench-harness/utils"
)

const (
	// ManifestName is the container manifest written into every framework
	// directory, whichever template produced it.
	ManifestName = "Dockerfile"
	// BuildFileName holds the ordered build commands as a make target.
	BuildFileName = "Makefile"

	// buildTemplate is the shared per-language container template; the
	// extraction variant is used for providers that deploy host binaries.
	buildTemplate      = "Dockerfile"
	extractionTemplate = "Dockerfile.build"

	healthCheck = "curl --retry 5 --retry-delay 5 --retry-max-time 180 http://$(cat ip.txt):3000/"
	sieger      = "../../bin/sieger -d {{DATABASE_URL}} -l {{language}} -f {{framework}} {{SIEGER_OPTIONS}} -h $(cat ip.txt)"
)

// Result reports what Generate produced for one framework.
type Result struct {
	// Manifest is the path of the written container manifest, empty when no
	// template applied to the framework.
	Manifest string
	// Commands is the ordered build command list written to the make target.
	Commands []string
}

// Generator renders build artifacts for framework directories under Root.
type Generator struct {
	Root    string
	Options config.Options
}

// Generate resolves one framework's configuration, writes its container
// manifest and build command file and returns both. A framework that
// declares neither a container provider nor binaries is skipped without
// error.
func (g Generator) Generate(language, framework string) (*Result, error) {
	cfg, err := config.Resolve(g.Root, language, framework)
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(g.Root, language, framework)

	for _, key := range []string{"sources", "files"} {
		if !cfg.Has(key) {
			continue
		}
		localized, err := utils.Localize(dir, cfg.Strings(key))
		if err != nil {
			return nil, err
		}
		cfg[key] = localized
	}
	if cfg.Has("environment") {
		cfg["environment"] = environmentLines(cfg)
	}

	opts := config.Options{}
	for key, value := range g.Options {
		opts[key] = value
	}
	opts["language"] = language
	opts["framework"] = framework
	name := opts["provider"]

	template, ok := g.templateFor(language, name, cfg)
	if !ok {
		klog.V(4).Infof("[manifest] %s/%s has no container template, skipping", language, framework)
		return &Result{}, nil
	}
	rendered, err := render.RenderFile(template, map[string]any(cfg))
	if err != nil {
		return nil, err
	}
	manifest := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(manifest, []byte(rendered), 0o644); err != nil {
		return nil, err
	}
	opts["manifest"] = ManifestName

	provider, err := providers.FromConfig(cfg, name)
	if err != nil {
		return nil, err
	}
	commands, err := assemble(cfg, provider, opts)
	if err != nil {
		return nil, err
	}
	if err := writeBuildFile(filepath.Join(dir, BuildFileName), commands); err != nil {
		return nil, err
	}
	klog.Infof("Generated build manifest for %s/%s (%d commands)", language, framework, len(commands))
	return &Result{Manifest: manifest, Commands: commands}, nil
}

// GenerateAll runs Generate over the whole framework matrix. A failing
// framework is reported and skipped so one broken configuration does not
// abort the run.
func (g Generator) GenerateAll() error {
	targets, err := config.Frameworks(g.Root)
	if err != nil {
		return err
	}
	for _, target := range targets {
		if _, err := g.Generate(target.Language, target.Framework); err != nil {
			klog.Warningf("skipping %s: %v", target.Name(), err)
		}
	}
	return nil
}

func (g Generator) templateFor(language, provider string, cfg config.Config) (string, bool) {
	if providers.IsContainerEngine(provider) {
		return filepath.Join(g.Root, language, buildTemplate), true
	}
	if cfg.Has("binaries") {
		return filepath.Join(g.Root, language, extractionTemplate), true
	}
	return "", false
}

// assemble builds the ordered command list: binary extraction, provider
// build and metadata, wrapped bootstrap commands, reboot, the health check,
// collection and cleanup.
func assemble(cfg config.Config, provider *providers.Provider, opts config.Options) ([]string, error) {
	var commands []string

	name := opts["provider"]
	if !providers.IsContainerEngine(name) && cfg.Has("binaries") {
		commands = append(commands, extraction(cfg, opts)...)
	}

	for _, phase := range [][]string{provider.Build, provider.Metadata} {
		rendered, err := renderAll(phase, opts)
		if err != nil {
			return nil, err
		}
		commands = append(commands, rendered...)
	}

	if provider.Exec != "" {
		for _, bootstrap := range cfg.Strings("bootstrap") {
			wrapped, err := render.Render(provider.Exec, map[string]string{"command": bootstrap}, opts)
			if err != nil {
				return nil, err
			}
			commands = append(commands, wrapped)
		}
	}

	if len(provider.Reboot) > 0 {
		rendered, err := renderAll(provider.Reboot, opts)
		if err != nil {
			return nil, err
		}
		commands = append(commands, rendered...)
		commands = append(commands, "sleep 30")
	}

	commands = append(commands, healthCheck)

	if !opts.Disabled("collect") {
		collect, err := render.Render(sieger, opts)
		if err != nil {
			return nil, err
		}
		commands = append(commands, collect)
	}
	if !opts.Disabled("clean") {
		rendered, err := renderAll(provider.Clean, opts)
		if err != nil {
			return nil, err
		}
		commands = append(commands, rendered...)
	}
	return commands, nil
}

// extraction emits the disposable container sequence that copies compiled
// binaries onto the host before a remote deploy.
func extraction(cfg config.Config, opts config.Options) []string {
	image := fmt.Sprintf("%s.%s", opts["language"], opts["framework"])
	container := fmt.Sprintf("%s-%s", opts["framework"], uuid.NewString())
	commands := []string{
		fmt.Sprintf("docker build -f %s -t %s .", ManifestName, image),
		fmt.Sprintf("docker run -td --name=%s %s", container, image),
	}
	for _, binary := range cfg.Strings("binaries") {
		if parent := path.Dir(binary); parent != "." {
			commands = append(commands, fmt.Sprintf("mkdir -p %s", parent))
		}
		commands = append(commands, fmt.Sprintf("docker cp %s:/usr/src/app/%s %s", container, binary, binary))
	}
	return commands
}

func renderAll(templates []string, opts config.Options) ([]string, error) {
	out := make([]string, 0, len(templates))
	for _, template := range templates {
		rendered, err := render.Render(template, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, rendered)
	}
	return out, nil
}

func environmentLines(cfg config.Config) []string {
	environment := cfg.Map("environment")
	keys := make([]string, 0, len(environment))
	for key := range environment {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, fmt.Sprintf("%s %v", key, environment[key]))
	}
	return lines
}

func writeBuildFile(path string, commands []string) error {
	var b strings.Builder
	b.WriteString("build:\n")
	for _, command := range commands {
		b.WriteString("\t")
		b.WriteString(command)
		b.WriteString("\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
