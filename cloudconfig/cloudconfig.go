// Package cloudconfig generates the first-boot provisioning document a VM
// provider feeds to cloud-init.
package cloudconfig

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"

	"bench-harness/config"
	"bench-harness/render"
	"bench-harness/utils"
)

// Marker is the first line of every generated document, required by the
// cloud-init parser.
const Marker = "#cloud-config"

// FileName is the per-framework output document.
const FileName = "user-data.yml"

const (
	servicePath = "/lib/systemd/system/web.service"
	envPath     = "/etc/web"
	remoteRoot  = "/usr/src/app"
)

// InitFile is one write_files record.
type InitFile struct {
	Path       string `yaml:"path"`
	Permission string `yaml:"permission,omitempty"`
	Content    string `yaml:"content"`
}

// Config is the cloud-init document body. Append order is deploy order.
type Config struct {
	Packages   []string   `yaml:"packages,omitempty"`
	WriteFiles []InitFile `yaml:"write_files"`
	RunCmd     []string   `yaml:"runcmd"`
}

// Generator writes boot documents for framework directories under Root.
type Generator struct {
	Root string
}

// Generate resolves the framework's configuration and writes
// <root>/<language>/<framework>/user-data.yml.
func (g Generator) Generate(language, framework string) error {
	cfg, err := config.Resolve(g.Root, language, framework)
	if err != nil {
		return err
	}
	doc, err := Build(cfg, filepath.Join(g.Root, language, framework))
	if err != nil {
		return err
	}
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	out := filepath.Join(g.Root, language, framework, FileName)
	if err := os.WriteFile(out, append([]byte(Marker+"\n"), raw...), 0o644); err != nil {
		return err
	}
	klog.Infof("[cloud-config] wrote %s", out)
	return nil
}

// Build assembles the document for one framework directory. The base comes
// from the configuration's cloud.config mapping, then the service unit, the
// environment file, dependency packages, the run command sequence and the
// embedded files are appended in that order.
func Build(cfg config.Config, dir string) (*Config, error) {
	doc, err := seed(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Has("service") {
		unit, err := render.Render(cfg.String("service"), map[string]any(cfg))
		if err != nil {
			return nil, fmt.Errorf("rendering service unit: %w", err)
		}
		doc.WriteFiles = append(doc.WriteFiles, InitFile{Path: servicePath, Content: unit})
	}

	doc.WriteFiles = append(doc.WriteFiles, InitFile{Path: envPath, Content: environmentFile(cfg)})
	doc.Packages = append(doc.Packages, cfg.Strings("deps")...)

	runCmd := append([]string{}, cfg.Strings("before_command")...)
	runCmd = append(runCmd, doc.RunCmd...)
	for _, ext := range cfg.Strings("php_ext") {
		runCmd = append(runCmd,
			fmt.Sprintf("pecl install %s", ext),
			fmt.Sprintf("echo 'extension=%s' > /etc/php.d/99-%s.ini", ext, ext))
	}
	runCmd = append(runCmd, cfg.Strings("after_command")...)
	doc.RunCmd = runCmd

	embedded, err := embedFiles(dir, cfg.Strings("files"))
	if err != nil {
		return nil, err
	}
	doc.WriteFiles = append(doc.WriteFiles, embedded...)
	return doc, nil
}

// seed decodes the configuration's cloud.config mapping so defaults declared
// there (extra packages, distribution run commands) survive into the output.
func seed(cfg config.Config) (*Config, error) {
	doc := &Config{}
	cloud := cfg.Map("cloud")
	if cloud == nil {
		return doc, nil
	}
	raw, err := yaml.Marshal(cloud["config"])
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("decoding cloud config: %w", err)
	}
	return doc, nil
}

func environmentFile(cfg config.Config) string {
	environment := cfg.Map("environment")
	keys := make([]string, 0, len(environment))
	for key := range environment {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var content string
	for _, key := range keys {
		content += fmt.Sprintf("%s=%v\n", key, environment[key])
	}
	return content
}

// embedFiles expands the files patterns relative to the framework directory
// and turns every regular file match into a write_files record under
// /usr/src/app, preserving relative structure.
func embedFiles(dir string, patterns []string) ([]InitFile, error) {
	var out []InitFile
	for _, pattern := range patterns {
		matches, err := utils.Expand(dir, pattern)
		if err != nil {
			return nil, err
		}
		for _, match := range matches {
			files, err := regularFiles(match)
			if err != nil {
				return nil, err
			}
			for _, file := range files {
				rel, err := filepath.Rel(dir, file)
				if err != nil || strings.HasPrefix(rel, "..") {
					rel = filepath.Base(file)
				}
				content, err := os.ReadFile(file)
				if err != nil {
					return nil, err
				}
				out = append(out, InitFile{
					Path:    path.Join(remoteRoot, filepath.ToSlash(rel)),
					Content: string(content),
				})
			}
		}
	}
	return out, nil
}

func regularFiles(match string) ([]string, error) {
	info, err := os.Stat(match)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{match}, nil
	}
	var files []string
	err = filepath.WalkDir(match, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}
