// Package pipeline emits the Semaphore CI document that fans the framework
// matrix out into per-language blocks of parallel jobs.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"

	"bench-harness/config"
	"bench-harness/types"
)

// FileName is the document written under <root>/.semaphore/.
const FileName = "semaphore.yml"

const setupBlockName = "setup"

// setupCommands bootstrap every run: fetch the tree, restore the dependency
// cache, build the harness and load generator into bin/ and cache the
// result for the framework jobs.
var setupCommands = []string{
	"checkout",
	"cache restore",
	"go build -o bin/bench-harness .",
	"go build -o bin/sieger ./lib/sieger",
	"cache store",
}

type Pipeline struct {
	Version            string    `yaml:"version"`
	Name               string    `yaml:"name"`
	ExecutionTimeLimit TimeLimit `yaml:"execution_time_limit"`
	Agent              Agent     `yaml:"agent"`
	Blocks             []Block   `yaml:"blocks"`
}

type TimeLimit struct {
	Hours int `yaml:"hours"`
}

type Agent struct {
	Machine Machine `yaml:"machine"`
}

type Machine struct {
	Type    string `yaml:"type"`
	OSImage string `yaml:"os_image"`
}

type Block struct {
	Name         string   `yaml:"name"`
	Dependencies []string `yaml:"dependencies"`
	Task         Task     `yaml:"task"`
}

type Task struct {
	Jobs []Job `yaml:"jobs"`
}

type Job struct {
	Name     string   `yaml:"name"`
	Commands []string `yaml:"commands"`
}

// Generator writes the CI document for the matrix under Root.
type Generator struct {
	Root string
}

// Generate enumerates the framework matrix and writes
// <root>/.semaphore/semaphore.yml.
func (g Generator) Generate() error {
	targets, err := config.Frameworks(g.Root)
	if err != nil {
		return err
	}
	doc := New(targets)
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	dir := filepath.Join(g.Root, ".semaphore")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	out := filepath.Join(dir, FileName)
	if err := os.WriteFile(out, raw, 0o644); err != nil {
		return err
	}
	klog.Infof("Generated pipeline with %d blocks to %s", len(doc.Blocks), out)
	return nil
}

// New builds the document: a setup block first, then one block per language
// depending on it, with one job per framework.
func New(targets []types.Target) Pipeline {
	blocks := []Block{{
		Name:         setupBlockName,
		Dependencies: []string{},
		Task:         Task{Jobs: []Job{{Name: "install", Commands: setupCommands}}},
	}}
	language := ""
	for _, target := range targets {
		if target.Language != language {
			language = target.Language
			blocks = append(blocks, Block{
				Name:         target.Language,
				Dependencies: []string{setupBlockName},
			})
		}
		block := &blocks[len(blocks)-1]
		block.Task.Jobs = append(block.Task.Jobs, Job{
			Name: target.Framework,
			Commands: []string{
				"checkout",
				"cache restore",
				fmt.Sprintf("./bin/bench-harness build %s %s", target.Language, target.Framework),
				fmt.Sprintf("make -C %s build", target.Name()),
			},
		})
	}
	return Pipeline{
		Version:            "v1.0",
		Name:               "Benchmark suite",
		ExecutionTimeLimit: TimeLimit{Hours: 24},
		Agent:              Agent{Machine: Machine{Type: "e1-standard-2", OSImage: "ubuntu2004"}},
		Blocks:             blocks,
	}
}
