package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"

	"bench-harness/types"
)

func NewBackend() *Backend {
	return &Backend{
		Name:     "file",
		BasePath: filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "bench-harness", "results"),
	}
}

type Backend struct {
	Name     string
	BasePath string
}

func (b *Backend) PreCmd(_ context.Context, run string) error {
	path := filepath.Join(b.BasePath, run)
	klog.V(4).Infof("[file backend] trying to validate results dir: %s", path)
	_, err := os.Stat(path)
	if err != nil && os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			return err
		}
	}

	return nil
}

func (b *Backend) Read(_ context.Context, run string) (*types.Results, error) {
	file := filepath.Join(b.BasePath, run, "results.yaml")
	klog.V(4).Infof("[file backend] trying to read results file: %s", file)
	_, err := os.Stat(file)
	if err != nil && os.IsNotExist(err) {
		return nil, fmt.Errorf("results file does not exist: %s", file)
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var results types.Results
	if err := yaml.Unmarshal(raw, &results); err != nil {
		return nil, err
	}

	return &results, nil
}

func (b *Backend) Write(_ context.Context, run string, results *types.Results) error {
	file := filepath.Join(b.BasePath, run, "results.yaml")
	klog.V(4).Infof("[file backend] trying to write results file: %s", file)

	raw, err := yaml.Marshal(results)
	if err != nil {
		return err
	}

	return os.WriteFile(file, raw, 0755)
}

func (b *Backend) Delete(_ context.Context, run string) error {
	path := filepath.Join(b.BasePath, run)
	klog.V(4).Infof("[file backend] trying to delete results in: %s", path)

	return os.RemoveAll(path)
}
