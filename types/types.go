package types

import (
	"path"
	"time"
)

// Target identifies one benchmarked web application variant by its
// language/framework directory pair.
type Target struct {
	// Language is the top-level language directory, e.g. "ruby"
	Language string
	// Framework is the leaf framework directory, e.g. "rails"
	Framework string
}

// Name returns the language/framework path form used for instance tags,
// image names and log lines.
func (t Target) Name() string {
	return path.Join(t.Language, t.Framework)
}

// Results is the document produced by one collect run against a deployed
// framework and persisted through a backend provider.
type Results struct {
	Language          string    `yaml:"language" json:"language"`
	Framework         string    `yaml:"framework" json:"framework"`
	RequestsPerSecond float64   `yaml:"requests_per_second" json:"requests_per_second"`
	LatencyP50        float64   `yaml:"latency_p50" json:"latency_p50"`
	LatencyP99        float64   `yaml:"latency_p99" json:"latency_p99"`
	Errors            int64     `yaml:"errors" json:"errors"`
	CollectedAt       time.Time `yaml:"collected_at" json:"collected_at"`
}
