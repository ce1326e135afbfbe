package backend

import (
	"bench-harness/providers/backend/file"
	"bench-harness/providers/backend/github"
	"bench-harness/providers/backend/s3"
)

func NewProvider(name string) Provider {
	switch name {
	case "s3":
		return s3.NewBackend()
	case "github":
		return github.NewBackend()
	default:
		return file.NewBackend()
	}
}

func ListProviders() []string {
	return []string{"file", "s3", "github"}
}
