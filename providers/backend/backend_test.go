package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bench-harness/providers/backend/file"
	"bench-harness/providers/backend/github"
	"bench-harness/providers/backend/s3"
)

func TestNewProvider(t *testing.T) {
	type test struct {
		name  string
		input string
		want  Provider
	}
	tests := []test{
		{name: "file", input: "file", want: file.NewBackend()},
		{name: "s3", input: "s3", want: s3.NewBackend()},
		{name: "github", input: "github", want: github.NewBackend()},
		{name: "not matching name", input: "wrong", want: file.NewBackend()},
		{name: "no name", input: "", want: file.NewBackend()},
	}
	for _, tc := range tests {
		actual := NewProvider(tc.input)
		assert.Equal(t, tc.want, actual)
	}
}

func TestListProviders(t *testing.T) {
	assert.Equal(t, []string{"file", "s3", "github"}, ListProviders())
}
