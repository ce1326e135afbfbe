package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bench-harness/types"
)

func TestOptionsFill(t *testing.T) {
	opts := NewOptions("provider", "docker", "language", "ruby")
	opts.Fill([]string{"PROVIDER=linode", "DATABASE_URL=postgres://db", "provider=fly", "BROKEN"})

	assert.Equal(t, "docker", opts["provider"], "explicit options beat environment")
	assert.Equal(t, "linode", opts["PROVIDER"])
	assert.Equal(t, "postgres://db", opts["DATABASE_URL"])
	assert.NotContains(t, opts, "BROKEN")
}

func TestNewOptionsSkipsEmptyValues(t *testing.T) {
	opts := NewOptions("framework", "", "language", "ruby")
	opts.Fill([]string{"framework=rails"})

	assert.Equal(t, "rails", opts["framework"], "empty explicit value leaves room for the environment")
	assert.Equal(t, "ruby", opts["language"])
}

func TestOptionsDisabled(t *testing.T) {
	type test struct {
		name  string
		value string
		want  bool
	}
	tests := []test{
		{name: "off", value: "off", want: true},
		{name: "false", value: "false", want: true},
		{name: "on", value: "on", want: false},
		{name: "unset", value: "", want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := Options{}
			if tc.value != "" {
				opts["collect"] = tc.value
			}
			assert.Equal(t, tc.want, opts.Disabled("collect"))
		})
	}
}

func TestFrameworks(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "{}")
	writeConfig(t, root+"/ruby", "{}")
	writeConfig(t, root+"/ruby/rails", "{}")
	writeConfig(t, root+"/ruby/sinatra", "{}")
	writeConfig(t, root+"/go", "{}")
	writeConfig(t, root+"/go/gin", "{}")
	writeConfig(t, root+"/bin/not-a-framework", "{}")
	writeConfig(t, root+"/.git/objects", "{}")

	targets, err := Frameworks(root)
	assert.NoError(t, err)
	assert.Equal(t, []types.Target{
		{Language: "go", Framework: "gin"},
		{Language: "ruby", Framework: "rails"},
		{Language: "ruby", Framework: "sinatra"},
	}, targets)
}
