package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	AppName = "bench-harness"
)

var rootPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   AppName,
	Short: "build and deploy orchestrator for the web framework benchmarks",
	Long:  ``,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(version, commit, date string) {
	appVersion = fmt.Sprintf("%s - %s %s %s", AppName, version, commit, date)
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootPath, "root", ".",
		"root of the framework tree (the directory holding the global config.yaml)")
}

// target resolves the language/framework pair from args, with the LANG and
// FRAMEWORK environment variables as fallbacks. Empty results select the
// whole matrix; a half-specified pair is an error.
func target(args []string) (language, framework string, err error) {
	language = os.Getenv("LANG")
	framework = os.Getenv("FRAMEWORK")
	if len(args) > 0 {
		language = args[0]
	}
	if len(args) > 1 {
		framework = args[1]
	}
	if len(args) == 0 && framework == "" {
		return "", "", nil
	}
	if language == "" || framework == "" {
		return "", "", errors.New("please specify both a language and a framework")
	}
	return language, framework, nil
}

// fallback returns value, or the named environment variable when value is
// empty. Explicit flags always win over the environment.
func fallback(value, envKey string) string {
	if value != "" {
		return value
	}
	return os.Getenv(envKey)
}
