package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"bench-harness/config"
	"bench-harness/manifest"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build [language] [framework]",
	Short: "generate container manifests and build command files",
	Long: `Resolve each framework's layered configuration, render its container
manifest and write the ordered provider commands as a build target. With no
arguments every language/framework directory is processed.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd, args)
	},
}

type buildOptions struct {
	provider      string
	collect       string
	clean         string
	siegerOptions string
	databaseURL   string
}

var buildOpts = &buildOptions{}

func init() {
	buildCmd.Flags().StringVarP(&buildOpts.provider, "provider", "p", "",
		"deployment provider to generate commands for (default $PROVIDER, then docker)")
	buildCmd.Flags().StringVar(&buildOpts.collect, "collect", "",
		"set to off to skip the load generator run (default $COLLECT)")
	buildCmd.Flags().StringVar(&buildOpts.clean, "clean", "",
		"set to off to keep provisioned resources after the run (default $CLEAN)")
	buildCmd.Flags().StringVar(&buildOpts.siegerOptions, "sieger-options", "",
		"extra options passed to the load generator (default $SIEGER_OPTIONS)")
	buildCmd.Flags().StringVar(&buildOpts.databaseURL, "database-url", "",
		"database URL handed to the load generator (default $DATABASE_URL)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	language, framework, err := target(args)
	if err != nil {
		return err
	}

	opts := config.NewOptions(
		"provider", fallback(buildOpts.provider, "PROVIDER"),
		"collect", fallback(buildOpts.collect, "COLLECT"),
		"clean", fallback(buildOpts.clean, "CLEAN"),
		"SIEGER_OPTIONS", fallback(buildOpts.siegerOptions, "SIEGER_OPTIONS"),
		"DATABASE_URL", fallback(buildOpts.databaseURL, "DATABASE_URL"),
	).Fill(os.Environ())
	if opts["provider"] == "" {
		opts["provider"] = "docker"
	}

	generator := manifest.Generator{Root: rootPath, Options: opts}
	if language == "" {
		return generator.GenerateAll()
	}
	_, err = generator.Generate(language, framework)
	return err
}
