package cmd

import (
	"github.com/spf13/cobra"

	"bench-harness/pipeline"
)

// pipelineCmd represents the pipeline command
var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "generate the CI pipeline for the framework matrix",
	Long: `Enumerate every language/framework directory and write the CI document
that builds them as parallel jobs, one block per language.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.Generator{Root: rootPath}.Generate()
	},
}

func init() {
	rootCmd.AddCommand(pipelineCmd)
}
