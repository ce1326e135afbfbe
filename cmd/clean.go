package cmd

import (
	"github.com/spf13/cobra"

	"bench-harness/cleaner"
)

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "delete generated build artifacts across the tree",
	Long: `Walk every .gitignore under the root and delete what its patterns
match. The lib and bin directories are never touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cleaner.Clean(rootPath)
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
