package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"bench-harness/providers/linode"
	"bench-harness/types"
)

// teardownCmd represents the teardown command
var teardownCmd = &cobra.Command{
	Use:   "teardown language framework",
	Short: "delete the cloud instances for one framework",
	Long:  ``,
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTeardown(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(teardownCmd)
}

func runTeardown(cmd *cobra.Command, args []string) error {
	language, framework, err := target(args)
	if err != nil {
		return err
	}
	if language == "" {
		return errors.New("please specify both a language and a framework")
	}

	provisioner, err := linode.NewProvisioner(cmd.Context())
	if err != nil {
		return err
	}
	return provisioner.Deprovision(cmd.Context(), types.Target{Language: language, Framework: framework})
}
