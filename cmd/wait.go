package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// waitCmd represents the wait command
var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "wait for a provisioned host to finish booting",
	Long: `Poll the host's first-boot status over SSH until provisioning reports
done. Connection failures are retried every few seconds; an explicit error
status fails immediately.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWait(cmd)
	},
}

func init() {
	waitCmd.Flags().String("host", "", "host to wait for (default $HOST)")
	waitCmd.Flags().String("key", "", "private key for SSH authentication (default $SSH_KEY)")
	waitCmd.Flags().Duration("timeout", 0, "give up after this long (0 waits forever)")
	rootCmd.AddCommand(waitCmd)
}

func runWait(cmd *cobra.Command) error {
	deployer, err := deployerFromFlags(cmd)
	if err != nil {
		return err
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return deployer.WaitReady(ctx)
}
