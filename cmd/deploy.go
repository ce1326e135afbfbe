package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"bench-harness/deploy"
)

// deployCmd represents the deploy command
var deployCmd = &cobra.Command{
	Use:   "deploy language framework",
	Short: "upload built binaries to the provisioned host",
	Long: `Copy every file matched by the framework's binaries patterns onto the
remote host under /usr/src/app, creating remote directories first.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDeploy(cmd, args)
	},
}

func init() {
	deployCmd.Flags().String("host", "", "host to deploy to (default $HOST)")
	deployCmd.Flags().String("key", "", "private key for SSH authentication (default $SSH_KEY)")
	rootCmd.AddCommand(deployCmd)
}

func runDeploy(cmd *cobra.Command, args []string) error {
	language, framework, err := target(args)
	if err != nil {
		return err
	}
	if language == "" {
		return errors.New("please specify both a language and a framework")
	}

	deployer, err := deployerFromFlags(cmd)
	if err != nil {
		return err
	}
	return deployer.Upload(rootPath, language, framework)
}

// deployerFromFlags builds a Deployer from the host/key flags and their HOST
// and SSH_KEY environment fallbacks. Shared with the wait command.
func deployerFromFlags(cmd *cobra.Command) (*deploy.Deployer, error) {
	host, err := cmd.Flags().GetString("host")
	if err != nil {
		return nil, err
	}
	if host = fallback(host, "HOST"); host == "" {
		return nil, errors.New("a host is required")
	}
	key, err := cmd.Flags().GetString("key")
	if err != nil {
		return nil, err
	}
	if key = fallback(key, "SSH_KEY"); key == "" {
		return nil, errors.New("an SSH key is required")
	}
	return &deploy.Deployer{Host: host, User: "root", KeyPath: key}, nil
}
