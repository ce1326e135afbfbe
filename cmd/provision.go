package cmd

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"bench-harness/cloudconfig"
	"bench-harness/providers/linode"
	"bench-harness/types"
)

// ipFile records the provisioned host's address for the generated build
// commands, which read it with $(cat ip.txt).
const ipFile = "ip.txt"

// provisionCmd represents the provision command
var provisionCmd = &cobra.Command{
	Use:   "provision language framework",
	Short: "create the cloud instance for one framework",
	Long: `Generate the framework's cloud-init user data, boot a Linode instance
from it and record the instance address in the framework directory.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProvision(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(provisionCmd)
}

func runProvision(cmd *cobra.Command, args []string) error {
	language, framework, err := target(args)
	if err != nil {
		return err
	}
	if language == "" {
		return errors.New("please specify both a language and a framework")
	}
	ctx := cmd.Context()

	if err := (cloudconfig.Generator{Root: rootPath}).Generate(language, framework); err != nil {
		return err
	}
	dir := filepath.Join(rootPath, language, framework)
	userData, err := os.ReadFile(filepath.Join(dir, cloudconfig.FileName))
	if err != nil {
		return err
	}

	provisioner, err := linode.NewProvisioner(ctx)
	if err != nil {
		return err
	}
	instance, err := provisioner.Provision(ctx, types.Target{Language: language, Framework: framework}, userData)
	if err != nil {
		return err
	}
	if len(instance.IPv4) == 0 {
		return errors.New("created instance has no IPv4 address")
	}

	ip := instance.IPv4[0].String()
	if err := os.WriteFile(filepath.Join(dir, ipFile), []byte(ip+"\n"), 0o644); err != nil {
		return err
	}
	klog.Infof("Benchmark host for %s/%s is %s", language, framework, ip)
	return nil
}
