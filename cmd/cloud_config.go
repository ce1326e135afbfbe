package cmd

import (
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"bench-harness/cloudconfig"
	"bench-harness/config"
)

// cloudConfigCmd represents the cloud-config command
var cloudConfigCmd = &cobra.Command{
	Use:   "cloud-config [language] [framework]",
	Short: "generate cloud-init user data for framework hosts",
	Long: `Write the first-boot provisioning document each cloud provider feeds to
its instances. With no arguments every language/framework directory is
processed.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCloudConfig(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(cloudConfigCmd)
}

func runCloudConfig(_ *cobra.Command, args []string) error {
	language, framework, err := target(args)
	if err != nil {
		return err
	}

	generator := cloudconfig.Generator{Root: rootPath}
	if language != "" {
		return generator.Generate(language, framework)
	}

	targets, err := config.Frameworks(rootPath)
	if err != nil {
		return err
	}
	for _, tgt := range targets {
		if err := generator.Generate(tgt.Language, tgt.Framework); err != nil {
			klog.Warningf("skipping %s: %v", tgt.Name(), err)
		}
	}
	return nil
}
