package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bench-harness/providers/backend"
	"bench-harness/types"
)

// resultsCmd represents the results command
var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "store and fetch collected benchmark results",
	Long:  ``,
}

var resultsPushCmd = &cobra.Command{
	Use:   "push run",
	Short: "upload the collected results file for a run",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResultsPush(cmd, args[0])
	},
	Args: func(_ *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("please specify a run name")
		}
		return nil
	},
}

var resultsGetCmd = &cobra.Command{
	Use:   "get run",
	Short: "print the stored results for a run",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResultsGet(cmd, args[0])
	},
	Args: func(_ *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("please specify a run name")
		}
		return nil
	},
}

func init() {
	resultsCmd.PersistentFlags().StringP("backend", "b", "",
		"backend to store results in, options are: "+strings.Join(backend.ListProviders(), ","))
	resultsPushCmd.Flags().StringP("file", "f", "results.json",
		"results file written by the load generator")
	resultsCmd.AddCommand(resultsPushCmd)
	resultsCmd.AddCommand(resultsGetCmd)
	rootCmd.AddCommand(resultsCmd)
}

func runResultsPush(cmd *cobra.Command, run string) error {
	backendName, err := cmd.Flags().GetString("backend")
	if err != nil {
		return err
	}
	file, err := cmd.Flags().GetString("file")
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	var results types.Results
	if err := json.Unmarshal(raw, &results); err != nil {
		return fmt.Errorf("parsing %s: %v", file, err)
	}
	if results.CollectedAt.IsZero() {
		results.CollectedAt = time.Now().UTC()
	}

	backendProvider := backend.NewProvider(backendName)
	if err := backendProvider.PreCmd(cmd.Context(), run); err != nil {
		return err
	}
	return backendProvider.Write(cmd.Context(), run, &results)
}

func runResultsGet(cmd *cobra.Command, run string) error {
	backendName, err := cmd.Flags().GetString("backend")
	if err != nil {
		return err
	}

	backendProvider := backend.NewProvider(backendName)
	if err := backendProvider.PreCmd(cmd.Context(), run); err != nil {
		return err
	}
	results, err := backendProvider.Read(cmd.Context(), run)
	if err != nil {
		return err
	}

	raw, err := yaml.Marshal(results)
	if err != nil {
		return err
	}
	fmt.Println(string(raw))
	return nil
}
