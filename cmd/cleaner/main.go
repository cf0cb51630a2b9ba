package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/cleaner/am"
	"github.com/teranos/cleaner/cmd/cleaner/commands"
	"github.com/teranos/cleaner/logger"
)

var rootCmd = &cobra.Command{
	Use:   "cleaner",
	Short: "cleaner - Interactive provenance-based result cleaning",
	Long: `cleaner - Interactive provenance-based result cleaning.

A query result is explained by a DNF formula over the input facts that
produced it. cleaner asks an expert to mark facts correct or incorrect,
one at a time, until every result is classified, and can keep going until
a chosen result's misclassification score drops below a target.

Available commands:
  run      - Clean a dataset interactively (or with --auto ground truth)
  eval     - Evaluate a provenance formula under a partial assignment
  plan     - Show which facts would strengthen a result's classification
  dataset  - Validate and convert datasets
  am       - Manage cleaner configuration ("I am")
  version  - Show build information

Examples:
  cleaner run --dataset acquisitions.yaml
  cleaner run --dataset acquisitions.yaml --auto --reach-tuple 3 --desired 0.05
  cleaner eval --provenance '[["a","b"],["c"]]' --assignment '{"a":true,"b":true}'
  cleaner dataset import acquisitions.yaml acquisitions.db`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		v := am.GetViper()
		verbosity, err := logger.VerbosityFromLevel(v.GetString("log.level"), verbosity)
		if err != nil {
			return err
		}
		if err := logger.Initialize(v.GetBool("log.json"), verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json", false, "Output results as JSON")

	rootCmd.AddCommand(commands.RunCmd)
	rootCmd.AddCommand(commands.EvalCmd)
	rootCmd.AddCommand(commands.PlanCmd)
	rootCmd.AddCommand(commands.DatasetCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
