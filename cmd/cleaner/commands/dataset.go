package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/cleaner/dataset"
	"github.com/teranos/cleaner/display"
	"github.com/teranos/cleaner/errors"
	"github.com/teranos/cleaner/sym"
	"github.com/teranos/cleaner/types"
)

// DatasetCmd groups dataset maintenance commands
var DatasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: sym.DB + " Validate and convert datasets",
	Long: sym.DB + ` dataset — Validate and convert datasets

A dataset holds annotated input tables and the query results explained by
them. It can be stored as YAML, JSON, TOML or a SQLite database.

Examples:
  cleaner dataset validate acquisitions.yaml
  cleaner dataset validate acquisitions.yaml --watch
  cleaner dataset import acquisitions.yaml acquisitions.db
  cleaner dataset import acquisitions.db acquisitions.json`,
}

var datasetValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a dataset and print its size",
	Long: `Check a dataset and print its size.
With --watch the file is checked again after every save until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE:  runDatasetValidate,
}

var datasetImportCmd = &cobra.Command{
	Use:   "import <source> <destination>",
	Short: "Convert a dataset between formats",
	Long: `Read a dataset in any supported format and write it to destination.
A .db or .sqlite destination is created and migrated if it does not exist.`,
	Args: cobra.ExactArgs(2),
	RunE: runDatasetImport,
}

var datasetWatch bool

func init() {
	datasetValidateCmd.Flags().BoolVarP(&datasetWatch, "watch", "w", false, "Re-validate whenever the file changes")

	DatasetCmd.AddCommand(datasetValidateCmd)
	DatasetCmd.AddCommand(datasetImportCmd)
}

type datasetSummary struct {
	Path      string   `json:"path"`
	Tables    []string `json:"tables"`
	Facts     int      `json:"facts"`
	Results   int      `json:"results"`
	Variables int      `json:"variables"`
}

func summarize(path string, ds *dataset.Dataset) datasetSummary {
	return datasetSummary{
		Path:      path,
		Tables:    ds.Tables.Names(),
		Facts:     ds.Tables.Len(),
		Results:   len(ds.Results),
		Variables: len(types.ExtractVariables(ds.Results)),
	}
}

func runDatasetValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	out := cmd.OutOrStdout()
	jsonOut := display.ShouldOutputJSON(cmd)

	ds, err := dataset.Open(cmd.Context(), path)
	if !datasetWatch {
		if err != nil {
			return err
		}
		return printSummary(out, summarize(path, ds), jsonOut)
	}

	report := func(ds *dataset.Dataset, err error) {
		if err != nil {
			PrintError(out, err)
			return
		}
		if perr := printSummary(out, summarize(path, ds), jsonOut); perr != nil {
			PrintError(out, perr)
		}
	}

	w, werr := dataset.NewWatcher(path)
	if werr != nil {
		return werr
	}
	report(ds, err)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if err := w.Run(ctx, report); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printSummary(out io.Writer, sum datasetSummary, jsonOut bool) error {
	if jsonOut {
		return display.OutputJSON(out, sum)
	}
	fmt.Fprintf(out, "%s %s is valid\n", sym.True, sum.Path)
	fmt.Fprintf(out, "  tables:    %v\n", sum.Tables)
	fmt.Fprintf(out, "  facts:     %d\n", sum.Facts)
	fmt.Fprintf(out, "  results:   %d (over %d facts)\n", sum.Results, sum.Variables)
	return nil
}

func runDatasetImport(cmd *cobra.Command, args []string) error {
	src, dst := args[0], args[1]
	ctx := cmd.Context()

	ds, err := dataset.Open(ctx, src)
	if err != nil {
		return err
	}
	if err := dataset.Save(ctx, ds, dst); err != nil {
		return errors.Wrapf(err, "import %s into %s", src, dst)
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd.OutOrStdout(), summarize(dst, ds))
	}
	pterm.Success.WithWriter(cmd.OutOrStdout()).Printf("Imported %d facts and %d results into %s\n",
		ds.Tables.Len(), len(ds.Results), dst)
	return nil
}
