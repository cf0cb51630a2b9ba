package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/cleaner/display"
	"github.com/teranos/cleaner/formula"
	"github.com/teranos/cleaner/reach"
	"github.com/teranos/cleaner/sym"
	"github.com/teranos/cleaner/types"
)

var (
	planProvenance string
	planAssignment string
)

// PlanCmd shows the witness facts the reach planner would ask next
var PlanCmd = &cobra.Command{
	Use:   "plan",
	Short: sym.Reach + " Plan which facts strengthen a classification",
	Long: sym.Reach + ` plan — Plan which facts strengthen a classification

For a true formula, lists the facts of its first satisfied term. For a false
formula, lists one falsifying fact per term. The formula must already be
classified under the assignment.

Examples:
  cleaner plan --provenance '[["a","b"],["c"]]' --assignment '{"a":true,"b":true}'
  cleaner plan --provenance '[["a","b"],["c"]]' --assignment '{"b":false,"c":false}'`,
	RunE: runPlan,
}

func init() {
	PlanCmd.Flags().StringVarP(&planProvenance, "provenance", "p", "", "Formula as a JSON list of terms")
	PlanCmd.Flags().StringVarP(&planAssignment, "assignment", "a", "{}", "Known facts as a JSON object of booleans")
	_ = PlanCmd.MarkFlagRequired("provenance")
}

type planResult struct {
	Provenance string             `json:"provenance"`
	Truth      formula.Truth      `json:"truth"`
	Plan       []formula.Variable `json:"plan"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	p, a, err := parseFormula(planProvenance, planAssignment)
	if err != nil {
		return err
	}
	targets, err := reach.PlanNextTargets(types.OutputTuple{Provenance: p}, a)
	if err != nil {
		return err
	}
	res := planResult{Provenance: p.String(), Truth: formula.Evaluate(p, a), Plan: targets}

	out := cmd.OutOrStdout()
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(out, res)
	}
	fmt.Fprintf(out, "%s  %s\n", res.Truth.Glyph(), res.Provenance)
	for i, v := range res.Plan {
		fmt.Fprintf(out, "  %d. %s\n", i+1, v)
	}
	return nil
}
