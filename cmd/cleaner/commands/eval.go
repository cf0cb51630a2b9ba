package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/cleaner/display"
	"github.com/teranos/cleaner/formula"
	"github.com/teranos/cleaner/sym"
)

var (
	evalProvenance string
	evalAssignment string
)

// EvalCmd evaluates one formula without a dataset
var EvalCmd = &cobra.Command{
	Use:   "eval",
	Short: sym.Crucial + " Evaluate a provenance formula",
	Long: sym.Crucial + ` eval — Evaluate a provenance formula under a partial assignment

Prints the three-valued truth of the formula and, per fact, whether flipping
it would change or unsettle the result.

Examples:
  cleaner eval --provenance '[["a","b"],["c"]]' --assignment '{"a":true,"b":true}'
  cleaner eval --provenance '[["a"]]' --json`,
	RunE: runEval,
}

func init() {
	EvalCmd.Flags().StringVarP(&evalProvenance, "provenance", "p", "", "Formula as a JSON list of terms")
	EvalCmd.Flags().StringVarP(&evalAssignment, "assignment", "a", "{}", "Known facts as a JSON object of booleans")
	_ = EvalCmd.MarkFlagRequired("provenance")
}

type factEval struct {
	Variable formula.Variable `json:"variable"`
	Value    formula.Truth    `json:"value"`
	Crucial  formula.Truth    `json:"crucial"`
}

type evalResult struct {
	Provenance string             `json:"provenance"`
	Truth      formula.Truth      `json:"truth"`
	Crucial    []formula.Variable `json:"crucial"`
	Facts      []factEval         `json:"facts"`
}

func evaluate(p formula.Provenance, a formula.Assignment) evalResult {
	res := evalResult{
		Provenance: p.String(),
		Truth:      formula.Evaluate(p, a),
		Crucial:    formula.CrucialVariables(p, a),
	}
	for _, v := range formula.ExtractVariables(p) {
		res.Facts = append(res.Facts, factEval{
			Variable: v,
			Value:    a.Value(v),
			Crucial:  formula.IsCrucial(p, v, a),
		})
	}
	return res
}

func runEval(cmd *cobra.Command, args []string) error {
	p, a, err := parseFormula(evalProvenance, evalAssignment)
	if err != nil {
		return err
	}
	res := evaluate(p, a)

	out := cmd.OutOrStdout()
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(out, res)
	}

	fmt.Fprintf(out, "%s  %s\n", res.Truth.Glyph(), res.Provenance)
	for _, f := range res.Facts {
		mark := " "
		if f.Crucial == formula.True {
			mark = sym.Crucial
		}
		fmt.Fprintf(out, "  %s %s %s\n", mark, f.Value.Glyph(), f.Variable)
	}
	return nil
}
