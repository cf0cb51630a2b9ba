// Package reach plans which facts to resolve to lower one result's uncertainty.
//
// The planner picks a witness for the result's current classification: the
// variables of a satisfied term when the result is true, or one falsifying
// variable per term when it is false. Confirming the witness with lower
// mistake probability is the cheapest way to strengthen the classification.
package reach

import (
	"github.com/teranos/cleaner/errors"
	"github.com/teranos/cleaner/formula"
	"github.com/teranos/cleaner/types"
)

// PlanNextTargets returns the ordered variables to resolve next for tuple.
// The first element is the next fact to resolve; callers queue the rest.
func PlanNextTargets(tuple types.OutputTuple, a formula.Valuation) ([]formula.Variable, error) {
	switch formula.Evaluate(tuple.Provenance, a) {
	case formula.True:
		return satisfiedTerm(tuple.Provenance, a)
	case formula.False:
		return falsifyingWitnesses(tuple.Provenance, a)
	default:
		return nil, errors.Wrapf(errors.ErrTruthUndetermined, "plan for %s", tuple.Provenance)
	}
}

func satisfiedTerm(p formula.Provenance, a formula.Valuation) ([]formula.Variable, error) {
	for _, term := range p {
		if formula.EvaluateTerm(term, a) == formula.True {
			out := make([]formula.Variable, len(term))
			copy(out, term)
			return out, nil
		}
	}
	return nil, errors.Wrapf(errors.ErrInconsistentState, "true formula %s has no satisfied term", p)
}

func falsifyingWitnesses(p formula.Provenance, a formula.Valuation) ([]formula.Variable, error) {
	witnesses := make([]formula.Variable, 0, len(p))
	for _, term := range p {
		for _, v := range term {
			if a.Value(v) == formula.False {
				witnesses = append(witnesses, v)
				break
			}
		}
	}
	if len(witnesses) != len(p) {
		return nil, errors.Wrapf(errors.ErrInconsistentState,
			"false formula %s: %d witnesses for %d terms", p, len(witnesses), len(p))
	}
	return dedupe(witnesses), nil
}

func dedupe(vars []formula.Variable) []formula.Variable {
	seen := make(map[formula.Variable]struct{}, len(vars))
	out := vars[:0]
	for _, v := range vars {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
