// Package scoring talks to the external service that computes how likely a
// result is to be misclassified and which facts are risky for precision.
// Neither quantity is computed locally.
package scoring

import (
	"context"

	"github.com/teranos/cleaner/formula"
)

// Scorer is the external scoring oracle.
type Scorer interface {
	// UncertaintyScore returns the maximal probability that p is misclassified
	// under a, given per-fact mistake probabilities.
	UncertaintyScore(ctx context.Context, p formula.Provenance, a formula.Valuation, probs Probabilities) (float64, error)

	// IsVariableRisky reports whether resolving other facts before v threatens precision.
	IsVariableRisky(ctx context.Context, p formula.Provenance, a formula.Valuation, probs Probabilities, v formula.Variable) (bool, error)
}
