package scoring

import "github.com/teranos/cleaner/formula"

// Probabilities holds each fact's maximal probability of having been resolved wrongly.
type Probabilities map[formula.Variable]float64

// Uniform assigns p to every variable.
func Uniform(vars []formula.Variable, p float64) Probabilities {
	out := make(Probabilities, len(vars))
	for _, v := range vars {
		out[v] = p
	}
	return out
}

// AllZero reports whether no variable carries a positive probability.
// Missing entries count as zero.
func (p Probabilities) AllZero() bool {
	for _, prob := range p {
		if prob != 0 {
			return false
		}
	}
	return true
}

func (p Probabilities) Clone() Probabilities {
	out := make(Probabilities, len(p))
	for v, prob := range p {
		out[v] = prob
	}
	return out
}

// Restrict keeps only the entries for vars.
func (p Probabilities) Restrict(vars []formula.Variable) Probabilities {
	out := make(Probabilities, len(vars))
	for _, v := range vars {
		if prob, ok := p[v]; ok {
			out[v] = prob
		}
	}
	return out
}
