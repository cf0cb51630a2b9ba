package formula

// EvaluateTerm computes a conjunction under Kleene logic:
// True if every variable is True, False if any is False, otherwise Unknown.
func EvaluateTerm(t Term, a Valuation) Truth {
	allTrue := true
	for _, v := range t {
		switch a.Value(v) {
		case False:
			return False
		case True:
		default:
			allTrue = false
		}
	}
	if allTrue {
		return True
	}
	return Unknown
}

// Evaluate computes the truth value of a k-DNF formula under a partial assignment:
// True if any term is True, False if every term is False, otherwise Unknown.
func Evaluate(p Provenance, a Valuation) Truth {
	allFalse := true
	for _, t := range p {
		switch EvaluateTerm(t, a) {
		case True:
			return True
		case False:
		default:
			allFalse = false
		}
	}
	if allFalse {
		return False
	}
	return Unknown
}
