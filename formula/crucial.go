package formula

// IsCrucial reports whether flipping v would change the classification of p.
//
// The result is Unknown while either the formula or v is unresolved. A variable
// whose value differs from the formula's value is never crucial. Otherwise v is
// flipped in a read-only overlay: if the formula becomes Unknown, v is crucial;
// if it stays known, v is crucial exactly when the value changes.
func IsCrucial(p Provenance, v Variable, a Valuation) Truth {
	t := Evaluate(p, a)
	val := a.Value(v)
	if !t.Known() || !val.Known() {
		return Unknown
	}
	if t != val {
		return False
	}
	cf := Evaluate(p, Flip(a, v))
	if !cf.Known() {
		return True
	}
	return FromBool(cf != t)
}

// CrucialVariables lists the variables of p, in extraction order, that are crucial under a.
func CrucialVariables(p Provenance, a Valuation) []Variable {
	var out []Variable
	for _, v := range ExtractVariables(p) {
		if IsCrucial(p, v, a) == True {
			out = append(out, v)
		}
	}
	return out
}
