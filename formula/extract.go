package formula

// ExtractVariables returns the distinct variables of p in first-occurrence order.
func ExtractVariables(p Provenance) []Variable {
	return ExtractVariablesFromProvenances(p)
}

// ExtractVariablesFromProvenances returns the distinct variables across all
// provenances, in first-occurrence order.
func ExtractVariablesFromProvenances(ps ...Provenance) []Variable {
	seen := make(map[Variable]struct{})
	var out []Variable
	for _, p := range ps {
		for _, t := range p {
			for _, v := range t {
				if _, ok := seen[v]; ok {
					continue
				}
				seen[v] = struct{}{}
				out = append(out, v)
			}
		}
	}
	return out
}
