package formula

import "sort"

// Valuation is a read-only view of fact truth values.
// Variables a valuation knows nothing about read as Unknown.
type Valuation interface {
	Value(v Variable) Truth
}

// Assignment is a partial mapping of variables to truth values.
// A missing key reads as Unknown; a nil Assignment is a valid empty one.
type Assignment map[Variable]Truth

// Value implements Valuation.
func (a Assignment) Value(v Variable) Truth {
	return a[v]
}

// Clone returns an independent copy.
func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	for v, t := range a {
		out[v] = t
	}
	return out
}

// Resolved returns a copy restricted to known (True/False) entries.
func (a Assignment) Resolved() Assignment {
	out := make(Assignment, len(a))
	for v, t := range a {
		if t.Known() {
			out[v] = t
		}
	}
	return out
}

// Variables returns the keys in lexical order.
func (a Assignment) Variables() []Variable {
	vars := make([]Variable, 0, len(a))
	for v := range a {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })
	return vars
}

// Snapshot copies any valuation's view of vars into an Assignment, keeping only known values.
func Snapshot(val Valuation, vars []Variable) Assignment {
	out := make(Assignment, len(vars))
	for _, v := range vars {
		if t := val.Value(v); t.Known() {
			out[v] = t
		}
	}
	return out
}

// flipped overlays a single flipped variable on top of a base valuation.
type flipped struct {
	base     Valuation
	variable Variable
	value    Truth
}

func (f flipped) Value(v Variable) Truth {
	if v == f.variable {
		return f.value
	}
	return f.base.Value(v)
}

// Flip returns a view of val where v carries the opposite value.
// The base valuation is not copied or modified.
func Flip(val Valuation, v Variable) Valuation {
	return flipped{base: val, variable: v, value: val.Value(v).Not()}
}
