// Package types holds the row shapes exchanged between datasets and the cleaning core.
package types

import (
	"maps"
	"sort"

	"github.com/teranos/cleaner/errors"
	"github.com/teranos/cleaner/formula"
)

// InputTuple is one annotated fact row.
// RealCorrectness is demo ground truth; the core never reads it.
type InputTuple struct {
	Values          map[string]any   `json:"values" yaml:"values" toml:"values" validate:"required"`
	Variable        formula.Variable `json:"variable" yaml:"variable" toml:"variable" validate:"required"`
	RealCorrectness bool             `json:"real_correctness,omitempty" yaml:"real_correctness,omitempty" toml:"real_correctness,omitempty"`
}

// OutputTuple is a query result row explained by its provenance.
type OutputTuple struct {
	Values     map[string]any     `json:"values" yaml:"values" toml:"values" validate:"required"`
	Provenance formula.Provenance `json:"provenance" yaml:"provenance" toml:"provenance" validate:"required,min=1"`
}

// Clone returns a copy that shares nothing mutable with t.
// Values entries are copied shallowly.
func (t OutputTuple) Clone() OutputTuple {
	return OutputTuple{Values: maps.Clone(t.Values), Provenance: t.Provenance.Clone()}
}

// CloneTuples clones every tuple.
func CloneTuples(tuples []OutputTuple) []OutputTuple {
	if tuples == nil {
		return nil
	}
	out := make([]OutputTuple, len(tuples))
	for i, t := range tuples {
		out[i] = t.Clone()
	}
	return out
}

// Tables groups input tuples by table name.
type Tables map[string][]InputTuple

// Names returns the table names in lexical order.
func (t Tables) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// VarToTuple finds the input tuple annotated by v.
// Tables are searched in name order so the result is deterministic.
func (t Tables) VarToTuple(v formula.Variable) (string, *InputTuple, error) {
	for _, name := range t.Names() {
		rows := t[name]
		for i := range rows {
			if rows[i].Variable == v {
				return name, &rows[i], nil
			}
		}
	}
	return "", nil, errors.NewNotFoundError("input tuple for variable %q", v)
}

// Len counts input tuples across all tables.
func (t Tables) Len() int {
	n := 0
	for _, rows := range t {
		n += len(rows)
	}
	return n
}

// ExtractVariables returns every variable referenced by the tuples' provenance,
// in first-occurrence order.
func ExtractVariables(tuples []OutputTuple) []formula.Variable {
	ps := make([]formula.Provenance, len(tuples))
	for i, t := range tuples {
		ps[i] = t.Provenance
	}
	return formula.ExtractVariablesFromProvenances(ps...)
}

// Truths maps each tuple to its truth value under a.
func Truths(tuples []OutputTuple, a formula.Valuation) []formula.Truth {
	out := make([]formula.Truth, len(tuples))
	for i, t := range tuples {
		out[i] = formula.Evaluate(t.Provenance, a)
	}
	return out
}
