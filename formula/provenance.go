// Package formula evaluates k-DNF provenance formulas under partial knowledge.
//
// A Provenance is a disjunction of Terms; a Term is a conjunction of positive
// Variables. Facts are resolved over time, so every evaluation is three-valued:
// a formula is True once some term is fully true, False once every term has a
// false variable, and Unknown otherwise.
//
// Everything in this package is pure. Readers receive a Valuation and never
// mutate it; the oracle package owns the only mutable assignment.
package formula

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/teranos/cleaner/errors"
)

// Variable names one input fact.
type Variable string

func (v Variable) String() string {
	return string(v)
}

// Term is a non-empty conjunction of variables, in source order.
type Term []Variable

// NewTerm builds a term, rejecting empty terms and empty identifiers.
func NewTerm(vars ...Variable) (Term, error) {
	t := Term(vars)
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the term is non-empty and every identifier is non-empty.
func (t Term) Validate() error {
	if len(t) == 0 {
		return errors.Wrap(errors.ErrInvalidProvenance, "empty term")
	}
	for i, v := range t {
		if v == "" {
			return errors.Wrapf(errors.ErrInvalidProvenance, "empty variable at position %d", i)
		}
	}
	return nil
}

func (t Term) String() string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = string(v)
	}
	return "(" + strings.Join(parts, " ∧ ") + ")"
}

// Provenance is a non-empty disjunction of terms, in source order.
type Provenance []Term

// NewProvenance builds a provenance from terms and validates it.
func NewProvenance(terms ...Term) (Provenance, error) {
	p := Provenance(terms)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// MustProvenance builds a provenance from raw identifier lists and panics if it is malformed.
// Intended for fixtures and tests.
func MustProvenance(terms ...[]string) Provenance {
	p := make(Provenance, len(terms))
	for i, term := range terms {
		t := make(Term, len(term))
		for j, v := range term {
			t[j] = Variable(v)
		}
		p[i] = t
	}
	if err := p.Validate(); err != nil {
		panic(err)
	}
	return p
}

// Validate checks the provenance has at least one term and every term is valid.
func (p Provenance) Validate() error {
	if len(p) == 0 {
		return errors.Wrap(errors.ErrInvalidProvenance, "empty provenance")
	}
	for i, t := range p {
		if err := t.Validate(); err != nil {
			return errors.Wrapf(err, "term %d", i)
		}
	}
	return nil
}

// Contains reports whether v occurs in any term.
func (p Provenance) Contains(v Variable) bool {
	for _, t := range p {
		for _, tv := range t {
			if tv == v {
				return true
			}
		}
	}
	return false
}

// Clone returns a deep copy.
func (p Provenance) Clone() Provenance {
	if p == nil {
		return nil
	}
	out := make(Provenance, len(p))
	for i, t := range p {
		out[i] = slices.Clone(t)
	}
	return out
}

func (p Provenance) String() string {
	parts := make([]string, len(p))
	for i, t := range p {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ∨ ")
}

// UnmarshalJSON decodes the [[...],[...]] wire shape and validates it.
func (p *Provenance) UnmarshalJSON(data []byte) error {
	var raw [][]Variable
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(errors.ErrInvalidProvenance, err.Error())
	}
	decoded := make(Provenance, len(raw))
	for i, t := range raw {
		decoded[i] = Term(t)
	}
	if err := decoded.Validate(); err != nil {
		return err
	}
	*p = decoded
	return nil
}
