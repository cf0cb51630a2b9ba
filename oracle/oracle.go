// Package oracle tracks resolved facts for a batch of results and keeps each
// result's classification current as facts are resolved.
//
// An Oracle is Pending while any result is still Unknown and Finished once
// every result is classified. It owns the only mutable assignment in a
// cleaning session; everything else reads it through formula.Valuation.
package oracle

import (
	"go.uber.org/zap"

	"github.com/teranos/cleaner/errors"
	"github.com/teranos/cleaner/formula"
	"github.com/teranos/cleaner/logger"
	"github.com/teranos/cleaner/types"
)

// State is the oracle's lifecycle state.
type State int

const (
	Pending State = iota
	Finished
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Finished:
		return "finished"
	default:
		return "invalid"
	}
}

type options struct {
	requireTuples bool
	log           *zap.SugaredLogger
}

// Option configures New.
type Option func(*options)

// WithRequireTuples makes New reject an empty batch with ErrNoTuples.
func WithRequireTuples() Option {
	return func(o *options) { o.requireTuples = true }
}

// WithLogger overrides the component logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *options) { o.log = log }
}

// Oracle is the resolved-fact state machine. It is not safe for concurrent use.
type Oracle struct {
	tuples     []types.OutputTuple
	variables  []formula.Variable
	assignment formula.Assignment
	truths     []formula.Truth
	log        *zap.SugaredLogger
}

// New tracks every variable referenced by tuples, all initially Unknown.
func New(tuples []types.OutputTuple, opts ...Option) (*Oracle, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.ComponentLogger("oracle")
	}

	if len(tuples) == 0 && o.requireTuples {
		return nil, errors.WithHint(errors.ErrNoTuples, "load a dataset with at least one result")
	}
	for i, t := range tuples {
		if err := t.Provenance.Validate(); err != nil {
			return nil, errors.Wrapf(err, "result %d", i)
		}
	}

	vars := types.ExtractVariables(tuples)
	assignment := make(formula.Assignment, len(vars))
	for _, v := range vars {
		assignment[v] = formula.Unknown
	}

	or := &Oracle{
		tuples:     types.CloneTuples(tuples),
		variables:  vars,
		assignment: assignment,
		truths:     make([]formula.Truth, len(tuples)),
		log:        o.log,
	}
	or.log.Debugw("oracle initialized",
		logger.FieldCount, len(tuples),
		logger.FieldPending, len(vars))
	return or, nil
}

// Resolve fixes v to value and reclassifies every tracked result.
// An untracked v leaves the assignment untouched.
func (o *Oracle) Resolve(v formula.Variable, value formula.Truth) error {
	if !o.Tracks(v) {
		return errors.Wrapf(errors.ErrUnknownVariable, "resolve %q", v)
	}
	if !value.Known() {
		return errors.Wrapf(errors.ErrInvalidTruth, "resolve %q to %s", v, value)
	}

	o.assignment[v] = value
	for i, t := range o.tuples {
		o.truths[i] = formula.Evaluate(t.Provenance, o.assignment)
	}

	o.log.Debugw("fact resolved",
		logger.FieldVariable, string(v),
		logger.FieldTruth, value.String(),
		logger.FieldState, o.State().String())
	return nil
}

// IsFinished reports whether every tracked result is classified.
func (o *Oracle) IsFinished() bool {
	for _, t := range o.truths {
		if t == formula.Unknown {
			return false
		}
	}
	return true
}

func (o *Oracle) State() State {
	if o.IsFinished() {
		return Finished
	}
	return Pending
}

// NextVariable returns the first unresolved variable of the first unclassified result.
// Calling it on a Finished oracle is a protocol error.
func (o *Oracle) NextVariable() (formula.Variable, error) {
	for i, t := range o.tuples {
		if o.truths[i] != formula.Unknown {
			continue
		}
		for _, term := range t.Provenance {
			for _, v := range term {
				if o.assignment[v] == formula.Unknown {
					return v, nil
				}
			}
		}
	}
	return "", errors.WithHint(errors.ErrNoVariableFound, "check IsFinished before asking for the next variable")
}

// ResolvedAssignment returns a snapshot of the known variable values.
func (o *Oracle) ResolvedAssignment() formula.Assignment {
	return o.assignment.Resolved()
}

// ClassifiedTrue returns the results whose cached truth is True.
func (o *Oracle) ClassifiedTrue() []types.OutputTuple {
	var out []types.OutputTuple
	for i, t := range o.tuples {
		if o.truths[i] == formula.True {
			out = append(out, t.Clone())
		}
	}
	return out
}

// ClassifiedFalse returns every other result. Unknown results land here too.
func (o *Oracle) ClassifiedFalse() []types.OutputTuple {
	var out []types.OutputTuple
	for i, t := range o.tuples {
		if o.truths[i] != formula.True {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Tuples returns a copy of the tracked results in their original order.
func (o *Oracle) Tuples() []types.OutputTuple {
	return types.CloneTuples(o.tuples)
}

// TruthOf returns the cached truth of result i, or Unknown when i is out of range.
func (o *Oracle) TruthOf(i int) formula.Truth {
	if i < 0 || i >= len(o.truths) {
		return formula.Unknown
	}
	return o.truths[i]
}

// Variables lists tracked variables in first-occurrence order.
func (o *Oracle) Variables() []formula.Variable {
	out := make([]formula.Variable, len(o.variables))
	copy(out, o.variables)
	return out
}

// Value implements formula.Valuation.
func (o *Oracle) Value(v formula.Variable) formula.Truth {
	return o.assignment[v]
}

func (o *Oracle) Tracks(v formula.Variable) bool {
	_, ok := o.assignment[v]
	return ok
}
