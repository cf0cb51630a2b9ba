package session

import (
	"context"
	"sort"

	"github.com/teranos/cleaner/errors"
	"github.com/teranos/cleaner/formula"
	"github.com/teranos/cleaner/logger"
	"github.com/teranos/cleaner/types"
)

// TupleScore is a classified result with its misclassification score.
type TupleScore struct {
	Index         int                `json:"index"`
	Values        map[string]any     `json:"values"`
	Correct       bool               `json:"correct"`
	Score         float64            `json:"score"`
	PreviousScore *float64           `json:"previous_score,omitempty"`
	Moved         bool               `json:"moved"` // classified the other way at the previous finish
	Provenance    formula.Provenance `json:"provenance"`
}

// Trend compares Score with PreviousScore: -1 lower, 1 higher, 0 same or no history.
func (ts TupleScore) Trend() int {
	switch {
	case ts.PreviousScore == nil || *ts.PreviousScore == ts.Score:
		return 0
	case ts.Score < *ts.PreviousScore:
		return -1
	default:
		return 1
	}
}

// Scores asks the scorer for every classified result of the latest finish.
// Correct results come first, each group in descending score order.
func (s *Session) Scores(ctx context.Context) ([]TupleScore, error) {
	if !s.finished {
		return nil, errors.WithHint(
			errors.NewInvalidRequestError("session %s has not finished", s.id),
			"classify facts until Next returns no step")
	}
	log := logger.LoggerFromContext(s.Context(ctx))

	wasCorrect := indexSet(s.results.PreviousCorrect)
	wasIncorrect := indexSet(s.results.PreviousIncorrect)

	score := func(group []Classified, correct bool) ([]TupleScore, error) {
		out := make([]TupleScore, 0, len(group))
		for _, c := range group {
			value, err := s.scorer.UncertaintyScore(ctx, c.Tuple.Provenance, s.results.Assignment, s.probs)
			if err != nil {
				return nil, errors.Wrapf(err, "score result %d", c.Index)
			}
			ts := TupleScore{
				Index:      c.Index,
				Values:     c.Tuple.Values,
				Correct:    correct,
				Score:      value,
				Provenance: c.Tuple.Provenance,
			}
			if prev, ok := s.lastScores[c.Index]; ok {
				ts.PreviousScore = &prev
			}
			if correct {
				_, ts.Moved = wasIncorrect[c.Index]
			} else {
				_, ts.Moved = wasCorrect[c.Index]
			}
			out = append(out, ts)
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
		return out, nil
	}

	correct, err := score(s.results.Correct, true)
	if err != nil {
		return nil, err
	}
	incorrect, err := score(s.results.Incorrect, false)
	if err != nil {
		return nil, err
	}

	all := append(correct, incorrect...)
	for _, ts := range all {
		s.lastScores[ts.Index] = ts.Score
	}
	log.Debugw("results scored", logger.FieldCount, len(all))
	return all, nil
}

func indexSet(cs []Classified) map[int]struct{} {
	out := make(map[int]struct{}, len(cs))
	for _, c := range cs {
		out[c.Index] = struct{}{}
	}
	return out
}

// FactDetail describes one input fact behind a result.
type FactDetail struct {
	Variable    formula.Variable  `json:"variable"`
	Table       string            `json:"table"`
	Input       *types.InputTuple `json:"input"`
	Truth       formula.Truth     `json:"truth"`
	Probability float64           `json:"probability"`
	Crucial     formula.Truth     `json:"crucial"`
	Risky       *bool             `json:"risky,omitempty"` // nil when not checked
}

// TupleDetails lists the facts a result depends on, in provenance order.
type TupleDetails struct {
	Index      int                `json:"index"`
	Values     map[string]any     `json:"values"`
	Provenance formula.Provenance `json:"provenance"`
	Truth      formula.Truth      `json:"truth"`
	Facts      []FactDetail       `json:"facts"`
}

// Details explains result tupleIndex under the current resolved facts.
// Risk is asked only for resolved facts with a positive probability, and not
// at all when every related probability is zero.
func (s *Session) Details(ctx context.Context, tupleIndex int) (*TupleDetails, error) {
	if tupleIndex < 0 || tupleIndex >= len(s.data.Results) {
		return nil, errors.NewNotFoundError("result %d", tupleIndex)
	}
	tuple := s.data.Results[tupleIndex]
	vars := formula.ExtractVariables(tuple.Provenance)
	checkRisk := !s.probs.Restrict(vars).AllZero()

	d := &TupleDetails{
		Index:      tupleIndex,
		Values:     tuple.Values,
		Provenance: tuple.Provenance,
		Truth:      formula.Evaluate(tuple.Provenance, s.oracle),
		Facts:      make([]FactDetail, 0, len(vars)),
	}
	for _, v := range vars {
		table, input, err := s.data.Tables.VarToTuple(v)
		if err != nil {
			return nil, err
		}
		fd := FactDetail{
			Variable:    v,
			Table:       table,
			Input:       input,
			Truth:       s.oracle.Value(v),
			Probability: s.probs[v],
			Crucial:     formula.IsCrucial(tuple.Provenance, v, s.oracle),
		}
		if checkRisk && fd.Truth.Known() && fd.Probability > 0 {
			risky, err := s.scorer.IsVariableRisky(ctx, tuple.Provenance, s.oracle, s.probs, v)
			if err != nil {
				return nil, errors.Wrapf(err, "risk of %q in result %d", v, tupleIndex)
			}
			fd.Risky = &risky
		}
		d.Facts = append(d.Facts, fd)
	}
	return d, nil
}
