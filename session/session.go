// Package session drives one interactive cleaning pass over a dataset.
//
// A Session hands out one fact at a time (Next), records the expert's verdict
// (Classify), and snapshots the classified results once every result is
// settled. After a finish the caller may lower a fact's mistake probability
// (Improve) or ask to push one result below a target score (StartReach); both
// reopen the loop until the next finish.
package session

import (
	"context"
	"maps"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/cleaner/am"
	"github.com/teranos/cleaner/dataset"
	"github.com/teranos/cleaner/errors"
	"github.com/teranos/cleaner/formula"
	"github.com/teranos/cleaner/logger"
	"github.com/teranos/cleaner/oracle"
	"github.com/teranos/cleaner/reach"
	"github.com/teranos/cleaner/scoring"
	"github.com/teranos/cleaner/sym"
	"github.com/teranos/cleaner/types"
)

// probEpsilon absorbs float noise when comparing probabilities that moved in ProbStep increments.
const probEpsilon = 1e-9

// Source says why a fact was handed out.
type Source int

const (
	// SourceUnderlying is the oracle's own next variable.
	SourceUnderlying Source = iota
	// SourceReach comes from a target-reaching plan.
	SourceReach
	// SourceImprove re-asks a fact whose probability the expert just lowered.
	SourceImprove
)

func (s Source) String() string {
	switch s {
	case SourceUnderlying:
		return "underlying"
	case SourceReach:
		return "reach"
	case SourceImprove:
		return "improve"
	default:
		return "invalid"
	}
}

// Step is one fact awaiting the expert's verdict.
type Step struct {
	Variable formula.Variable
	Table    string
	Input    *types.InputTuple
	Source   Source
}

// Classified is a result together with its position in the dataset.
type Classified struct {
	Index int
	Tuple types.OutputTuple
}

// Results is the snapshot taken at the latest finish.
type Results struct {
	Correct           []Classified
	Incorrect         []Classified
	PreviousCorrect   []Classified
	PreviousIncorrect []Classified
	Classifications   int
	Assignment        formula.Assignment
	Probabilities     scoring.Probabilities
}

type mode int

const (
	modeUnderlying mode = iota
	modeReach
)

type target struct {
	index   int
	desired float64
}

// scoredInputs is what the scorer saw at the last check of a reach pass.
type scoredInputs struct {
	assignment formula.Assignment
	probs      scoring.Probabilities
}

func (in *scoredInputs) same(a formula.Assignment, p scoring.Probabilities) bool {
	return in != nil && maps.Equal(in.assignment, a) && maps.Equal(in.probs, p)
}

// Option configures New.
type Option func(*Session)

// WithLogger overrides the component logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Session) { s.log = log }
}

// WithID fixes the session id instead of generating one.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// Session is not safe for concurrent use.
type Session struct {
	id     string
	cfg    am.SessionConfig
	data   *dataset.Dataset
	scorer scoring.Scorer
	oracle *oracle.Oracle
	log    *zap.SugaredLogger

	probs           scoring.Probabilities
	mode            mode
	queue           reach.Queue
	target          target
	lastScored      *scoredInputs
	pendingImprove  formula.Variable
	current         *Step
	classifications int
	finished        bool
	results         Results
	lastScores      map[int]float64
}

// New validates data and starts a session with every fact at cfg.DefaultMaxProb.
func New(cfg am.SessionConfig, data *dataset.Dataset, scorer scoring.Scorer, opts ...Option) (*Session, error) {
	if data == nil {
		return nil, errors.NewInvalidRequestError("nil dataset")
	}
	if scorer == nil {
		return nil, errors.NewInvalidRequestError("nil scorer")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		cfg:        cfg,
		data:       data,
		scorer:     scorer,
		lastScores: make(map[int]float64),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	if s.log == nil {
		s.log = logger.ComponentLogger("session")
	}
	s.log = s.log.With(logger.FieldSessionID, s.id)

	or, err := oracle.New(data.Results, oracle.WithRequireTuples(), oracle.WithLogger(s.log.Named("oracle")))
	if err != nil {
		return nil, err
	}
	s.oracle = or
	s.probs = scoring.Uniform(or.Variables(), cfg.DefaultMaxProb)

	s.log.Infow("session started",
		logger.FieldCount, len(data.Results),
		logger.FieldPending, len(s.probs))
	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

// Context returns ctx carrying the session id for downstream loggers.
func (s *Session) Context(ctx context.Context) context.Context {
	return logger.WithSessionID(ctx, s.id)
}

// Finished reports whether the loop is idle with results available.
func (s *Session) Finished() bool {
	return s.finished
}

// Reaching reports whether a target-reaching pass is in progress.
func (s *Session) Reaching() bool {
	return s.mode == modeReach
}

// Oracle exposes the resolved-fact state as a read-only valuation.
func (s *Session) Oracle() formula.Valuation {
	return s.oracle
}

// Probability returns the current maximal mistake probability of v.
func (s *Session) Probability(v formula.Variable) float64 {
	return s.probs[v]
}

// Probabilities returns a copy of every fact's probability.
func (s *Session) Probabilities() scoring.Probabilities {
	return s.probs.Clone()
}

// Next returns the fact awaiting a verdict, computing it if needed.
// It returns nil, nil once the session has finished. Repeated calls without
// an intervening Classify return the same step.
//
// A reach pass whose score stays above the target while the scorer's inputs
// are unchanged since the previous check finishes the session and returns
// ErrTargetUnreachable.
func (s *Session) Next(ctx context.Context) (*Step, error) {
	if s.current != nil {
		return s.current, nil
	}
	if s.pendingImprove != "" {
		v := s.pendingImprove
		s.pendingImprove = ""
		return s.issue(v, SourceImprove)
	}
	if s.finished {
		return nil, nil
	}

	if s.mode != modeReach {
		if s.oracle.IsFinished() {
			s.finish()
			return nil, nil
		}
		return s.nextUnderlying()
	}

	if v, ok := s.queue.Pop(); ok {
		return s.issue(v, SourceReach)
	}
	if !s.oracle.IsFinished() {
		return s.nextUnderlying()
	}

	tuple := s.data.Results[s.target.index]
	score, err := s.scorer.UncertaintyScore(ctx, tuple.Provenance, s.oracle, s.probs)
	if err != nil {
		return nil, errors.Wrapf(err, "score result %d", s.target.index)
	}
	log := s.log.With(logger.FieldSymbol, sym.Reach, logger.FieldTuple, s.target.index)
	if score <= s.target.desired {
		log.Infow("target reached",
			logger.FieldScore, score,
			logger.FieldDesired, s.target.desired)
		s.finish()
		return nil, nil
	}

	assignment := s.oracle.ResolvedAssignment()
	if s.lastScored.same(assignment, s.probs) {
		log.Warnw("target unreachable",
			logger.FieldScore, score,
			logger.FieldDesired, s.target.desired)
		desired := s.target.desired
		s.finish()
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrTargetUnreachable, "result %d stays at %.3f above %.3f", s.target.index, score, desired),
			"answer differently or choose a higher desired score")
	}
	s.lastScored = &scoredInputs{assignment: assignment, probs: s.probs.Clone()}

	plan, err := reach.PlanNextTargets(tuple, s.oracle)
	if err != nil {
		return nil, err
	}
	log.Debugw("replanned",
		logger.FieldScore, score,
		logger.FieldPlan, plan)
	s.queue.Push(plan[1:]...)
	return s.issue(plan[0], SourceReach)
}

func (s *Session) nextUnderlying() (*Step, error) {
	v, err := s.oracle.NextVariable()
	if err != nil {
		return nil, err
	}
	return s.issue(v, SourceUnderlying)
}

func (s *Session) issue(v formula.Variable, src Source) (*Step, error) {
	table, input, err := s.data.Tables.VarToTuple(v)
	if err != nil {
		return nil, err
	}
	s.current = &Step{Variable: v, Table: table, Input: input, Source: src}
	return s.current, nil
}

// Classify records the verdict for the current step.
// During a target-reaching pass the fact's probability drops to the desired score.
func (s *Session) Classify(correct bool) error {
	if s.current == nil {
		return errors.WithHint(errors.ErrNoActiveStep, "call Next before Classify")
	}
	step := s.current
	if err := s.oracle.Resolve(step.Variable, formula.FromBool(correct)); err != nil {
		return err
	}
	s.classifications++
	if s.mode == modeReach {
		s.probs[step.Variable] = s.target.desired
	}
	s.current = nil

	logger.ResolveDebugw("fact classified",
		logger.FieldSessionID, s.id,
		logger.FieldVariable, string(step.Variable),
		logger.FieldTruth, formula.FromBool(correct).String(),
		logger.FieldSource, step.Source.String())
	return nil
}

// MaxImprovedProb is the highest probability Improve accepts for v.
func (s *Session) MaxImprovedProb(v formula.Variable) float64 {
	if s.oracle.Value(v).Known() {
		return s.probs[v] - s.cfg.ProbStep
	}
	return s.cfg.MaxMaxProb
}

// Improve lowers v's mistake probability and schedules v to be asked again.
// A resolved fact must drop by at least one ProbStep. Improve ends any running
// target-reaching pass; call StartReach again to resume it.
func (s *Session) Improve(v formula.Variable, prob float64) error {
	if !s.oracle.Tracks(v) {
		return errors.Wrapf(errors.ErrUnknownVariable, "improve %q", v)
	}
	limit := s.MaxImprovedProb(v)
	if math.IsNaN(prob) || prob < s.cfg.MinMaxProb-probEpsilon || prob > limit+probEpsilon {
		return errors.WithHintf(
			errors.NewInvalidRequestError("probability %.3f for %q", prob, v),
			"choose a value in [%.3f, %.3f]", s.cfg.MinMaxProb, limit)
	}

	s.probs[v] = prob
	s.pendingImprove = v
	s.current = nil
	s.mode = modeUnderlying
	s.queue.Reset()
	s.lastScored = nil
	s.finished = false

	s.log.Debugw("probability improved",
		logger.FieldVariable, string(v),
		logger.FieldProbability, prob)
	return nil
}

// StartReach enters a target-reaching pass for result tupleIndex.
// The result must already be classified.
func (s *Session) StartReach(ctx context.Context, tupleIndex int, desired float64) error {
	if tupleIndex < 0 || tupleIndex >= len(s.data.Results) {
		return errors.NewNotFoundError("result %d", tupleIndex)
	}
	if math.IsNaN(desired) || desired < 0 || desired >= 1 {
		return errors.NewInvalidRequestError("desired score %v out of [0, 1)", desired)
	}

	plan, err := reach.PlanNextTargets(s.data.Results[tupleIndex], s.oracle)
	if err != nil {
		return errors.Wrapf(err, "start reach for result %d", tupleIndex)
	}

	s.mode = modeReach
	s.target = target{index: tupleIndex, desired: desired}
	s.lastScored = nil
	s.queue.Reset()
	s.queue.Push(plan[1:]...)
	s.pendingImprove = ""
	s.finished = false
	if _, err := s.issue(plan[0], SourceReach); err != nil {
		return err
	}

	logger.LoggerFromContext(s.Context(ctx)).Infow("reach started",
		logger.FieldSymbol, sym.Reach,
		logger.FieldTuple, tupleIndex,
		logger.FieldDesired, desired,
		logger.FieldPlan, plan)
	return nil
}

func (s *Session) finish() {
	var correct, incorrect []Classified
	for i, t := range s.oracle.Tuples() {
		c := Classified{Index: i, Tuple: t}
		if s.oracle.TruthOf(i) == formula.True {
			correct = append(correct, c)
		} else {
			incorrect = append(incorrect, c)
		}
	}

	s.results = Results{
		Correct:           correct,
		Incorrect:         incorrect,
		PreviousCorrect:   s.results.Correct,
		PreviousIncorrect: s.results.Incorrect,
		Classifications:   s.classifications,
		Assignment:        s.oracle.ResolvedAssignment(),
		Probabilities:     s.probs.Clone(),
	}
	s.mode = modeUnderlying
	s.queue.Reset()
	s.lastScored = nil
	s.finished = true

	s.log.Infow("cleaning finished",
		logger.FieldCount, s.classifications,
		"correct", len(correct),
		"incorrect", len(incorrect))
}

// Results returns the snapshot of the latest finish; it is empty before the first one.
func (s *Session) Results() Results {
	return s.results
}
