package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/cleaner/am"
	"github.com/teranos/cleaner/dataset"
	"github.com/teranos/cleaner/display"
	"github.com/teranos/cleaner/errors"
	"github.com/teranos/cleaner/formula"
	"github.com/teranos/cleaner/logger"
	"github.com/teranos/cleaner/scoring"
	"github.com/teranos/cleaner/session"
	"github.com/teranos/cleaner/sym"
)

const (
	answerCorrect   = "Correct"
	answerIncorrect = "Incorrect"

	menuDetails = "Show result details"
	menuImprove = "Lower a fact's mistake probability"
	menuReach   = "Reach a target score for a result"
	menuDone    = "Done"
)

var (
	runDataset    string
	runAuto       bool
	runReachTuple int
	runDesired    float64
	runNoScores   bool
)

// RunCmd cleans a dataset
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: sym.Resolve + " Clean a dataset",
	Long: sym.Resolve + ` run — Clean a dataset

Asks for one input fact at a time until every result is classified, then
prints the results with their misclassification scores from the scoring
service. Interactive runs then offer details, probability improvements and
target-reaching passes.

Examples:
  cleaner run --dataset acquisitions.yaml
  cleaner run --dataset acquisitions.db --auto --json
  cleaner run --dataset acquisitions.yaml --auto --reach-tuple 3 --desired 0.05`,
	RunE: runRun,
}

func init() {
	RunCmd.Flags().StringVarP(&runDataset, "dataset", "d", "", "Dataset file (.yaml, .json, .toml, .db); defaults to dataset.path")
	RunCmd.Flags().BoolVar(&runAuto, "auto", false, "Answer with the dataset's demo ground truth instead of prompting")
	RunCmd.Flags().IntVar(&runReachTuple, "reach-tuple", -1, "After cleaning, keep resolving facts until this result's score reaches --desired")
	RunCmd.Flags().Float64Var(&runDesired, "desired", am.DefaultMinMaxProb, "Target score for --reach-tuple")
	RunCmd.Flags().BoolVar(&runNoScores, "no-scores", false, "Report results without asking the scoring service")
}

// answerer supplies the verdict for one fact.
type answerer interface {
	Answer(step *session.Step) (bool, error)
}

// groundTruth answers from the dataset's demo correctness flags.
type groundTruth struct {
	data *dataset.Dataset
}

func (g groundTruth) Answer(step *session.Step) (bool, error) {
	return g.data.GroundTruth(step.Variable)
}

type prompter struct{}

func (prompter) Answer(step *session.Step) (bool, error) {
	choice, err := pterm.DefaultInteractiveSelect.
		WithOptions([]string{answerCorrect, answerIncorrect}).
		Show(display.FormatStep(step))
	if err != nil {
		return false, errors.Wrap(err, "prompt")
	}
	return choice == answerCorrect, nil
}

// drive answers steps until the session finishes. Each answered step is
// echoed to trace when it is non-nil.
func drive(ctx context.Context, sess *session.Session, ans answerer, trace io.Writer) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		step, err := sess.Next(ctx)
		if err != nil {
			return err
		}
		if step == nil {
			return nil
		}
		correct, err := ans.Answer(step)
		if err != nil {
			return err
		}
		if err := sess.Classify(correct); err != nil {
			return err
		}
		if trace != nil {
			fmt.Fprintf(trace, "%s %s\n", display.FormatStep(step), sym.TruthGlyph(correct, true))
		}
	}
}

type runReport struct {
	SessionID       string                `json:"session_id"`
	Classifications int                   `json:"classifications"`
	Correct         []int                 `json:"correct"`
	Incorrect       []int                 `json:"incorrect"`
	Assignment      formula.Assignment    `json:"assignment"`
	Scores          []session.TupleScore  `json:"scores,omitempty"`
	ScoreError      string                `json:"score_error,omitempty"`
	Probabilities   scoring.Probabilities `json:"probabilities"`
}

func classifiedIndices(cs []session.Classified) []int {
	out := make([]int, len(cs))
	for i, c := range cs {
		out[i] = c.Index
	}
	return out
}

// buildReport snapshots the session. A scoring failure is reported, not returned.
func buildReport(ctx context.Context, sess *session.Session, withScores bool) runReport {
	res := sess.Results()
	rep := runReport{
		SessionID:       sess.ID(),
		Classifications: res.Classifications,
		Correct:         classifiedIndices(res.Correct),
		Incorrect:       classifiedIndices(res.Incorrect),
		Assignment:      res.Assignment,
		Probabilities:   res.Probabilities,
	}
	if !withScores {
		return rep
	}
	scores, err := sess.Scores(ctx)
	if err != nil {
		logger.ScoreWarnw("scoring unavailable", logger.FieldSessionID, sess.ID(), logger.FieldError, err.Error())
		rep.ScoreError = err.Error()
		return rep
	}
	rep.Scores = scores
	return rep
}

func printReport(w io.Writer, rep runReport) error {
	pterm.Success.WithWriter(w).Printf("Classified %d results with %d answers (%d correct, %d incorrect)\n",
		len(rep.Correct)+len(rep.Incorrect), rep.Classifications, len(rep.Correct), len(rep.Incorrect))
	if rep.ScoreError != "" {
		pterm.Warning.WithWriter(w).Println("Scores unavailable: " + rep.ScoreError)
	}
	if len(rep.Scores) > 0 {
		return display.RenderScores(w, rep.Scores)
	}
	fmt.Fprintf(w, "  %s %v\n", sym.True, rep.Correct)
	fmt.Fprintf(w, "  %s %v\n", sym.False, rep.Incorrect)
	return nil
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}

	path := runDataset
	if path == "" {
		path = cfg.Dataset.Path
	}
	if path == "" {
		return errors.WithHint(errors.NewInvalidRequestError("no dataset given"),
			"pass --dataset or set dataset.path in am.toml")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	data, err := dataset.Open(ctx, path)
	if err != nil {
		return err
	}
	scorer, err := scoring.NewClient(cfg.Scoring)
	if err != nil {
		return err
	}
	sess, err := session.New(cfg.Session, data, scorer)
	if err != nil {
		return err
	}
	ctx = sess.Context(ctx)

	jsonOut := display.ShouldOutputJSON(cmd)
	out := cmd.OutOrStdout()

	var ans answerer = prompter{}
	var trace io.Writer
	if runAuto {
		ans = groundTruth{data: data}
		if !jsonOut {
			trace = out
		}
	}

	if err := drive(ctx, sess, ans, trace); err != nil {
		return err
	}
	if runReachTuple >= 0 {
		if err := sess.StartReach(ctx, runReachTuple, runDesired); err != nil {
			return err
		}
		var warn io.Writer
		if !jsonOut {
			warn = out
		}
		if err := settle(warn, drive(ctx, sess, ans, trace)); err != nil {
			return err
		}
	}

	rep := buildReport(ctx, sess, !runNoScores)
	if jsonOut {
		return display.OutputJSON(out, rep)
	}
	if err := printReport(out, rep); err != nil {
		return err
	}
	if runAuto {
		return nil
	}
	return menu(ctx, sess, ans, out)
}

// menu offers the post-cleaning actions until the user is done.
func menu(ctx context.Context, sess *session.Session, ans answerer, out io.Writer) error {
	for {
		choice, err := pterm.DefaultInteractiveSelect.
			WithOptions([]string{menuDetails, menuImprove, menuReach, menuDone}).
			Show("Next")
		if err != nil {
			return errors.Wrap(err, "prompt")
		}

		switch choice {
		case menuDetails:
			idx, err := promptInt("Result #")
			if err != nil {
				if err = recoverable(out, err); err != nil {
					return err
				}
				continue
			}
			d, err := sess.Details(ctx, idx)
			if err != nil {
				PrintError(out, err)
				continue
			}
			if err := display.RenderDetails(out, d); err != nil {
				return err
			}
			continue

		case menuImprove:
			v, err := pterm.DefaultInteractiveTextInput.Show("Fact")
			if err != nil {
				return errors.Wrap(err, "prompt")
			}
			fact := formula.Variable(strings.TrimSpace(v))
			prob, err := promptFloat(fmt.Sprintf("New probability (max %.2f)", sess.MaxImprovedProb(fact)))
			if err != nil {
				if err = recoverable(out, err); err != nil {
					return err
				}
				continue
			}
			if err := sess.Improve(fact, prob); err != nil {
				PrintError(out, err)
				continue
			}

		case menuReach:
			idx, err := promptInt("Result #")
			if err != nil {
				if err = recoverable(out, err); err != nil {
					return err
				}
				continue
			}
			desired, err := promptFloat("Desired score")
			if err != nil {
				if err = recoverable(out, err); err != nil {
					return err
				}
				continue
			}
			if err := sess.StartReach(ctx, idx, desired); err != nil {
				PrintError(out, err)
				continue
			}

		default:
			return nil
		}

		if err := settle(out, drive(ctx, sess, ans, nil)); err != nil {
			return err
		}
		if err := printReport(out, buildReport(ctx, sess, !runNoScores)); err != nil {
			return err
		}
	}
}

// settle turns an unreachable target into a warning on out (nil to stay quiet).
// The session has already finished, so the report can still be printed.
func settle(out io.Writer, err error) error {
	if !errors.IsTargetUnreachable(err) {
		return err
	}
	if out != nil {
		pterm.Warning.WithWriter(out).Println(err.Error())
	}
	return nil
}

// recoverable prints input mistakes and swallows them; anything else is returned.
func recoverable(out io.Writer, err error) error {
	if errors.IsInvalidRequestError(err) {
		PrintError(out, err)
		return nil
	}
	return err
}

func promptInt(text string) (int, error) {
	raw, err := pterm.DefaultInteractiveTextInput.Show(text)
	if err != nil {
		return 0, errors.Wrap(err, "prompt")
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, errors.NewInvalidRequestError("%q is not a number", raw)
	}
	return n, nil
}

func promptFloat(text string) (float64, error) {
	raw, err := pterm.DefaultInteractiveTextInput.Show(text)
	if err != nil {
		return 0, errors.Wrap(err, "prompt")
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, errors.NewInvalidRequestError("%q is not a number", raw)
	}
	return f, nil
}
