package display

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/cleaner/errors"
	"github.com/teranos/cleaner/session"
	"github.com/teranos/cleaner/sym"
)

const (
	movedMarker = "•"
	trendDown   = "↓"
	trendUp     = "↑"
)

// FormatValues renders a row as key=value pairs in key order.
func FormatValues(values map[string]any) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, values[k])
	}
	return strings.Join(parts, " ")
}

// FormatStep renders the fact awaiting a verdict.
func FormatStep(step *session.Step) string {
	prefix := sym.Resolve
	if step.Source == session.SourceReach {
		prefix = sym.Reach
	}
	return fmt.Sprintf("%s %s [%s] %s (%s)", prefix, step.Variable, step.Table, FormatValues(step.Input.Values), step.Source)
}

func formatScore(ts session.TupleScore) string {
	score := fmt.Sprintf("%.3f", ts.Score)
	if ts.PreviousScore == nil {
		return score
	}
	prev := fmt.Sprintf("%.3f", *ts.PreviousScore)
	switch ts.Trend() {
	case -1:
		return score + " " + pterm.Green(trendDown) + " " + pterm.Gray(prev)
	case 1:
		return score + " " + pterm.Red(trendUp) + " " + pterm.Gray(prev)
	default:
		return score
	}
}

// RenderScores writes the classified results as a table, correct results first.
func RenderScores(w io.Writer, scores []session.TupleScore) error {
	data := pterm.TableData{{"#", "", sym.Score + " score", "result"}}
	for _, ts := range scores {
		mark := sym.False
		if ts.Correct {
			mark = sym.True
		}
		if ts.Moved {
			mark += movedMarker
		}
		data = append(data, []string{
			fmt.Sprint(ts.Index),
			mark,
			formatScore(ts),
			FormatValues(ts.Values),
		})
	}
	return renderTable(w, data)
}

// RenderDetails writes one row per fact behind a result.
func RenderDetails(w io.Writer, d *session.TupleDetails) error {
	header := fmt.Sprintf("result %d %s %s", d.Index, d.Truth.Glyph(), FormatValues(d.Values))
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "  provenance:", d.Provenance.String()); err != nil {
		return err
	}

	data := pterm.TableData{{"fact", "table", "", "prob", sym.Crucial, sym.Risky, "values"}}
	for _, f := range d.Facts {
		risky := "-"
		if f.Risky != nil {
			risky = sym.TruthGlyph(*f.Risky, true)
		}
		data = append(data, []string{
			string(f.Variable),
			f.Table,
			f.Truth.Glyph(),
			fmt.Sprintf("%.2f", f.Probability),
			f.Crucial.Glyph(),
			risky,
			FormatValues(f.Input.Values),
		})
	}
	return renderTable(w, data)
}

func renderTable(w io.Writer, data pterm.TableData) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	_, err = fmt.Fprintln(w, out)
	return err
}
