package commands

import (
	"encoding/json"
	"io"

	"github.com/pterm/pterm"

	"github.com/teranos/cleaner/errors"
	"github.com/teranos/cleaner/formula"
)

// PrintError writes err and any attached hints for a human reader.
func PrintError(w io.Writer, err error) {
	pterm.Error.WithWriter(w).Println(err.Error())
	for _, hint := range errors.GetAllHints(err) {
		pterm.Info.WithWriter(w).Println(hint)
	}
}

// parseFormula decodes the --provenance and --assignment flag values.
func parseFormula(provenanceJSON, assignmentJSON string) (formula.Provenance, formula.Assignment, error) {
	var p formula.Provenance
	if err := json.Unmarshal([]byte(provenanceJSON), &p); err != nil {
		return nil, nil, errors.WithHint(
			errors.Wrap(errors.ErrInvalidRequest, err.Error()),
			`--provenance takes a JSON list of terms, e.g. '[["a","b"],["c"]]'`)
	}

	a := formula.Assignment{}
	if assignmentJSON != "" {
		if err := json.Unmarshal([]byte(assignmentJSON), &a); err != nil {
			return nil, nil, errors.WithHint(
				errors.Wrap(errors.ErrInvalidRequest, err.Error()),
				`--assignment takes a JSON object of fact truths, e.g. '{"a":true,"c":false}'`)
		}
	}
	return p, a, nil
}
