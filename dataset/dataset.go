// Package dataset loads input fact tables and query results for a cleaning session.
//
// A dataset is read from YAML, JSON or TOML files, or from a SQLite file laid
// out by the db package migrations. Whatever the source, Validate checks that
// every result's provenance refers only to facts present in the tables.
package dataset

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/teranos/cleaner/errors"
	"github.com/teranos/cleaner/formula"
	"github.com/teranos/cleaner/types"
)

// Dataset is the unit a session cleans: annotated input tables plus the results derived from them.
type Dataset struct {
	Tables  types.Tables        `json:"tables" yaml:"tables" toml:"tables" validate:"required,min=1,dive,min=1,dive"`
	Results []types.OutputTuple `json:"results" yaml:"results" toml:"results" validate:"required,min=1,dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("varname", validateVarName)
}

// validateVarName rejects identifiers containing whitespace or control characters.
func validateVarName(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	})
}

// Validate checks structure, provenance shape, variable uniqueness and that
// every provenance variable annotates some input tuple.
func (d *Dataset) Validate() error {
	if err := validate.Struct(d); err != nil {
		return errors.Wrap(errors.ErrInvalidRequest, err.Error())
	}

	owner := make(map[formula.Variable]string, d.Tables.Len())
	for _, name := range d.Tables.Names() {
		for _, row := range d.Tables[name] {
			if err := validate.Var(string(row.Variable), "varname"); err != nil {
				return errors.NewInvalidRequestError("table %s: malformed variable %q", name, row.Variable)
			}
			if prev, dup := owner[row.Variable]; dup {
				return errors.NewInvalidRequestError("variable %q appears in tables %s and %s", row.Variable, prev, name)
			}
			owner[row.Variable] = name
		}
	}

	for i, r := range d.Results {
		if err := r.Provenance.Validate(); err != nil {
			return errors.Wrapf(err, "result %d", i)
		}
		for _, v := range formula.ExtractVariables(r.Provenance) {
			if _, ok := owner[v]; !ok {
				return errors.WithHint(
					errors.NewInvalidRequestError("result %d references unknown fact %q", i, v),
					"every provenance variable must appear in one of the input tables")
			}
		}
	}
	return nil
}

// GroundTruth returns the demo correctness flag of the fact v.
func (d *Dataset) GroundTruth(v formula.Variable) (bool, error) {
	_, tuple, err := d.Tables.VarToTuple(v)
	if err != nil {
		return false, err
	}
	return tuple.RealCorrectness, nil
}
