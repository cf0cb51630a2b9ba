package dataset

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/teranos/cleaner/db"
	"github.com/teranos/cleaner/errors"
	"github.com/teranos/cleaner/formula"
	"github.com/teranos/cleaner/types"
)

const (
	selectInputFacts = `SELECT table_name, variable, values_json, real_correctness
		FROM input_facts ORDER BY table_name, id`
	selectOutputResults = `SELECT position, values_json, provenance_json
		FROM output_results ORDER BY position`
	insertInputFact = `INSERT INTO input_facts (table_name, variable, values_json, real_correctness)
		VALUES (?, ?, ?, ?)`
	insertOutputResult = `INSERT INTO output_results (position, values_json, provenance_json)
		VALUES (?, ?, ?)`
)

// LoadSQL reads a dataset from the input_facts and output_results tables.
func LoadSQL(ctx context.Context, conn *sql.DB) (*Dataset, error) {
	tables, err := loadInputFacts(ctx, conn)
	if err != nil {
		return nil, err
	}
	results, err := loadOutputResults(ctx, conn)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Tables: tables, Results: results}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

func loadInputFacts(ctx context.Context, conn *sql.DB) (types.Tables, error) {
	rows, err := conn.QueryContext(ctx, selectInputFacts)
	if err != nil {
		return nil, schemaError(err, "query input_facts")
	}
	defer rows.Close()

	tables := types.Tables{}
	for rows.Next() {
		var (
			table, variable, valuesJSON string
			correct                     bool
		)
		if err := rows.Scan(&table, &variable, &valuesJSON, &correct); err != nil {
			return nil, errors.Wrap(err, "scan input_facts")
		}
		values, err := decodeValues(valuesJSON)
		if err != nil {
			return nil, errors.Wrapf(err, "input fact %s", variable)
		}
		tables[table] = append(tables[table], types.InputTuple{
			Values:          values,
			Variable:        formula.Variable(variable),
			RealCorrectness: correct,
		})
	}
	return tables, errors.Wrap(rows.Err(), "iterate input_facts")
}

func loadOutputResults(ctx context.Context, conn *sql.DB) ([]types.OutputTuple, error) {
	rows, err := conn.QueryContext(ctx, selectOutputResults)
	if err != nil {
		return nil, schemaError(err, "query output_results")
	}
	defer rows.Close()

	var results []types.OutputTuple
	for rows.Next() {
		var (
			position                   int
			valuesJSON, provenanceJSON string
		)
		if err := rows.Scan(&position, &valuesJSON, &provenanceJSON); err != nil {
			return nil, errors.Wrap(err, "scan output_results")
		}
		values, err := decodeValues(valuesJSON)
		if err != nil {
			return nil, errors.Wrapf(err, "result %d", position)
		}
		var prov formula.Provenance
		if err := json.Unmarshal([]byte(provenanceJSON), &prov); err != nil {
			return nil, errors.Wrapf(err, "result %d provenance", position)
		}
		results = append(results, types.OutputTuple{Values: values, Provenance: prov})
	}
	return results, errors.Wrap(rows.Err(), "iterate output_results")
}

func decodeValues(raw string) (map[string]any, error) {
	values := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, errors.Wrap(err, "decode values_json")
	}
	return values, nil
}

func schemaError(err error, op string) error {
	if db.IsMissingTable(err) {
		return errors.WithHint(
			errors.Mark(errors.Wrap(err, op), db.ErrSchemaMissing),
			"create the file with `cleaner dataset import`")
	}
	return errors.Wrap(err, op)
}

// WriteSQL stores ds into a migrated database in a single transaction.
// Results keep their order through the position column.
func WriteSQL(ctx context.Context, conn *sql.DB, ds *Dataset) error {
	if err := ds.Validate(); err != nil {
		return err
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	for _, name := range ds.Tables.Names() {
		for _, row := range ds.Tables[name] {
			values, err := json.Marshal(row.Values)
			if err != nil {
				return errors.Wrapf(err, "encode values of %s", row.Variable)
			}
			if _, err := tx.ExecContext(ctx, insertInputFact, name, string(row.Variable), string(values), row.RealCorrectness); err != nil {
				return schemaError(err, "insert input fact "+string(row.Variable))
			}
		}
	}

	for i, r := range ds.Results {
		values, err := json.Marshal(r.Values)
		if err != nil {
			return errors.Wrapf(err, "encode values of result %d", i)
		}
		prov, err := json.Marshal(r.Provenance)
		if err != nil {
			return errors.Wrapf(err, "encode provenance of result %d", i)
		}
		if _, err := tx.ExecContext(ctx, insertOutputResult, i, string(values), string(prov)); err != nil {
			return schemaError(err, "insert result")
		}
	}

	return errors.Wrap(tx.Commit(), "commit dataset")
}
