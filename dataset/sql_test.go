package dataset

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/cleaner/db"
	"github.com/teranos/cleaner/errors"
	"github.com/teranos/cleaner/formula"
	testdb "github.com/teranos/cleaner/internal/testing"
)

func TestLoadSQL_Mock(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM input_facts ORDER BY table_name, id")).
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "variable", "values_json", "real_correctness"}).
			AddRow("acquisitions", "a_0", `{"acquired":"A2Bdone"}`, false).
			AddRow("roles", "r_1", `{"member":"Pavel Lebedev"}`, true))
	mock.ExpectQuery(regexp.QuoteMeta("FROM output_results ORDER BY position")).
		WillReturnRows(sqlmock.NewRows([]string{"position", "values_json", "provenance_json"}).
			AddRow(0, `{"acquired":"A2Bdone"}`, `[["a_0","r_1"]]`))

	ds, err := LoadSQL(context.Background(), conn)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, 2, ds.Tables.Len())
	assert.True(t, ds.Tables["roles"][0].RealCorrectness)
	assert.Equal(t, formula.MustProvenance([]string{"a_0", "r_1"}), ds.Results[0].Provenance)
}

func TestLoadSQL_MissingSchema(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery("input_facts").WillReturnError(errors.New("no such table: input_facts"))

	_, err = LoadSQL(context.Background(), conn)
	require.Error(t, err)
	assert.True(t, errors.Is(err, db.ErrSchemaMissing))
	assert.Contains(t, errors.FlattenHints(err), "cleaner dataset import")
}

func TestLoadSQL_BadProvenance(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery("input_facts").
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "variable", "values_json", "real_correctness"}).
			AddRow("roles", "r_0", `{}`, false))
	mock.ExpectQuery("output_results").
		WillReturnRows(sqlmock.NewRows([]string{"position", "values_json", "provenance_json"}).
			AddRow(0, `{}`, `[[]]`))

	_, err = LoadSQL(context.Background(), conn)
	assert.True(t, errors.Is(err, errors.ErrInvalidProvenance))
}

func TestWriteSQL_RoundTrip(t *testing.T) {
	conn := testdb.CreateDatasetDB(t)

	ds, err := Decode([]byte(`
tables:
  roles:
    - {variable: r_0, values: {member: "Usha Koirala"}, real_correctness: true}
  education:
    - {variable: e_0, values: {alumni: "Usha Koirala", year: 2017}}
results:
  - values: {member: "Usha Koirala"}
    provenance: [[r_0, e_0]]
  - values: {member: "Usha Koirala", note: second}
    provenance: [[e_0]]
`), FormatYAML)
	require.NoError(t, err)

	require.NoError(t, WriteSQL(context.Background(), conn, ds))

	back, err := LoadSQL(context.Background(), conn)
	require.NoError(t, err)
	assert.Equal(t, []string{"education", "roles"}, back.Tables.Names())
	assert.True(t, back.Tables["roles"][0].RealCorrectness)
	assert.Equal(t, float64(2017), back.Tables["education"][0].Values["year"])
	require.Len(t, back.Results, 2)
	assert.Equal(t, "second", back.Results[1].Values["note"])
}
