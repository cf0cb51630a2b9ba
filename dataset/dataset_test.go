package dataset

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/cleaner/errors"
	"github.com/teranos/cleaner/formula"
	"github.com/teranos/cleaner/types"
)

func TestLoadFile_Acquisitions(t *testing.T) {
	ds, err := LoadFile(filepath.Join("testdata", "acquisitions.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"acquisitions", "education", "roles"}, ds.Tables.Names())
	assert.Equal(t, 31, ds.Tables.Len())
	require.Len(t, ds.Results, 13)

	first := ds.Results[0]
	assert.Equal(t, "A2Bdone", first.Values["acquired"])
	assert.Equal(t, "(a_0 ∧ r_0 ∧ e_0) ∨ (a_0 ∧ r_1 ∧ e_1) ∨ (a_0 ∧ r_2 ∧ e_3)", first.Provenance.String())

	correct, err := ds.GroundTruth("r_1")
	require.NoError(t, err)
	assert.True(t, correct)

	_, err = ds.GroundTruth("zz")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestLoadFile_Formats(t *testing.T) {
	for _, name := range []string{"small.json", "small.toml"} {
		t.Run(name, func(t *testing.T) {
			ds, err := LoadFile(filepath.Join("testdata", name))
			require.NoError(t, err)

			assert.Equal(t, 3, ds.Tables.Len())
			require.Len(t, ds.Results, 2)
			assert.Equal(t, formula.MustProvenance([]string{"a_0", "r_0"}, []string{"a_0", "r_1"}), ds.Results[1].Provenance)
			assert.Equal(t, "Pavel Lebedev", ds.Tables["roles"][1].Values["member"])
			assert.True(t, ds.Tables["acquisitions"][0].RealCorrectness)
			assert.False(t, ds.Tables["roles"][0].RealCorrectness)
		})
	}
}

func TestLoadFile_DanglingVariable(t *testing.T) {
	_, err := LoadFile(filepath.Join("testdata", "dangling.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
	assert.Contains(t, err.Error(), `"e_9"`)
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	_, err := LoadFile("facts.csv")
	require.Error(t, err)
	assert.NotEmpty(t, errors.FlattenHints(err))
}

func TestValidate(t *testing.T) {
	valid := func() *Dataset {
		return &Dataset{
			Tables: types.Tables{
				"roles": {
					{Values: map[string]any{"member": "x"}, Variable: "r_0"},
					{Values: map[string]any{"member": "y"}, Variable: "r_1"},
				},
			},
			Results: []types.OutputTuple{
				{Values: map[string]any{"n": 1}, Provenance: formula.MustProvenance([]string{"r_0"}, []string{"r_1"})},
			},
		}
	}

	tests := []struct {
		name   string
		mutate func(d *Dataset)
		want   error
	}{
		{name: "valid", mutate: func(d *Dataset) {}},
		{name: "no results", mutate: func(d *Dataset) { d.Results = nil }, want: errors.ErrInvalidRequest},
		{name: "no tables", mutate: func(d *Dataset) { d.Tables = types.Tables{} }, want: errors.ErrInvalidRequest},
		{name: "empty table", mutate: func(d *Dataset) { d.Tables["empty"] = nil }, want: errors.ErrInvalidRequest},
		{name: "missing variable", mutate: func(d *Dataset) { d.Tables["roles"][0].Variable = "" }, want: errors.ErrInvalidRequest},
		{name: "whitespace variable", mutate: func(d *Dataset) { d.Tables["roles"][0].Variable = "r 0" }, want: errors.ErrInvalidRequest},
		{
			name: "duplicate across tables",
			mutate: func(d *Dataset) {
				d.Tables["other"] = []types.InputTuple{{Values: map[string]any{}, Variable: "r_0"}}
			},
			want: errors.ErrInvalidRequest,
		},
		{
			name:   "empty term",
			mutate: func(d *Dataset) { d.Results[0].Provenance = formula.Provenance{{"r_0"}, {}} },
			want:   errors.ErrInvalidProvenance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid()
			tt.mutate(d)
			err := d.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	ds, err := LoadFile(filepath.Join("testdata", "small.json"))
	require.NoError(t, err)

	for _, format := range []Format{FormatYAML, FormatJSON, FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Encode(ds, format)
			require.NoError(t, err)

			back, err := Decode(data, format)
			require.NoError(t, err)
			assert.Equal(t, ds.Results[1].Provenance, back.Results[1].Provenance)
			assert.Equal(t, ds.Tables.Names(), back.Tables.Names())
		})
	}
}

func TestSaveOpen_SQLite(t *testing.T) {
	ds, err := LoadFile(filepath.Join("testdata", "acquisitions.yaml"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "acquisitions.db")
	require.NoError(t, Save(context.Background(), ds, path))

	back, err := Open(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, ds.Tables.Len(), back.Tables.Len())
	require.Len(t, back.Results, len(ds.Results))
	for i := range ds.Results {
		assert.Equal(t, ds.Results[i].Provenance, back.Results[i].Provenance, "result %d", i)
	}
	assert.Equal(t, "Nana Alvi", back.Tables["roles"][2].Values["member"])

	// Importing the same facts twice trips the unique variable column.
	assert.Error(t, Save(context.Background(), ds, path))
}
