package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/cleaner/errors"
	"github.com/teranos/cleaner/formula"
)

func testTables() Tables {
	return Tables{
		"acquisitions": {
			{Values: map[string]any{"acquired": "Kaggle", "acquiring": "Google"}, Variable: "a_0", RealCorrectness: true},
		},
		"roles": {
			{Values: map[string]any{"organization": "Google", "role": "CEO", "member": "Sundar Pichai"}, Variable: "r_0", RealCorrectness: true},
			{Values: map[string]any{"organization": "Kaggle", "role": "Founder", "member": "Anthony Goldbloom"}, Variable: "r_1"},
		},
	}
}

func TestVarToTuple(t *testing.T) {
	tables := testTables()

	name, tuple, err := tables.VarToTuple("r_1")
	require.NoError(t, err)
	assert.Equal(t, "roles", name)
	assert.Equal(t, "Anthony Goldbloom", tuple.Values["member"])

	_, _, err = tables.VarToTuple("zz")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestTablesNamesAndLen(t *testing.T) {
	tables := testTables()

	assert.Equal(t, []string{"acquisitions", "roles"}, tables.Names())
	assert.Equal(t, 3, tables.Len())
}

func TestExtractVariables(t *testing.T) {
	tuples := []OutputTuple{
		{Provenance: formula.MustProvenance([]string{"a_0", "r_0"})},
		{Provenance: formula.MustProvenance([]string{"a_0", "r_1"}, []string{"e_0"})},
	}

	want := []formula.Variable{"a_0", "r_0", "r_1", "e_0"}
	if diff := cmp.Diff(want, ExtractVariables(tuples)); diff != "" {
		t.Errorf("ExtractVariables() mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, ExtractVariables(nil))
}

func TestTruths(t *testing.T) {
	tuples := []OutputTuple{
		{Provenance: formula.MustProvenance([]string{"a", "b"})},
		{Provenance: formula.MustProvenance([]string{"c"})},
	}

	got := Truths(tuples, formula.Assignment{"a": formula.True, "b": formula.True})
	assert.Equal(t, []formula.Truth{formula.True, formula.Unknown}, got)
}
