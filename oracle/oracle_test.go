package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/cleaner/errors"
	"github.com/teranos/cleaner/formula"
	"github.com/teranos/cleaner/types"
)

func result(name string, terms ...[]string) types.OutputTuple {
	return types.OutputTuple{
		Values:     map[string]any{"name": name},
		Provenance: formula.MustProvenance(terms...),
	}
}

func names(tuples []types.OutputTuple) []string {
	out := make([]string, len(tuples))
	for i, t := range tuples {
		out[i] = t.Values["name"].(string)
	}
	return out
}

func TestOracle_StateMachine(t *testing.T) {
	o, err := New([]types.OutputTuple{
		result("T1", []string{"a", "b"}),
		result("T2", []string{"b", "c"}),
	})
	require.NoError(t, err)
	assert.Equal(t, Pending, o.State())

	require.NoError(t, o.Resolve("a", formula.True))
	require.NoError(t, o.Resolve("b", formula.True))
	assert.Equal(t, formula.True, o.TruthOf(0))
	assert.Equal(t, formula.Unknown, o.TruthOf(1))
	assert.False(t, o.IsFinished())

	require.NoError(t, o.Resolve("c", formula.False))
	assert.Equal(t, formula.False, o.TruthOf(1))
	assert.True(t, o.IsFinished())
	assert.Equal(t, Finished, o.State())
	assert.Equal(t, []string{"T1"}, names(o.ClassifiedTrue()))
	assert.Equal(t, []string{"T2"}, names(o.ClassifiedFalse()))
}

func TestOracle_NextVariableNeverRepeats(t *testing.T) {
	o, err := New([]types.OutputTuple{
		result("T1", []string{"a", "b"}, []string{"c"}),
		result("T2", []string{"b", "d"}),
		result("T3", []string{"e"}, []string{"a", "f"}),
	})
	require.NoError(t, err)

	seen := map[formula.Variable]bool{}
	var order []formula.Variable
	for steps := 0; !o.IsFinished(); steps++ {
		require.Less(t, steps, len(o.Variables()), "oracle did not finish")

		v, err := o.NextVariable()
		require.NoError(t, err)
		assert.Equal(t, formula.Unknown, o.Value(v), "returned resolved variable %s", v)
		assert.False(t, seen[v], "variable %s returned twice", v)
		assert.True(t, referencedByPending(o, v), "variable %s not referenced by a pending result", v)

		seen[v] = true
		order = append(order, v)
		require.NoError(t, o.Resolve(v, formula.False))
	}

	assert.Equal(t, []formula.Variable{"a", "b", "c", "e"}, order)
	_, err = o.NextVariable()
	assert.True(t, errors.Is(err, errors.ErrNoVariableFound))
}

func referencedByPending(o *Oracle, v formula.Variable) bool {
	for i, t := range o.Tuples() {
		if o.TruthOf(i) == formula.Unknown && t.Provenance.Contains(v) {
			return true
		}
	}
	return false
}

func TestOracle_NextVariableOrder(t *testing.T) {
	o, err := New([]types.OutputTuple{
		result("T1", []string{"a", "b"}),
		result("T2", []string{"c"}),
	})
	require.NoError(t, err)

	v, err := o.NextVariable()
	require.NoError(t, err)
	assert.Equal(t, formula.Variable("a"), v)

	require.NoError(t, o.Resolve("a", formula.False))
	v, err = o.NextVariable()
	require.NoError(t, err)
	assert.Equal(t, formula.Variable("c"), v)
}

func TestOracle_ResolveErrors(t *testing.T) {
	o, err := New([]types.OutputTuple{result("T1", []string{"a"})})
	require.NoError(t, err)

	err = o.Resolve("zz", formula.True)
	assert.True(t, errors.Is(err, errors.ErrUnknownVariable))
	assert.False(t, o.Tracks("zz"))
	assert.Empty(t, o.ResolvedAssignment())

	err = o.Resolve("a", formula.Unknown)
	assert.True(t, errors.Is(err, errors.ErrInvalidTruth))
	assert.Equal(t, formula.Unknown, o.Value("a"))
}

func TestOracle_ResolvedAssignmentIsSnapshot(t *testing.T) {
	o, err := New([]types.OutputTuple{result("T1", []string{"a", "b"})})
	require.NoError(t, err)
	require.NoError(t, o.Resolve("a", formula.True))

	snap := o.ResolvedAssignment()
	assert.Equal(t, formula.Assignment{"a": formula.True}, snap)

	snap["b"] = formula.True
	assert.Equal(t, formula.Unknown, o.Value("b"))
}

func TestOracle_OwnsItsTuples(t *testing.T) {
	in := []types.OutputTuple{result("T1", []string{"a", "b"})}
	o, err := New(in)
	require.NoError(t, err)

	in[0].Provenance[0][0] = "zz"
	out := o.Tuples()
	out[0].Provenance[0][1] = "yy"
	out[0].Values["name"] = "changed"

	fresh := o.Tuples()
	assert.Equal(t, "(a ∧ b)", fresh[0].Provenance.String())
	assert.Equal(t, "T1", fresh[0].Values["name"])
	assert.True(t, o.Tracks("a"))

	require.NoError(t, o.Resolve("a", formula.True))
	require.NoError(t, o.Resolve("b", formula.True))
	classified := o.ClassifiedTrue()
	require.Len(t, classified, 1)
	classified[0].Provenance[0][0] = "xx"
	assert.Equal(t, "(a ∧ b)", o.Tuples()[0].Provenance.String())
	assert.Equal(t, formula.True, o.TruthOf(0))
}

func TestOracle_Overwrite(t *testing.T) {
	o, err := New([]types.OutputTuple{result("T1", []string{"a"})})
	require.NoError(t, err)

	require.NoError(t, o.Resolve("a", formula.True))
	assert.Equal(t, formula.True, o.TruthOf(0))
	require.NoError(t, o.Resolve("a", formula.False))
	assert.Equal(t, formula.False, o.TruthOf(0))
}

func TestNew_Empty(t *testing.T) {
	o, err := New(nil)
	require.NoError(t, err)
	assert.True(t, o.IsFinished())
	assert.Empty(t, o.ClassifiedTrue())
	assert.Empty(t, o.ClassifiedFalse())

	_, err = New(nil, WithRequireTuples())
	assert.True(t, errors.Is(err, errors.ErrNoTuples))
}

func TestNew_InvalidProvenance(t *testing.T) {
	_, err := New([]types.OutputTuple{{Provenance: formula.Provenance{{}}}})
	assert.True(t, errors.Is(err, errors.ErrInvalidProvenance))
}

func TestOracle_LogsResolution(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	o, err := New([]types.OutputTuple{result("T1", []string{"a"})}, WithLogger(zap.New(core).Sugar()))
	require.NoError(t, err)

	require.NoError(t, o.Resolve("a", formula.True))

	entries := logs.FilterMessage("fact resolved").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "a", fields["variable"])
	assert.Equal(t, "true", fields["truth"])
	assert.Equal(t, "finished", fields["state"])
}
