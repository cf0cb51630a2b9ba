package formula

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestIsCrucial(t *testing.T) {
	p := MustProvenance([]string{"a", "b"}, []string{"c"})

	tests := []struct {
		name string
		v    Variable
		a    Assignment
		want Truth
	}{
		{
			name: "formula unknown",
			v:    "a",
			a:    Assignment{"a": True},
			want: Unknown,
		},
		{
			name: "variable unresolved",
			v:    "b",
			a:    Assignment{"c": True},
			want: Unknown,
		},
		{
			name: "value disagrees with formula",
			v:    "a",
			a:    Assignment{"a": False, "c": True},
			want: False,
		},
		{
			name: "sole true term variable",
			v:    "c",
			a:    Assignment{"a": False, "c": True},
			want: True,
		},
		{
			name: "true but redundant",
			v:    "c",
			a:    Assignment{"a": True, "b": True, "c": True},
			want: False,
		},
		{
			name: "false variable whose flip reaches unknown",
			v:    "a",
			a:    Assignment{"a": False, "c": False},
			want: True,
		},
		{
			name: "false variable whose flip flips the formula",
			v:    "a",
			a:    Assignment{"a": False, "b": True, "c": False},
			want: True,
		},
		{
			name: "false variable that is not needed",
			v:    "b",
			a:    Assignment{"a": False, "b": False, "c": False},
			want: False,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCrucial(p, tt.v, tt.a))
		})
	}
}

func TestIsCrucial_DoesNotMutateAssignment(t *testing.T) {
	p := MustProvenance([]string{"a"})
	a := Assignment{"a": True}

	assert.Equal(t, True, IsCrucial(p, "a", a))
	assert.Equal(t, Assignment{"a": True}, a)
}

func TestCrucialVariables(t *testing.T) {
	p := MustProvenance([]string{"a", "b"}, []string{"c"})
	a := Assignment{"a": True, "b": True, "c": False}

	if diff := cmp.Diff([]Variable{"a", "b"}, CrucialVariables(p, a)); diff != "" {
		t.Errorf("CrucialVariables() mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, CrucialVariables(p, Assignment{}))
}
