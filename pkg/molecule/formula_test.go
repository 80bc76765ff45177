package molecule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/molverse/fragflow/pkg/molecule"
)

func TestFormulaHillOrder(t *testing.T) {
	t.Parallel()

	comp := molecule.Composition{"H": 6, "C": 2}
	assert.Equal(t, "C2H6", comp.Formula())

	comp = molecule.Composition{"O": 1, "H": 2}
	assert.Equal(t, "H2O", comp.Formula())

	comp = molecule.Composition{"O": 3, "Fe": 2}
	assert.Equal(t, "Fe2O3", comp.Formula())
}

func TestReducedFormula(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		comp molecule.Composition
		want string
	}{
		"ethane reduces":   {molecule.Composition{"C": 2, "H": 6}, "CH3"},
		"benzene reduces":  {molecule.Composition{"C": 6, "H": 6}, "CH"},
		"water stays":      {molecule.Composition{"H": 2, "O": 1}, "H2O"},
		"peroxide reduces": {molecule.Composition{"H": 2, "O": 2}, "HO"},
		"single atom":      {molecule.Composition{"O": 1}, "O"},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.comp.ReducedFormula())
		})
	}
}
