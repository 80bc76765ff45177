package qchem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molverse/fragflow/pkg/qchem"
)

const convergedOutput = `
 Optimization Cycle:   3

 Total energy in the final basis set =  -76.4201934521

 **  OPTIMIZATION CONVERGED  **

                       Coordinates (Angstroms)
    1      O       0.0000000000    0.0000000000    0.1173000000
    2      H       0.0000000000    0.7572000000   -0.4692000000
    3      H       0.0000000000   -0.7572000000   -0.4692000000

 Final energy is   -76.4259000000
`

const imaginaryOutput = `
 Final energy is   -40.1234000000

 Frequency:    -310.51   1523.11   3014.92
`

func TestParseOutputConverged(t *testing.T) {
	t.Parallel()

	res, err := qchem.ParseOutput(convergedOutput)
	require.NoError(t, err)

	assert.InDelta(t, -76.4259, res.FinalEnergy, 1e-9)
	assert.True(t, res.Converged)
	assert.Zero(t, res.ImaginaryFrequencies)

	require.Len(t, res.OptimizedAtoms, 3)
	assert.Equal(t, "O", res.OptimizedAtoms[0].Symbol)
	assert.InDelta(t, 0.1173, res.OptimizedAtoms[0].Z, 1e-9)
}

func TestParseOutputImaginaryModes(t *testing.T) {
	t.Parallel()

	res, err := qchem.ParseOutput(imaginaryOutput)
	require.NoError(t, err)

	assert.InDelta(t, -40.1234, res.FinalEnergy, 1e-9)
	assert.False(t, res.Converged)
	assert.Equal(t, 1, res.ImaginaryFrequencies)
	assert.Empty(t, res.OptimizedAtoms)
}

func TestParseOutputNoEnergy(t *testing.T) {
	t.Parallel()

	_, err := qchem.ParseOutput("nothing useful here")
	assert.ErrorIs(t, err, qchem.ErrNoEnergy)
}
