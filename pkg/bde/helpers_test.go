package bde_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/molverse/fragflow/pkg/molecule"
)

func water(t *testing.T) *molecule.Molecule {
	t.Helper()
	mol, err := molecule.New(
		[]molecule.Atom{
			{Symbol: "O", Z: 0.1173},
			{Symbol: "H", Y: 0.7572, Z: -0.4692},
			{Symbol: "H", Y: -0.7572, Z: -0.4692},
		},
		[]molecule.Bond{{U: 0, V: 1}, {U: 0, V: 2}},
		0,
	)
	require.NoError(t, err)

	return mol
}

const convergedFixture = `
 Total energy in the final basis set =  -76.4201934521

 **  OPTIMIZATION CONVERGED  **

                       Coordinates (Angstroms)
    1      O       0.0000000000    0.0000000000    0.1180000000
    2      H       0.0000000000    0.7570000000   -0.4690000000
    3      H       0.0000000000   -0.7570000000   -0.4690000000

 Final energy is   -76.4259000000
`

// writeFixture drops a canned converged output into a temp file for the
// FileRunner to copy into launch directories.
func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "water.qout")
	require.NoError(t, os.WriteFile(path, []byte(convergedFixture), 0o644))

	return path
}
