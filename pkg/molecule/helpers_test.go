package molecule_test

import (
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

// triangle is a three-membered carbon ring, the smallest molecule where
// every bond is a ring bond.
func triangle(t *testing.T) *molecule.Molecule {
	t.Helper()
	mol, err := molecule.New(
		[]molecule.Atom{{Symbol: "C"}, {Symbol: "C"}, {Symbol: "C"}},
		[]molecule.Bond{{U: 0, V: 1}, {U: 1, V: 2}, {U: 2, V: 0}},
		0,
	)
	require.NoError(t, err)

	return mol
}
