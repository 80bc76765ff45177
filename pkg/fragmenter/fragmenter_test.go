package fragmenter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molverse/fragflow/pkg/fragmenter"
	"github.com/molverse/fragflow/pkg/molecule"
)

func water(t *testing.T) *molecule.Molecule {
	t.Helper()
	mol, err := molecule.New(
		[]molecule.Atom{{Symbol: "O"}, {Symbol: "H"}, {Symbol: "H"}},
		[]molecule.Bond{{U: 0, V: 1}, {U: 0, V: 2}},
		0,
	)
	require.NoError(t, err)

	return mol
}

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

func formulas(frags []*molecule.Molecule) []string {
	out := make([]string, 0, len(frags))
	for _, frag := range frags {
		out = append(out, frag.Composition().Formula())
	}

	return out
}

func TestNewNegativeDepth(t *testing.T) {
	t.Parallel()

	_, err := fragmenter.New(-1)
	assert.ErrorIs(t, err, fragmenter.ErrNegativeDepth)
}

func TestFragmentNilMolecule(t *testing.T) {
	t.Parallel()

	frag, err := fragmenter.New(1)
	require.NoError(t, err)
	_, err = frag.Fragment(nil)
	assert.ErrorIs(t, err, fragmenter.ErrMoleculeMustBeSet)
}

func TestFragmentDepthOne(t *testing.T) {
	t.Parallel()

	frag, err := fragmenter.New(1)
	require.NoError(t, err)

	frags, err := frag.Fragment(water(t))
	require.NoError(t, err)

	// Both O-H bonds yield the same pair, deduplicated to OH and H.
	assert.ElementsMatch(t, []string{"HO", "H"}, formulas(frags))
}

func TestFragmentExhaustive(t *testing.T) {
	t.Parallel()

	frag, err := fragmenter.New(0)
	require.NoError(t, err)

	frags, err := frag.Fragment(water(t))
	require.NoError(t, err)

	// Depth zero keeps going: OH breaks down into O and H as well.
	assert.ElementsMatch(t, []string{"HO", "H", "O"}, formulas(frags))
}

func TestFragmentOpensRings(t *testing.T) {
	t.Parallel()

	frag, err := fragmenter.New(1)
	require.NoError(t, err)

	frags, err := frag.Fragment(triangle(t))
	require.NoError(t, err)

	// Every ring bond opens into the same three-carbon chain.
	require.Len(t, frags, 1)
	assert.Equal(t, "C3", frags[0].Composition().Formula())
	assert.Len(t, frags[0].Bonds, 2)
}

func TestFragmentKeepRingsClosed(t *testing.T) {
	t.Parallel()

	frag, err := fragmenter.New(1, fragmenter.KeepRingsClosed())
	require.NoError(t, err)

	frags, err := frag.Fragment(triangle(t))
	require.NoError(t, err)
	assert.Empty(t, frags)
}

func TestFragmentDepthLimits(t *testing.T) {
	t.Parallel()

	shallow, err := fragmenter.New(1)
	require.NoError(t, err)
	deep, err := fragmenter.New(3)
	require.NoError(t, err)

	mol := triangle(t)

	shallowFrags, err := shallow.Fragment(mol)
	require.NoError(t, err)
	deepFrags, err := deep.Fragment(mol)
	require.NoError(t, err)

	// A deeper run reaches the C2 and C pieces of the opened chain.
	assert.Greater(t, len(deepFrags), len(shallowFrags))
	assert.Contains(t, formulas(deepFrags), "C2")
	assert.Contains(t, formulas(deepFrags), "C")
}
