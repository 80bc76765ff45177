package bde_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molverse/fragflow/pkg/bde"
	"github.com/molverse/fragflow/pkg/fireworks"
	"github.com/molverse/fragflow/pkg/qchem"
)

func TestFragmentationNilMolecule(t *testing.T) {
	t.Parallel()

	_, err := bde.Fragmentation(nil, 1)
	assert.ErrorIs(t, err, bde.ErrMoleculeMustBeSet)
}

func TestFragmentationTwoFireworks(t *testing.T) {
	t.Parallel()

	mol := water(t)
	wf, err := bde.Fragmentation(mol, 1)
	require.NoError(t, err)

	fws := wf.Fireworks()
	require.Len(t, fws, 2)

	var optimize, fragment *fireworks.Firework
	for _, fw := range fws {
		switch fw.Name() {
		case "first FF":
			optimize = fw
		case "fragment and FF_opt":
			fragment = fw
		}
	}
	require.NotNil(t, optimize)
	require.NotNil(t, fragment)

	assert.Equal(t, []string{fragment.ID()}, wf.Links()[optimize.ID()])

	// The optimize firework carries the molecule, the fragment firework
	// waits for the relaxed one from its parent.
	assert.Same(t, mol, optimize.Spec()[bde.SpecMolecule])
	assert.NotContains(t, fragment.Spec(), bde.SpecMolecule)
}

func TestFragmentationSkipOptimization(t *testing.T) {
	t.Parallel()

	mol := water(t)
	wf, err := bde.Fragmentation(mol, 1, bde.SkipOptimization())
	require.NoError(t, err)

	fws := wf.Fireworks()
	require.Len(t, fws, 1)
	assert.Equal(t, "fragment and FF_opt", fws[0].Name())
	assert.Empty(t, wf.Links()[fws[0].ID()])
	assert.Same(t, mol, fws[0].Spec()[bde.SpecMolecule])
}

func TestFragmentationName(t *testing.T) {
	t.Parallel()

	wf, err := bde.Fragmentation(water(t), 1)
	require.NoError(t, err)
	assert.Equal(t, "H2O:FF then fragment", wf.Name())

	named, err := bde.Fragmentation(water(t), 1, bde.WithName("bde scan"))
	require.NoError(t, err)
	assert.Equal(t, "H2O:bde scan", named.Name())
}

func TestFragmentationDefaultPlaceholders(t *testing.T) {
	t.Parallel()

	wf, err := bde.Fragmentation(water(t), 2)
	require.NoError(t, err)

	for _, fw := range wf.Fireworks() {
		spec := fw.Spec()
		assert.Equal(t, ">>max_cores<<", spec[bde.SpecMaxCores])
		assert.Equal(t, ">>qchem_cmd<<", spec[bde.SpecQChemCmd])
		assert.Equal(t, ">>db_file<<", spec[bde.SpecDBFile])
	}
}

func TestFragmentationPassThrough(t *testing.T) {
	t.Parallel()

	params := qchem.InputParams{Method: "b3lyp", Basis: "6-31g*"}
	wf, err := bde.Fragmentation(water(t), 3,
		bde.WithMaxCores("12"),
		bde.WithQChemCmd("qchem -slurm"),
		bde.WithDBFile("/etc/db.yaml"),
		bde.WithInputParams(params),
	)
	require.NoError(t, err)

	for _, fw := range wf.Fireworks() {
		spec := fw.Spec()
		assert.Equal(t, "12", spec[bde.SpecMaxCores])
		assert.Equal(t, "qchem -slurm", spec[bde.SpecQChemCmd])
		assert.Equal(t, "/etc/db.yaml", spec[bde.SpecDBFile])

		got, ok := spec[bde.SpecInputParams].(qchem.InputParams)
		require.True(t, ok)
		assert.Equal(t, "b3lyp", got.Method)
		assert.Equal(t, "6-31g*", got.Basis)

		if fw.Name() == "fragment and FF_opt" {
			assert.Equal(t, 3, spec[bde.SpecDepth])
			assert.Equal(t, true, spec[bde.SpecOpenRings])
			assert.Equal(t, true, spec[bde.SpecCheckDB])
		}
	}
}

func TestFragmentationFlags(t *testing.T) {
	t.Parallel()

	wf, err := bde.Fragmentation(water(t), 1,
		bde.SkipOptimization(),
		bde.KeepRingsClosed(),
		bde.SkipDBCheck(),
	)
	require.NoError(t, err)

	spec := wf.Fireworks()[0].Spec()
	assert.Equal(t, false, spec[bde.SpecOpenRings])
	assert.Equal(t, false, spec[bde.SpecCheckDB])
}

func TestFragmentationPCMDielectric(t *testing.T) {
	t.Parallel()

	wf, err := bde.Fragmentation(water(t), 1, bde.WithPCMDielectric(78.39))
	require.NoError(t, err)

	for _, fw := range wf.Fireworks() {
		params, ok := fw.Spec()[bde.SpecInputParams].(qchem.InputParams)
		require.True(t, ok)
		require.NotNil(t, params.PCMDielectric)
		assert.Equal(t, 78.39, *params.PCMDielectric)
	}
}

func TestFragmentationMetadata(t *testing.T) {
	t.Parallel()

	wf, err := bde.Fragmentation(water(t), 1,
		bde.WithWorkflowMetadata("project", "solvation"),
		bde.WithWorkflowMetadata("batch", 7),
	)
	require.NoError(t, err)

	assert.Equal(t, "solvation", wf.Metadata()["project"])
	assert.Equal(t, 7, wf.Metadata()["batch"])
}

func TestFragmentationDefaultsKeepRingsOpen(t *testing.T) {
	t.Parallel()

	wf, err := bde.Fragmentation(water(t), 1, bde.SkipOptimization())
	require.NoError(t, err)

	spec := wf.Fireworks()[0].Spec()
	assert.Equal(t, true, spec[bde.SpecOpenRings])
	assert.Equal(t, true, spec[bde.SpecCheckDB])
}

func TestFragmentationDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	params := qchem.InputParams{Rem: map[string]string{"scf_algorithm": "diis"}}
	_, err := bde.Fragmentation(water(t), 1,
		bde.WithInputParams(params),
		bde.WithPCMDielectric(10),
	)
	require.NoError(t, err)

	assert.Nil(t, params.PCMDielectric)
	assert.Len(t, params.Rem, 1)
}
