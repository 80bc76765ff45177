package bde_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molverse/fragflow/internal/launcher"
	"github.com/molverse/fragflow/pkg/bde"
	"github.com/molverse/fragflow/pkg/calcdb"
	"github.com/molverse/fragflow/pkg/fireworks"
	"github.com/molverse/fragflow/pkg/qchem"
)

// Launches a full fragmentation workflow for water against a canned output:
// the optimize firework relaxes the molecule, the fragment firework grows
// the workflow with one optimize firework per unique fragment.
func TestFragmentationLaunch(t *testing.T) {
	t.Parallel()

	store := calcdb.NewMemoryStore()
	mol := water(t)

	wf, err := bde.Fragmentation(mol, 1,
		bde.WithRunner(qchem.FileRunner{OutputFixture: writeFixture(t)}),
		bde.WithStore(store),
	)
	require.NoError(t, err)

	worker := &fireworks.Worker{
		Name: "test",
		Env: map[string]string{
			"qchem_cmd": "qchem",
			"max_cores": "2",
		},
	}

	l, err := launcher.New(wf, launcher.WithWorker(worker), launcher.WithMaxConcurrent(2))
	require.NoError(t, err)
	require.NoError(t, l.Run(context.Background()))

	// Water plus its two unique fragments, OH and H.
	fws := wf.Fireworks()
	require.Len(t, fws, 4)
	for _, fw := range fws {
		assert.Equal(t, fireworks.StateCompleted, fw.State(), fw.Name())
	}

	_, found, err := store.FindByKey(mol.Fingerprint())
	require.NoError(t, err)
	assert.True(t, found)

	frags, err := mol.SplitBond(mol.Bonds[0], true)
	require.NoError(t, err)
	for _, frag := range frags {
		_, found, err := store.FindByKey(frag.Fingerprint())
		require.NoError(t, err)
		assert.True(t, found, frag.Composition().Formula())
	}
}

// With optimization skipped the single fragment firework still grows the
// workflow, without touching the given geometry.
func TestFragmentationLaunchSkipOptimization(t *testing.T) {
	t.Parallel()

	store := calcdb.NewMemoryStore()

	wf, err := bde.Fragmentation(water(t), 1,
		bde.SkipOptimization(),
		bde.WithRunner(qchem.FileRunner{OutputFixture: writeFixture(t)}),
		bde.WithStore(store),
	)
	require.NoError(t, err)

	worker := &fireworks.Worker{Env: map[string]string{
		"qchem_cmd": "qchem",
		"max_cores": "2",
	}}

	l, err := launcher.New(wf, launcher.WithWorker(worker))
	require.NoError(t, err)
	require.NoError(t, l.Run(context.Background()))

	require.Len(t, wf.Fireworks(), 3)
	for _, fw := range wf.Fireworks() {
		assert.Equal(t, fireworks.StateCompleted, fw.State(), fw.Name())
	}
}
