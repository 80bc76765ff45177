package fireworks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molverse/fragflow/pkg/fireworks"
)

func TestNewLinksDeclaredParents(t *testing.T) {
	t.Parallel()

	parent := newFirework("parent")
	child := newFirework("child", fireworks.WithParents(parent))

	wf, err := fireworks.New("wf", []*fireworks.Firework{parent, child})
	require.NoError(t, err)

	assert.Len(t, wf.Fireworks(), 2)
	assert.Equal(t, []string{child.ID()}, wf.Links()[parent.ID()])

	parents := wf.Parents(child.ID())
	require.Len(t, parents, 1)
	assert.Equal(t, parent.ID(), parents[0].ID())

	require.Len(t, wf.Roots(), 1)
	assert.Equal(t, parent.ID(), wf.Roots()[0].ID())
	require.Len(t, wf.Leaves(), 1)
	assert.Equal(t, child.ID(), wf.Leaves()[0].ID())
}

func TestNewNilFirework(t *testing.T) {
	t.Parallel()

	_, err := fireworks.New("wf", []*fireworks.Firework{nil})
	assert.ErrorIs(t, err, fireworks.ErrFireworkMustBeSet)
}

func TestAddLinkUnknownFirework(t *testing.T) {
	t.Parallel()

	fw := newFirework("only")
	wf, err := fireworks.New("wf", []*fireworks.Firework{fw})
	require.NoError(t, err)

	err = wf.AddLink(fw.ID(), "missing")
	assert.ErrorIs(t, err, fireworks.ErrUnknownFirework)
}

func TestAddLinkRejectsCycle(t *testing.T) {
	t.Parallel()

	first := newFirework("first")
	second := newFirework("second", fireworks.WithParents(first))

	wf, err := fireworks.New("wf", []*fireworks.Firework{first, second})
	require.NoError(t, err)

	err = wf.AddLink(second.ID(), first.ID())
	assert.ErrorIs(t, err, fireworks.ErrWorkflowCycle)
}

func TestAppendAddsChildren(t *testing.T) {
	t.Parallel()

	root := newFirework("root")
	wf, err := fireworks.New("wf", []*fireworks.Firework{root})
	require.NoError(t, err)

	added := newFirework("added")
	require.NoError(t, wf.Append(root.ID(), []*fireworks.Firework{added}))

	assert.Len(t, wf.Fireworks(), 2)
	children := wf.Children(root.ID())
	require.Len(t, children, 1)
	assert.Equal(t, added.ID(), children[0].ID())
}

func TestMetadataOptions(t *testing.T) {
	t.Parallel()

	wf, err := fireworks.New("wf", nil,
		fireworks.WithMetadata("owner", "bde"),
		fireworks.WithMetadataMap(map[string]any{"priority": 3}),
	)
	require.NoError(t, err)

	assert.Equal(t, "bde", wf.Metadata()["owner"])
	assert.Equal(t, 3, wf.Metadata()["priority"])
}

func TestFireworkSpec(t *testing.T) {
	t.Parallel()

	fw := newFirework("fw", fireworks.WithSpec("depth", 2))
	assert.Equal(t, 2, fw.Spec()["depth"])

	fw.UpdateSpec(fireworks.Spec{"depth": 3, "extra": true})
	assert.Equal(t, 3, fw.Spec()["depth"])
	assert.Equal(t, true, fw.Spec()["extra"])

	cp := fw.Spec().Copy()
	cp["depth"] = 9
	assert.Equal(t, 3, fw.Spec()["depth"])
}
