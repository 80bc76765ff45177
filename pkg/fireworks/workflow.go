package fireworks

import (
	"sort"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/molverse/fragflow/internal/store"
)

// Workflow is a directed acyclic graph of fireworks. Edges point from parent
// to child; a child only becomes ready once every parent completed.
type Workflow struct {
	name     string
	metadata map[string]any

	fws   map[string]*Firework
	order []string

	graph graph.Graph[string, string]
	store store.CustomStore[string, string]
}

// New assembles a workflow from fireworks. Parent links declared on the
// fireworks (WithParents) become edges.
func New(name string, fws []*Firework, opts ...WorkflowOption) (*Workflow, error) {
	st := store.NewMemoryStore[string, string]()
	wf := &Workflow{
		name:     name,
		metadata: map[string]any{},
		fws:      map[string]*Firework{},
		graph:    graph.NewWithStore[string, string](graph.StringHash, st, graph.Directed()),
		store:    st,
	}
	for _, opt := range opts {
		opt(wf)
	}

	for _, fw := range fws {
		err := wf.AddFirework(fw)
		if err != nil {
			return nil, err
		}
	}
	for _, fw := range fws {
		for _, parent := range fw.ParentIDs() {
			err := wf.AddLink(parent, fw.ID())
			if err != nil {
				return nil, err
			}
		}
	}

	return wf, nil
}

func (wf *Workflow) Name() string { return wf.name }

// Metadata returns the free-form values attached to the workflow.
func (wf *Workflow) Metadata() map[string]any { return wf.metadata }

// AddFirework registers a firework without linking it.
func (wf *Workflow) AddFirework(fw *Firework) error {
	if fw == nil {
		return ErrFireworkMustBeSet
	}
	err := wf.graph.AddVertex(fw.ID())
	if err != nil {
		return errors.Wrapf(err, "unable to add firework %s", fw.Name())
	}
	wf.fws[fw.ID()] = fw
	wf.order = append(wf.order, fw.ID())

	return nil
}

// AddLink makes parentID a dependency of childID.
func (wf *Workflow) AddLink(parentID, childID string) error {
	if _, ok := wf.fws[parentID]; !ok {
		return errors.Wrap(ErrUnknownFirework, parentID)
	}
	if _, ok := wf.fws[childID]; !ok {
		return errors.Wrap(ErrUnknownFirework, childID)
	}
	cycle, err := wf.store.CreatesCycle(parentID, childID)
	if err != nil {
		return errors.Wrap(err, "unable to check for cycle")
	}
	if cycle {
		return errors.Wrapf(ErrWorkflowCycle, "link %s -> %s", parentID, childID)
	}
	err = wf.graph.AddEdge(parentID, childID)
	if err != nil {
		return errors.Wrapf(err, "unable to link %s -> %s", parentID, childID)
	}

	return nil
}

// Append adds dynamically created fireworks as children of the given parent.
// Extra parents declared on the additions are honoured too.
func (wf *Workflow) Append(parentID string, additions []*Firework) error {
	for _, fw := range additions {
		err := wf.AddFirework(fw)
		if err != nil {
			return err
		}
	}
	for _, fw := range additions {
		err := wf.AddLink(parentID, fw.ID())
		if err != nil {
			return err
		}
		for _, extra := range fw.ParentIDs() {
			if extra == parentID {
				continue
			}
			err := wf.AddLink(extra, fw.ID())
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// Firework returns a firework by ID.
func (wf *Workflow) Firework(id string) (*Firework, error) {
	fw, ok := wf.fws[id]
	if !ok {
		return nil, errors.Wrap(ErrUnknownFirework, id)
	}

	return fw, nil
}

// Fireworks lists every firework in insertion order.
func (wf *Workflow) Fireworks() []*Firework {
	fws := make([]*Firework, 0, len(wf.order))
	for _, id := range wf.order {
		fws = append(fws, wf.fws[id])
	}

	return fws
}

// Links returns the parent -> children adjacency by firework ID. Children
// are sorted for stable iteration.
func (wf *Workflow) Links() map[string][]string {
	links := make(map[string][]string, len(wf.order))
	for _, id := range wf.order {
		children := wf.store.Successors(id)
		sort.Strings(children)
		links[id] = children
	}

	return links
}

// Parents lists the fireworks the given one depends on.
func (wf *Workflow) Parents(id string) []*Firework {
	return wf.collect(wf.store.Predecessors(id))
}

// Children lists the fireworks depending on the given one.
func (wf *Workflow) Children(id string) []*Firework {
	return wf.collect(wf.store.Successors(id))
}

// Roots lists the fireworks with no parents.
func (wf *Workflow) Roots() []*Firework {
	var roots []*Firework
	for _, id := range wf.order {
		if len(wf.store.Predecessors(id)) == 0 {
			roots = append(roots, wf.fws[id])
		}
	}

	return roots
}

// Leaves lists the fireworks with no children.
func (wf *Workflow) Leaves() []*Firework {
	var leaves []*Firework
	for _, id := range wf.order {
		if len(wf.store.Successors(id)) == 0 {
			leaves = append(leaves, wf.fws[id])
		}
	}

	return leaves
}

func (wf *Workflow) collect(ids []string) []*Firework {
	sort.Strings(ids)
	fws := make([]*Firework, 0, len(ids))
	for _, id := range ids {
		if fw, ok := wf.fws[id]; ok {
			fws = append(fws, fw)
		}
	}

	return fws
}
