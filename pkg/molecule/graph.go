package molecule

import (
	"sort"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
)

// ErrRingBond reports a bond whose removal does not disconnect the molecule.
var ErrRingBond = errors.New("breaking bond does not disconnect the molecule")

// Graph returns the undirected bond graph of the molecule, with atom indices
// as vertices.
func (m *Molecule) Graph() (graph.Graph[int, int], error) {
	return m.graphWithout(Bond{U: -1, V: -1})
}

func (m *Molecule) graphWithout(skip Bond) (graph.Graph[int, int], error) {
	g := graph.New(graph.IntHash)
	for i := range m.Atoms {
		err := g.AddVertex(i)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to add atom %d", i)
		}
	}
	skip = skip.normalized()
	for _, b := range m.Bonds {
		if b.normalized() == skip {
			continue
		}
		err := g.AddEdge(b.U, b.V)
		if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return nil, errors.Wrapf(err, "unable to add bond %d-%d", b.U, b.V)
		}
	}

	return g, nil
}

// Connected reports whether every atom is reachable from every other one.
func (m *Molecule) Connected() (bool, error) {
	comps, err := m.components(Bond{U: -1, V: -1})
	if err != nil {
		return false, err
	}

	return len(comps) == 1, nil
}

// IsRingBond reports whether removing the bond keeps the molecule connected.
func (m *Molecule) IsRingBond(b Bond) (bool, error) {
	comps, err := m.components(b)
	if err != nil {
		return false, err
	}

	return len(comps) == 1, nil
}

// RingBonds lists every bond that is part of a ring.
func (m *Molecule) RingBonds() ([]Bond, error) {
	var rings []Bond
	for _, b := range m.Bonds {
		ring, err := m.IsRingBond(b)
		if err != nil {
			return nil, err
		}
		if ring {
			rings = append(rings, b)
		}
	}

	return rings, nil
}

// SplitBond breaks the given bond. When the bond is part of a ring the
// molecule stays connected: with openRings set the result is the single
// ring-opened molecule, otherwise ErrRingBond is returned. For an ordinary
// bond the result is the two disconnected fragments. Fragments inherit the
// parent charge and spin multiplicity.
func (m *Molecule) SplitBond(b Bond, openRings bool) ([]*Molecule, error) {
	comps, err := m.components(b)
	if err != nil {
		return nil, err
	}

	if len(comps) == 1 {
		if !openRings {
			return nil, errors.Wrapf(ErrRingBond, "bond %d-%d", b.U, b.V)
		}
		opened := m.Copy()
		opened.Bonds = removeBond(opened.Bonds, b)

		return []*Molecule{opened}, nil
	}

	frags := make([]*Molecule, 0, len(comps))
	for _, comp := range comps {
		frags = append(frags, m.subMolecule(comp, b))
	}

	return frags, nil
}

// components returns the connected components of the bond graph with the
// given bond excluded, each as a sorted list of atom indices.
func (m *Molecule) components(skip Bond) ([][]int, error) {
	g, err := m.graphWithout(skip)
	if err != nil {
		return nil, err
	}
	adjacency, err := g.AdjacencyMap()
	if err != nil {
		return nil, errors.Wrap(err, "unable to get adjacency map")
	}

	seen := make(map[int]bool, len(m.Atoms))
	var comps [][]int
	for start := range m.Atoms {
		if seen[start] {
			continue
		}
		var comp []int
		stack := []int{start}
		seen[start] = true
		for len(stack) > 0 {
			curr := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, curr)
			for next := range adjacency[curr] {
				if !seen[next] {
					seen[next] = true
					stack = append(stack, next)
				}
			}
		}
		sort.Ints(comp)
		comps = append(comps, comp)
	}

	return comps, nil
}

// subMolecule extracts the atoms at the given indices and every surviving
// bond between them, remapping atom indices to the new molecule.
func (m *Molecule) subMolecule(indices []int, skip Bond) *Molecule {
	remap := make(map[int]int, len(indices))
	atoms := make([]Atom, 0, len(indices))
	for i, idx := range indices {
		remap[idx] = i
		atoms = append(atoms, m.Atoms[idx])
	}

	skip = skip.normalized()
	var bonds []Bond
	for _, b := range m.Bonds {
		if b.normalized() == skip {
			continue
		}
		u, okU := remap[b.U]
		v, okV := remap[b.V]
		if okU && okV {
			bonds = append(bonds, Bond{U: u, V: v})
		}
	}

	return &Molecule{
		Atoms:            atoms,
		Bonds:            bonds,
		Charge:           m.Charge,
		SpinMultiplicity: m.SpinMultiplicity,
	}
}

func removeBond(bonds []Bond, b Bond) []Bond {
	b = b.normalized()
	out := make([]Bond, 0, len(bonds))
	for _, curr := range bonds {
		if curr.normalized() == b {
			continue
		}
		out = append(out, curr)
	}

	return out
}
