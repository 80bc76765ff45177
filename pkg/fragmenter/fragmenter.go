// Package fragmenter enumerates the unique sub-molecules obtained by
// iteratively breaking single bonds of a molecule.
package fragmenter

import (
	"github.com/pkg/errors"

	"github.com/molverse/fragflow/pkg/molecule"
)

var (
	ErrMoleculeMustBeSet = errors.New("molecule must be set")
	ErrNegativeDepth     = errors.New("depth must be zero or positive")
)

// Fragmenter breaks molecules into fragments level by level. Each level
// contains the fragments obtained by breaking one bond of a fragment one
// level up. A depth of zero enumerates fragments exhaustively instead,
// recursing until no new unique fragment appears.
type Fragmenter struct {
	depth     int
	openRings bool
}

type Option func(f *Fragmenter)

// KeepRingsClosed disables ring opening: bonds whose removal leaves the
// molecule connected are skipped instead of removed.
func KeepRingsClosed() Option {
	return func(f *Fragmenter) {
		f.openRings = false
	}
}

// New creates a fragmenter for the given depth. Rings are opened by default.
func New(depth int, opts ...Option) (*Fragmenter, error) {
	if depth < 0 {
		return nil, ErrNegativeDepth
	}
	f := &Fragmenter{
		depth:     depth,
		openRings: true,
	}
	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

// Fragment returns every unique fragment of the molecule, in discovery
// order. The molecule itself is not part of the result. Uniqueness is
// decided by the molecule fingerprint.
func (f *Fragmenter) Fragment(mol *molecule.Molecule) ([]*molecule.Molecule, error) {
	if mol == nil {
		return nil, ErrMoleculeMustBeSet
	}

	seen := map[string]bool{}
	var unique []*molecule.Molecule

	current := []*molecule.Molecule{mol}
	for level := 0; f.depth == 0 || level < f.depth; level++ {
		var next []*molecule.Molecule
		for _, curr := range current {
			frags, err := f.breakAllBonds(curr)
			if err != nil {
				return nil, err
			}
			for _, frag := range frags {
				key := frag.Fingerprint()
				if seen[key] {
					continue
				}
				seen[key] = true
				unique = append(unique, frag)
				next = append(next, frag)
			}
		}
		if len(next) == 0 {
			break
		}
		current = next
	}

	return unique, nil
}

// breakAllBonds breaks each bond of the molecule once and collects the
// resulting fragments.
func (f *Fragmenter) breakAllBonds(mol *molecule.Molecule) ([]*molecule.Molecule, error) {
	var frags []*molecule.Molecule
	for _, b := range mol.Bonds {
		split, err := mol.SplitBond(b, f.openRings)
		if errors.Is(err, molecule.ErrRingBond) {
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "unable to break bond %d-%d", b.U, b.V)
		}
		frags = append(frags, split...)
	}

	return frags, nil
}
