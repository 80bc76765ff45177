package molecule

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNoAtoms        = errors.New("molecule must contain at least one atom")
	ErrBondOutOfRange = errors.New("bond references an atom index outside the molecule")
)

// Atom is a single site: an element symbol and cartesian coordinates in
// angstroms. Coordinates may be zero-valued when only connectivity matters.
type Atom struct {
	Symbol  string
	X, Y, Z float64
}

// Bond connects the atoms at indices U and V.
type Bond struct {
	U, V int
}

func (b Bond) normalized() Bond {
	if b.U > b.V {
		return Bond{U: b.V, V: b.U}
	}
	return b
}

// Molecule is a charged collection of atoms and the bonds between them.
// The zero SpinMultiplicity is treated as a singlet.
type Molecule struct {
	Atoms            []Atom
	Bonds            []Bond
	Charge           int
	SpinMultiplicity int
}

// New builds a molecule and validates its bond indices.
func New(atoms []Atom, bonds []Bond, charge int) (*Molecule, error) {
	if len(atoms) == 0 {
		return nil, ErrNoAtoms
	}
	for _, b := range bonds {
		if b.U < 0 || b.U >= len(atoms) || b.V < 0 || b.V >= len(atoms) {
			return nil, errors.Wrapf(ErrBondOutOfRange, "bond %d-%d with %d atoms", b.U, b.V, len(atoms))
		}
	}

	return &Molecule{
		Atoms:            append([]Atom(nil), atoms...),
		Bonds:            append([]Bond(nil), bonds...),
		Charge:           charge,
		SpinMultiplicity: 1,
	}, nil
}

// Copy returns a deep copy of the molecule.
func (m *Molecule) Copy() *Molecule {
	cp := &Molecule{
		Atoms:            append([]Atom(nil), m.Atoms...),
		Bonds:            append([]Bond(nil), m.Bonds...),
		Charge:           m.Charge,
		SpinMultiplicity: m.SpinMultiplicity,
	}

	return cp
}

// Composition counts the elements in the molecule.
func (m *Molecule) Composition() Composition {
	comp := Composition{}
	for _, a := range m.Atoms {
		comp[a.Symbol]++
	}

	return comp
}

// Fingerprint is a canonical identity for deduplication: element counts,
// the multiset of bonded element pairs and the charge. Two molecules with
// the same fingerprint are treated as equivalent structures.
func (m *Molecule) Fingerprint() string {
	pairs := make([]string, 0, len(m.Bonds))
	for _, b := range m.Bonds {
		u, v := m.Atoms[b.U].Symbol, m.Atoms[b.V].Symbol
		if u > v {
			u, v = v, u
		}
		pairs = append(pairs, u+"-"+v)
	}
	sort.Strings(pairs)

	var sb strings.Builder
	sb.WriteString(m.Composition().Formula())
	sb.WriteString("|")
	sb.WriteString(strings.Join(pairs, ","))
	fmt.Fprintf(&sb, "|q=%d", m.Charge)

	return sb.String()
}
