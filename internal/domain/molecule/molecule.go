// Package molecule provides the structure model consumed by the descriptor
// engine: atoms, bonds, optional 3D conformers, and the graph-level
// operations (fragments, rings, topological distances) that descriptor
// implementations build on.  Structures are immutable after parsing; derived
// forms such as explicit-hydrogen or kekulized copies are returned as new
// values.
package molecule

import (
	"math"

	"github.com/turtacn/MolDesc-Engine/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Core types
// ─────────────────────────────────────────────────────────────────────────────

// BondOrder classifies a bond.  Aromatic bonds carry a fractional formal
// order of 1.5 until kekulization resolves them to alternating single/double.
type BondOrder int

const (
	BondSingle   BondOrder = 1
	BondDouble   BondOrder = 2
	BondTriple   BondOrder = 3
	BondAromatic BondOrder = 4
)

// Value returns the formal bond order used in valence arithmetic.
func (o BondOrder) Value() float64 {
	if o == BondAromatic {
		return 1.5
	}
	return float64(o)
}

// Atom is a single atom within a Molecule.  Index is the atom's position in
// the molecule's atom slice and doubles as its graph vertex ID.
type Atom struct {
	Index        int
	Symbol       string
	AtomicNumber int
	Charge       int
	Isotope      int
	Aromatic     bool

	// ImplicitH is the number of hydrogens attached to this atom that are
	// not materialised as explicit Atom entries.
	ImplicitH int
}

// IsHeavy reports whether the atom is a non-hydrogen atom.
func (a Atom) IsHeavy() bool { return a.AtomicNumber > 1 }

// Bond connects the atoms at indices From and To.  From < To is not
// guaranteed; bonds are stored in input order.
type Bond struct {
	From, To int
	Order    BondOrder
}

// Conformer is a 3D coordinate set for a molecule.  A molecule may carry
// zero or more conformers; descriptors that need geometry select one by ID.
type Conformer struct {
	ID     int
	Coords [][3]float64
}

// Molecule is an immutable molecular graph with optional 3D conformers.
type Molecule struct {
	atoms      []Atom
	bonds      []Bond
	conformers []Conformer
	adjacency  [][]int
}

// newMolecule assembles a Molecule from parsed atoms and bonds and builds
// the adjacency index.
func newMolecule(atoms []Atom, bonds []Bond) *Molecule {
	m := &Molecule{atoms: atoms, bonds: bonds}
	m.adjacency = buildAdjacency(len(atoms), bonds)
	return m
}

func buildAdjacency(n int, bonds []Bond) [][]int {
	adj := make([][]int, n)
	for _, b := range bonds {
		adj[b.From] = append(adj[b.From], b.To)
		adj[b.To] = append(adj[b.To], b.From)
	}
	return adj
}

// ─────────────────────────────────────────────────────────────────────────────
// Basic accessors
// ─────────────────────────────────────────────────────────────────────────────

// NumAtoms returns the number of explicit atoms.
func (m *Molecule) NumAtoms() int { return len(m.atoms) }

// NumBonds returns the number of explicit bonds.
func (m *Molecule) NumBonds() int { return len(m.bonds) }

// Atom returns the atom at index i.
func (m *Molecule) Atom(i int) Atom { return m.atoms[i] }

// Atoms returns a copy of the atom slice.
func (m *Molecule) Atoms() []Atom {
	out := make([]Atom, len(m.atoms))
	copy(out, m.atoms)
	return out
}

// Bonds returns a copy of the bond slice.
func (m *Molecule) Bonds() []Bond {
	out := make([]Bond, len(m.bonds))
	copy(out, m.bonds)
	return out
}

// Neighbors returns the atom indices bonded to atom i.
func (m *Molecule) Neighbors(i int) []int {
	out := make([]int, len(m.adjacency[i]))
	copy(out, m.adjacency[i])
	return out
}

// Degree returns the number of explicit bonds incident on atom i.
func (m *Molecule) Degree(i int) int { return len(m.adjacency[i]) }

// HeavyAtomCount returns the number of non-hydrogen atoms.
func (m *Molecule) HeavyAtomCount() int {
	n := 0
	for _, a := range m.atoms {
		if a.IsHeavy() {
			n++
		}
	}
	return n
}

// TotalHydrogenCount returns the sum of explicit hydrogen atoms and implicit
// hydrogens attached to heavy atoms.
func (m *Molecule) TotalHydrogenCount() int {
	n := 0
	for _, a := range m.atoms {
		if a.AtomicNumber == 1 {
			n++
		}
		n += a.ImplicitH
	}
	return n
}

// MolecularWeight returns the standard molecular weight, counting implicit
// hydrogens.
func (m *Molecule) MolecularWeight() float64 {
	w := 0.0
	for _, a := range m.atoms {
		w += AtomicWeight(a.Symbol)
		w += float64(a.ImplicitH) * AtomicWeight("H")
	}
	return w
}

// ─────────────────────────────────────────────────────────────────────────────
// Graph operations
// ─────────────────────────────────────────────────────────────────────────────

// Fragments returns the connected components of the molecular graph as
// slices of atom indices, in order of the lowest atom index they contain.
func (m *Molecule) Fragments() [][]int {
	seen := make([]bool, len(m.atoms))
	var frags [][]int
	for start := range m.atoms {
		if seen[start] {
			continue
		}
		var comp []int
		queue := []int{start}
		seen[start] = true
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			comp = append(comp, v)
			for _, w := range m.adjacency[v] {
				if !seen[w] {
					seen[w] = true
					queue = append(queue, w)
				}
			}
		}
		frags = append(frags, comp)
	}
	return frags
}

// FragmentCount returns the number of connected components.
func (m *Molecule) FragmentCount() int { return len(m.Fragments()) }

// RingCount returns the cyclomatic number of the molecular graph, i.e. the
// number of independent rings.
func (m *Molecule) RingCount() int {
	return len(m.bonds) - len(m.atoms) + m.FragmentCount()
}

// AromaticRingCount returns the number of independent rings in the subgraph
// induced by aromatic bonds.
func (m *Molecule) AromaticRingCount() int {
	inSub := make(map[int]bool)
	var subBonds []Bond
	for _, b := range m.bonds {
		if b.Order == BondAromatic {
			subBonds = append(subBonds, b)
			inSub[b.From] = true
			inSub[b.To] = true
		}
	}
	if len(subBonds) == 0 {
		return 0
	}
	// Component count of the aromatic subgraph.
	adj := make(map[int][]int)
	for _, b := range subBonds {
		adj[b.From] = append(adj[b.From], b.To)
		adj[b.To] = append(adj[b.To], b.From)
	}
	seen := make(map[int]bool)
	components := 0
	for v := range inSub {
		if seen[v] {
			continue
		}
		components++
		queue := []int{v}
		seen[v] = true
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for _, w := range adj[u] {
				if !seen[w] {
					seen[w] = true
					queue = append(queue, w)
				}
			}
		}
	}
	return len(subBonds) - len(inSub) + components
}

// TopologicalDistances returns the all-pairs shortest-path matrix in bond
// counts.  Entries for atom pairs in different fragments are -1.
func (m *Molecule) TopologicalDistances() [][]int {
	n := len(m.atoms)
	dist := make([][]int, n)
	for i := range dist {
		row := make([]int, n)
		for j := range row {
			row[j] = -1
		}
		row[i] = 0
		queue := []int{i}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			for _, w := range m.adjacency[v] {
				if row[w] == -1 {
					row[w] = row[v] + 1
					queue = append(queue, w)
				}
			}
		}
		dist[i] = row
	}
	return dist
}

// ─────────────────────────────────────────────────────────────────────────────
// Conformers
// ─────────────────────────────────────────────────────────────────────────────

// AddConformer returns a copy of the molecule with the given conformer
// appended.  The coordinate count must match the atom count.
func (m *Molecule) AddConformer(c Conformer) (*Molecule, error) {
	if len(c.Coords) != len(m.atoms) {
		return nil, errors.InvalidParam("conformer coordinate count does not match atom count")
	}
	clone := m.clone()
	clone.conformers = append(clone.conformers, c)
	return clone, nil
}

// HasConformers reports whether any 3D coordinate set is attached.
func (m *Molecule) HasConformers() bool { return len(m.conformers) > 0 }

// Conformer returns the conformer with the given ID.  An ID of -1 selects
// the first conformer.  Returns a ConformerNotFound error when no matching
// conformer exists.
func (m *Molecule) Conformer(id int) (Conformer, error) {
	if len(m.conformers) == 0 {
		return Conformer{}, errors.ConformerNotFound(id)
	}
	if id == -1 {
		return m.conformers[0], nil
	}
	for _, c := range m.conformers {
		if c.ID == id {
			return c, nil
		}
	}
	return Conformer{}, errors.ConformerNotFound(id)
}

// Distance3D returns the Euclidean distance between atoms i and j in the
// given conformer.
func Distance3D(c Conformer, i, j int) float64 {
	dx := c.Coords[i][0] - c.Coords[j][0]
	dy := c.Coords[i][1] - c.Coords[j][1]
	dz := c.Coords[i][2] - c.Coords[j][2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// ─────────────────────────────────────────────────────────────────────────────
// Derived forms
// ─────────────────────────────────────────────────────────────────────────────

func (m *Molecule) clone() *Molecule {
	atoms := make([]Atom, len(m.atoms))
	copy(atoms, m.atoms)
	bonds := make([]Bond, len(m.bonds))
	copy(bonds, m.bonds)
	clone := newMolecule(atoms, bonds)
	clone.conformers = make([]Conformer, len(m.conformers))
	copy(clone.conformers, m.conformers)
	return clone
}

// WithExplicitHydrogens returns a copy in which every implicit hydrogen is
// materialised as an explicit H atom bonded by a single bond.  Conformers
// are dropped from the copy since they do not carry coordinates for the new
// atoms.
func (m *Molecule) WithExplicitHydrogens() *Molecule {
	atoms := make([]Atom, len(m.atoms))
	copy(atoms, m.atoms)
	bonds := make([]Bond, len(m.bonds))
	copy(bonds, m.bonds)

	for i := range atoms {
		h := atoms[i].ImplicitH
		atoms[i].ImplicitH = 0
		for k := 0; k < h; k++ {
			idx := len(atoms)
			atoms = append(atoms, Atom{
				Index:        idx,
				Symbol:       "H",
				AtomicNumber: 1,
			})
			bonds = append(bonds, Bond{From: i, To: idx, Order: BondSingle})
		}
	}
	return newMolecule(atoms, bonds)
}
