package molecule

import (
	"fmt"
	"sort"

	"github.com/turtacn/MolDesc-Engine/pkg/errors"
)

// Kekulized returns a copy of the molecule in which every aromatic bond has
// been resolved to an alternating single/double pattern and aromatic flags
// are cleared.  Molecules without aromatic bonds are returned unchanged
// (as a copy).
//
// The assignment treats each aromatic atom as either requiring exactly one
// double bond (pi-electron contributor, e.g. aromatic carbon or pyridine
// nitrogen) or requiring none (lone-pair contributor, e.g. pyrrole nitrogen,
// furan oxygen).  A perfect matching over the double-bond-requiring atoms is
// searched with backtracking; if none exists the aromatic system cannot be
// kekulized and an error with code MOL_002 is returned.
func (m *Molecule) Kekulized() (*Molecule, error) {
	var aromaticBonds []int
	for i, b := range m.bonds {
		if b.Order == BondAromatic {
			aromaticBonds = append(aromaticBonds, i)
		}
	}
	if len(aromaticBonds) == 0 {
		return m.clone(), nil
	}

	needs := make(map[int]bool)
	for _, bi := range aromaticBonds {
		for _, ai := range []int{m.bonds[bi].From, m.bonds[bi].To} {
			if _, seen := needs[ai]; !seen {
				needs[ai] = m.needsDoubleBond(ai)
			}
		}
	}

	// Adjacency restricted to aromatic bonds between double-requiring atoms.
	adj := make(map[int][]int)
	for _, bi := range aromaticBonds {
		b := m.bonds[bi]
		if needs[b.From] && needs[b.To] {
			adj[b.From] = append(adj[b.From], b.To)
			adj[b.To] = append(adj[b.To], b.From)
		}
	}

	var unmatched []int
	for ai, need := range needs {
		if need {
			unmatched = append(unmatched, ai)
		}
	}
	sort.Ints(unmatched)

	match := make(map[int]int)
	if !matchDoubles(unmatched, adj, match) {
		return nil, errors.KekulizationFailed("no alternating bond assignment exists for aromatic system").
			WithDetail(fmt.Sprintf("aromatic_bonds=%d", len(aromaticBonds)))
	}

	clone := m.clone()
	for _, bi := range aromaticBonds {
		b := &clone.bonds[bi]
		if match[b.From] == b.To && match[b.To] == b.From {
			b.Order = BondDouble
		} else {
			b.Order = BondSingle
		}
	}
	// A matched pair shares exactly one bond in simple aromatic systems, but
	// guard against assigning the same pair twice via a fused duplicate edge.
	assigned := make(map[int]bool)
	for bi := range clone.bonds {
		b := &clone.bonds[bi]
		if b.Order == BondDouble {
			if assigned[b.From] || assigned[b.To] {
				b.Order = BondSingle
				continue
			}
			assigned[b.From], assigned[b.To] = true, true
		}
	}
	for ai := range needs {
		clone.atoms[ai].Aromatic = false
	}
	return clone, nil
}

// needsDoubleBond classifies an aromatic atom as a pi-bond contributor
// (true) or a lone-pair contributor (false).
func (m *Molecule) needsDoubleBond(i int) bool {
	a := m.atoms[i]
	switch a.Symbol {
	case "C":
		return true
	case "N", "P":
		// Two-coordinate neutral N (pyridine-type) contributes a pi bond;
		// three-coordinate neutral N (pyrrole-type) contributes a lone pair.
		// A protonated two-coordinate N (pyridinium) still takes the pi bond.
		connections := m.Degree(i) + a.ImplicitH
		if a.Charge > 0 {
			return connections <= 3
		}
		return connections == 2
	case "O", "S", "Se":
		return a.Charge > 0
	default:
		return false
	}
}

// matchDoubles searches for a perfect matching over atoms, using backtracking.
// match is mutated in place; it maps each matched atom to its partner.
func matchDoubles(atoms []int, adj map[int][]int, match map[int]int) bool {
	// Find the first unmatched atom.
	var v = -1
	for _, a := range atoms {
		if _, ok := match[a]; !ok {
			v = a
			break
		}
	}
	if v == -1 {
		return true
	}
	for _, w := range adj[v] {
		if _, ok := match[w]; ok {
			continue
		}
		match[v], match[w] = w, v
		if matchDoubles(atoms, adj, match) {
			return true
		}
		delete(match, v)
		delete(match, w)
	}
	return false
}
