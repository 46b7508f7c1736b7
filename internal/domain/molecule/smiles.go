package molecule

import (
	"fmt"
	"math"

	"github.com/turtacn/MolDesc-Engine/pkg/errors"
)

// ParseSMILES parses a SMILES string into a Molecule.  The supported subset
// covers the organic subset atoms (B, C, N, O, P, S, F, Cl, Br, I), aromatic
// lowercase forms, bracket atoms with isotope, chirality markers, hydrogen
// count and charge, branches, ring-closure digits (including %nn), explicit
// bond symbols, and dot-separated fragments.
//
// Implicit hydrogens are inferred for organic-subset atoms from the default
// valence model; bracket atoms carry only the hydrogen count written in the
// brackets.  Stereo markers (/, \, @) are accepted but not retained.
func ParseSMILES(smiles string) (*Molecule, error) {
	if smiles == "" {
		return nil, errors.InvalidSMILES("empty SMILES string")
	}

	p := &smilesParser{input: smiles, prev: -1}
	if err := p.run(); err != nil {
		return nil, err
	}

	mol := newMolecule(p.atoms, p.bonds)
	assignImplicitHydrogens(mol, p.fromBracket)
	return mol, nil
}

// MustParseSMILES is a test helper that panics on parse failure.
func MustParseSMILES(smiles string) *Molecule {
	mol, err := ParseSMILES(smiles)
	if err != nil {
		panic(err)
	}
	return mol
}

// ─────────────────────────────────────────────────────────────────────────────
// Parser state machine
// ─────────────────────────────────────────────────────────────────────────────

type ringRef struct {
	atom int
	bond BondOrder // 0 when no explicit bond symbol preceded the digit
}

type smilesParser struct {
	input string
	pos   int

	atoms       []Atom
	bonds       []Bond
	fromBracket []bool

	prev        int
	pendingBond BondOrder
	branchStack []int
	ringOpen    map[int]ringRef
}

func (p *smilesParser) fail(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	return errors.InvalidSMILES(msg).
		WithDetail(fmt.Sprintf("smiles=%q pos=%d", p.input, p.pos))
}

func (p *smilesParser) run() error {
	p.ringOpen = make(map[int]ringRef)

	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		switch {
		case ch == '(':
			if p.prev < 0 {
				return p.fail("branch opened before any atom")
			}
			p.branchStack = append(p.branchStack, p.prev)
			p.pos++

		case ch == ')':
			if len(p.branchStack) == 0 {
				return p.fail("unmatched closing parenthesis")
			}
			p.prev = p.branchStack[len(p.branchStack)-1]
			p.branchStack = p.branchStack[:len(p.branchStack)-1]
			p.pos++

		case ch == '-' || ch == '/' || ch == '\\':
			p.pendingBond = BondSingle
			p.pos++

		case ch == '=':
			p.pendingBond = BondDouble
			p.pos++

		case ch == '#':
			p.pendingBond = BondTriple
			p.pos++

		case ch == ':':
			p.pendingBond = BondAromatic
			p.pos++

		case ch == '.':
			if p.pendingBond != 0 {
				return p.fail("bond symbol before fragment separator")
			}
			p.prev = -1
			p.pos++

		case ch >= '0' && ch <= '9':
			if err := p.closeRing(int(ch - '0')); err != nil {
				return err
			}
			p.pos++

		case ch == '%':
			if p.pos+2 >= len(p.input) ||
				!isDigit(p.input[p.pos+1]) || !isDigit(p.input[p.pos+2]) {
				return p.fail("%% must be followed by two digits")
			}
			n := int(p.input[p.pos+1]-'0')*10 + int(p.input[p.pos+2]-'0')
			if err := p.closeRing(n); err != nil {
				return err
			}
			p.pos += 3

		case ch == '[':
			atom, isBracket, err := p.parseBracketAtom()
			if err != nil {
				return err
			}
			p.addAtom(atom, isBracket)

		case isLetter(ch):
			atom, err := p.parseOrganicAtom()
			if err != nil {
				return err
			}
			p.addAtom(atom, false)

		default:
			return p.fail("unexpected character %q", ch)
		}
	}

	if len(p.branchStack) != 0 {
		return p.fail("unclosed branch")
	}
	if len(p.ringOpen) != 0 {
		return p.fail("unmatched ring-closure digit")
	}
	if p.pendingBond != 0 {
		return p.fail("dangling bond symbol")
	}
	if len(p.atoms) == 0 {
		return p.fail("no atoms")
	}
	return nil
}

func (p *smilesParser) addAtom(atom Atom, fromBracket bool) {
	atom.Index = len(p.atoms)
	p.atoms = append(p.atoms, atom)
	p.fromBracket = append(p.fromBracket, fromBracket)

	if p.prev >= 0 {
		order := p.pendingBond
		if order == 0 {
			if p.atoms[p.prev].Aromatic && atom.Aromatic {
				order = BondAromatic
			} else {
				order = BondSingle
			}
		}
		p.bonds = append(p.bonds, Bond{From: p.prev, To: atom.Index, Order: order})
	}
	p.pendingBond = 0
	p.prev = atom.Index
}

func (p *smilesParser) closeRing(n int) error {
	if p.prev < 0 {
		return p.fail("ring-closure digit before any atom")
	}
	open, ok := p.ringOpen[n]
	if !ok {
		p.ringOpen[n] = ringRef{atom: p.prev, bond: p.pendingBond}
		p.pendingBond = 0
		return nil
	}
	delete(p.ringOpen, n)

	order := p.pendingBond
	if order == 0 {
		order = open.bond
	}
	if order == 0 {
		if p.atoms[open.atom].Aromatic && p.atoms[p.prev].Aromatic {
			order = BondAromatic
		} else {
			order = BondSingle
		}
	}
	if open.atom == p.prev {
		return p.fail("ring bond connects atom to itself")
	}
	p.bonds = append(p.bonds, Bond{From: open.atom, To: p.prev, Order: order})
	p.pendingBond = 0
	return nil
}

// parseOrganicAtom consumes an unbracketed organic-subset atom at p.pos.
func (p *smilesParser) parseOrganicAtom() (Atom, error) {
	// Two-letter halogens first.
	if p.pos+1 < len(p.input) {
		two := p.input[p.pos : p.pos+2]
		if two == "Cl" || two == "Br" {
			p.pos += 2
			return Atom{Symbol: two, AtomicNumber: elements[two].AtomicNumber}, nil
		}
	}
	raw := string(p.input[p.pos])
	symbol, aromatic, ok := normalizeSymbol(raw)
	if !ok || !organicSubset[symbol] {
		return Atom{}, p.fail("unknown atom symbol %q outside brackets", raw)
	}
	p.pos++
	return Atom{
		Symbol:       symbol,
		AtomicNumber: elements[symbol].AtomicNumber,
		Aromatic:     aromatic,
	}, nil
}

// parseBracketAtom consumes a bracket atom expression starting at '['.
func (p *smilesParser) parseBracketAtom() (Atom, bool, error) {
	start := p.pos
	end := -1
	for i := p.pos + 1; i < len(p.input); i++ {
		if p.input[i] == ']' {
			end = i
			break
		}
	}
	if end < 0 {
		return Atom{}, false, p.fail("unclosed bracket atom")
	}
	body := p.input[start+1 : end]
	p.pos = end + 1

	i := 0
	atom := Atom{}

	// Optional isotope.
	for i < len(body) && isDigit(body[i]) {
		atom.Isotope = atom.Isotope*10 + int(body[i]-'0')
		i++
	}

	// Element symbol: try two letters, then one.
	if i >= len(body) {
		return Atom{}, false, p.fail("bracket atom missing element symbol")
	}
	var raw string
	if i+1 < len(body) && isLowerLetter(body[i+1]) && body[i] != 'H' {
		if sym, arom, ok := normalizeSymbol(body[i : i+2]); ok {
			raw = body[i : i+2]
			atom.Symbol, atom.Aromatic = sym, arom
			i += 2
		}
	}
	if raw == "" {
		sym, arom, ok := normalizeSymbol(string(body[i]))
		if !ok {
			return Atom{}, false, p.fail("unknown element %q in bracket atom", string(body[i]))
		}
		atom.Symbol, atom.Aromatic = sym, arom
		i++
	}
	atom.AtomicNumber = elements[atom.Symbol].AtomicNumber

	// Optional chirality markers (ignored).
	for i < len(body) && body[i] == '@' {
		i++
	}

	// Optional hydrogen count.
	if i < len(body) && body[i] == 'H' {
		i++
		if i < len(body) && isDigit(body[i]) {
			n := 0
			for i < len(body) && isDigit(body[i]) {
				n = n*10 + int(body[i]-'0')
				i++
			}
			atom.ImplicitH = n
		} else {
			atom.ImplicitH = 1
		}
	}

	// Optional charge.
	for i < len(body) && (body[i] == '+' || body[i] == '-') {
		sign := 1
		if body[i] == '-' {
			sign = -1
		}
		i++
		if i < len(body) && isDigit(body[i]) {
			n := 0
			for i < len(body) && isDigit(body[i]) {
				n = n*10 + int(body[i]-'0')
				i++
			}
			atom.Charge += sign * n
		} else {
			atom.Charge += sign
		}
	}

	// Optional atom-class tag (ignored).
	if i < len(body) && body[i] == ':' {
		i++
		for i < len(body) && isDigit(body[i]) {
			i++
		}
	}

	if i != len(body) {
		return Atom{}, false, p.fail("trailing characters %q in bracket atom", body[i:])
	}
	return atom, true, nil
}

func isDigit(c byte) bool       { return c >= '0' && c <= '9' }
func isLetter(c byte) bool      { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isLowerLetter(c byte) bool { return c >= 'a' && c <= 'z' }

// ─────────────────────────────────────────────────────────────────────────────
// Implicit hydrogen inference
// ─────────────────────────────────────────────────────────────────────────────

// assignImplicitHydrogens fills ImplicitH on organic-subset atoms that were
// written without brackets.  The bond-order sum counts aromatic bonds at 1.5
// and is rounded up before matching against the element's default valences;
// if no valence accommodates the bond sum, the atom gets zero hydrogens.
func assignImplicitHydrogens(m *Molecule, fromBracket []bool) {
	sums := make([]float64, len(m.atoms))
	for _, b := range m.bonds {
		sums[b.From] += b.Order.Value()
		sums[b.To] += b.Order.Value()
	}
	for i := range m.atoms {
		if fromBracket[i] {
			continue
		}
		info := elements[m.atoms[i].Symbol]
		need := int(math.Ceil(sums[i]))
		for _, v := range info.Valences {
			if v >= need {
				m.atoms[i].ImplicitH = v - need
				break
			}
		}
	}
}
