// Package preset provides the standard descriptor set shipped with the
// engine: constitutional counts, ring statistics, simple physicochemical
// estimates, a topological index, and one geometric descriptor.  All units
// are stateless values; register the whole set with All or pick individual
// units.
//
// The physicochemical estimates (LogP, TPSA) use deliberately small additive
// contribution tables; they are order-of-magnitude screens, not replacements
// for a full cheminformatics toolkit.
package preset

import (
	"math"

	"github.com/turtacn/MolDesc-Engine/internal/domain/descriptor"
	"github.com/turtacn/MolDesc-Engine/internal/domain/molecule"
	"github.com/turtacn/MolDesc-Engine/pkg/errors"
)

// All returns the standard descriptor set in its canonical column order.
func All() []descriptor.Descriptor {
	return []descriptor.Descriptor{
		AtomCount{},
		HeavyAtomCount{},
		BondCount{},
		MolecularWeight{},
		RingCount{},
		AromaticRingCount{},
		KekuleDoubleBondCount{},
		HBondDonors{},
		HBondAcceptors{},
		LogP{},
		TPSA{},
		LipinskiViolations{},
		WienerIndex{},
		RadiusOfGyration{},
	}
}

// All2D returns the standard set without descriptors that need 3D
// coordinates; convenient for callers that always register with Ignore3D.
func All2D() []descriptor.Descriptor {
	var out []descriptor.Descriptor
	for _, d := range All() {
		if !d.Requires3D() {
			out = append(out, d)
		}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Constitutional counts
// ─────────────────────────────────────────────────────────────────────────────

// AtomCount counts all atoms including implicit hydrogens.
type AtomCount struct{ descriptor.Base }

func (AtomCount) Name() string       { return "nAtom" }
func (AtomCount) ResultType() string { return "int" }

func (AtomCount) Calculate(ctx *descriptor.EvaluationContext, _ map[string]descriptor.Result) (interface{}, error) {
	m := ctx.RawMolecule()
	return m.HeavyAtomCount() + m.TotalHydrogenCount(), nil
}

// HeavyAtomCount counts non-hydrogen atoms.
type HeavyAtomCount struct{ descriptor.Base }

func (HeavyAtomCount) Name() string       { return "nHeavyAtom" }
func (HeavyAtomCount) ResultType() string { return "int" }

func (HeavyAtomCount) Calculate(ctx *descriptor.EvaluationContext, _ map[string]descriptor.Result) (interface{}, error) {
	return ctx.RawMolecule().HeavyAtomCount(), nil
}

// BondCount counts explicit bonds between heavy atoms.
type BondCount struct{ descriptor.Base }

func (BondCount) Name() string       { return "nBond" }
func (BondCount) ResultType() string { return "int" }

func (BondCount) Calculate(ctx *descriptor.EvaluationContext, _ map[string]descriptor.Result) (interface{}, error) {
	n := 0
	m := ctx.RawMolecule()
	for _, b := range m.Bonds() {
		if m.Atom(b.From).IsHeavy() && m.Atom(b.To).IsHeavy() {
			n++
		}
	}
	return n, nil
}

// MolecularWeight is the standard molecular weight including implicit
// hydrogens.
type MolecularWeight struct{ descriptor.Base }

func (MolecularWeight) Name() string       { return "MW" }
func (MolecularWeight) ResultType() string { return "float64" }

func (MolecularWeight) Calculate(ctx *descriptor.EvaluationContext, _ map[string]descriptor.Result) (interface{}, error) {
	return ctx.RawMolecule().MolecularWeight(), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Ring statistics
// ─────────────────────────────────────────────────────────────────────────────

// RingCount is the cyclomatic ring count.  It is declared Missing for
// acyclic structures rather than reporting zero, so consumers can tell
// "no rings exist" apart from "a ring statistic of zero".
type RingCount struct{ descriptor.Base }

func (RingCount) Name() string       { return "nRing" }
func (RingCount) ResultType() string { return "int" }

func (RingCount) Calculate(ctx *descriptor.EvaluationContext, _ map[string]descriptor.Result) (interface{}, error) {
	n := ctx.RawMolecule().RingCount()
	if n == 0 {
		return nil, errors.MissingValue("ring count undefined for acyclic structure")
	}
	return n, nil
}

// AromaticRingCount counts independent rings in the aromatic-bond subgraph.
type AromaticRingCount struct{ descriptor.Base }

func (AromaticRingCount) Name() string       { return "nAromRing" }
func (AromaticRingCount) ResultType() string { return "int" }

func (AromaticRingCount) Calculate(ctx *descriptor.EvaluationContext, _ map[string]descriptor.Result) (interface{}, error) {
	return ctx.RawMolecule().AromaticRingCount(), nil
}

// KekuleDoubleBondCount counts formal double bonds in the kekulized form,
// exercising the kekulization preparation requirement.
type KekuleDoubleBondCount struct{ descriptor.Base }

func (KekuleDoubleBondCount) Name() string            { return "nDoubleBondK" }
func (KekuleDoubleBondCount) RequiresKekulized() bool { return true }
func (KekuleDoubleBondCount) ResultType() string      { return "int" }

func (KekuleDoubleBondCount) Calculate(ctx *descriptor.EvaluationContext, _ map[string]descriptor.Result) (interface{}, error) {
	n := 0
	for _, b := range ctx.Molecule().Bonds() {
		if b.Order == molecule.BondDouble {
			n++
		}
	}
	return n, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Hydrogen bonding
// ─────────────────────────────────────────────────────────────────────────────

// attachedHydrogens counts implicit plus explicit hydrogens on atom i.
func attachedHydrogens(m *molecule.Molecule, i int) int {
	n := m.Atom(i).ImplicitH
	for _, j := range m.Neighbors(i) {
		if m.Atom(j).AtomicNumber == 1 {
			n++
		}
	}
	return n
}

// HBondDonors counts nitrogen and oxygen atoms bearing at least one
// hydrogen.
type HBondDonors struct{ descriptor.Base }

func (HBondDonors) Name() string       { return "nHBDon" }
func (HBondDonors) ResultType() string { return "int" }

func (HBondDonors) Calculate(ctx *descriptor.EvaluationContext, _ map[string]descriptor.Result) (interface{}, error) {
	m := ctx.RawMolecule()
	n := 0
	for _, a := range m.Atoms() {
		if (a.Symbol == "N" || a.Symbol == "O") && attachedHydrogens(m, a.Index) > 0 {
			n++
		}
	}
	return n, nil
}

// HBondAcceptors counts nitrogen and oxygen atoms.
type HBondAcceptors struct{ descriptor.Base }

func (HBondAcceptors) Name() string       { return "nHBAcc" }
func (HBondAcceptors) ResultType() string { return "int" }

func (HBondAcceptors) Calculate(ctx *descriptor.EvaluationContext, _ map[string]descriptor.Result) (interface{}, error) {
	n := 0
	for _, a := range ctx.RawMolecule().Atoms() {
		if a.Symbol == "N" || a.Symbol == "O" {
			n++
		}
	}
	return n, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Physicochemical estimates
// ─────────────────────────────────────────────────────────────────────────────

// logPContribution is a coarse per-atom additive lipophilicity table.
var logPContribution = map[string]float64{
	"C": 0.20, "N": -0.50, "O": -0.40, "S": 0.40, "P": -0.30,
	"F": 0.20, "Cl": 0.60, "Br": 0.75, "I": 0.90, "B": 0.10,
}

// LogP is an additive atom-contribution lipophilicity estimate.  Aromatic
// carbons contribute more than aliphatic ones.
type LogP struct{ descriptor.Base }

func (LogP) Name() string       { return "SLogP" }
func (LogP) ResultType() string { return "float64" }

func (LogP) Calculate(ctx *descriptor.EvaluationContext, _ map[string]descriptor.Result) (interface{}, error) {
	total := 0.0
	for _, a := range ctx.RawMolecule().Atoms() {
		c, ok := logPContribution[a.Symbol]
		if !ok {
			continue
		}
		if a.Symbol == "C" && a.Aromatic {
			c = 0.30
		}
		total += c
	}
	return total, nil
}

// TPSA is a reduced topological polar surface area estimate using
// per-heteroatom contributions distinguished by attached hydrogens.
type TPSA struct{ descriptor.Base }

func (TPSA) Name() string       { return "TPSA" }
func (TPSA) ResultType() string { return "float64" }

func (TPSA) Calculate(ctx *descriptor.EvaluationContext, _ map[string]descriptor.Result) (interface{}, error) {
	m := ctx.RawMolecule()
	total := 0.0
	for _, a := range m.Atoms() {
		h := attachedHydrogens(m, a.Index)
		switch a.Symbol {
		case "O":
			if h > 0 {
				total += 20.23
			} else {
				total += 17.07
			}
		case "N":
			if h > 0 {
				total += 26.02
			} else {
				total += 12.36
			}
		case "S":
			total += 25.30
		}
	}
	return total, nil
}

// LipinskiViolations counts rule-of-five violations.  It consumes four other
// preset descriptors through the dependency graph, so each is still computed
// only once per structure even when registered as an output column itself.
type LipinskiViolations struct{ descriptor.Base }

func (LipinskiViolations) Name() string       { return "Lipinski" }
func (LipinskiViolations) ResultType() string { return "int" }

func (LipinskiViolations) Dependencies() map[string]descriptor.Descriptor {
	return map[string]descriptor.Descriptor{
		"mw":        MolecularWeight{},
		"logp":      LogP{},
		"donors":    HBondDonors{},
		"acceptors": HBondAcceptors{},
	}
}

func (LipinskiViolations) Calculate(_ *descriptor.EvaluationContext, deps map[string]descriptor.Result) (interface{}, error) {
	mw, err := deps["mw"].Float()
	if err != nil {
		return nil, err
	}
	logP, err := deps["logp"].Float()
	if err != nil {
		return nil, err
	}
	donors, err := deps["donors"].Float()
	if err != nil {
		return nil, err
	}
	acceptors, err := deps["acceptors"].Float()
	if err != nil {
		return nil, err
	}

	violations := 0
	if mw > 500 {
		violations++
	}
	if logP > 5 {
		violations++
	}
	if donors > 5 {
		violations++
	}
	if acceptors > 10 {
		violations++
	}
	return violations, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Topological and geometric descriptors
// ─────────────────────────────────────────────────────────────────────────────

// WienerIndex is the sum of topological distances over all atom pairs.  It
// is undefined for disconnected structures.
type WienerIndex struct{ descriptor.Base }

func (WienerIndex) Name() string                 { return "WPath" }
func (WienerIndex) RequiresSingleFragment() bool { return true }
func (WienerIndex) ResultType() string           { return "int" }

func (WienerIndex) Calculate(ctx *descriptor.EvaluationContext, _ map[string]descriptor.Result) (interface{}, error) {
	d := ctx.RawMolecule().TopologicalDistances()
	sum := 0
	for i := range d {
		for j := i + 1; j < len(d); j++ {
			sum += d[i][j]
		}
	}
	return sum, nil
}

// RadiusOfGyration is the mass-weighted radius of gyration over the selected
// conformer's coordinates.
type RadiusOfGyration struct{ descriptor.Base }

func (RadiusOfGyration) Name() string       { return "RoG" }
func (RadiusOfGyration) Requires3D() bool   { return true }
func (RadiusOfGyration) ResultType() string { return "float64" }

func (RadiusOfGyration) Calculate(ctx *descriptor.EvaluationContext, _ map[string]descriptor.Result) (interface{}, error) {
	conf, err := ctx.Conformer()
	if err != nil {
		return nil, err
	}
	raw := ctx.RawMolecule()

	var totalMass float64
	var cx, cy, cz float64
	for i, p := range conf.Coords {
		mass := atomMass(raw, i)
		totalMass += mass
		cx += mass * p[0]
		cy += mass * p[1]
		cz += mass * p[2]
	}
	if totalMass == 0 {
		return nil, errors.MissingValue("radius of gyration undefined for zero total mass")
	}
	cx, cy, cz = cx/totalMass, cy/totalMass, cz/totalMass

	var sum float64
	for i, p := range conf.Coords {
		dx, dy, dz := p[0]-cx, p[1]-cy, p[2]-cz
		sum += atomMass(raw, i) * (dx*dx + dy*dy + dz*dz)
	}
	return math.Sqrt(sum / totalMass), nil
}

func atomMass(m *molecule.Molecule, i int) float64 {
	a := m.Atom(i)
	return molecule.AtomicWeight(a.Symbol) + float64(a.ImplicitH)*molecule.AtomicWeight("H")
}
