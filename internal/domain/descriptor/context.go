package descriptor

import (
	"bytes"
	"fmt"

	"github.com/turtacn/MolDesc-Engine/internal/domain/molecule"
)

// EvaluationContext is the per-structure state for one evaluation pass: the
// prepared structure variant, the memoization cache, the diagnostic stack of
// units currently being resolved, and a buffer capturing incidental output
// from descriptor code.
//
// A context is created fresh for each input structure and must never be
// reused: the cache holds values that are only valid for its structure.
// Contexts are not safe for concurrent use; the bulk driver gives each
// worker its own.
type EvaluationContext struct {
	mol         *molecule.Molecule
	raw         *molecule.Molecule
	conformerID int
	fragments   int

	stack []string
	cache map[string]Result
	out   bytes.Buffer
}

// NewEvaluationContext prepares a structure variant according to the
// registry's aggregate requirements (explicit hydrogens, kekulization, 3D
// availability) and computes the fragment count once.
//
// conformerID selects the 3D coordinate set when the registry requires 3D;
// -1 selects the primary conformer.  Returns an error when kekulization
// fails or when 3D coordinates are required but the requested conformer does
// not exist.
func NewEvaluationContext(reg *Registry, mol *molecule.Molecule, conformerID int) (*EvaluationContext, error) {
	prepared := mol

	if reg.RequiresExplicitHydrogens() {
		prepared = prepared.WithExplicitHydrogens()
	}
	if reg.RequiresKekulized() {
		k, err := prepared.Kekulized()
		if err != nil {
			return nil, err
		}
		prepared = k
	}
	if reg.Requires3D() {
		if _, err := mol.Conformer(conformerID); err != nil {
			return nil, err
		}
	}

	return &EvaluationContext{
		mol:         prepared,
		raw:         mol,
		conformerID: conformerID,
		fragments:   prepared.FragmentCount(),
		cache:       make(map[string]Result),
	}, nil
}

// Molecule returns the prepared structure variant.
func (c *EvaluationContext) Molecule() *molecule.Molecule { return c.mol }

// RawMolecule returns the unprepared input structure.  Descriptors that need
// 3D coordinates read conformers from here, since preparation steps such as
// adding explicit hydrogens produce a variant without coordinate sets.
func (c *EvaluationContext) RawMolecule() *molecule.Molecule { return c.raw }

// Conformer resolves the coordinate set selected for this evaluation from
// the raw structure.
func (c *EvaluationContext) Conformer() (molecule.Conformer, error) {
	return c.raw.Conformer(c.conformerID)
}

// ConformerID returns the coordinate-set identifier selected for this
// evaluation; -1 means the primary conformer.
func (c *EvaluationContext) ConformerID() int { return c.conformerID }

// FragmentCount returns the number of connected components in the prepared
// structure.
func (c *EvaluationContext) FragmentCount() int { return c.fragments }

// Printf lets descriptor code emit incidental text without writing to the
// process streams.  The buffered output is forwarded through the progress
// reporter after the structure completes, so it cannot corrupt an in-place
// progress display.
func (c *EvaluationContext) Printf(format string, args ...interface{}) {
	fmt.Fprintf(&c.out, format, args...)
}

// CapturedOutput returns everything written via Printf during evaluation.
func (c *EvaluationContext) CapturedOutput() string { return c.out.String() }

// ─────────────────────────────────────────────────────────────────────────────
// Internal evaluator hooks
// ─────────────────────────────────────────────────────────────────────────────

func (c *EvaluationContext) push(name string) { c.stack = append(c.stack, name) }

func (c *EvaluationContext) pop() { c.stack = c.stack[:len(c.stack)-1] }

// stackDepth returns the current resolution depth; used to snapshot the
// portion of the diagnostic stack owned by one unit's resolution.
func (c *EvaluationContext) stackDepth() int { return len(c.stack) }

// stackFrom copies the diagnostic stack from the given depth to the top.
func (c *EvaluationContext) stackFrom(depth int) []string {
	out := make([]string, len(c.stack)-depth)
	copy(out, c.stack[depth:])
	return out
}

func (c *EvaluationContext) cached(name string) (Result, bool) {
	r, ok := c.cache[name]
	return r, ok
}

func (c *EvaluationContext) store(name string, r Result) { c.cache[name] = r }
