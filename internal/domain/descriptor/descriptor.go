// Package descriptor implements the molecular descriptor engine: the
// Descriptor contract, the deduplicating Registry, the per-structure
// EvaluationContext with memoization, and the Evaluator that walks each
// descriptor's dependency graph and converts failures into tagged Result
// values.
//
// Descriptors are stateless; all per-structure state lives in the
// EvaluationContext, which is created fresh for each input structure and
// discarded afterwards.  The Registry is immutable during evaluation and is
// safely shared by concurrent workers.
package descriptor

// Descriptor is a named computation over a prepared molecular structure.
// Implementations must be stateless: Calculate receives everything it needs
// through the context and the resolved dependency values.
//
// Dependencies returns a map from parameter name to the Descriptor that
// produces it.  A nil map value declares a placeholder parameter that
// resolves to an empty Result instead of triggering recursive evaluation.
type Descriptor interface {
	// Name is the canonical identity of the descriptor.  Two descriptors
	// with the same name cannot coexist in one Registry.
	Name() string

	// Dependencies maps parameter names to the descriptors whose results
	// this descriptor consumes.  May be nil or empty.
	Dependencies() map[string]Descriptor

	// Structure preparation requirements, folded into Registry aggregates.
	RequiresExplicitHydrogens() bool
	RequiresKekulized() bool
	Requires3D() bool

	// RequiresSingleFragment marks descriptors that are undefined for
	// multi-fragment structures; the evaluator fails them without invoking
	// Calculate when the fragment count differs from one.
	RequiresSingleFragment() bool

	// ResultType optionally names the expected dynamic type of the computed
	// value ("float64", "int", "string", "bool").  An empty string disables
	// the debug-mode type check.
	ResultType() string

	// Calculate computes the descriptor value.  deps holds one Result per
	// declared dependency parameter, including failure-tagged results; a
	// descriptor that does not tolerate a failed dependency should return
	// the error obtained from that Result's Float or Fail accessor.
	Calculate(ctx *EvaluationContext, deps map[string]Result) (interface{}, error)
}

// Base provides neutral defaults for the Descriptor contract.  Embed it and
// override only what the concrete descriptor needs.
type Base struct{}

func (Base) Dependencies() map[string]Descriptor { return nil }
func (Base) RequiresExplicitHydrogens() bool     { return false }
func (Base) RequiresKekulized() bool             { return false }
func (Base) Requires3D() bool                    { return false }
func (Base) RequiresSingleFragment() bool        { return false }
func (Base) ResultType() string                  { return "" }
