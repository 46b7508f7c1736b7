package descriptor

import (
	stderrors "errors"
	"fmt"

	"github.com/turtacn/MolDesc-Engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolDesc-Engine/pkg/errors"
)

// Evaluator computes every registered descriptor against one
// EvaluationContext, memoizing shared dependencies and converting per-unit
// failures into tagged Results.  EvaluateAll never returns an error: every
// failure is isolated to its own Result and sibling descriptors are
// unaffected.
type Evaluator struct {
	reg    *Registry
	debug  bool
	logger logging.Logger
}

// EvaluatorOptions configures an Evaluator.
type EvaluatorOptions struct {
	// Debug enables result-type validation against each descriptor's
	// declared ResultType.  A mismatch yields an Error result for that unit.
	Debug bool

	// Logger receives per-unit failure diagnostics.  Defaults to a no-op
	// logger.
	Logger logging.Logger
}

// NewEvaluator returns an Evaluator over the given registry.
func NewEvaluator(reg *Registry, opts EvaluatorOptions) *Evaluator {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Evaluator{reg: reg, debug: opts.Debug, logger: logger}
}

// EvaluateAll resolves every registered descriptor in registration order and
// returns one Result per unit, index-aligned with the registry's column
// order.
func (e *Evaluator) EvaluateAll(ctx *EvaluationContext) []Result {
	units := e.reg.Descriptors()
	results := make([]Result, len(units))
	for i, d := range units {
		results[i] = e.resolve(ctx, d)
	}
	return results
}

// resolve computes one descriptor with memoization.  The returned Result is
// cached in the context, so a unit shared by several dependents is computed
// exactly once per structure — including failures, whose recorded stacks are
// relative to the failing unit and extended by each dependent.
func (e *Evaluator) resolve(ctx *EvaluationContext, d Descriptor) Result {
	name := d.Name()
	if r, ok := ctx.cached(name); ok {
		return r
	}

	depth := ctx.stackDepth()
	ctx.push(name)
	defer ctx.pop()

	deps := make(map[string]Result)
	for param, dep := range d.Dependencies() {
		if dep == nil {
			deps[param] = Result{Name: param, Kind: KindNone}
			continue
		}
		deps[param] = e.resolve(ctx, dep)
	}

	var r Result
	switch {
	case d.RequiresSingleFragment() && ctx.FragmentCount() != 1:
		// Calculate is never invoked for this unit.
		r = Result{
			Name:  name,
			Kind:  KindError,
			Err:   errors.MultipleFragments(ctx.FragmentCount()),
			Stack: ctx.stackFrom(depth),
		}
	default:
		r = e.compute(ctx, d, deps, depth)
	}

	if r.Failed() {
		e.logger.Debug("descriptor failed",
			logging.String("descriptor", name),
			logging.String("kind", r.Kind.String()),
			logging.String("stack", r.StackTrace()),
			logging.Err(r.Err),
		)
	}
	ctx.store(name, r)
	return r
}

// compute invokes Calculate and classifies the outcome.
func (e *Evaluator) compute(ctx *EvaluationContext, d Descriptor, deps map[string]Result, depth int) Result {
	name := d.Name()

	value, err := safeCalculate(ctx, d, deps)
	if err != nil {
		return e.classify(ctx, name, err, depth)
	}

	if e.debug {
		if want := d.ResultType(); want != "" {
			if got := typeName(value); got != want {
				return Result{
					Name:  name,
					Kind:  KindError,
					Err:   errors.ResultTypeMismatch(name, want, got),
					Stack: ctx.stackFrom(depth),
				}
			}
		}
	}

	return Result{Name: name, Kind: KindValue, Value: value}
}

// classify converts a Calculate error into a tagged Result.  A failed
// dependency surfaced via Result.Fail keeps its original kind and extends
// the recorded stack with the current unit; a missing-value condition
// becomes Missing; everything else becomes Error.
func (e *Evaluator) classify(ctx *EvaluationContext, name string, err error, depth int) Result {
	var f *depFailure
	if stderrors.As(err, &f) {
		return Result{
			Name:  name,
			Kind:  f.kind,
			Err:   f.cause,
			Stack: append(ctx.stackFrom(depth), f.stack...),
		}
	}
	kind := KindError
	if errors.IsCode(err, errors.ErrCodeMissingValue) {
		kind = KindMissing
	}
	return Result{Name: name, Kind: kind, Err: err, Stack: ctx.stackFrom(depth)}
}

// safeCalculate invokes Calculate with panic isolation so a misbehaving
// descriptor cannot take down the evaluation of its siblings.
func safeCalculate(ctx *EvaluationContext, d Descriptor, deps map[string]Result) (value interface{}, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			value = nil
			err = errors.DescriptorPanic(d.Name(), rec)
		}
	}()
	return d.Calculate(ctx, deps)
}

// typeName reports the dynamic type label used for debug-mode result-type
// checks.
func typeName(v interface{}) string {
	switch v.(type) {
	case float64:
		return "float64"
	case int:
		return "int"
	case string:
		return "string"
	case bool:
		return "bool"
	case nil:
		return "nil"
	default:
		return fmt.Sprintf("%T", v)
	}
}
