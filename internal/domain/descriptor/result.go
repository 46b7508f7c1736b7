package descriptor

import (
	"fmt"
	"strings"

	"github.com/turtacn/MolDesc-Engine/pkg/errors"
)

// ResultKind tags the outcome of one descriptor evaluation.
type ResultKind int

const (
	// KindNone marks an unresolved placeholder dependency.
	KindNone ResultKind = iota
	// KindValue marks a successfully computed scalar.
	KindValue
	// KindMissing marks a value the descriptor declared as intentionally
	// undefined for this structure.
	KindMissing
	// KindError marks an unexpected computation failure.
	KindError
)

func (k ResultKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValue:
		return "value"
	case KindMissing:
		return "missing"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("ResultKind(%d)", int(k))
	}
}

// Result is the outcome of evaluating one descriptor against one structure.
// For failure kinds, Err holds the originating cause and Stack the descriptor
// names from the outermost requested unit down to the failing unit.
type Result struct {
	Name  string
	Kind  ResultKind
	Value interface{}
	Err   error
	Stack []string
}

// Failed reports whether the result carries a failure tag.
func (r Result) Failed() bool { return r.Kind == KindMissing || r.Kind == KindError }

// IsMissing reports whether the result is an intentionally-undefined value.
func (r Result) IsMissing() bool { return r.Kind == KindMissing }

// Float returns the computed value coerced to float64.  For failure-tagged
// results it returns a dependency-failure error that, when returned from a
// dependent descriptor's Calculate, propagates the original kind and stack.
// Placeholder results yield a missing-value error.
func (r Result) Float() (float64, error) {
	switch r.Kind {
	case KindValue:
		switch v := r.Value.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case bool:
			if v {
				return 1, nil
			}
			return 0, nil
		default:
			return 0, errors.ResultTypeMismatch(r.Name, "numeric", fmt.Sprintf("%T", r.Value))
		}
	case KindMissing, KindError:
		return 0, r.Fail()
	default:
		return 0, errors.MissingValue(fmt.Sprintf("dependency %q was not provided", r.Name))
	}
}

// Fail converts a failure-tagged result into an error suitable for returning
// from a dependent descriptor's Calculate.  The evaluator recognises the
// returned error and extends the failure stack with the dependent unit.
// Calling Fail on a non-failure result returns nil.
func (r Result) Fail() error {
	if !r.Failed() {
		return nil
	}
	return &depFailure{kind: r.Kind, cause: r.Err, stack: r.Stack}
}

// StackTrace renders the diagnostic stack as a single line, outermost unit
// first.
func (r Result) StackTrace() string {
	return strings.Join(r.Stack, " -> ")
}

// String renders the result for logs and debug output.
func (r Result) String() string {
	switch r.Kind {
	case KindValue:
		return fmt.Sprintf("%s=%v", r.Name, r.Value)
	case KindMissing:
		return fmt.Sprintf("%s=missing(%v) [%s]", r.Name, r.Err, r.StackTrace())
	case KindError:
		return fmt.Sprintf("%s=error(%v) [%s]", r.Name, r.Err, r.StackTrace())
	default:
		return fmt.Sprintf("%s=<none>", r.Name)
	}
}

// depFailure carries a failed dependency's kind, cause, and recorded stack
// through a dependent descriptor's Calculate back to the evaluator.
type depFailure struct {
	kind  ResultKind
	cause error
	stack []string
}

func (f *depFailure) Error() string {
	return fmt.Sprintf("dependency failed (%s): %v", f.kind, f.cause)
}

func (f *depFailure) Unwrap() error { return f.cause }
