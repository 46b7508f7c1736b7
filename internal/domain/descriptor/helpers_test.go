package descriptor

import (
	"github.com/turtacn/MolDesc-Engine/internal/domain/molecule"
)

// fakeDesc is a configurable descriptor for engine tests.
type fakeDesc struct {
	Base
	name       string
	deps       map[string]Descriptor
	explicitH  bool
	kekulized  bool
	need3D     bool
	singleFrag bool
	resultType string

	calls *int
	fn    func(ctx *EvaluationContext, deps map[string]Result) (interface{}, error)
}

func (f *fakeDesc) Name() string                      { return f.name }
func (f *fakeDesc) Dependencies() map[string]Descriptor { return f.deps }
func (f *fakeDesc) RequiresExplicitHydrogens() bool   { return f.explicitH }
func (f *fakeDesc) RequiresKekulized() bool           { return f.kekulized }
func (f *fakeDesc) Requires3D() bool                  { return f.need3D }
func (f *fakeDesc) RequiresSingleFragment() bool      { return f.singleFrag }
func (f *fakeDesc) ResultType() string                { return f.resultType }

func (f *fakeDesc) Calculate(ctx *EvaluationContext, deps map[string]Result) (interface{}, error) {
	if f.calls != nil {
		*f.calls++
	}
	if f.fn != nil {
		return f.fn(ctx, deps)
	}
	return 1.0, nil
}

// constDesc returns a descriptor that always yields v.
func constDesc(name string, v float64) *fakeDesc {
	return &fakeDesc{name: name, fn: func(*EvaluationContext, map[string]Result) (interface{}, error) {
		return v, nil
	}}
}

func mustContext(reg *Registry, smiles string) *EvaluationContext {
	ctx, err := NewEvaluationContext(reg, molecule.MustParseSMILES(smiles), -1)
	if err != nil {
		panic(err)
	}
	return ctx
}
