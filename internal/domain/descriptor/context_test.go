package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolDesc-Engine/internal/domain/molecule"
	"github.com/turtacn/MolDesc-Engine/pkg/errors"
)

func TestNewEvaluationContext_AddsExplicitHydrogens(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Unit(&fakeDesc{name: "h", explicitH: true}), RegisterOptions{}))

	ctx, err := NewEvaluationContext(reg, molecule.MustParseSMILES("CCO"), -1)
	require.NoError(t, err)

	assert.Equal(t, 9, ctx.Molecule().NumAtoms())
	assert.Equal(t, 1, ctx.FragmentCount())
}

func TestNewEvaluationContext_Kekulizes(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Unit(&fakeDesc{name: "k", kekulized: true}), RegisterOptions{}))

	ctx, err := NewEvaluationContext(reg, molecule.MustParseSMILES("c1ccccc1"), -1)
	require.NoError(t, err)

	for _, b := range ctx.Molecule().Bonds() {
		assert.NotEqual(t, molecule.BondAromatic, b.Order)
	}
}

func TestNewEvaluationContext_KekulizationFailureSurfaces(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Unit(&fakeDesc{name: "k", kekulized: true}), RegisterOptions{}))

	_, err := NewEvaluationContext(reg, molecule.MustParseSMILES("c1cccc1"), -1)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeKekulizationFailed))
}

func TestNewEvaluationContext_Requires3DWithoutConformer(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Unit(&fakeDesc{name: "g", need3D: true}), RegisterOptions{}))

	_, err := NewEvaluationContext(reg, molecule.MustParseSMILES("C"), -1)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConformerNotFound))
}

func TestNewEvaluationContext_Requires3DWithConformer(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Unit(&fakeDesc{name: "g", need3D: true}), RegisterOptions{}))

	mol, err := molecule.MustParseSMILES("C").AddConformer(molecule.Conformer{
		ID:     0,
		Coords: [][3]float64{{0, 0, 0}},
	})
	require.NoError(t, err)

	ctx, err := NewEvaluationContext(reg, mol, -1)
	require.NoError(t, err)
	assert.Equal(t, -1, ctx.ConformerID())
}

func TestNewEvaluationContext_NoPreparationNeeded(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Unit(constDesc("plain", 1)), RegisterOptions{}))

	mol := molecule.MustParseSMILES("CCO")
	ctx, err := NewEvaluationContext(reg, mol, -1)
	require.NoError(t, err)
	assert.Equal(t, mol.NumAtoms(), ctx.Molecule().NumAtoms())
}

func TestEvaluationContext_CapturesPrintf(t *testing.T) {
	noisy := &fakeDesc{name: "noisy", fn: func(ctx *EvaluationContext, _ map[string]Result) (interface{}, error) {
		ctx.Printf("checkpoint %d\n", 1)
		return 0.0, nil
	}}

	reg := NewRegistry()
	require.NoError(t, reg.Register(Unit(noisy), RegisterOptions{}))

	ctx := mustContext(reg, "C")
	NewEvaluator(reg, EvaluatorOptions{}).EvaluateAll(ctx)

	assert.Equal(t, "checkpoint 1\n", ctx.CapturedOutput())
}
