package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolDesc-Engine/pkg/errors"
)

func TestRegistry_DuplicateNameIsFatal(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Unit(constDesc("A", 1)), RegisterOptions{}))

	err := reg.Register(Unit(constDesc("A", 2)), RegisterOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDuplicateDescriptor))
}

func TestRegistry_DependencyOnlyPathDoesNotCollide(t *testing.T) {
	// A registered directly and again as B's dependency: the dependency-only
	// registration folds flags without claiming the name.
	a := constDesc("A", 1)
	b := &fakeDesc{name: "B", deps: map[string]Descriptor{"a": a}}

	reg := NewRegistry()
	require.NoError(t, reg.Register(Unit(a), RegisterOptions{}))
	require.NoError(t, reg.Register(Unit(b), RegisterOptions{}))

	assert.Equal(t, []string{"A", "B"}, reg.Names())
}

func TestRegistry_AggregateFlagsIncludeTransitiveDeps(t *testing.T) {
	// leaf requires kekulization and is only reachable as mid's dependency;
	// mid requires explicit hydrogens; only top is registered.
	leaf := &fakeDesc{name: "leaf", kekulized: true}
	mid := &fakeDesc{name: "mid", explicitH: true, deps: map[string]Descriptor{"l": leaf}}
	top := &fakeDesc{name: "top", deps: map[string]Descriptor{"m": mid}}

	reg := NewRegistry()
	require.NoError(t, reg.Register(Unit(top), RegisterOptions{}))

	assert.Equal(t, 1, reg.Len())
	assert.True(t, reg.RequiresExplicitHydrogens())
	assert.True(t, reg.RequiresKekulized())
	assert.False(t, reg.Requires3D())
}

func TestRegistry_Ignore3DSkipsUnitsAndTheirDeps(t *testing.T) {
	a := constDesc("A", 1)
	b := &fakeDesc{name: "B", deps: map[string]Descriptor{"a": a}}
	c := &fakeDesc{name: "C", need3D: true, deps: map[string]Descriptor{"a": a}}

	reg := NewRegistry()
	require.NoError(t, reg.Register(Group(Unit(a), Unit(b), Unit(c)), RegisterOptions{Ignore3D: true}))

	assert.Equal(t, []string{"A", "B"}, reg.Names())
	assert.False(t, reg.Requires3D())

	_, ok := reg.Lookup("C")
	assert.False(t, ok)
}

func TestRegistry_Ignore3DSkipsUnitsWith3DDependencies(t *testing.T) {
	geo := &fakeDesc{name: "geo", need3D: true}
	shape := &fakeDesc{name: "shape", deps: map[string]Descriptor{"g": geo}}

	reg := NewRegistry()
	require.NoError(t, reg.Register(Unit(shape), RegisterOptions{Ignore3D: true}))

	assert.Equal(t, 0, reg.Len())
	assert.False(t, reg.Requires3D())
}

func TestRegistry_Requires3DWithoutIgnore(t *testing.T) {
	geo := &fakeDesc{name: "geo", need3D: true}
	shape := &fakeDesc{name: "shape", deps: map[string]Descriptor{"g": geo}}

	reg := NewRegistry()
	require.NoError(t, reg.Register(Unit(shape), RegisterOptions{}))

	assert.True(t, reg.Requires3D())
	assert.Equal(t, []string{"shape"}, reg.Names())
}

func TestRegistry_PresetFactory(t *testing.T) {
	preset := func() []Descriptor {
		return []Descriptor{constDesc("P1", 1), constDesc("P2", 2)}
	}

	reg := NewRegistry()
	require.NoError(t, reg.Register(Preset(preset), RegisterOptions{}))
	assert.Equal(t, []string{"P1", "P2"}, reg.Names())
}

func TestRegistry_BundleRegistersInSortedNameOrder(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Bundle(map[string]Input{
		"zeta":  Unit(constDesc("Z", 1)),
		"alpha": Unit(constDesc("A", 1)),
		"mid":   Group(Unit(constDesc("M1", 1)), Unit(constDesc("M2", 2))),
	}), RegisterOptions{}))

	assert.Equal(t, []string{"A", "M1", "M2", "Z"}, reg.Names())
}

func TestRegistry_InvalidInput(t *testing.T) {
	reg := NewRegistry()

	err := reg.Register(Input{}, RegisterOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRegistration))

	err = reg.Register(Unit(nil), RegisterOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRegistration))

	err = reg.Register(Unit(constDesc("", 0)), RegisterOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRegistration))
}

func TestRegistry_Reset(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Unit(&fakeDesc{name: "X", need3D: true, explicitH: true}), RegisterOptions{}))
	require.Equal(t, 1, reg.Len())

	reg.Reset()

	assert.Equal(t, 0, reg.Len())
	assert.False(t, reg.Requires3D())
	assert.False(t, reg.RequiresExplicitHydrogens())
	assert.False(t, reg.RequiresKekulized())

	// The freed name can be registered again.
	assert.NoError(t, reg.Register(Unit(constDesc("X", 1)), RegisterOptions{}))
}

func TestRegistry_MustRegisterPanics(t *testing.T) {
	reg := NewRegistry()
	assert.Panics(t, func() { reg.MustRegister(Input{}, RegisterOptions{}) })
	assert.NotPanics(t, func() { reg.MustRegister(Unit(constDesc("ok", 1)), RegisterOptions{}) })
}
