package molecule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolDesc-Engine/pkg/errors"
)

func TestParseSMILES_Ethanol(t *testing.T) {
	mol, err := ParseSMILES("CCO")
	require.NoError(t, err)

	assert.Equal(t, 3, mol.NumAtoms())
	assert.Equal(t, 2, mol.NumBonds())
	assert.Equal(t, 3, mol.Atom(0).ImplicitH)
	assert.Equal(t, 2, mol.Atom(1).ImplicitH)
	assert.Equal(t, 1, mol.Atom(2).ImplicitH)
	assert.Equal(t, 6, mol.TotalHydrogenCount())
}

func TestParseSMILES_Water(t *testing.T) {
	mol, err := ParseSMILES("O")
	require.NoError(t, err)

	assert.Equal(t, 1, mol.NumAtoms())
	assert.Equal(t, 2, mol.Atom(0).ImplicitH)
	assert.InDelta(t, 18.015, mol.MolecularWeight(), 0.01)
}

func TestParseSMILES_Benzene(t *testing.T) {
	mol, err := ParseSMILES("c1ccccc1")
	require.NoError(t, err)

	assert.Equal(t, 6, mol.NumAtoms())
	assert.Equal(t, 6, mol.NumBonds())
	for _, a := range mol.Atoms() {
		assert.True(t, a.Aromatic)
		assert.Equal(t, 1, a.ImplicitH)
	}
	for _, b := range mol.Bonds() {
		assert.Equal(t, BondAromatic, b.Order)
	}
	assert.Equal(t, 1, mol.RingCount())
	assert.Equal(t, 1, mol.AromaticRingCount())
	assert.InDelta(t, 78.114, mol.MolecularWeight(), 0.01)
}

func TestParseSMILES_Pyridine(t *testing.T) {
	mol, err := ParseSMILES("c1ccncc1")
	require.NoError(t, err)

	var nIdx = -1
	for _, a := range mol.Atoms() {
		if a.Symbol == "N" {
			nIdx = a.Index
		}
	}
	require.NotEqual(t, -1, nIdx)
	assert.Equal(t, 0, mol.Atom(nIdx).ImplicitH)
	assert.Equal(t, 5, mol.TotalHydrogenCount())
}

func TestParseSMILES_Naphthalene(t *testing.T) {
	mol, err := ParseSMILES("c1ccc2ccccc2c1")
	require.NoError(t, err)

	assert.Equal(t, 10, mol.NumAtoms())
	assert.Equal(t, 11, mol.NumBonds())
	assert.Equal(t, 2, mol.RingCount())
	assert.Equal(t, 2, mol.AromaticRingCount())
	// Fusion carbons carry no hydrogen.
	assert.Equal(t, 8, mol.TotalHydrogenCount())
}

func TestParseSMILES_Branches(t *testing.T) {
	// Isobutane: central carbon bears three methyls and one H.
	mol, err := ParseSMILES("CC(C)C")
	require.NoError(t, err)

	assert.Equal(t, 4, mol.NumAtoms())
	assert.Equal(t, 3, mol.NumBonds())
	assert.Equal(t, 1, mol.Atom(1).ImplicitH)
	assert.Equal(t, 3, mol.Degree(1))
}

func TestParseSMILES_ExplicitBonds(t *testing.T) {
	mol, err := ParseSMILES("C=C")
	require.NoError(t, err)
	assert.Equal(t, BondDouble, mol.Bonds()[0].Order)
	assert.Equal(t, 2, mol.Atom(0).ImplicitH)

	mol, err = ParseSMILES("C#N")
	require.NoError(t, err)
	assert.Equal(t, BondTriple, mol.Bonds()[0].Order)
	assert.Equal(t, 1, mol.Atom(0).ImplicitH)
	assert.Equal(t, 0, mol.Atom(1).ImplicitH)
}

func TestParseSMILES_Fragments(t *testing.T) {
	mol, err := ParseSMILES("C.C")
	require.NoError(t, err)

	assert.Equal(t, 2, mol.NumAtoms())
	assert.Equal(t, 0, mol.NumBonds())
	assert.Equal(t, 2, mol.FragmentCount())
}

func TestParseSMILES_BracketAtoms(t *testing.T) {
	t.Run("ammonium", func(t *testing.T) {
		mol, err := ParseSMILES("[NH4+]")
		require.NoError(t, err)
		a := mol.Atom(0)
		assert.Equal(t, "N", a.Symbol)
		assert.Equal(t, 4, a.ImplicitH)
		assert.Equal(t, 1, a.Charge)
	})

	t.Run("chloride anion", func(t *testing.T) {
		mol, err := ParseSMILES("[Cl-]")
		require.NoError(t, err)
		a := mol.Atom(0)
		assert.Equal(t, "Cl", a.Symbol)
		assert.Equal(t, -1, a.Charge)
		assert.Equal(t, 0, a.ImplicitH)
	})

	t.Run("isotope and chirality", func(t *testing.T) {
		mol, err := ParseSMILES("[13C@@H](N)(O)C")
		require.NoError(t, err)
		a := mol.Atom(0)
		assert.Equal(t, 13, a.Isotope)
		assert.Equal(t, 1, a.ImplicitH)
	})

	t.Run("pyrrole nitrogen", func(t *testing.T) {
		mol, err := ParseSMILES("c1cc[nH]c1")
		require.NoError(t, err)
		var n Atom
		for _, a := range mol.Atoms() {
			if a.Symbol == "N" {
				n = a
			}
		}
		assert.True(t, n.Aromatic)
		assert.Equal(t, 1, n.ImplicitH)
	})
}

func TestParseSMILES_PercentRingClosure(t *testing.T) {
	// Cyclohexane written with a two-digit ring bond label.
	mol, err := ParseSMILES("C%12CCCCC%12")
	require.NoError(t, err)
	assert.Equal(t, 6, mol.NumAtoms())
	assert.Equal(t, 6, mol.NumBonds())
	assert.Equal(t, 1, mol.RingCount())
}

func TestParseSMILES_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":               "",
		"unclosed branch":     "C(C",
		"unmatched close":     "CC)",
		"unclosed bracket":    "[NH4",
		"unknown element":     "Xx",
		"open ring":           "C1CC",
		"dangling bond":       "CC=",
		"bond before dot":     "C=.C",
		"leading digit":       "1CC",
		"unexpected char":     "C&C",
		"lone aromatic error": "q",
	}
	for name, smiles := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSMILES(smiles)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidSMILES),
				"expected MOL_001, got %v", err)
		})
	}
}

func TestMustParseSMILES_PanicsOnError(t *testing.T) {
	assert.Panics(t, func() { MustParseSMILES("not a molecule!") })
	assert.NotPanics(t, func() { MustParseSMILES("CCO") })
}
