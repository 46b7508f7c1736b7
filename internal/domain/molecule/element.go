package molecule

import "strings"

// elementInfo holds the per-element constants the engine needs: standard
// atomic weight and the default valence used to infer implicit hydrogens on
// organic-subset atoms.
type elementInfo struct {
	AtomicNumber int
	Weight       float64
	// Valences lists the accepted valences in increasing order; the smallest
	// valence >= the current bond-order sum is used for implicit-H inference.
	Valences []int
}

// elements covers the subset of the periodic table that appears in SMILES
// input handled by the engine.  Weights are IUPAC 2021 standard atomic
// weights rounded to three decimals.
var elements = map[string]elementInfo{
	"H":  {1, 1.008, []int{1}},
	"B":  {5, 10.811, []int{3}},
	"C":  {6, 12.011, []int{4}},
	"N":  {7, 14.007, []int{3, 5}},
	"O":  {8, 15.999, []int{2}},
	"F":  {9, 18.998, []int{1}},
	"Na": {11, 22.990, []int{1}},
	"Mg": {12, 24.305, []int{2}},
	"Si": {14, 28.086, []int{4}},
	"P":  {15, 30.974, []int{3, 5}},
	"S":  {16, 32.066, []int{2, 4, 6}},
	"Cl": {17, 35.453, []int{1}},
	"K":  {19, 39.098, []int{1}},
	"Ca": {20, 40.078, []int{2}},
	"Fe": {26, 55.845, []int{2, 3}},
	"Zn": {30, 65.380, []int{2}},
	"Se": {34, 78.971, []int{2, 4, 6}},
	"Br": {35, 79.904, []int{1}},
	"I":  {53, 126.904, []int{1}},
}

// organicSubset lists the atoms that may appear outside brackets in SMILES.
// Only these atoms receive implicit hydrogens.
var organicSubset = map[string]bool{
	"B": true, "C": true, "N": true, "O": true, "P": true,
	"S": true, "F": true, "Cl": true, "Br": true, "I": true,
}

// aromaticSymbols maps lowercase aromatic SMILES symbols to element symbols.
var aromaticSymbols = map[string]string{
	"b": "B", "c": "C", "n": "N", "o": "O",
	"p": "P", "s": "S", "se": "Se", "as": "As",
}

// normalizeSymbol resolves a raw SMILES atom symbol (possibly lowercase
// aromatic) to its canonical element symbol and aromaticity flag.
func normalizeSymbol(raw string) (symbol string, aromatic bool, ok bool) {
	if elem, found := aromaticSymbols[raw]; found {
		if _, known := elements[elem]; known {
			return elem, true, true
		}
		return "", false, false
	}
	canonical := strings.ToUpper(raw[:1]) + raw[1:]
	if _, known := elements[canonical]; known && canonical == raw {
		return canonical, false, true
	}
	return "", false, false
}

// AtomicWeight returns the standard atomic weight for an element symbol, or
// 0 for unknown elements.
func AtomicWeight(symbol string) float64 {
	return elements[symbol].Weight
}
