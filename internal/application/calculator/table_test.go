package calculator

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolDesc-Engine/internal/domain/descriptor"
	"github.com/turtacn/MolDesc-Engine/internal/domain/molecule"
)

func TestTableWriter_HeaderMatchesRegistryOrder(t *testing.T) {
	reg := presetRegistry(t)
	var buf bytes.Buffer

	tw, err := NewTableWriter(&buf, reg)
	require.NoError(t, err)
	require.NoError(t, tw.Flush())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, append([]string{"name"}, reg.Names()...), records[0])
}

func TestTableWriter_RendersValuesAndFailures(t *testing.T) {
	reg := presetRegistry(t)
	svc := NewService(reg, ServiceOptions{ConformerID: -1})
	var buf bytes.Buffer

	tw, err := NewTableWriter(&buf, reg)
	require.NoError(t, err)

	mols := parseAll(t, []string{"CCO", "C.C"})
	ids := []string{"ethanol", "two-methanes"}
	for row := range svc.EvaluateMany(context.Background(), mols, 1, nil) {
		require.NoError(t, tw.WriteRow(ids[row.Index], row))
	}
	require.NoError(t, tw.Flush())

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	header := records[0]
	byName := func(rec []string, name string) string {
		for i, h := range header {
			if h == name {
				return rec[i]
			}
		}
		t.Fatalf("column %s not found", name)
		return ""
	}

	ethanol := records[1]
	assert.Equal(t, "ethanol", ethanol[0])
	assert.Equal(t, "9", byName(ethanol, "nAtom"))
	// Acyclic ring count renders as the missing placeholder.
	assert.Equal(t, "NA", byName(ethanol, "nRing"))

	twoFrags := records[2]
	// The Wiener index fails on disconnected structures.
	assert.Equal(t, "ERR", byName(twoFrags, "WPath"))
	assert.Equal(t, "2", byName(twoFrags, "nHeavyAtom"))
}

func TestTableWriter_PreparationErrorFillsRow(t *testing.T) {
	reg := presetRegistry(t)
	var buf bytes.Buffer

	tw, err := NewTableWriter(&buf, reg)
	require.NoError(t, err)

	require.NoError(t, tw.WriteRow("broken", Row{Err: fmt.Errorf("no conformer")}))
	require.NoError(t, tw.Flush())

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	row := records[1]
	assert.Equal(t, "broken", row[0])
	for _, cell := range row[1:] {
		assert.Equal(t, "ERR", cell)
	}
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "2.5", formatCell(descriptor.Result{Kind: descriptor.KindValue, Value: 2.5}))
	assert.Equal(t, "7", formatCell(descriptor.Result{Kind: descriptor.KindValue, Value: 7}))
	assert.Equal(t, "true", formatCell(descriptor.Result{Kind: descriptor.KindValue, Value: true}))
	assert.Equal(t, "label", formatCell(descriptor.Result{Kind: descriptor.KindValue, Value: "label"}))
	assert.Equal(t, "NA", formatCell(descriptor.Result{Kind: descriptor.KindMissing}))
	assert.Equal(t, "ERR", formatCell(descriptor.Result{Kind: descriptor.KindError}))
}

func TestTableWriter_RowLengthsMatchHeader(t *testing.T) {
	reg := presetRegistry(t)
	svc := NewService(reg, ServiceOptions{ConformerID: -1})
	var buf bytes.Buffer

	tw, err := NewTableWriter(&buf, reg)
	require.NoError(t, err)

	results, err := svc.EvaluateOne(molecule.MustParseSMILES("c1ccccc1"))
	require.NoError(t, err)
	require.NoError(t, tw.WriteRow("benzene", Row{Results: results}))
	require.NoError(t, tw.Flush())

	records, readErr := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, readErr)
	assert.Len(t, records[1], len(records[0]))
}
