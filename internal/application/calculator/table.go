package calculator

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/turtacn/MolDesc-Engine/internal/domain/descriptor"
)

// Placeholder cell values for failure-tagged results.
const (
	cellMissing = "NA"
	cellError   = "ERR"
)

// TableWriter renders evaluation rows as CSV.  The header row is the
// structure identifier column followed by the canonical descriptor names in
// registry order; Missing results render as NA and Error results as ERR.
type TableWriter struct {
	w     *csv.Writer
	names []string
}

// NewTableWriter writes the header row immediately and returns the writer.
func NewTableWriter(out io.Writer, reg *descriptor.Registry) (*TableWriter, error) {
	names := reg.Names()
	t := &TableWriter{w: csv.NewWriter(out), names: names}

	header := append([]string{"name"}, names...)
	if err := t.w.Write(header); err != nil {
		return nil, err
	}
	return t, nil
}

// WriteRow renders one structure's results.  A Row with a preparation error
// renders ERR in every descriptor column.
func (t *TableWriter) WriteRow(id string, row Row) error {
	record := make([]string, 0, len(t.names)+1)
	record = append(record, id)

	if row.Err != nil {
		for range t.names {
			record = append(record, cellError)
		}
		return t.w.Write(record)
	}

	for _, r := range row.Results {
		record = append(record, formatCell(r))
	}
	return t.w.Write(record)
}

// Flush writes buffered rows to the underlying writer.
func (t *TableWriter) Flush() error {
	t.w.Flush()
	return t.w.Error()
}

func formatCell(r descriptor.Result) string {
	switch r.Kind {
	case descriptor.KindValue:
		switch v := r.Value.(type) {
		case float64:
			return strconv.FormatFloat(v, 'g', -1, 64)
		case int:
			return strconv.Itoa(v)
		case bool:
			return strconv.FormatBool(v)
		case string:
			return v
		default:
			return fmt.Sprintf("%v", v)
		}
	case descriptor.KindMissing:
		return cellMissing
	default:
		return cellError
	}
}
