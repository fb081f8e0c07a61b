// Package builtin contains the row transformers applied between parsing and
// loading.
//
// Coerce turns the raw string fields of a parsed table into typed values
// aligned to a destination table: missing text becomes "" (the dataset's
// empty-string substitution), missing typed values become NULL, and anything
// that cannot be converted fails the whole load.
package builtin

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"popetl/internal/ddl"
	csvparser "popetl/internal/parser/csv"
)

// CoerceError reports a field that could not be converted to its column kind.
type CoerceError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *CoerceError) Error() string {
	return fmt.Sprintf("line %d: column %s: value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *CoerceError) Unwrap() error { return e.Err }

// Coerce converts string fields into values of the destination column kinds.
type Coerce struct {
	// Columns is the destination layout; output rows follow its order.
	Columns []ddl.ColumnDef

	// Layout is the date layout; csvparser.DateLayout when empty.
	Layout string
}

// Apply converts every row. index[i] is the source field position for
// Columns[i]. The returned rows are positionally aligned to Columns.
func (c Coerce) Apply(rows []csvparser.Row, index []int) ([][]any, error) {
	if len(index) != len(c.Columns) {
		return nil, fmt.Errorf("coerce: %d column indexes for %d columns", len(index), len(c.Columns))
	}
	out := make([][]any, 0, len(rows))
	for _, r := range rows {
		vals, err := c.Row(r.Line, r.Fields, index)
		if err != nil {
			return nil, err
		}
		out = append(out, vals)
	}
	return out, nil
}

// Row converts a single record.
func (c Coerce) Row(line int, fields []string, index []int) ([]any, error) {
	vals := make([]any, len(c.Columns))
	for i, col := range c.Columns {
		j := index[i]
		if j < 0 || j >= len(fields) {
			return nil, &CoerceError{Line: line, Column: col.Name, Err: fmt.Errorf("field %d out of range", j)}
		}
		v, err := c.value(col, fields[j])
		if err != nil {
			return nil, &CoerceError{Line: line, Column: col.Name, Value: fields[j], Err: err}
		}
		vals[i] = v
	}
	return vals, nil
}

func (c Coerce) value(col ddl.ColumnDef, raw string) (any, error) {
	if col.Kind == ddl.KindText {
		return raw, nil
	}

	s := strings.TrimSpace(raw)
	if s == "" {
		if !col.Nullable || col.PrimaryKey {
			return nil, fmt.Errorf("required value is missing")
		}
		return nil, nil
	}

	switch col.Kind {
	case ddl.KindInt:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			// Exports occasionally render integers as "123.0".
			f, ferr := strconv.ParseFloat(s, 64)
			if ferr != nil || f != float64(int64(f)) {
				return nil, fmt.Errorf("not an integer")
			}
			i = int64(f)
		}
		return i, nil
	case ddl.KindFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("not a number")
		}
		return f, nil
	case ddl.KindDate:
		layout := c.Layout
		if layout == "" {
			layout = csvparser.DateLayout
		}
		t, err := time.Parse(layout, s)
		if err != nil {
			return nil, fmt.Errorf("not a date in layout %s", layout)
		}
		return t, nil
	}
	return raw, nil
}
