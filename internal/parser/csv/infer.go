package csv

import (
	"strconv"
	"strings"
	"time"

	"popetl/internal/ddl"
)

// DateLayout is the only date layout the geonames export uses.
const DateLayout = "2006-01-02"

// InferKinds guesses one kind per header column from the table values.
// Heuristic: every non-empty value must satisfy the narrower kind. Columns
// that are entirely empty are text.
func (t *Table) InferKinds() []ddl.Kind {
	kinds := make([]ddl.Kind, t.Width())
	for i := range kinds {
		kinds[i] = InferKind(t.Column(i))
	}
	return kinds
}

// InferKind guesses the kind of a single column.
func InferKind(values []string) ddl.Kind {
	nonEmpty := nonEmptyTrimmed(values)
	switch {
	case len(nonEmpty) == 0:
		return ddl.KindText
	case allMatch(nonEmpty, isInt):
		return ddl.KindInt
	case allMatch(nonEmpty, isFloat):
		return ddl.KindFloat
	case allMatch(nonEmpty, isDate):
		return ddl.KindDate
	default:
		return ddl.KindText
	}
}

func nonEmptyTrimmed(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func allMatch(vals []string, fn func(string) bool) bool {
	for _, v := range vals {
		if !fn(v) {
			return false
		}
	}
	return true
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// isFloat also accepts integers so a column mixing "12" and "12.5" is float.
func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
