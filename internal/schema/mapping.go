package schema

import (
	"fmt"
	"strings"

	"popetl/internal/ddl"
	csvparser "popetl/internal/parser/csv"
)

// HeaderAliases maps normalized export headers to destination column names
// where the two differ.
var HeaderAliases = map[string]string{
	"country_name_en":         ColCountryName,
	"digital_elevation_model": "dem",
}

// Mapping tells which source field feeds each destination column.
type Mapping struct {
	// Index[i] is the header position of td.Columns[i].
	Index []int
	// ByName is false when the header did not name every column and the
	// mapping fell back to positional order.
	ByName bool
	// Missing lists destination columns the header did not name.
	Missing []string
}

// MapHeader maps a raw CSV header onto td. Headers are normalized with
// csvparser.NormalizeFieldName and HeaderAliases. When every destination
// column is named the mapping is by name; otherwise, if the widths match, the
// columns are taken positionally (the dataset's own column order). A width
// mismatch without a full by-name match is an error.
func MapHeader(header []string, td ddl.TableDef) (Mapping, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		name := csvparser.NormalizeFieldName(h)
		if alias, ok := HeaderAliases[name]; ok {
			name = alias
		}
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}

	m := Mapping{Index: make([]int, len(td.Columns)), ByName: true}
	for i, c := range td.Columns {
		j, ok := pos[c.Name]
		if !ok {
			m.ByName = false
			m.Missing = append(m.Missing, c.Name)
			continue
		}
		m.Index[i] = j
	}
	if m.ByName {
		return m, nil
	}

	if len(header) != len(td.Columns) {
		return Mapping{}, fmt.Errorf(
			"header has %d columns, table %s needs %d; unmatched columns: %s",
			len(header), td.FQN, len(td.Columns), strings.Join(m.Missing, ", "),
		)
	}
	for i := range m.Index {
		m.Index[i] = i
	}
	return m, nil
}
