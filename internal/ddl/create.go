// Package ddl defines a small, backend-agnostic model for SQL DDL and helpers
// to render the statements the pipeline needs from that model.
//
// Dialect differences (quoting, types, placeholders) are delegated to a
// Dialect supplied by the storage backend, so the same TableDef produces the
// right statement for MySQL, Postgres, SQL Server and SQLite.
package ddl

import (
	"fmt"
	"strings"
)

// BuildCreateTableSQL renders a CREATE TABLE statement from a TableDef.
//
// A column is rendered as:
//
//	<Name> <SQLType> [NOT NULL]
//
// Columns with PrimaryKey == true are collected into a trailing
// PRIMARY KEY (...) clause. The table is always created fresh (callers drop
// it first), so no IF NOT EXISTS is emitted.
func BuildCreateTableSQL(d Dialect, t TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, 1)

	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}

		var sb strings.Builder
		sb.WriteString(d.QuoteIdent(name))
		sb.WriteByte(' ')
		sb.WriteString(d.ColumnType(c))
		if !c.Nullable || c.PrimaryKey {
			sb.WriteString(" NOT NULL")
		}
		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, d.QuoteIdent(name))
		}
	}

	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	return fmt.Sprintf(
		"CREATE TABLE %s (\n  %s\n)",
		QuoteFQN(d, fqn),
		strings.Join(cols, ",\n  "),
	), nil
}

// BuildDropTableSQL renders DROP TABLE IF EXISTS for fqn.
func BuildDropTableSQL(d Dialect, fqn string) (string, error) {
	if strings.TrimSpace(fqn) == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	return "DROP TABLE IF EXISTS " + QuoteFQN(d, fqn), nil
}

// BuildInsertSQL renders a parameterized multi-row INSERT for nrows rows:
//
//	INSERT INTO t (a, b) VALUES (?, ?), (?, ?)
//
// Placeholders are numbered across the whole statement, so dialects with
// positional placeholders ($1, @p1) get a continuous sequence.
func BuildInsertSQL(d Dialect, fqn string, columns []string, nrows int) (string, error) {
	if len(columns) == 0 {
		return "", fmt.Errorf("ddl: insert requires at least one column")
	}
	if nrows <= 0 {
		return "", fmt.Errorf("ddl: insert requires at least one row")
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(QuoteFQN(d, fqn))
	sb.WriteString(" (")
	sb.WriteString(strings.Join(QuoteList(d, columns), ", "))
	sb.WriteString(") VALUES ")

	n := 1
	for r := 0; r < nrows; r++ {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for c := range columns {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(d.Placeholder(n))
			n++
		}
		sb.WriteByte(')')
	}
	return sb.String(), nil
}
