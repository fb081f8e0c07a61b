package ddl

import "strings"

// Dialect captures the few places where the supported SQL backends differ:
// identifier quoting, column types and bind placeholders.
type Dialect interface {
	// Name is the storage kind, e.g. "mysql".
	Name() string
	// QuoteIdent quotes a single identifier segment.
	QuoteIdent(id string) string
	// ColumnType renders the SQL type for c.
	ColumnType(c ColumnDef) string
	// Placeholder returns the bind placeholder for the n-th (1-based) argument.
	Placeholder(n int) string
}

// QuoteFQN quotes a possibly schema-qualified name such as "dbo.results" one
// segment at a time. Empty segments are dropped.
func QuoteFQN(d Dialect, fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, d.QuoteIdent(p))
	}
	return strings.Join(out, ".")
}

// QuoteList quotes each column name with d.
func QuoteList(d Dialect, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = d.QuoteIdent(c)
	}
	return out
}
