package sqlite

import (
	"strings"

	"popetl/internal/ddl"
)

// maxParams is SQLITE_MAX_VARIABLE_NUMBER for builds since 3.32.
const maxParams = 32766

// Dialect renders SQL for SQLite. Declared lengths are dropped since SQLite
// does not enforce them; dates are stored as ISO text.
type Dialect struct{}

var _ ddl.Dialect = Dialect{}

func (Dialect) Name() string { return "sqlite" }

func (Dialect) QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

func (Dialect) Placeholder(int) string { return "?" }

func (Dialect) ColumnType(c ddl.ColumnDef) string {
	switch c.Kind {
	case ddl.KindInt:
		return "INTEGER"
	case ddl.KindFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}
