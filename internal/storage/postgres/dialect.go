package postgres

import (
	"fmt"
	"strings"

	"popetl/internal/ddl"
)

// Dialect renders SQL for Postgres.
type Dialect struct{}

var _ ddl.Dialect = Dialect{}

func (Dialect) Name() string { return "postgres" }

// QuoteIdent safely quotes a single identifier segment for Postgres.
func (Dialect) QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

func (Dialect) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

func (Dialect) ColumnType(c ddl.ColumnDef) string {
	switch c.Kind {
	case ddl.KindInt:
		return "INTEGER"
	case ddl.KindFloat:
		return "DOUBLE PRECISION"
	case ddl.KindDate:
		return "DATE"
	}
	if c.Size > 0 {
		return fmt.Sprintf("VARCHAR(%d)", c.Size)
	}
	return "TEXT"
}
