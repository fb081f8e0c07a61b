package mssql

import (
	"fmt"
	"strings"

	"popetl/internal/ddl"
)

// Dialect renders SQL for SQL Server. Text is stored as NVARCHAR so city
// names keep their diacritics.
type Dialect struct{}

var _ ddl.Dialect = Dialect{}

func (Dialect) Name() string { return "mssql" }

// QuoteIdent safely quotes a SQL Server identifier using [brackets], escaping ].
func (Dialect) QuoteIdent(id string) string { return `[` + strings.ReplaceAll(id, `]`, `]]`) + `]` }

func (Dialect) Placeholder(n int) string { return fmt.Sprintf("@p%d", n) }

func (Dialect) ColumnType(c ddl.ColumnDef) string {
	switch c.Kind {
	case ddl.KindInt:
		return "INT"
	case ddl.KindFloat:
		return "FLOAT"
	case ddl.KindDate:
		return "DATE"
	}
	if c.Size > 0 && c.Size <= 4000 {
		return fmt.Sprintf("NVARCHAR(%d)", c.Size)
	}
	return "NVARCHAR(MAX)"
}
