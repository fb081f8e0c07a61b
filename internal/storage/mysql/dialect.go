package mysql

import (
	"fmt"
	"strings"

	"popetl/internal/ddl"
)

// maxParams is the prepared statement placeholder limit.
const maxParams = 65535

// Dialect renders SQL for MySQL.
type Dialect struct{}

var _ ddl.Dialect = Dialect{}

func (Dialect) Name() string { return "mysql" }

func (Dialect) QuoteIdent(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}

func (Dialect) Placeholder(int) string { return "?" }

func (Dialect) ColumnType(c ddl.ColumnDef) string {
	switch c.Kind {
	case ddl.KindInt:
		return "INT"
	case ddl.KindFloat:
		return "FLOAT"
	case ddl.KindDate:
		return "DATE"
	}
	if c.Size > 0 {
		return fmt.Sprintf("VARCHAR(%d)", c.Size)
	}
	return "TEXT"
}
