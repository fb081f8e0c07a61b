package ddl

// Kind is the logical type of a column. Backends map each kind to a concrete
// SQL type through their Dialect.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindFloat
	KindDate
)

// String returns the lowercase kind name used in logs and probe output.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDate:
		return "date"
	default:
		return "text"
	}
}

// ColumnDef describes a single column in a table definition. It intentionally
// uses simple, database-agnostic fields.
//
// Fields:
//   - Name: column name (unquoted; quoting/escaping happens at render time)
//   - Kind: logical type; the dialect picks the SQL type
//   - Size: maximum length for KindText; 0 means unbounded text
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
type ColumnDef struct {
	Name       string
	Kind       Kind
	Size       int
	Nullable   bool
	PrimaryKey bool
}

// TableDef holds the table name and an ordered list of columns. The order is
// the order used for CREATE TABLE and for every INSERT column list.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// ColumnNames returns the ordered column names of t.
func (t TableDef) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Column returns the column named name and whether it exists.
func (t TableDef) Column(name string) (ColumnDef, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnDef{}, false
}
