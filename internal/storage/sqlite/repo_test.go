package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"popetl/internal/ddl"
	"popetl/internal/storage"
)

func openTemp(t *testing.T, batch int) *Repository {
	t.Helper()
	r, closeFn, err := NewRepository(context.Background(), Config{
		DSN:       filepath.Join(t.TempDir(), "test.db"),
		BatchSize: batch,
	})
	require.NoError(t, err)
	t.Cleanup(closeFn)
	return r
}

var citiesDef = ddl.TableDef{
	FQN: "cities",
	Columns: []ddl.ColumnDef{
		{Name: "id", Kind: ddl.KindInt, PrimaryKey: true},
		{Name: "name", Kind: ddl.KindText, Size: 50, Nullable: true},
		{Name: "elevation", Kind: ddl.KindFloat, Nullable: true},
		{Name: "modified", Kind: ddl.KindDate, Nullable: true},
	},
}

func TestNewRepositoryRejectsEmptyDSN(t *testing.T) {
	_, _, err := NewRepository(context.Background(), Config{DSN: "  "})
	require.ErrorContains(t, err, "DSN must not be empty")
}

func TestCopyFromAndQueryStrings(t *testing.T) {
	ctx := context.Background()
	r := openTemp(t, 2)

	require.NoError(t, storage.RecreateTable(ctx, storage.WithClose(r, nil), citiesDef))

	day := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	rows := [][]any{
		{int64(1), "Paris", 35.0, day},
		{int64(2), "Lyon", nil, nil},
		{int64(3), "", 12.5, day},
	}
	n, err := r.CopyFrom(ctx, "cities", citiesDef.ColumnNames(), rows)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)

	got, err := r.QueryStrings(ctx, `SELECT id, name, elevation, modified FROM cities ORDER BY id`)
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"1", "Paris", "35", "2024-03-09"},
		{"2", "Lyon", "", ""},
		{"3", "", "12.5", "2024-03-09"},
	}, got)
}

func TestCopyFromRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	r := openTemp(t, 1)

	require.NoError(t, storage.RecreateTable(ctx, storage.WithClose(r, nil), citiesDef))

	rows := [][]any{
		{int64(1), "a", nil, nil},
		{int64(1), "duplicate key", nil, nil},
	}
	_, err := r.CopyFrom(ctx, "cities", citiesDef.ColumnNames(), rows)
	require.Error(t, err)

	got, err := r.QueryStrings(ctx, `SELECT COUNT(*) FROM cities`)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"0"}}, got)
}

func TestRecreateTableDropsExistingRows(t *testing.T) {
	ctx := context.Background()
	r := openTemp(t, 10)

	require.NoError(t, storage.RecreateTable(ctx, storage.WithClose(r, nil), citiesDef))
	_, err := r.CopyFrom(ctx, "cities", citiesDef.ColumnNames(), [][]any{{int64(7), "x", nil, nil}})
	require.NoError(t, err)

	require.NoError(t, storage.RecreateTable(ctx, storage.WithClose(r, nil), citiesDef))
	got, err := r.QueryStrings(ctx, `SELECT COUNT(*) FROM cities`)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"0"}}, got)
}

func TestCopyFromEmptyRows(t *testing.T) {
	r := &Repository{}
	n, err := r.CopyFrom(context.Background(), "cities", []string{"id"}, nil)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestDialectColumnTypes(t *testing.T) {
	d := Dialect{}
	require.Equal(t, "INTEGER", d.ColumnType(ddl.ColumnDef{Kind: ddl.KindInt}))
	require.Equal(t, "REAL", d.ColumnType(ddl.ColumnDef{Kind: ddl.KindFloat}))
	require.Equal(t, "TEXT", d.ColumnType(ddl.ColumnDef{Kind: ddl.KindDate}))
	require.Equal(t, "TEXT", d.ColumnType(ddl.ColumnDef{Kind: ddl.KindText, Size: 255}))
	require.Equal(t, `"a""b"`, d.QuoteIdent(`a"b`))
}
