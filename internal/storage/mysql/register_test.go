package mysql

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"popetl/internal/ddl"
	"popetl/internal/storage"
)

func TestAdapterBuildsDSNFromParts(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	var gotCfg Config
	closed := false
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		gotCfg = cfg
		return &Repository{}, func() { closed = true }, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{
		Kind:      "mysql",
		Host:      "db.internal",
		User:      "root",
		Password:  "s3cret",
		Database:  "vianova_de_test",
		BatchSize: 500,
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(gotCfg.DSN, "root:s3cret@tcp(db.internal:3306)/vianova_de_test?"), gotCfg.DSN)
	require.Contains(t, gotCfg.DSN, "parseTime=true")
	require.Equal(t, 500, gotCfg.BatchSize)

	repo.Close()
	require.True(t, closed)
}

func TestAdapterPrefersExplicitDSN(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	var gotCfg Config
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		gotCfg = cfg
		return &Repository{}, func() {}, nil
	}

	const dsn = "u:p@tcp(127.0.0.1:3307)/other"
	repo, err := storage.New(context.Background(), storage.Config{Kind: "mysql", DSN: dsn, Host: "ignored"})
	require.NoError(t, err)
	defer repo.Close()
	require.Equal(t, dsn, gotCfg.DSN)
}

func TestAdapterRequiresHostWithoutDSN(t *testing.T) {
	_, err := storage.New(context.Background(), storage.Config{Kind: "mysql"})
	require.ErrorContains(t, err, "host must not be empty")
}

func TestBuildDSNParams(t *testing.T) {
	dsn, err := BuildDSN("localhost", 3310, "app", "", "pop", map[string]string{"charset": "utf8mb4"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(dsn, "app@tcp(localhost:3310)/pop?"), dsn)
	require.Contains(t, dsn, "charset=utf8mb4")
	require.Contains(t, dsn, "parseTime=true")
}

func TestDialect(t *testing.T) {
	d := Dialect{}
	require.Equal(t, "`geoname_id`", d.QuoteIdent("geoname_id"))
	require.Equal(t, "`a``b`", d.QuoteIdent("a`b"))
	require.Equal(t, "?", d.Placeholder(7))
	require.Equal(t, "INT", d.ColumnType(ddl.ColumnDef{Kind: ddl.KindInt}))
	require.Equal(t, "FLOAT", d.ColumnType(ddl.ColumnDef{Kind: ddl.KindFloat}))
	require.Equal(t, "DATE", d.ColumnType(ddl.ColumnDef{Kind: ddl.KindDate}))
	require.Equal(t, "VARCHAR(2)", d.ColumnType(ddl.ColumnDef{Kind: ddl.KindText, Size: 2}))
	require.Equal(t, "TEXT", d.ColumnType(ddl.ColumnDef{Kind: ddl.KindText}))
}

func TestCopyFromEmptyRows(t *testing.T) {
	r := &Repository{}
	n, err := r.CopyFrom(context.Background(), "populations", []string{"geoname_id"}, nil)
	require.NoError(t, err)
	require.Zero(t, n)

	_, err = r.CopyFrom(context.Background(), "populations", nil, [][]any{{1}})
	require.ErrorContains(t, err, "columns must not be empty")
}
