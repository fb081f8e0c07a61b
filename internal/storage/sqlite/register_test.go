package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"popetl/internal/storage"
)

func stubNewRepository(t *testing.T, got *Config, closed *int) {
	t.Helper()
	orig := newRepository
	t.Cleanup(func() { newRepository = orig })
	newRepository = func(_ context.Context, cfg Config) (*Repository, func(), error) {
		*got = cfg
		return &Repository{cfg: cfg}, func() { *closed++ }, nil
	}
}

func TestOpenPassesConfig(t *testing.T) {
	cases := []struct {
		name    string
		cfg     storage.Config
		wantDSN string
	}{
		{name: "dsn", cfg: storage.Config{DSN: "file:pop.db?cache=shared", Database: "ignored.db"}, wantDSN: "file:pop.db?cache=shared"},
		{name: "database as path", cfg: storage.Config{Database: "/tmp/pop.db"}, wantDSN: "/tmp/pop.db"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var (
				got    Config
				closed int
			)
			stubNewRepository(t, &got, &closed)

			tc.cfg.Kind = "sqlite"
			tc.cfg.BatchSize = 250
			repo, err := storage.New(context.Background(), tc.cfg)
			require.NoError(t, err)
			require.Equal(t, tc.wantDSN, got.DSN)
			require.Equal(t, 250, got.BatchSize)
			require.Equal(t, "sqlite", repo.Dialect().Name())

			repo.Close()
			require.Equal(t, 1, closed)
		})
	}
}

func TestOpenRealFile(t *testing.T) {
	repo, err := storage.New(context.Background(), storage.Config{
		Kind:     "sqlite",
		Database: t.TempDir() + "/pop.db",
	})
	require.NoError(t, err)
	defer repo.Close()

	recs, err := repo.QueryStrings(context.Background(), "SELECT 1")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"1"}}, recs)
}
