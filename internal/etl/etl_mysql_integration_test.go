package etl

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"

	"popetl/internal/export"
	_ "popetl/internal/storage/mysql"
)

// TestRunMySQLIntegration runs the whole pipeline against MySQL 8, the
// pipeline's default backend. Set POPETL_DOCKER_TESTS=1 to enable.
func TestRunMySQLIntegration(t *testing.T) {
	if os.Getenv("POPETL_DOCKER_TESTS") != "1" {
		t.Skip("POPETL_DOCKER_TESTS not set; skipping MySQL container tests")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	ctr, err := tcmysql.Run(ctx, "mysql:8.0",
		tcmysql.WithDatabase("vianova_de_test"),
		tcmysql.WithUsername("root"),
		tcmysql.WithPassword("password"),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "parseTime=true")
	require.NoError(t, err)

	cfg := testConfig(t, writeCSV(t, citiesCSV()))
	cfg.Storage.Kind = "mysql"
	cfg.Storage.DB.DSN = dsn

	first, err := Run(ctx, cfg, Deps{})
	require.NoError(t, err)
	got, err := export.ReadTSV(cfg.Output.Path)
	require.NoError(t, err)
	require.Equal(t, wantResults, got)

	second, err := Run(ctx, cfg, Deps{})
	require.NoError(t, err)
	require.Equal(t, first.Fingerprint, second.Fingerprint)
}
