package datasource

import (
	"testing"

	"github.com/stretchr/testify/require"

	"popetl/internal/datasource/file"
	"popetl/internal/datasource/httpds"
)

func TestForLocation(t *testing.T) {
	t.Parallel()

	src, err := ForLocation("https://example.com/geonames.csv?delimiter=%3B", httpds.Config{})
	require.NoError(t, err)
	hs, ok := src.(*httpds.Source)
	require.True(t, ok, "got %T", src)
	require.Equal(t, "https://example.com/geonames.csv?delimiter=%3B", hs.URL())

	src, err = ForLocation("file:///var/data/cities.csv", httpds.Config{})
	require.NoError(t, err)
	require.Equal(t, "/var/data/cities.csv", src.(*file.Local).Path())

	src, err = ForLocation("testdata/cities.csv", httpds.Config{})
	require.NoError(t, err)
	require.Equal(t, "testdata/cities.csv", src.(*file.Local).Path())

	src, err = ForLocation(`C:\data\cities.csv`, httpds.Config{})
	require.NoError(t, err)
	require.IsType(t, &file.Local{}, src)
}

func TestForLocationErrors(t *testing.T) {
	t.Parallel()

	_, err := ForLocation("  ", httpds.Config{})
	require.ErrorContains(t, err, "must not be empty")

	_, err = ForLocation("ftp://example.com/x.csv", httpds.Config{})
	require.ErrorContains(t, err, `unsupported scheme "ftp"`)

	_, err = ForLocation("file://", httpds.Config{})
	require.ErrorContains(t, err, "has no path")
}
