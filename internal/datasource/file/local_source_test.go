package file

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalOpenReadsFile(t *testing.T) {
	t.Parallel()

	const payload = "Geoname ID;Name\n2988507;Paris\n"
	p := filepath.Join(t.TempDir(), "cities.csv")
	require.NoError(t, os.WriteFile(p, []byte(payload), 0o644))

	src := NewLocal(p)
	require.Equal(t, p, src.Path())

	rc, err := src.Open(context.Background())
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, payload, string(got))
}

func TestLocalOpenErrors(t *testing.T) {
	t.Parallel()

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	existing := filepath.Join(t.TempDir(), "cities.csv")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0o644))

	cases := []struct {
		name     string
		ctx      context.Context
		path     string
		is       error
		contains string
	}{
		{name: "missing", ctx: context.Background(), path: filepath.Join(t.TempDir(), "nope.csv"), is: os.ErrNotExist, contains: "open "},
		{name: "directory", ctx: context.Background(), path: t.TempDir(), contains: "is a directory"},
		{name: "canceled", ctx: canceled, path: existing, is: context.Canceled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rc, err := NewLocal(tc.path).Open(tc.ctx)
			require.Error(t, err)
			require.Nil(t, rc)
			if tc.is != nil {
				require.ErrorIs(t, err, tc.is)
			}
			if tc.contains != "" {
				require.ErrorContains(t, err, tc.contains)
			}
		})
	}
}
