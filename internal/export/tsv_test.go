package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteTSV(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "result.tsv")
	results := []Result{
		{CountryName: "Andorra", CountryCode: "AD"},
		{CountryName: "Côte d'Ivoire", CountryCode: "CI"},
		{CountryName: "", CountryCode: "XK"},
	}
	require.NoError(t, WriteTSV(p, results))

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Equal(t, "country_name\tcountry_code\nAndorra\tAD\nCôte d'Ivoire\tCI\n\tXK\n", string(b))

	got, err := ReadTSV(p)
	require.NoError(t, err)
	require.Equal(t, results, got)
}

func TestWriteTSVEmptyWritesHeaderOnly(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "result.tsv")
	require.NoError(t, WriteTSV(p, nil))

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Equal(t, Header+"\n", string(b))

	got, err := ReadTSV(p)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestWriteTSVTruncatesExisting(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "result.tsv")
	require.NoError(t, os.WriteFile(p, bytes.Repeat([]byte("stale\n"), 100), 0o644))
	require.NoError(t, WriteTSV(p, []Result{{CountryName: "Monaco", CountryCode: "MC"}}))

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Equal(t, Header+"\nMonaco\tMC\n", string(b))
}

func TestEncodeRejectsSeparators(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Encode(&buf, []Result{{CountryName: "Bad\tName", CountryCode: "BN"}})
	require.True(t, errors.Is(err, ErrInvalidField), "got %v", err)

	err = Encode(&buf, []Result{{CountryName: "ok", CountryCode: "A\nB"}})
	require.ErrorIs(t, err, ErrInvalidField)
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	_, err := Decode(bytes.NewBufferString(""))
	require.ErrorContains(t, err, "missing header")

	_, err = Decode(bytes.NewBufferString("name\tcode\n"))
	require.ErrorContains(t, err, "unexpected header")

	_, err = Decode(bytes.NewBufferString(Header + "\nno-tab-here\n"))
	require.ErrorContains(t, err, "line 2")
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a := []Result{{"France", "FR"}, {"Monaco", "MC"}}
	b := []Result{{"France", "FR"}, {"Monaco", "MC"}}
	require.Equal(t, Fingerprint(a), Fingerprint(b))

	swapped := []Result{{"Monaco", "MC"}, {"France", "FR"}}
	require.NotEqual(t, Fingerprint(a), Fingerprint(swapped))

	// Field boundaries matter.
	require.NotEqual(t,
		Fingerprint([]Result{{"AB", "C"}}),
		Fingerprint([]Result{{"A", "BC"}}),
	)
}
