// Package export writes aggregation results to a tab-separated file and reads
// them back.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zeebo/xxh3"
)

// Header is the first line of every exported file.
const Header = "country_name\tcountry_code"

// Result is one exported row.
type Result struct {
	CountryName string
	CountryCode string
}

// ErrInvalidField reports a value that would break the TSV layout.
var ErrInvalidField = errors.New("field contains a tab or newline")

// WriteTSV writes Header and one line per result to path, creating or
// truncating it. Rows are written in the given order. Fields with tabs or
// line breaks are rejected.
func WriteTSV(path string, results []Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	if err := Encode(w, results); err != nil {
		return err
	}
	return w.Flush()
}

// Encode writes the TSV representation of results to w.
func Encode(w io.Writer, results []Result) error {
	if _, err := io.WriteString(w, Header+"\n"); err != nil {
		return err
	}
	for i, r := range results {
		for _, v := range []string{r.CountryName, r.CountryCode} {
			if strings.ContainsAny(v, "\t\r\n") {
				return fmt.Errorf("row %d (%q): %w", i+1, v, ErrInvalidField)
			}
		}
		if _, err := io.WriteString(w, r.CountryName+"\t"+r.CountryCode+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// ReadTSV reads a file produced by WriteTSV.
func ReadTSV(path string) ([]Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses the TSV representation written by Encode.
func Decode(r io.Reader) ([]Result, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("missing header")
	}
	if got := strings.TrimSuffix(sc.Text(), "\r"); got != Header {
		return nil, fmt.Errorf("unexpected header %q", got)
	}

	var out []Result
	line := 1
	for sc.Scan() {
		line++
		name, code, ok := strings.Cut(strings.TrimSuffix(sc.Text(), "\r"), "\t")
		if !ok || strings.Contains(code, "\t") {
			return nil, fmt.Errorf("line %d: expected 2 tab-separated fields", line)
		}
		out = append(out, Result{CountryName: name, CountryCode: code})
	}
	return out, sc.Err()
}

// Fingerprint hashes results in order. Two runs over the same data produce
// the same value.
func Fingerprint(results []Result) uint64 {
	h := xxh3.New()
	for _, r := range results {
		_, _ = h.WriteString(r.CountryName)
		_, _ = h.Write([]byte{0})
		_, _ = h.WriteString(r.CountryCode)
		_, _ = h.Write([]byte{'\n'})
	}
	return h.Sum64()
}
