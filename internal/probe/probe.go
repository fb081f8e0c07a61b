// Package probe samples the head of a cities CSV and reports how its header
// maps onto the populations table, with the kind inferred for each column
// from the sampled values. It backs the `popetl probe` command.
package probe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"popetl/internal/datasource/file"
	"popetl/internal/datasource/httpds"
	"popetl/internal/ddl"
	csvparser "popetl/internal/parser/csv"
	"popetl/internal/schema"
)

// DefaultMaxBytes is the sample size when Options.MaxBytes is zero.
const DefaultMaxBytes = 64 << 10

// Options control the sampling.
type Options struct {
	// URL is an http(s) URL, a file:// URL or a local path.
	URL string
	// MaxBytes to sample from the start of the source.
	MaxBytes int
	// Delimiter between fields; ';' when zero.
	Delimiter rune

	InsecureSkipVerify bool

	// Table is the destination layout; schema.Populations when empty.
	Table ddl.TableDef
}

// Column describes one header cell of the sample.
type Column struct {
	Header     string
	Normalized string
	// Target is the destination column fed by this header cell, "" if none.
	Target   string
	Inferred ddl.Kind
	// Empty is true when every sampled value was blank.
	Empty bool
	// Declared is the kind of Target in the destination table.
	Declared ddl.Kind
}

// Result is the outcome of a probe.
type Result struct {
	Columns []Column
	// ByName is false when the header is mapped positionally.
	ByName bool
	// Missing lists destination columns the header did not name.
	Missing []string
	// Rows is the number of complete records in the sample.
	Rows int
}

// peekFn fetches the first n bytes of location. Tests replace it to avoid
// real I/O.
var peekFn = func(ctx context.Context, location string, n int, insecure bool) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("peek: n must be > 0")
	}
	u, err := url.Parse(location)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		client := httpds.NewClient(httpds.Config{InsecureSkipVerify: insecure})
		return client.FetchFirstBytes(ctx, location, n)
	}

	path := location
	if err == nil && u.Scheme == "file" {
		path = u.Path
	}
	rc, err := file.NewLocal(path).Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, int64(n)))
}

// Sample fetches the head of opt.URL, parses the complete records in it and
// maps its header onto the destination table.
func Sample(ctx context.Context, opt Options) (*Result, error) {
	if strings.TrimSpace(opt.URL) == "" {
		return nil, fmt.Errorf("probe: url must not be empty")
	}
	n := opt.MaxBytes
	if n == 0 {
		n = DefaultMaxBytes
	}
	comma := opt.Delimiter
	if comma == 0 {
		comma = ';'
	}
	td := opt.Table
	if len(td.Columns) == 0 {
		td = schema.Populations(schema.PopulationsTable)
	}

	data, err := peekFn(ctx, opt.URL, n, opt.InsecureSkipVerify)
	if err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}
	// Drop the trailing partial record.
	if i := bytes.LastIndexByte(data, '\n'); i > 0 {
		data = data[:i+1]
	}

	t, err := csvparser.ReadTable(bytes.NewReader(data), csvparser.Options{Comma: comma, LazyQuotes: true})
	if err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}

	res := &Result{Rows: t.Len(), Columns: make([]Column, t.Width())}
	kinds := t.InferKinds()
	for i, h := range t.Header {
		res.Columns[i] = Column{
			Header:     h,
			Normalized: csvparser.NormalizeFieldName(h),
			Inferred:   kinds[i],
			Empty:      blank(t.Column(i)),
		}
	}

	m, err := schema.MapHeader(t.Header, td)
	if err != nil {
		// Nothing maps; still report the header and inferred kinds.
		res.Missing = td.ColumnNames()
		return res, nil
	}
	res.ByName, res.Missing = m.ByName, m.Missing
	for ci, hi := range m.Index {
		res.Columns[hi].Target = td.Columns[ci].Name
		res.Columns[hi].Declared = td.Columns[ci].Kind
	}
	return res, nil
}

// Mismatches returns the mapped columns whose inferred kind differs from the
// declared one. Text inferred for a typed column is reported; a typed kind
// inferred for a text column is not, since text accepts anything.
func (r *Result) Mismatches() []Column {
	var out []Column
	for _, c := range r.Columns {
		if c.Target == "" || c.Empty || c.Declared == ddl.KindText || c.Inferred == c.Declared {
			continue
		}
		// Integers are valid floats.
		if c.Declared == ddl.KindFloat && c.Inferred == ddl.KindInt {
			continue
		}
		out = append(out, c)
	}
	return out
}

func blank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
