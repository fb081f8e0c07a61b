// Package csv reads delimiter-separated text into an in-memory Table.
//
// The whole dataset is materialized: the pipeline loads it in one bulk
// operation, so there is nothing to gain from streaming rows through
// channels. Malformed input is fatal; there is no per-row soft-fail mode.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Options configures ReadTable. The zero value reads comma-separated input
// without trimming.
type Options struct {
	// Comma is the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing whitespace from every field.
	TrimSpace bool

	// LazyQuotes tolerates bare quotes inside unquoted fields.
	LazyQuotes bool
}

// Row is one data record with the 1-based line on which it starts.
type Row struct {
	Line   int
	Fields []string
}

// Table is a parsed dataset: a header and its data rows, in input order.
type Table struct {
	Header []string
	Rows   []Row
}

// Width returns the number of header columns.
func (t *Table) Width() int { return len(t.Header) }

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Column returns the values of column i across all rows.
func (t *Table) Column(i int) []string {
	out := make([]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		if i < len(r.Fields) {
			out = append(out, r.Fields[i])
		}
	}
	return out
}

// ErrNoHeader is returned when the input is empty.
var ErrNoHeader = errors.New("csv: input has no header row")

// ReadTable parses r into a Table. The first record is the header; a UTF-8
// BOM on its first cell is stripped. Every data row must have exactly as many
// fields as the header.
func ReadTable(r io.Reader, opt Options) (*Table, error) {
	cr := csv.NewReader(r)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	cr.LazyQuotes = opt.LazyQuotes
	// Width is enforced after read so the error can name the header width.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\uFEFF")
		}
		header[i] = strings.TrimSpace(h)
	}

	t := &Table{Header: header}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return t, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if len(rec) != len(header) {
			return nil, fmt.Errorf("line %d: incorrect number of fields: expected %d, got %d", line, len(header), len(rec))
		}
		if opt.TrimSpace {
			for i, v := range rec {
				rec[i] = strings.TrimSpace(v)
			}
		}
		t.Rows = append(t.Rows, Row{Line: line, Fields: rec})
	}
}
