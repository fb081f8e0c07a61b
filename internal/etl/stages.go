package etl

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"popetl/internal/config"
	"popetl/internal/datasource"
	"popetl/internal/ddl"
	"popetl/internal/export"
	csvparser "popetl/internal/parser/csv"
	"popetl/internal/schema"
	"popetl/internal/storage"
	"popetl/internal/transformer/builtin"
)

// Fetch downloads (or opens) the source and parses it into a table. Any
// transport or parse error is fatal.
func Fetch(ctx context.Context, src datasource.Source, opts csvparser.Options) (*csvparser.Table, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer rc.Close()

	t, err := csvparser.ReadTable(rc, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	return t, nil
}

// CreatePopulations drops td if it exists and creates it empty.
func CreatePopulations(ctx context.Context, sc storage.Config, td ddl.TableDef) error {
	repo, err := newRepository(ctx, sc)
	if err != nil {
		return fmt.Errorf("create populations: connect: %w", err)
	}
	defer repo.Close()

	if err := storage.RecreateTable(ctx, repo, td); err != nil {
		return fmt.Errorf("create populations: %w", err)
	}
	return nil
}

// Prepare maps the table header onto td and converts every row into values
// aligned with td.Columns.
func Prepare(t *csvparser.Table, td ddl.TableDef) ([][]any, error) {
	m, err := schema.MapHeader(t.Header, td)
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}
	rows, err := builtin.Coerce{Columns: td.Columns}.Apply(t.Rows, m.Index)
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}
	return rows, nil
}

// LoadPopulations inserts rows into td in one transaction and returns the
// number of rows the backend reported.
func LoadPopulations(ctx context.Context, sc storage.Config, td ddl.TableDef, rows [][]any) (int64, error) {
	repo, err := newRepository(ctx, sc)
	if err != nil {
		return 0, fmt.Errorf("load: connect: %w", err)
	}
	defer repo.Close()

	n, err := repo.CopyFrom(ctx, td.FQN, td.ColumnNames(), rows)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", td.FQN, err)
	}
	return n, nil
}

// Aggregate rebuilds the results table from populations: one row per country
// whose most populous city has at most threshold inhabitants, ordered by name
// with empty names last. It returns the number of result rows.
func Aggregate(ctx context.Context, sc storage.Config, tables config.Tables, threshold int64) (int64, error) {
	repo, err := newRepository(ctx, sc)
	if err != nil {
		return 0, fmt.Errorf("aggregate: connect: %w", err)
	}
	defer repo.Close()

	d := repo.Dialect()
	if err := storage.RecreateTable(ctx, repo, schema.Results(tables.Results)); err != nil {
		return 0, fmt.Errorf("aggregate: %w", err)
	}
	if err := repo.Exec(ctx, AggregateSQL(d, tables, threshold)); err != nil {
		return 0, fmt.Errorf("aggregate: insert results: %w", err)
	}

	recs, err := repo.QueryStrings(ctx, "SELECT COUNT(*) FROM "+ddl.QuoteFQN(d, tables.Results))
	if err != nil {
		return 0, fmt.Errorf("aggregate: count results: %w", err)
	}
	if len(recs) != 1 || len(recs[0]) != 1 {
		return 0, fmt.Errorf("aggregate: count results: unexpected shape %v", recs)
	}
	n, err := strconv.ParseInt(recs[0][0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("aggregate: count results: %w", err)
	}
	return n, nil
}

// ReadResults returns every row of the results table, ordered by name with
// empty names last and ties broken by country code.
func ReadResults(ctx context.Context, sc storage.Config, tables config.Tables) ([]export.Result, error) {
	repo, err := newRepository(ctx, sc)
	if err != nil {
		return nil, fmt.Errorf("read results: connect: %w", err)
	}
	defer repo.Close()

	recs, err := repo.QueryStrings(ctx, ReadResultsSQL(repo.Dialect(), tables))
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	out := make([]export.Result, 0, len(recs))
	for i, r := range recs {
		if len(r) != 2 {
			return nil, fmt.Errorf("read results: row %d has %d columns, want 2", i+1, len(r))
		}
		out = append(out, export.Result{CountryName: r[0], CountryCode: r[1]})
	}
	return out, nil
}

// AggregateSQL renders the INSERT ... SELECT that fills the results table.
// Countries without any named row get an empty country_name.
func AggregateSQL(d ddl.Dialect, tables config.Tables, threshold int64) string {
	q := d.QuoteIdent
	name, code := q(schema.ColResultName), q(schema.ColResultCode)

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s, %s) ", ddl.QuoteFQN(d, tables.Results), name, code)
	fmt.Fprintf(&b, "SELECT %s, %s FROM (", name, code)
	fmt.Fprintf(&b, "SELECT COALESCE(MAX(%s), '') AS %s, %s AS %s FROM %s GROUP BY %s HAVING MAX(%s) <= %d",
		q(schema.ColCountryName), name,
		q(schema.ColCountryCode), code,
		ddl.QuoteFQN(d, tables.Populations),
		q(schema.ColCountryCode),
		q(schema.ColPopulation), threshold,
	)
	fmt.Fprintf(&b, ") agg ORDER BY %s", resultOrder(d))
	return b.String()
}

// ReadResultsSQL renders the ordered read of the results table.
func ReadResultsSQL(d ddl.Dialect, tables config.Tables) string {
	q := d.QuoteIdent
	return fmt.Sprintf("SELECT %s, %s FROM %s ORDER BY %s, %s",
		q(schema.ColResultName), q(schema.ColResultCode),
		ddl.QuoteFQN(d, tables.Results),
		resultOrder(d), q(schema.ColResultCode),
	)
}

func resultOrder(d ddl.Dialect) string {
	name := d.QuoteIdent(schema.ColResultName)
	return fmt.Sprintf("CASE WHEN %s = '' THEN 1 ELSE 0 END, %s", name, name)
}
