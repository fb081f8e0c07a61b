// Package schema holds the fixed table layouts of the pipeline: the
// destination table for the imported city dataset and the per-country result
// table derived from it.
package schema

import "popetl/internal/ddl"

// Default table names.
const (
	PopulationsTable = "populations"
	ResultsTable     = "results"
)

// Column names referenced by the aggregation query.
const (
	ColGeonameID   = "geoname_id"
	ColCountryCode = "country_code"
	ColCountryName = "cou_name_en"
	ColPopulation  = "population"

	ColResultName = "country_name"
	ColResultCode = "country_code"
)

// Populations returns the 20-column destination table named name. The layout
// mirrors the geonames "all cities with a population > 1000" export column
// for column. alternate_names is unbounded because real values routinely
// exceed 255 characters.
func Populations(name string) ddl.TableDef {
	text := func(n string, size int) ddl.ColumnDef {
		return ddl.ColumnDef{Name: n, Kind: ddl.KindText, Size: size, Nullable: true}
	}
	return ddl.TableDef{
		FQN: name,
		Columns: []ddl.ColumnDef{
			{Name: ColGeonameID, Kind: ddl.KindInt, PrimaryKey: true},
			text("name", 255),
			text("ascii_name", 255),
			text("alternate_names", 0),
			text("feature_class", 1),
			text("feature_code", 5),
			text(ColCountryCode, 2),
			text(ColCountryName, 255),
			text("country_code_2", 50),
			text("admin1_code", 255),
			text("admin2_code", 255),
			text("admin3_code", 255),
			text("admin4_code", 255),
			{Name: ColPopulation, Kind: ddl.KindInt, Nullable: true},
			{Name: "elevation", Kind: ddl.KindFloat, Nullable: true},
			{Name: "dem", Kind: ddl.KindInt, Nullable: true},
			text("timezone", 50),
			{Name: "modification_date", Kind: ddl.KindDate, Nullable: true},
			text("label_en", 255),
			text("coordinates", 50),
		},
	}
}

// Results returns the two-column result table named name, keyed on the
// two-letter country code.
func Results(name string) ddl.TableDef {
	return ddl.TableDef{
		FQN: name,
		Columns: []ddl.ColumnDef{
			{Name: ColResultName, Kind: ddl.KindText, Size: 255, Nullable: true},
			{Name: ColResultCode, Kind: ddl.KindText, Size: 2, PrimaryKey: true},
		},
	}
}
