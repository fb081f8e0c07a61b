// Package config defines the canonical, JSON-serializable configuration model
// for popetl. Every parameter of a run (source URL, database credentials,
// output path, aggregation threshold) lives here and is passed explicitly into
// the pipeline.
//
// Values are layered: Default, then a JSON file (Load), then POPETL_*
// environment variables (ApplyEnv), then CLI flags.
//
// Example (trimmed):
//
//	{
//	  "job":     "popetl",
//	  "source":  { "url": "https://...", "delimiter": ";", "timeout": "10m" },
//	  "storage": { "kind": "mysql", "db": { "host": "localhost", "user": "root", "database": "vianova_de_test" } },
//	  "query":   { "population_threshold": 10000000 },
//	  "output":  { "path": "result.tsv" }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// DefaultSourceURL is the geonames "cities with a population > 1000" export,
// semicolon-delimited, without BOM.
const DefaultSourceURL = "https://public.opendatasoft.com/api/explore/v2.0/catalog/datasets/geonames-all-cities-with-a-population-1000/exports/csv?delimiter=%3B&list_separator=%2C&quote_all=false&with_bom=false"

// Config describes one pipeline run.
type Config struct {
	// Job labels logs and metrics.
	Job string `json:"job"`

	Source  Source  `json:"source"`
	Storage Storage `json:"storage"`
	Tables  Tables  `json:"tables"`
	Query   Query   `json:"query"`
	Output  Output  `json:"output"`
	Metrics Metrics `json:"metrics"`
}

// Source identifies where the cities CSV comes from.
type Source struct {
	// URL is an http(s) URL, a file:// URL, or a local path.
	URL string `json:"url"`

	// Delimiter is the CSV field separator; a single character.
	Delimiter string `json:"delimiter"`

	// Timeout bounds the whole HTTP download, body included. Zero (the
	// default) leaves the download unbounded.
	Timeout Duration `json:"timeout"`

	// MaxRetries is the number of retries after the first attempt for
	// transient HTTP failures (5xx, 429, transport errors).
	MaxRetries int `json:"max_retries"`

	InsecureSkipVerify bool `json:"insecure_skip_verify"`
}

// Storage selects the database backend and how to reach it.
type Storage struct {
	// Kind selects the backend: mysql, postgres, mssql or sqlite.
	Kind string `json:"kind"`

	DB DBConfig `json:"db"`

	// BatchSize is the number of rows per INSERT/COPY batch.
	BatchSize int `json:"batch_size"`
}

// DBConfig carries connection parameters. DSN, when set, wins over the parts.
// For sqlite, Database is the file path.
type DBConfig struct {
	Host     string            `json:"host"`
	Port     int               `json:"port"`
	User     string            `json:"user"`
	Password string            `json:"password"`
	Database string            `json:"database"`
	DSN      string            `json:"dsn"`
	Params   map[string]string `json:"params"`
}

// Tables names the two tables the pipeline rebuilds.
type Tables struct {
	Populations string `json:"populations"`
	Results     string `json:"results"`
}

// Query parameterizes the aggregation.
type Query struct {
	// PopulationThreshold keeps countries whose largest city population is
	// at most this value (inclusive).
	PopulationThreshold int64 `json:"population_threshold"`
}

// Output describes the exported TSV file.
type Output struct {
	Path string `json:"path"`
}

// Metrics selects an optional metrics backend.
type Metrics struct {
	// Backend is none, pushgateway or datadog.
	Backend        string `json:"backend"`
	PushgatewayURL string `json:"pushgateway_url"`
	DatadogAddr    string `json:"datadog_addr"`
}

// Default returns the configuration the pipeline uses when nothing else is
// specified.
func Default() Config {
	return Config{
		Job: "popetl",
		Source: Source{
			URL:       DefaultSourceURL,
			Delimiter: ";",
		},
		Storage: Storage{
			Kind: "mysql",
			DB: DBConfig{
				Host:     "localhost",
				User:     "root",
				Database: "vianova_de_test",
			},
			BatchSize: 1000,
		},
		Tables: Tables{
			Populations: "populations",
			Results:     "results",
		},
		Query:   Query{PopulationThreshold: 10_000_000},
		Output:  Output{Path: "result.tsv"},
		Metrics: Metrics{Backend: "none"},
	}
}

// Duration is a time.Duration that encodes to and from JSON as a string such
// as "60s". Bare numbers are read as seconds.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case float64:
		*d = Duration(time.Duration(t * float64(time.Second)))
	case string:
		p, err := time.ParseDuration(t)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", t, err)
		}
		*d = Duration(p)
	case nil:
		*d = 0
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}
