package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding.
//
// Path is a dotted path into the config (e.g. "storage.db.host"). Message is
// human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// StorageKinds lists the backends the binary registers.
var StorageKinds = []string{"mysql", "postgres", "mssql", "sqlite"}

// MetricsBackends lists the accepted metrics.backend values.
var MetricsBackends = []string{"none", "pushgateway", "datadog"}

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Validate performs static validation of cfg. It does not mutate cfg.
// Callers decide whether to treat warnings as fatal.
func Validate(cfg Config) []Issue {
	var issues []Issue
	add := func(sev IssueSeverity, path, format string, args ...any) {
		issues = append(issues, Issue{Severity: sev, Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(cfg.Job) == "" {
		add(SeverityError, "job", "job must not be empty; it labels logs and metrics")
	}

	// Source.
	switch u := strings.TrimSpace(cfg.Source.URL); {
	case u == "":
		add(SeverityError, "source.url", "source.url must not be empty")
	default:
		if parsed, err := url.Parse(u); err == nil && len(parsed.Scheme) > 1 {
			switch strings.ToLower(parsed.Scheme) {
			case "http", "https", "file":
			default:
				add(SeverityError, "source.url", "unsupported scheme %q; use http, https, file or a path", parsed.Scheme)
			}
		}
	}
	if utf8.RuneCountInString(cfg.Source.Delimiter) != 1 {
		add(SeverityError, "source.delimiter", "delimiter must be exactly one character, got %q", cfg.Source.Delimiter)
	} else if strings.ContainsAny(cfg.Source.Delimiter, "\"\r\n") {
		add(SeverityError, "source.delimiter", "delimiter %q cannot be used as a CSV separator", cfg.Source.Delimiter)
	}
	if cfg.Source.Timeout < 0 {
		add(SeverityError, "source.timeout", "timeout must not be negative")
	}
	if cfg.Source.MaxRetries < 0 {
		add(SeverityError, "source.max_retries", "max_retries must be >= 0")
	}
	if cfg.Source.InsecureSkipVerify {
		add(SeverityWarning, "source.insecure_skip_verify", "TLS certificate verification is disabled")
	}

	// Storage.
	if !contains(StorageKinds, cfg.Storage.Kind) {
		add(SeverityError, "storage.kind", "unknown storage kind %q; expected one of %s", cfg.Storage.Kind, strings.Join(StorageKinds, ", "))
	} else if strings.TrimSpace(cfg.Storage.DB.DSN) == "" {
		if cfg.Storage.Kind == "sqlite" {
			if strings.TrimSpace(cfg.Storage.DB.Database) == "" {
				add(SeverityError, "storage.db.database", "sqlite needs a database file path or a dsn")
			}
		} else if strings.TrimSpace(cfg.Storage.DB.Host) == "" {
			add(SeverityError, "storage.db.host", "host must not be empty when no dsn is given")
		}
	}
	if p := cfg.Storage.DB.Port; p < 0 || p > 65535 {
		add(SeverityError, "storage.db.port", "port %d out of range", p)
	}
	switch b := cfg.Storage.BatchSize; {
	case b <= 0:
		add(SeverityError, "storage.batch_size", "batch_size must be > 0")
	case b > 10000:
		add(SeverityWarning, "storage.batch_size", "batch_size %d is large; backends clamp it to their bind-parameter limit", b)
	}

	// Tables.
	for _, t := range []struct{ path, name string }{
		{"tables.populations", cfg.Tables.Populations},
		{"tables.results", cfg.Tables.Results},
	} {
		if !tableNameRe.MatchString(t.name) {
			add(SeverityError, t.path, "invalid table name %q", t.name)
		}
	}
	if cfg.Tables.Populations != "" && strings.EqualFold(cfg.Tables.Populations, cfg.Tables.Results) {
		add(SeverityError, "tables.results", "results table must differ from the populations table")
	}

	if cfg.Query.PopulationThreshold < 0 {
		add(SeverityError, "query.population_threshold", "threshold must be >= 0")
	}

	if strings.TrimSpace(cfg.Output.Path) == "" {
		add(SeverityError, "output.path", "output.path must not be empty")
	}

	// Metrics.
	backend := cfg.Metrics.Backend
	if backend == "" {
		backend = "none"
	}
	switch {
	case !contains(MetricsBackends, backend):
		add(SeverityError, "metrics.backend", "unknown metrics backend %q; expected one of %s", backend, strings.Join(MetricsBackends, ", "))
	case backend == "pushgateway" && strings.TrimSpace(cfg.Metrics.PushgatewayURL) == "":
		add(SeverityError, "metrics.pushgateway_url", "pushgateway backend requires pushgateway_url")
	case backend == "datadog" && strings.TrimSpace(cfg.Metrics.DatadogAddr) == "":
		add(SeverityWarning, "metrics.datadog_addr", "datadog_addr not set; DogStatsD default 127.0.0.1:8125 is used")
	}

	return issues
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
