package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Load returns Default overlaid with the JSON file at path. An empty path
// returns the defaults. Unknown fields are rejected so typos surface early.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := Decode(b, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode unmarshals JSON b over cfg, keeping values for absent fields.
func Decode(b []byte, cfg *Config) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after top-level object")
	}
	return nil
}

// Environment variables recognised by ApplyEnv.
const (
	EnvSourceURL      = "POPETL_SOURCE_URL"
	EnvDBKind         = "POPETL_DB_KIND"
	EnvDBHost         = "POPETL_DB_HOST"
	EnvDBPort         = "POPETL_DB_PORT"
	EnvDBUser         = "POPETL_DB_USER"
	EnvDBPassword     = "POPETL_DB_PASSWORD"
	EnvDBName         = "POPETL_DB_NAME"
	EnvDBDSN          = "POPETL_DB_DSN"
	EnvOutput         = "POPETL_OUTPUT"
	EnvMetricsBackend = "POPETL_METRICS_BACKEND"
)

// ApplyEnv overlays non-empty POPETL_* variables read through getenv
// (os.Getenv in production) onto cfg.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.Source.URL, EnvSourceURL)
	set(&cfg.Storage.Kind, EnvDBKind)
	set(&cfg.Storage.DB.Host, EnvDBHost)
	set(&cfg.Storage.DB.User, EnvDBUser)
	set(&cfg.Storage.DB.Password, EnvDBPassword)
	set(&cfg.Storage.DB.Database, EnvDBName)
	set(&cfg.Storage.DB.DSN, EnvDBDSN)
	set(&cfg.Output.Path, EnvOutput)
	set(&cfg.Metrics.Backend, EnvMetricsBackend)

	if v := getenv(EnvDBPort); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDBPort, err)
		}
		cfg.Storage.DB.Port = p
	}
	return nil
}
