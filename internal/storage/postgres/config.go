package postgres

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
)

const defaultPort = 5432

// Config holds Postgres repository configuration.
type Config struct {
	DSN       string // connection string for pgxpool
	BatchSize int    // rows per COPY batch
	Logger    *slog.Logger
}

// BuildDSN renders a postgres:// URL from connection parts. params become
// query parameters, e.g. sslmode=disable.
func BuildDSN(host string, port int, user, password, database string, params map[string]string) (string, error) {
	if host == "" {
		return "", fmt.Errorf("postgres: host must not be empty")
	}
	if port == 0 {
		port = defaultPort
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   "/" + database,
	}
	switch {
	case user != "" && password != "":
		u.User = url.UserPassword(user, password)
	case user != "":
		u.User = url.User(user)
	}
	if len(params) > 0 {
		q := url.Values{}
		for k, v := range params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
