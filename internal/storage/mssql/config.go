package mssql

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
)

const defaultPort = 1433

// Config holds MSSQL repository configuration.
type Config struct {
	DSN       string
	BatchSize int
	Logger    *slog.Logger
}

// BuildDSN renders a sqlserver:// URL. The database goes in the "database"
// query parameter alongside params.
func BuildDSN(host string, port int, user, password, database string, params map[string]string) (string, error) {
	if host == "" {
		return "", fmt.Errorf("mssql: host must not be empty")
	}
	if port == 0 {
		port = defaultPort
	}
	u := url.URL{
		Scheme: "sqlserver",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
	}
	if user != "" {
		u.User = url.UserPassword(user, password)
	}
	q := url.Values{}
	if database != "" {
		q.Set("database", database)
	}
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
