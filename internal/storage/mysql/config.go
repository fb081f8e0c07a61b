package mysql

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	driver "github.com/go-sql-driver/mysql"
)

const defaultPort = 3306

// Config holds MySQL repository configuration derived from storage.Config.
type Config struct {
	DSN       string
	BatchSize int
	Logger    *slog.Logger
}

// BuildDSN renders a go-sql-driver DSN from individual connection parts.
// Times are parsed into time.Time in UTC so DATE columns round-trip.
func BuildDSN(host string, port int, user, password, database string, params map[string]string) (string, error) {
	if host == "" {
		return "", fmt.Errorf("mysql: host must not be empty")
	}
	if port == 0 {
		port = defaultPort
	}
	c := driver.NewConfig()
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	c.User = user
	c.Passwd = password
	c.DBName = database
	c.ParseTime = true
	c.Loc = time.UTC
	if len(params) > 0 {
		c.Params = make(map[string]string, len(params))
		for k, v := range params {
			c.Params[k] = v
		}
	}
	return c.FormatDSN(), nil
}
