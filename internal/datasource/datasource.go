// Package datasource defines the byte-source contract the pipeline fetches
// from, and picks an implementation for a configured location.
package datasource

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"popetl/internal/datasource/file"
	"popetl/internal/datasource/httpds"
)

// Source yields the raw bytes of one dataset.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// ForLocation returns an HTTP source for http(s) URLs and a local file source
// for file:// URLs and plain paths. httpCfg applies only to HTTP sources.
func ForLocation(location string, httpCfg httpds.Config) (Source, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("datasource: location must not be empty")
	}
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain path (a one-letter scheme is a Windows drive letter).
		return file.NewLocal(location), nil
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return httpds.NewSource(httpds.NewClient(httpCfg), location), nil
	case "file":
		if u.Path == "" {
			return nil, fmt.Errorf("datasource: file URL %q has no path", location)
		}
		return file.NewLocal(u.Path), nil
	default:
		return nil, fmt.Errorf("datasource: unsupported scheme %q", u.Scheme)
	}
}
