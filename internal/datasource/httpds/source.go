package httpds

import (
	"context"
	"io"
	"net/http"
)

// Source is a datasource that streams the body of a GET request.
type Source struct {
	client *Client
	url    string
}

// NewSource returns a Source that downloads url with client.
func NewSource(client *Client, url string) *Source {
	return &Source{client: client, url: url}
}

// URL returns the address the source downloads.
func (s *Source) URL() string { return s.url }

// Open issues the GET and returns the response body. Any non-2xx status is
// returned as a *StatusError.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := s.client.Get(ctx, s.url, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &StatusError{Method: http.MethodGet, URL: s.url, Code: resp.StatusCode}
	}
	return resp.Body, nil
}
