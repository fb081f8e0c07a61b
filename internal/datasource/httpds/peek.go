package httpds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// FetchFirstBytes returns at most n bytes from the start of url. It asks for
// the prefix with a Range header and also caps the read locally, since many
// servers ignore Range and send the whole body with 200.
//
// A 416 (the resource is shorter than the range, e.g. empty) yields an empty
// slice. Any other status besides 200 and 206 is a *StatusError.
func (c *Client) FetchFirstBytes(ctx context.Context, url string, n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("httpds: n must be > 0, got %d", n)
	}

	h := http.Header{"Range": []string{"bytes=0-" + strconv.Itoa(n-1)}}
	resp, err := c.Get(ctx, url, h)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusPartialContent:
	case http.StatusRequestedRangeNotSatisfiable:
		return []byte{}, nil
	default:
		return nil, &StatusError{Method: http.MethodGet, URL: url, Code: resp.StatusCode}
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, int64(n)))
	if err != nil {
		return nil, fmt.Errorf("httpds: read prefix of %s: %w", url, err)
	}
	return b, nil
}
