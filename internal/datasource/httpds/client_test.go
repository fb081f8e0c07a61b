package httpds

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// statusSequence answers with codes in order and repeats the last one.
func statusSequence(hits *int32, codes ...int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		i := int(atomic.AddInt32(hits, 1)) - 1
		if i >= len(codes) {
			i = len(codes) - 1
		}
		w.WriteHeader(codes[i])
	}
}

func fastRetries(n int) Config {
	return Config{
		Timeout:        2 * time.Second,
		MaxRetries:     n,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	}
}

func TestClientGetRetries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		retries    int
		codes      []int
		wantStatus int
		wantErr    int
		wantHits   int32
	}{
		{name: "ok first try", retries: 3, codes: []int{200}, wantStatus: 200, wantHits: 1},
		{name: "recovers after 5xx", retries: 3, codes: []int{500, 502, 200}, wantStatus: 200, wantHits: 3},
		{name: "recovers after 429", retries: 1, codes: []int{429, 200}, wantStatus: 200, wantHits: 2},
		{name: "gives up", retries: 2, codes: []int{503}, wantErr: 503, wantHits: 3},
		{name: "single attempt by default", retries: 0, codes: []int{502}, wantErr: 502, wantHits: 1},
		{name: "4xx is final", retries: 5, codes: []int{400}, wantStatus: 400, wantHits: 1},
		{name: "404 is final", retries: 5, codes: []int{404}, wantStatus: 404, wantHits: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var hits int32
			srv := httptest.NewServer(statusSequence(&hits, tc.codes...))
			defer srv.Close()

			resp, err := NewClient(fastRetries(tc.retries)).Get(context.Background(), srv.URL, nil)
			if tc.wantErr != 0 {
				var se *StatusError
				require.ErrorAs(t, err, &se)
				require.Equal(t, tc.wantErr, se.Code)
				require.Equal(t, http.MethodGet, se.Method)
			} else {
				require.NoError(t, err)
				defer resp.Body.Close()
				require.Equal(t, tc.wantStatus, resp.StatusCode)
			}
			require.Equal(t, tc.wantHits, atomic.LoadInt32(&hits))
		})
	}
}

func TestClientHeaders(t *testing.T) {
	t.Parallel()

	var agent, accept atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent.Store(r.Header.Get("User-Agent"))
		accept.Store(r.Header.Get("Accept"))
	}))
	defer srv.Close()

	resp, err := NewClient(Config{}).Get(context.Background(), srv.URL, http.Header{"accept": {"text/csv"}})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, DefaultUserAgent, agent.Load())
	require.Equal(t, "text/csv", accept.Load())

	resp, err = NewClient(Config{UserAgent: "cities-loader/2"}).Get(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "cities-loader/2", agent.Load())
}

func TestNewClientDefaults(t *testing.T) {
	t.Parallel()

	c := NewClient(Config{InsecureSkipVerify: true, MaxRetries: -4})
	require.Zero(t, c.hc.Timeout)
	require.EqualValues(t, 1, c.tries)
	require.Equal(t, 200*time.Millisecond, c.cfg.InitialBackoff)
	require.Equal(t, 5*time.Second, c.cfg.MaxBackoff)

	tr, ok := c.hc.Transport.(*http.Transport)
	require.True(t, ok, "transport is %T", c.hc.Transport)
	require.True(t, tr.TLSClientConfig.InsecureSkipVerify)
	require.Equal(t, DialTimeout, tr.TLSHandshakeTimeout)

	custom := &http.Transport{}
	require.Same(t, custom, NewClient(Config{Transport: custom, InsecureSkipVerify: true}).hc.Transport)
}

func TestClientGetRejectsEmptyURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{}).Get(context.Background(), "", nil)
	require.ErrorContains(t, err, "url must not be empty")
}

func TestClientZeroTimeoutAllowsSlowBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Geoname ID;Name\n"))
		w.(http.Flusher).Flush()
		time.Sleep(1200 * time.Millisecond)
		_, _ = w.Write([]byte("2988507;Paris\n"))
	}))
	defer srv.Close()

	read := func(timeout time.Duration) ([]byte, error) {
		resp, err := NewClient(Config{Timeout: timeout}).Get(context.Background(), srv.URL, nil)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		return io.ReadAll(resp.Body)
	}

	body, err := read(0)
	require.NoError(t, err)
	require.Equal(t, "Geoname ID;Name\n2988507;Paris\n", string(body))

	_, err = read(300 * time.Millisecond)
	require.Error(t, err)
}
