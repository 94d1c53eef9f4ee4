// internal/platform/httpclient/client_test.go
package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"kirwada/internal/platform/errors"
	"kirwada/internal/testutil"
)

func newTestClient(retries int) *Client {
	return New(Config{
		Timeout:    2 * time.Second,
		MaxRetries: retries,
		Backoff:    time.Millisecond,
	}, testutil.NewTestLogger())
}

func TestDoRetriesTransientStatus(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	resp, err := newTestClient(2).Get(context.Background(), srv.URL, nil)
	testutil.AssertNoError(t, err, "retried request should succeed")
	defer resp.Body.Close()

	testutil.AssertEqual(t, resp.StatusCode, http.StatusOK, "final status")
	testutil.AssertEqual(t, atomic.LoadInt32(&calls), int32(2), "one retry")
}

func TestDoResendsBodyOnRetry(t *testing.T) {
	const payload = `{"query":"target@example.com"}`

	var calls int32
	bodies := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		bodies <- string(data)
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	resp, err := newTestClient(2).Do(context.Background(),
		http.MethodPost, srv.URL, []byte(payload), nil)
	testutil.AssertNoError(t, err, "retried POST should succeed")
	resp.Body.Close()

	testutil.AssertEqual(t, atomic.LoadInt32(&calls), int32(2), "one retry")
	for i := 0; i < 2; i++ {
		testutil.AssertEqual(t, <-bodies, payload, "each attempt carries the full body")
	}
}

func TestDoGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(1).Get(context.Background(), srv.URL, nil)
	testutil.AssertError(t, err, "exhausted retries fail")
	testutil.AssertContains(t, err.Error(), "after 2 attempts", "attempt count in error")
	testutil.AssertEqual(t, atomic.LoadInt32(&calls), int32(2), "initial try plus one retry")
}

func TestDoDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	resp, err := newTestClient(3).Get(context.Background(), srv.URL, nil)
	testutil.AssertNoError(t, err, "non-retryable status is returned as-is")
	resp.Body.Close()

	testutil.AssertEqual(t, resp.StatusCode, http.StatusNotFound, "status passed through")
	testutil.AssertEqual(t, atomic.LoadInt32(&calls), int32(1), "no retry on 4xx")
}

func TestCheckStatusMapsTaxonomy(t *testing.T) {
	tests := []struct {
		code    int
		wantErr error
	}{
		{http.StatusOK, nil},
		{http.StatusNoContent, nil},
		{http.StatusNotFound, errors.ErrNotFound},
		{http.StatusTooManyRequests, errors.ErrRateLimit},
	}
	for _, tt := range tests {
		resp := &http.Response{StatusCode: tt.code, Status: http.StatusText(tt.code)}
		err := CheckStatus(resp)
		if tt.wantErr == nil {
			testutil.AssertNoError(t, err, http.StatusText(tt.code))
			continue
		}
		testutil.AssertTrue(t, errors.Is(err, tt.wantErr), http.StatusText(tt.code))
	}

	err := CheckStatus(&http.Response{StatusCode: http.StatusInternalServerError, Status: "500 Internal Server Error"})
	testutil.AssertError(t, err, "5xx is an error")
	testutil.AssertContains(t, err.Error(), "HTTP 500", "status code in message")
}

func TestFetchJSONDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		testutil.AssertEqual(t, r.Header.Get("Accept"), "application/json", "accept header set")
		w.Write([]byte(`{"name":"kirwada","count":3}`))
	}))
	defer srv.Close()

	var out struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	err := newTestClient(0).FetchJSON(context.Background(), srv.URL, nil, &out)
	testutil.AssertNoError(t, err, "fetch json")
	testutil.AssertEqual(t, out.Name, "kirwada", "decoded name")
	testutil.AssertEqual(t, out.Count, 3, "decoded count")
}

func TestFetchJSONRejectsGarbage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	var out map[string]any
	err := newTestClient(0).FetchJSON(context.Background(), srv.URL, nil, &out)
	testutil.AssertTrue(t, errors.Is(err, errors.ErrInvalidResponse), "invalid body classified")
}
