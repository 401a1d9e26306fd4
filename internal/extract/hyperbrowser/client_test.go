package hyperbrowser_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seokeys/internal/extract"
	"seokeys/internal/extract/hyperbrowser"
)

func newClient(srv *httptest.Server, opts ...hyperbrowser.Option) *hyperbrowser.Client {
	base := []hyperbrowser.Option{
		hyperbrowser.WithBaseURL(srv.URL),
		hyperbrowser.WithPollInterval(5 * time.Millisecond),
		hyperbrowser.WithRetry(2, time.Millisecond),
	}
	return hyperbrowser.New("test-key", append(base, opts...)...)
}

func TestClient_Extract(t *testing.T) {
	t.Parallel()

	t.Run("starts job and polls until completed", func(t *testing.T) {
		t.Parallel()

		var polls atomic.Int32
		var mu sync.Mutex
		var gotBody extract.Request
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/extract", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			mu.Lock()
			defer mu.Unlock()
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			_, _ = w.Write([]byte(`{"jobId":"job-1"}`))
		})
		mux.HandleFunc("GET /api/extract/job-1", func(w http.ResponseWriter, r *http.Request) {
			if polls.Add(1) < 3 {
				_, _ = w.Write([]byte(`{"jobId":"job-1","status":"running"}`))
				return
			}
			_, _ = w.Write([]byte(`{"jobId":"job-1","status":"completed","data":{"suggestions":[]}}`))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		res, err := newClient(srv).Extract(context.Background(), extract.Request{
			URLs:   []string{"https://example.com"},
			Prompt: "find keywords",
			Schema: &extract.Schema{Type: extract.TypeObject},
		})

		require.NoError(t, err)
		assert.Equal(t, extract.StatusCompleted, res.Status)
		assert.Equal(t, "job-1", res.JobID)
		assert.JSONEq(t, `{"suggestions":[]}`, string(res.Data))
		assert.Equal(t, int32(3), polls.Load())

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []string{"https://example.com"}, gotBody.URLs)
		assert.Equal(t, "find keywords", gotBody.Prompt)
		require.NotNil(t, gotBody.Schema)
		assert.Equal(t, extract.TypeObject, gotBody.Schema.Type)
	})

	t.Run("failed job is returned as a result", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/extract", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"jobId":"job-2"}`))
		})
		mux.HandleFunc("GET /api/extract/job-2", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"failed","error":"page unreachable"}`))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		res, err := newClient(srv).Extract(context.Background(), extract.Request{URLs: []string{"https://example.com"}})

		require.NoError(t, err)
		assert.Equal(t, extract.StatusFailed, res.Status)
		assert.Equal(t, "job-2", res.JobID)
		assert.Equal(t, "page unreachable", res.Error)
		assert.False(t, res.HasData())
	})

	t.Run("server errors are retried", func(t *testing.T) {
		t.Parallel()

		var starts atomic.Int32
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/extract", func(w http.ResponseWriter, r *http.Request) {
			if starts.Add(1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte(`{"jobId":"job-3"}`))
		})
		mux.HandleFunc("GET /api/extract/job-3", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"completed","data":{}}`))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		res, err := newClient(srv).Extract(context.Background(), extract.Request{URLs: []string{"https://example.com"}})

		require.NoError(t, err)
		assert.Equal(t, extract.StatusCompleted, res.Status)
		assert.Equal(t, int32(2), starts.Load())
	})

	t.Run("lost start response is not retried", func(t *testing.T) {
		t.Parallel()

		var starts atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			starts.Add(1)
			// The job is accepted but the connection drops before the reply.
			conn, _, err := w.(http.Hijacker).Hijack()
			if err == nil {
				_ = conn.Close()
			}
		}))
		defer srv.Close()

		_, err := newClient(srv).Extract(context.Background(), extract.Request{URLs: []string{"https://example.com"}})

		require.Error(t, err)
		assert.Equal(t, int32(1), starts.Load(), "a second start could create a second paid job")
	})

	t.Run("rate limited start is retried", func(t *testing.T) {
		t.Parallel()

		var starts atomic.Int32
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/extract", func(w http.ResponseWriter, r *http.Request) {
			if starts.Add(1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			_, _ = w.Write([]byte(`{"jobId":"job-4"}`))
		})
		mux.HandleFunc("GET /api/extract/job-4", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"completed","data":{}}`))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		res, err := newClient(srv).Extract(context.Background(), extract.Request{URLs: []string{"https://example.com"}})

		require.NoError(t, err)
		assert.Equal(t, extract.StatusCompleted, res.Status)
		assert.Equal(t, int32(2), starts.Load())
	})

	t.Run("auth errors are not retried", func(t *testing.T) {
		t.Parallel()

		var starts atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			starts.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"invalid api key"}`))
		}))
		defer srv.Close()

		_, err := newClient(srv).Extract(context.Background(), extract.Request{URLs: []string{"https://example.com"}})

		require.Error(t, err)
		var apiErr *hyperbrowser.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode())
		assert.Equal(t, int32(1), starts.Load())
	})

	t.Run("timeout stops polling", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/extract", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"jobId":"slow"}`))
		})
		mux.HandleFunc("GET /api/extract/slow", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"pending"}`))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		client := newClient(srv, hyperbrowser.WithTimeout(50*time.Millisecond))
		_, err := client.Extract(context.Background(), extract.Request{URLs: []string{"https://example.com"}})

		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("requires a url", func(t *testing.T) {
		t.Parallel()

		_, err := hyperbrowser.New("key").Extract(context.Background(), extract.Request{})
		require.Error(t, err)
	})
}
