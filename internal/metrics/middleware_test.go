package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func serve(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, http.NoBody))
	return rr
}

func TestMiddleware_RecordsDurationAndCount(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/v1/datasets/{dataset}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/datasets/{dataset}", "200"))
	serve(t, r, "GET", "/api/v1/datasets/campaigns")
	serve(t, r, "GET", "/api/v1/datasets/coupons")

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/datasets/{dataset}", "200"))
	if got-before != 2 {
		t.Errorf("requests under the route pattern = %v, want 2", got-before)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/created", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.WriteHeader(http.StatusInternalServerError)
	})
	r.Get("/error", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	tests := []struct {
		path   string
		status string
	}{
		{"/ok", "200"},
		{"/created", "201"},
		{"/error", "500"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			serve(t, r, "GET", tc.path)
			if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", tc.path, tc.status)); got < 1 {
				t.Errorf("requests_total{status=%s} = %v, want >= 1", tc.status, got)
			}
		})
	}
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/known", func(w http.ResponseWriter, _ *http.Request) {})

	serve(t, r, "GET", "/nope/123")
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unknown", "404")); got < 1 {
		t.Errorf("requests_total{path=unknown} = %v, want >= 1", got)
	}
}

func TestMiddleware_Streaming(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/stream", func(w http.ResponseWriter, _ *http.Request) {
		if got := testutil.ToFloat64(httpInFlight); got < 1 {
			t.Errorf("in-flight during stream = %v, want >= 1", got)
		}
		rc := http.NewResponseController(w)
		_, _ = w.Write([]byte("data: 1\n\n"))
		if err := rc.Flush(); err != nil {
			t.Errorf("Flush through middleware: %v", err)
		}
	})

	plainBefore := testutil.CollectAndCount(httpRequestDuration)
	rr := serve(t, r, "GET", "/api/stream")

	if !rr.Flushed {
		t.Error("expected the recorder to be flushed")
	}
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/stream", "200")); got < 1 {
		t.Errorf("requests_total = %v, want >= 1", got)
	}
	if got := testutil.CollectAndCount(httpStreamDuration); got < 1 {
		t.Errorf("stream duration series = %d, want >= 1", got)
	}
	if got := testutil.CollectAndCount(httpRequestDuration); got != plainBefore {
		t.Errorf("stream recorded in request latency: series %d -> %d", plainBefore, got)
	}
	if got := testutil.ToFloat64(httpInFlight); got != 0 {
		t.Errorf("in-flight after stream = %v, want 0", got)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "unknown"},
		{"/api/v1/datasets/{dataset}/query", "/api/v1/datasets/{dataset}/query"},
		{"/health", "/health"},
	}
	for _, tc := range tests {
		if got := normalizePath(tc.input); got != tc.expected {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}
