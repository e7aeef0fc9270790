package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ivlev/dealbook/internal/infrastructure/metrics"
)

func newTestMetrics() *metrics.Metrics {
	registry := prometheus.NewRegistry()

	// Swap the default registry so repeated New calls do not collide.
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	return metrics.New()
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	m := newTestMetrics()
	mw := NewMetricsMiddleware(m)

	handlerCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/deals", nil)
	rr := httptest.NewRecorder()

	mw.Wrap(next).ServeHTTP(rr, req)

	if !handlerCalled {
		t.Fatalf("next handler was not invoked")
	}

	counter := m.HTTPRequests.WithLabelValues(http.MethodPost, "/api/v1/deals", "201")
	if got := promtestutil.ToFloat64(counter); got != 1 {
		t.Fatalf("expected counter to be 1, got %v", got)
	}
}

func TestMetricsMiddlewareDefaultsToOK(t *testing.T) {
	m := newTestMetrics()
	mw := NewMetricsMiddleware(m)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	mw.Wrap(next).ServeHTTP(rr, req)

	counter := m.HTTPRequests.WithLabelValues(http.MethodGet, "/health", "200")
	if got := promtestutil.ToFloat64(counter); got != 1 {
		t.Fatalf("expected counter to be 1, got %v", got)
	}
}

func TestRoutePattern(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/deals/01ABC", nil)

	rctx := chi.NewRouteContext()
	rctx.RoutePatterns = []string{"/api/v1/deals/{id}"}
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	if got := routePattern(req); got != "/api/v1/deals/{id}" {
		t.Fatalf("expected chi pattern, got %q", got)
	}

	plain := httptest.NewRequest(http.MethodGet, "/health", nil)
	if got := routePattern(plain); got != "/health" {
		t.Fatalf("expected raw path fallback, got %q", got)
	}
}
