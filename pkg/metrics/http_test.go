package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPMetricsExportsRequestData(t *testing.T) {
	m := NewHTTPMetrics()
	m.ObserveRequest(http.MethodGet, "/api/products", 200, 30*time.Millisecond)
	m.ObserveRequest(http.MethodPost, "/api/checkout", 502, 120*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "", 301, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	checks := []string{
		`http_requests_total{method="GET",route="/api/products",status="2xx"} 1`,
		`http_requests_total{method="POST",route="/api/checkout",status="5xx"} 1`,
		`http_requests_total{method="GET",route="unknown",status="3xx"} 1`,
		`http_request_duration_seconds_count{method="GET",route="/api/products"} 1`,
	}
	for _, sub := range checks {
		if !strings.Contains(body, sub) {
			t.Errorf("scrape output missing %q", sub)
		}
	}
}

func TestHTTPMetricsNilReceiverIsNoop(t *testing.T) {
	var m *HTTPMetrics
	m.ObserveRequest(http.MethodGet, "/x", 200, time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("nil handler status = %d, want 404", rec.Code)
	}
}
