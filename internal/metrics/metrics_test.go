package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegistryCounts(t *testing.T) {
	r := New()

	r.Redirects.WithLabelValues(RedirectFound).Inc()
	r.Redirects.WithLabelValues(RedirectFound).Inc()
	r.Redirects.WithLabelValues(RedirectNotFound).Inc()

	if got := testutil.ToFloat64(r.Redirects.WithLabelValues(RedirectFound)); got != 2 {
		t.Errorf("found redirects = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.Redirects.WithLabelValues(RedirectNotFound)); got != 1 {
		t.Errorf("not_found redirects = %v, want 1", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := New()
	r.RequestsTotal.WithLabelValues("GET", "/{short_url}", "302").Inc()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		"bookmarks_http_requests_total",
		`route="/{short_url}"`,
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.Redirects.WithLabelValues(RedirectFound).Inc()
	if got := testutil.ToFloat64(b.Redirects.WithLabelValues(RedirectFound)); got != 0 {
		t.Errorf("second registry saw %v redirects, want 0", got)
	}
}
