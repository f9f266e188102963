package mw

import (
	"net/http"
	"strconv"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/metrics"
)

// Metrics records request count and latency per route pattern.
func Metrics(reg *metrics.Registry) func(http.Handler) http.Handler {
	if reg == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w}

			next.ServeHTTP(ww, r)

			route := routePattern(r)
			reg.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(ww.code())).Inc()
			reg.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}
