// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vidrelay/vidrelay/internal/metrics"
)

// Metrics records per-request counters labeled by the chi route pattern so
// parametrized paths do not explode label cardinality.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w}

			next.ServeHTTP(sw, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			metrics.HTTPRequestsTotal.
				WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).
				Inc()
		})
	}
}
