// SPDX-License-Identifier: MIT

// Package middleware provides the canonical HTTP ingress middleware stack.
package middleware

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// StackConfig configures the canonical ingress middleware stack.
type StackConfig struct {
	AllowedOrigins []string

	EnableMetrics bool
	EnableLogging bool

	RateLimitEnabled bool
	RateLimitRPS     int
	RateLimitBurst   int
}

// NewRouter constructs a chi router with the canonical middleware applied.
func NewRouter(cfg StackConfig) *chi.Mux {
	r := chi.NewRouter()
	ApplyStack(r, cfg)
	return r
}

// ApplyStack applies the canonical middleware stack to r, outermost first:
// recovery, correlation, CORS, observability, rate limiting.
func ApplyStack(r chi.Router, cfg StackConfig) {
	r.Use(Recoverer)
	r.Use(RequestID)
	r.Use(CORS(cfg.AllowedOrigins))
	if cfg.EnableMetrics {
		r.Use(Metrics())
	}
	if cfg.EnableLogging {
		r.Use(Logging)
	}
	if cfg.RateLimitEnabled && cfg.RateLimitRPS > 0 {
		limit := cfg.RateLimitRPS
		if cfg.RateLimitBurst > limit {
			limit = cfg.RateLimitBurst
		}
		r.Use(httprate.LimitByIP(limit, time.Second))
	}
}
