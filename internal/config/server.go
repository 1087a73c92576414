// SPDX-License-Identifier: MIT

package config

import "time"

// ServerConfig holds http.Server level settings.
//
// WriteTimeout is intentionally zero: download responses stream for an
// unbounded duration and must not be cut off by the server.
type ServerConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxHeaderBytes  int
}

// ParseServerConfig reads server tuning knobs from the environment.
func ParseServerConfig() ServerConfig {
	return ServerConfig{
		ReadTimeout:     ParseDuration("VIDRELAY_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    ParseDuration("VIDRELAY_WRITE_TIMEOUT", 0),
		IdleTimeout:     ParseDuration("VIDRELAY_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: ParseDuration("VIDRELAY_SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxHeaderBytes:  ParseInt("VIDRELAY_MAX_HEADER_BYTES", 1<<20),
	}
}
