// SPDX-License-Identifier: MIT

// Package health provides liveness and readiness checks. Liveness always
// reports ok while the process is alive; readiness verifies the external
// tool dependencies are resolvable.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"os/exec"
	"time"

	"github.com/vidrelay/vidrelay/internal/log"
)

// Status represents a component or overall status.
type Status string

const (
	StatusOK        Status = "ok"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult is the outcome of one component check.
type CheckResult struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Checker is a named component health check.
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// LivenessResponse is the /health payload. Timestamp is epoch milliseconds.
type LivenessResponse struct {
	Status    Status `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// ReadinessResponse is the /ready payload.
type ReadinessResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Timestamp int64                  `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// Manager runs registered checkers.
type Manager struct {
	checkers []Checker
}

// NewManager creates an empty health manager.
func NewManager() *Manager {
	return &Manager{}
}

// RegisterChecker adds a component check.
func (m *Manager) RegisterChecker(c Checker) {
	m.checkers = append(m.checkers, c)
}

// ServeHealth handles liveness requests. Always 200 while the process runs.
func (m *Manager) ServeHealth(w http.ResponseWriter, r *http.Request) {
	resp := LivenessResponse{
		Status:    StatusOK,
		Timestamp: time.Now().UnixMilli(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger := log.WithComponentFromContext(r.Context(), "health")
		logger.Error().Err(err).Msg("failed to encode health response")
	}
}

// ServeReady handles readiness requests: 200 when every checker passes,
// 503 otherwise.
func (m *Manager) ServeReady(w http.ResponseWriter, r *http.Request) {
	resp := ReadinessResponse{
		Ready:     true,
		Status:    StatusOK,
		Timestamp: time.Now().UnixMilli(),
	}

	if len(m.checkers) > 0 {
		resp.Checks = make(map[string]CheckResult, len(m.checkers))
		for _, c := range m.checkers {
			result := c.Check(r.Context())
			resp.Checks[c.Name()] = result
			if result.Status != StatusOK {
				resp.Ready = false
				resp.Status = StatusUnhealthy
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if resp.Ready {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger := log.WithComponentFromContext(r.Context(), "health")
		logger.Error().Err(err).Msg("failed to encode readiness response")
	}
}

// ExecChecker verifies an executable resolves on the PATH.
type ExecChecker struct {
	name string
	path string
}

// NewExecChecker creates a checker for the named executable.
func NewExecChecker(name, path string) *ExecChecker {
	return &ExecChecker{name: name, path: path}
}

func (c *ExecChecker) Name() string {
	return c.name
}

func (c *ExecChecker) Check(_ context.Context) CheckResult {
	resolved, err := exec.LookPath(c.path)
	if err != nil {
		return CheckResult{
			Status:  StatusUnhealthy,
			Error:   "executable not found",
			Message: c.path,
		}
	}
	return CheckResult{
		Status:  StatusOK,
		Message: resolved,
	}
}
