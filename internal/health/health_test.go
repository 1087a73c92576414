// SPDX-License-Identifier: MIT

package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeHealth(t *testing.T) {
	m := NewManager()

	before := time.Now().UnixMilli()
	rr := httptest.NewRecorder()
	m.ServeHealth(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	after := time.Now().UnixMilli()

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp LivenessResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, StatusOK, resp.Status)
	assert.GreaterOrEqual(t, resp.Timestamp, before)
	assert.LessOrEqual(t, resp.Timestamp, after)
}

// failingWriter rejects every body write, like a client that went away
// between the header and the payload.
type failingWriter struct {
	header http.Header
	code   int
}

func (w *failingWriter) Header() http.Header { return w.header }

func (w *failingWriter) WriteHeader(code int) { w.code = code }

func (w *failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection closed")
}

func TestServeHealthWriteFailure(t *testing.T) {
	m := NewManager()

	w := &failingWriter{header: make(http.Header)}
	m.ServeHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.code)
}

func TestServeReadyWriteFailure(t *testing.T) {
	m := NewManager()
	m.RegisterChecker(NewExecChecker("shell", "sh"))

	w := &failingWriter{header: make(http.Header)}
	m.ServeReady(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusOK, w.code)
}

func TestServeReadyAllPassing(t *testing.T) {
	m := NewManager()
	m.RegisterChecker(NewExecChecker("shell", "sh"))

	rr := httptest.NewRecorder()
	m.ServeReady(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Ready)
	assert.Equal(t, StatusOK, resp.Checks["shell"].Status)
}

func TestServeReadyFailingChecker(t *testing.T) {
	m := NewManager()
	m.RegisterChecker(NewExecChecker("downloader", "/nonexistent/not-a-binary"))

	rr := httptest.NewRecorder()
	m.ServeReady(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, rr.Code)

	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Ready)
	assert.Equal(t, StatusUnhealthy, resp.Checks["downloader"].Status)
}
