// SPDX-License-Identifier: MIT

package api

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vidrelay/vidrelay/internal/format"
	"github.com/vidrelay/vidrelay/internal/log"
	"github.com/vidrelay/vidrelay/internal/metrics"
	"github.com/vidrelay/vidrelay/internal/pipeline"
	"github.com/vidrelay/vidrelay/internal/platform"
	"github.com/vidrelay/vidrelay/internal/sanitize"
)

// platformEntry is the /api/platforms JSON element.
type platformEntry struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

func (s *Server) handlePlatforms(w http.ResponseWriter, _ *http.Request) {
	all := platform.All()
	entries := make([]platformEntry, len(all))
	for i, p := range all {
		entries[i] = platformEntry{Name: p.Name, Icon: p.Icon}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.WithComponentFromContext(ctx, "api")

	rawURL := strings.TrimSpace(r.URL.Query().Get("url"))
	if rawURL == "" {
		writeBadRequest(w, errorResponse{
			Error:     "missing url parameter",
			Supported: platform.Names(),
		})
		return
	}

	p, ok := platform.Match(rawURL)
	if !ok {
		writeBadRequest(w, errorResponse{
			Error:     "unsupported platform",
			Message:   "the URL does not match any supported platform",
			Supported: platform.Names(),
		})
		return
	}

	quality := format.ParseQuality(r.URL.Query().Get("quality"))
	selection := format.Selection(quality, p.Name)

	logger.Info().
		Str(log.FieldEvent, "download.requested").
		Str(log.FieldPlatform, p.Name).
		Str(log.FieldQuality, string(quality)).
		Str(log.FieldURL, rawURL).
		Msg("download requested")

	// Best-effort: a failed probe must never block the download.
	title := s.pipeline.ProbeTitle(ctx, rawURL)

	stream, err := s.pipeline.Start(ctx, pipeline.Spec{
		URL:       rawURL,
		Selection: selection,
		AudioOnly: quality.IsAudio(),
	})
	if err != nil {
		logger.Error().
			Err(err).
			Str(log.FieldEvent, "download.setup_failed").
			Str(log.FieldPlatform, p.Name).
			Msg("failed to start download pipeline")
		metrics.IncDownload(p.Name, string(quality), false)
		writeServerError(w, err.Error())
		return
	}

	metrics.DownloadsActive.Inc()
	defer metrics.DownloadsActive.Dec()

	setStreamingHeaders(w, title, quality.IsAudio())
	w.WriteHeader(http.StatusOK)

	start := time.Now()
	_, copyErr := io.Copy(newFlushWriter(w), stream.Output)
	closeErr := stream.Close()

	switch {
	case ctx.Err() != nil:
		// Client went away; both child processes are already dead.
		logger.Info().
			Str(log.FieldEvent, "download.client_disconnected").
			Str(log.FieldPlatform, p.Name).
			Int64("bytes_relayed", stream.BytesRelayed()).
			Msg("client disconnected, pipeline terminated")
		metrics.IncDownload(p.Name, string(quality), false)
		metrics.ObserveDownloadDuration(p.Name, false, time.Since(start))
	case copyErr != nil || closeErr != nil:
		// Headers are gone; all that can happen is a truncated body.
		logger.Error().
			AnErr("copy_error", copyErr).
			AnErr("close_error", closeErr).
			Str(log.FieldEvent, "download.stream_failed").
			Str(log.FieldPlatform, p.Name).
			Msg("download stream failed mid-flight")
		metrics.IncDownload(p.Name, string(quality), false)
		metrics.ObserveDownloadDuration(p.Name, false, time.Since(start))
	default:
		logger.Info().
			Str(log.FieldEvent, "download.completed").
			Str(log.FieldPlatform, p.Name).
			Str(log.FieldTitle, title).
			Int64("bytes_relayed", stream.BytesRelayed()).
			Dur("duration", time.Since(start)).
			Msg("download completed")
		metrics.IncDownload(p.Name, string(quality), true)
		metrics.ObserveDownloadDuration(p.Name, true, time.Since(start))
	}
}

// setStreamingHeaders sets the success headers for a streamed media response.
// The Content-Disposition carries an ASCII-safe fallback name plus an RFC 5987
// extended parameter so non-ASCII titles survive.
func setStreamingHeaders(w http.ResponseWriter, title string, audioOnly bool) {
	contentType, ext := "video/mp4", ".mp4"
	if audioOnly {
		contentType, ext = "audio/mp4", ".m4a"
	}

	ascii := sanitize.Filename(title) + ext
	extended := url.PathEscape(title + ext)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, ascii, extended))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
}

// flushWriter flushes after every write so media bytes reach the client as
// they are produced instead of sitting in the server's buffer.
type flushWriter struct {
	w http.ResponseWriter
	f http.Flusher
}

func newFlushWriter(w http.ResponseWriter) io.Writer {
	f, _ := w.(http.Flusher)
	return &flushWriter{w: w, f: f}
}

func (fw *flushWriter) Write(p []byte) (int, error) {
	n, err := fw.w.Write(p)
	if fw.f != nil {
		fw.f.Flush()
	}
	return n, err
}
