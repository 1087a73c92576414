// SPDX-License-Identifier: MIT

// Package pipeline orchestrates the per-request process pair: an external
// downloader writing raw media to stdout, bridged into an external transcoder
// that emits a progressively writable MP4 on its stdout. Both processes live
// exactly as long as one request.
package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vidrelay/vidrelay/internal/log"
	"github.com/vidrelay/vidrelay/internal/metrics"
	"github.com/vidrelay/vidrelay/internal/procgroup"
)

var (
	// ErrDownloaderNotFound indicates the downloader executable is not on PATH.
	ErrDownloaderNotFound = errors.New("downloader executable not found")
	// ErrTranscoderNotFound indicates the transcoder executable is not on PATH.
	ErrTranscoderNotFound = errors.New("transcoder executable not found")
)

// Config holds the orchestrator's process-wide settings.
type Config struct {
	DownloaderPath    string
	TranscoderPath    string
	TitleProbeTimeout time.Duration
}

// Orchestrator spawns and supervises download pipelines.
type Orchestrator struct {
	cfg    Config
	logger zerolog.Logger
}

// New creates an orchestrator. Zero-value fields get working defaults.
func New(cfg Config) *Orchestrator {
	if cfg.DownloaderPath == "" {
		cfg.DownloaderPath = "yt-dlp"
	}
	if cfg.TranscoderPath == "" {
		cfg.TranscoderPath = "ffmpeg"
	}
	if cfg.TitleProbeTimeout <= 0 {
		cfg.TitleProbeTimeout = 10 * time.Second
	}
	return &Orchestrator{
		cfg:    cfg,
		logger: log.WithComponent("pipeline"),
	}
}

// Spec describes one download request.
type Spec struct {
	URL       string
	Selection string // downloader format-selection expression
	AudioOnly bool
}

// Stream is a running pipeline. Output is the transcoder's stdout; the caller
// reads it to exhaustion (or abandons it) and then calls Close exactly once.
type Stream struct {
	// Output carries the normalized container bytes.
	Output io.Reader

	downloader *exec.Cmd
	transcoder *exec.Cmd
	reqCtx     context.Context
	cancel     context.CancelFunc
	group      *errgroup.Group
	bridged    atomic.Int64
	relayErr   atomic.Pointer[error]
	logger     zerolog.Logger
}

// Start spawns the downloader and transcoder and wires them together. The
// returned Stream's lifetime is bound to ctx: cancelling ctx kills both
// process groups without waiting for graceful exit.
func (o *Orchestrator) Start(ctx context.Context, spec Spec) (*Stream, error) {
	logger := log.WithContext(ctx, o.logger)

	dlPath, err := exec.LookPath(o.cfg.DownloaderPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrDownloaderNotFound, o.cfg.DownloaderPath)
	}
	tcPath, err := exec.LookPath(o.cfg.TranscoderPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrTranscoderNotFound, o.cfg.TranscoderPath)
	}

	// #nosec G204 -- both paths come from operator configuration; spec fields are single argv elements
	downloader := exec.Command(dlPath, downloaderArgs(spec.Selection, spec.URL)...)
	// #nosec G204
	transcoder := exec.Command(tcPath, transcoderArgs(spec.AudioOnly)...)
	procgroup.Set(downloader)
	procgroup.Set(transcoder)

	dlOut, err := downloader.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("downloader stdout pipe: %w", err)
	}
	dlErr, err := downloader.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("downloader stderr pipe: %w", err)
	}
	tcIn, err := transcoder.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("transcoder stdin pipe: %w", err)
	}
	tcOut, err := transcoder.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("transcoder stdout pipe: %w", err)
	}
	tcErr, err := transcoder.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("transcoder stderr pipe: %w", err)
	}

	if err := downloader.Start(); err != nil {
		return nil, fmt.Errorf("start downloader: %w", err)
	}
	if err := transcoder.Start(); err != nil {
		_ = procgroup.Kill(downloader)
		_ = downloader.Wait()
		return nil, fmt.Errorf("start transcoder: %w", err)
	}

	logger.Info().
		Str(log.FieldEvent, "pipeline.started").
		Int("downloader_pid", downloader.Process.Pid).
		Int("transcoder_pid", transcoder.Process.Pid).
		Bool("audio_only", spec.AudioOnly).
		Msg("pipeline processes started")

	runCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(runCtx)

	s := &Stream{
		Output:     tcOut,
		downloader: downloader,
		transcoder: transcoder,
		reqCtx:     ctx,
		cancel:     cancel,
		group:      g,
		logger:     logger,
	}

	// Reaper: a cancelled request (or a failed relay) must tear down both
	// process groups immediately.
	g.Go(func() error {
		<-gctx.Done()
		if err := procgroup.Kill(downloader); err != nil {
			logger.Warn().Err(err).Str(log.FieldEvent, "pipeline.kill_failed").Msg("failed to kill downloader group")
		}
		if err := procgroup.Kill(transcoder); err != nil {
			logger.Warn().Err(err).Str(log.FieldEvent, "pipeline.kill_failed").Msg("failed to kill transcoder group")
		}
		return nil
	})

	// Bridge: relay downloader stdout into transcoder stdin, close stdin at
	// EOF to signal end-of-stream.
	g.Go(func() error {
		defer func() {
			if err := tcIn.Close(); err != nil {
				logger.Debug().Err(err).Msg("failed to close transcoder stdin")
			}
		}()
		n, err := io.Copy(tcIn, dlOut)
		s.bridged.Add(n)
		metrics.DownloadBytes.Add(float64(n))
		if err != nil && gctx.Err() == nil && !isExpectedStreamError(err) {
			relayErr := fmt.Errorf("relay downloader to transcoder: %w", err)
			s.relayErr.Store(&relayErr)
			return relayErr
		}
		return nil
	})

	// Stderr drains are observability only and never fail the pipeline.
	g.Go(func() error {
		drainStderr(logger, "downloader", dlErr)
		return nil
	})
	g.Go(func() error {
		drainStderr(logger, "transcoder", tcErr)
		return nil
	})

	return s, nil
}

// BytesRelayed reports how many raw bytes crossed the bridge so far.
func (s *Stream) BytesRelayed() int64 {
	return s.bridged.Load()
}

// Close tears the pipeline down: it kills both process groups if they are
// still alive, waits for every relay and drain task, and reaps both
// processes. It returns the relay error, if any; a transcoder that exited
// abnormally while the request was still live is also an error, since the
// client received a truncated body. Safe on every exit path; must be called
// exactly once.
func (s *Stream) Close() error {
	s.cancel()
	_ = s.group.Wait()

	dlWait := s.downloader.Wait()
	tcWait := s.transcoder.Wait()

	s.logger.Debug().
		Str(log.FieldEvent, "pipeline.closed").
		Int64("bytes_relayed", s.bridged.Load()).
		AnErr("downloader_exit", dlWait).
		AnErr("transcoder_exit", tcWait).
		Msg("pipeline torn down")

	if errPtr := s.relayErr.Load(); errPtr != nil {
		return *errPtr
	}
	// When the request context is cancelled the reaper kills both children,
	// so their exit statuses carry no signal.
	if s.reqCtx.Err() == nil && tcWait != nil {
		return fmt.Errorf("transcoder exited abnormally: %w", tcWait)
	}
	return nil
}

func drainStderr(logger zerolog.Logger, name string, r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		logger.Debug().
			Str("process", name).
			Str("stderr", scanner.Text()).
			Msg("child process output")
	}
}

// isExpectedStreamError reports errors that are normal during teardown, such
// as the transcoder exiting before the downloader finished writing.
func isExpectedStreamError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "file already closed") ||
		strings.Contains(msg, "connection reset")
}
