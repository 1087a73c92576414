// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/vidrelay/vidrelay/internal/log"
	"github.com/vidrelay/vidrelay/internal/metrics"
	"github.com/vidrelay/vidrelay/internal/procgroup"
)

// DefaultTitle is used whenever a title cannot be determined.
const DefaultTitle = "video"

// downloaderArgs builds the argument list for a raw-media download to stdout.
func downloaderArgs(selection, url string) []string {
	return []string{"-f", selection, "-o", "-", url}
}

// ProbeTitle asks the downloader for the media title. The probe is
// best-effort: it is bounded by the configured timeout and any failure
// (timeout, missing executable, non-zero exit) falls back to DefaultTitle
// without affecting the download itself.
func (o *Orchestrator) ProbeTitle(ctx context.Context, url string) string {
	logger := log.WithContext(ctx, o.logger)

	ctx, cancel := context.WithTimeout(ctx, o.cfg.TitleProbeTimeout)
	defer cancel()

	// #nosec G204 -- binary path comes from operator configuration, url is a single argv element
	cmd := exec.CommandContext(ctx, o.cfg.DownloaderPath, "--print", "title", url)
	// The downloader forks helper processes that inherit the stdout pipe; at
	// the deadline the whole group must die or Output blocks on the pipe
	// held open by a surviving helper.
	procgroup.Set(cmd)
	cmd.Cancel = func() error { return procgroup.Kill(cmd) }
	cmd.WaitDelay = time.Second

	out, err := cmd.Output()
	if err != nil {
		metrics.IncTitleProbe(false)
		logger.Debug().
			Err(err).
			Str(log.FieldEvent, "probe.title_failed").
			Msg("title probe failed, using default title")
		return DefaultTitle
	}

	title, _, _ := strings.Cut(string(out), "\n")
	title = strings.TrimSpace(title)
	if title == "" {
		metrics.IncTitleProbe(false)
		return DefaultTitle
	}

	metrics.IncTitleProbe(true)
	return title
}
