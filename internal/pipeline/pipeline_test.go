// SPDX-License-Identifier: MIT

//go:build unix && !windows

package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// writeStub creates an executable shell script standing in for the external
// downloader or transcoder.
func writeStub(t *testing.T, dir, name, script string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func TestStartAndStreamHappyPath(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	dl := writeStub(t, dir, "fake-dl", `printf 'raw media payload'`)
	tc := writeStub(t, dir, "fake-ffmpeg", `cat`)

	o := New(Config{DownloaderPath: dl, TranscoderPath: tc})

	s, err := o.Start(context.Background(), Spec{URL: "https://example.com/v", Selection: "best"})
	require.NoError(t, err)

	body, err := io.ReadAll(s.Output)
	require.NoError(t, err)
	assert.Equal(t, "raw media payload", string(body))

	require.NoError(t, s.Close())
	assert.Equal(t, int64(len("raw media payload")), s.BytesRelayed())
}

func TestCancellationKillsBothProcesses(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	// Both stubs would run for 30s if not killed.
	dl := writeStub(t, dir, "fake-dl", `sleep 30`)
	tc := writeStub(t, dir, "fake-ffmpeg", `sleep 30`)

	o := New(Config{DownloaderPath: dl, TranscoderPath: tc})

	ctx, cancel := context.WithCancel(context.Background())
	s, err := o.Start(ctx, Spec{URL: "https://example.com/v", Selection: "best"})
	require.NoError(t, err)

	cancel()

	done := make(chan struct{})
	go func() {
		_ = s.Close()
		close(done)
	}()

	select {
	case <-done:
		// Close returning means both children were reaped.
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline did not tear down after cancellation")
	}

	require.NotNil(t, s.downloader.ProcessState)
	require.NotNil(t, s.transcoder.ProcessState)
	assert.True(t, s.downloader.ProcessState.Exited() || !s.downloader.ProcessState.Success())
	assert.True(t, s.transcoder.ProcessState.Exited() || !s.transcoder.ProcessState.Success())
}

func TestCloseReportsTranscoderFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	dl := writeStub(t, dir, "fake-dl", `printf 'raw media payload'`)
	// Transcoder emits a partial body and then crashes.
	tc := writeStub(t, dir, "fake-ffmpeg", "printf 'partial'\nexit 3")

	o := New(Config{DownloaderPath: dl, TranscoderPath: tc})

	s, err := o.Start(context.Background(), Spec{URL: "https://example.com/v", Selection: "best"})
	require.NoError(t, err)

	body, err := io.ReadAll(s.Output)
	require.NoError(t, err)
	assert.Equal(t, "partial", string(body))

	err = s.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transcoder exited abnormally")
}

func TestStartMissingDownloader(t *testing.T) {
	o := New(Config{
		DownloaderPath: "/nonexistent/definitely-not-here",
		TranscoderPath: "cat",
	})
	_, err := o.Start(context.Background(), Spec{URL: "https://example.com/v", Selection: "best"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDownloaderNotFound)
}

func TestStartMissingTranscoder(t *testing.T) {
	dir := t.TempDir()
	dl := writeStub(t, dir, "fake-dl", `printf x`)

	o := New(Config{
		DownloaderPath: dl,
		TranscoderPath: "/nonexistent/definitely-not-here",
	})
	_, err := o.Start(context.Background(), Spec{URL: "https://example.com/v", Selection: "best"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTranscoderNotFound)
}

func TestProbeTitle(t *testing.T) {
	dir := t.TempDir()
	dl := writeStub(t, dir, "fake-dl", `echo "A Nice Title"`)

	o := New(Config{DownloaderPath: dl, TranscoderPath: "cat"})
	assert.Equal(t, "A Nice Title", o.ProbeTitle(context.Background(), "https://example.com/v"))
}

func TestProbeTitleTimeoutFallsBack(t *testing.T) {
	dir := t.TempDir()
	// The helper forked by the shell inherits stdout; the deadline must kill
	// the whole process group or the probe blocks on the open pipe.
	dl := writeStub(t, dir, "fake-dl", "sleep 30 &\nwait")

	o := New(Config{
		DownloaderPath:    dl,
		TranscoderPath:    "cat",
		TitleProbeTimeout: 100 * time.Millisecond,
	})
	start := time.Now()
	assert.Equal(t, DefaultTitle, o.ProbeTitle(context.Background(), "https://example.com/v"))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestProbeTitleMissingExecutableFallsBack(t *testing.T) {
	o := New(Config{DownloaderPath: "/nonexistent/definitely-not-here"})
	assert.Equal(t, DefaultTitle, o.ProbeTitle(context.Background(), "https://example.com/v"))
}

func TestProbeTitleEmptyOutputFallsBack(t *testing.T) {
	dir := t.TempDir()
	dl := writeStub(t, dir, "fake-dl", `echo ""`)

	o := New(Config{DownloaderPath: dl})
	assert.Equal(t, DefaultTitle, o.ProbeTitle(context.Background(), "https://example.com/v"))
}

func TestDownloaderArgs(t *testing.T) {
	args := downloaderArgs("best[height<=720]", "https://example.com/v")
	assert.Equal(t, []string{"-f", "best[height<=720]", "-o", "-", "https://example.com/v"}, args)
}

func TestTranscoderArgs(t *testing.T) {
	video := transcoderArgs(false)
	assert.Contains(t, video, "copy")
	assert.Contains(t, video, "frag_keyframe+empty_moov")
	assert.NotContains(t, video, "-vn")

	audio := transcoderArgs(true)
	assert.Contains(t, audio, "-vn")
	assert.NotContains(t, audio, "copy")
}
