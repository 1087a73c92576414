// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "yt-dlp", cfg.DownloaderPath)
	assert.Equal(t, "ffmpeg", cfg.TranscoderPath)
	assert.Equal(t, 10*time.Second, cfg.TitleProbeTimeout)
}

func TestLoadFileThenEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listenAddr: \":9000\"\ndownloaderPath: /opt/yt-dlp\n"), 0o600))

	t.Setenv("VIDRELAY_LISTEN", ":7000")

	cfg, err := Load(path)
	require.NoError(t, err)

	// ENV wins over file, file wins over defaults.
	assert.Equal(t, ":7000", cfg.ListenAddr)
	assert.Equal(t, "/opt/yt-dlp", cfg.DownloaderPath)
	assert.Equal(t, "ffmpeg", cfg.TranscoderPath)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listenAddr: [unterminated"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Setenv("VIDRELAY_TITLE_TIMEOUT", "-1s")
	_, err := Load("")
	assert.Error(t, err)
}

func TestAllowedOriginsFromEnv(t *testing.T) {
	t.Setenv("VIDRELAY_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestParseHelpers(t *testing.T) {
	t.Setenv("VIDRELAY_TEST_INT", "notanint")
	assert.Equal(t, 7, ParseInt("VIDRELAY_TEST_INT", 7))

	t.Setenv("VIDRELAY_TEST_BOOL", "yes")
	assert.True(t, ParseBool("VIDRELAY_TEST_BOOL", false))

	t.Setenv("VIDRELAY_TEST_DUR", "250ms")
	assert.Equal(t, 250*time.Millisecond, ParseDuration("VIDRELAY_TEST_DUR", time.Second))

	t.Setenv("VIDRELAY_TEST_STR", "")
	assert.Equal(t, "fallback", ParseString("VIDRELAY_TEST_STR", "fallback"))
}
