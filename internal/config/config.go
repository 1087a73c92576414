// SPDX-License-Identifier: MIT

// Package config loads the relay configuration with the precedence
// ENV > config file > defaults.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig holds the full runtime configuration of the relay.
type AppConfig struct {
	// HTTP
	ListenAddr     string   `yaml:"listenAddr"`
	AllowedOrigins []string `yaml:"allowedOrigins"`

	// External tools
	DownloaderPath string `yaml:"downloaderPath"`
	TranscoderPath string `yaml:"transcoderPath"`

	// Pipeline
	TitleProbeTimeout time.Duration `yaml:"titleProbeTimeout"`

	// Rate limiting
	RateLimitEnabled bool `yaml:"rateLimitEnabled"`
	RateLimitRPS     int  `yaml:"rateLimitRPS"`
	RateLimitBurst   int  `yaml:"rateLimitBurst"`

	// Observability
	MetricsEnabled bool   `yaml:"metricsEnabled"`
	MetricsAddr    string `yaml:"metricsAddr"`
	LogLevel       string `yaml:"logLevel"`
}

// Defaults returns the built-in configuration defaults.
func Defaults() AppConfig {
	return AppConfig{
		ListenAddr:        ":8080",
		DownloaderPath:    "yt-dlp",
		TranscoderPath:    "ffmpeg",
		TitleProbeTimeout: 10 * time.Second,
		RateLimitEnabled:  false,
		RateLimitRPS:      20,
		RateLimitBurst:    40,
		MetricsEnabled:    true,
		MetricsAddr:       ":9090",
		LogLevel:          "info",
	}
}

// Load builds the configuration: defaults, then the optional YAML file at
// path (empty path skips the file layer), then environment overrides.
func Load(path string) (AppConfig, error) {
	cfg := Defaults()

	if path != "" {
		if err := mergeFile(&cfg, path); err != nil {
			return cfg, err
		}
	}
	mergeEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func mergeFile(cfg *AppConfig, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path is operator-supplied configuration
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func mergeEnv(cfg *AppConfig) {
	cfg.ListenAddr = ParseString("VIDRELAY_LISTEN", cfg.ListenAddr)
	cfg.DownloaderPath = ParseString("VIDRELAY_DOWNLOADER", cfg.DownloaderPath)
	cfg.TranscoderPath = ParseString("VIDRELAY_TRANSCODER", cfg.TranscoderPath)
	cfg.TitleProbeTimeout = ParseDuration("VIDRELAY_TITLE_TIMEOUT", cfg.TitleProbeTimeout)
	cfg.RateLimitEnabled = ParseBool("VIDRELAY_RATE_LIMIT", cfg.RateLimitEnabled)
	cfg.RateLimitRPS = ParseInt("VIDRELAY_RATE_LIMIT_RPS", cfg.RateLimitRPS)
	cfg.RateLimitBurst = ParseInt("VIDRELAY_RATE_LIMIT_BURST", cfg.RateLimitBurst)
	cfg.MetricsEnabled = ParseBool("VIDRELAY_METRICS", cfg.MetricsEnabled)
	cfg.MetricsAddr = ParseString("VIDRELAY_METRICS_ADDR", cfg.MetricsAddr)
	cfg.LogLevel = ParseString("VIDRELAY_LOG_LEVEL", cfg.LogLevel)

	if origins := ParseString("VIDRELAY_ALLOWED_ORIGINS", ""); origins != "" {
		cfg.AllowedOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.ListenAddr) == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if strings.TrimSpace(c.DownloaderPath) == "" {
		return fmt.Errorf("downloader path must not be empty")
	}
	if strings.TrimSpace(c.TranscoderPath) == "" {
		return fmt.Errorf("transcoder path must not be empty")
	}
	if c.TitleProbeTimeout <= 0 {
		return fmt.Errorf("title probe timeout must be positive, got %s", c.TitleProbeTimeout)
	}
	if c.RateLimitEnabled && c.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit RPS must be positive when rate limiting is enabled")
	}
	return nil
}
