// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus instrumentation for the relay.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DownloadsTotal tracks download attempts by platform, quality and result.
	DownloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidrelay_downloads_total",
		Help: "Total number of download attempts by platform, quality and result",
	}, []string{"platform", "quality", "result"})

	// DownloadsActive tracks currently streaming downloads.
	DownloadsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vidrelay_downloads_active",
		Help: "Number of downloads currently streaming",
	})

	// DownloadBytes tracks bytes relayed from downloader to transcoder.
	DownloadBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidrelay_download_bytes_total",
		Help: "Total bytes relayed from the downloader into the transcoder",
	})

	// DownloadDuration tracks end-to-end streaming duration.
	DownloadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vidrelay_download_duration_seconds",
		Help:    "End-to-end duration of download responses",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
	}, []string{"platform", "result"})

	// TitleProbeTotal tracks title probe outcomes.
	TitleProbeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidrelay_title_probe_total",
		Help: "Total number of title probes by outcome",
	}, []string{"success"})

	// HTTPRequestsTotal tracks API requests by route and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidrelay_http_requests_total",
		Help: "Total HTTP requests by method, route and status code",
	}, []string{"method", "route", "code"})
)

// IncDownload records a download attempt outcome.
func IncDownload(platform, quality string, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	DownloadsTotal.WithLabelValues(platform, quality, result).Inc()
}

// ObserveDownloadDuration records how long a download response streamed.
func ObserveDownloadDuration(platform string, success bool, d time.Duration) {
	result := "failure"
	if success {
		result = "success"
	}
	DownloadDuration.WithLabelValues(platform, result).Observe(d.Seconds())
}

// IncTitleProbe records a title probe outcome.
func IncTitleProbe(success bool) {
	TitleProbeTotal.WithLabelValues(strconv.FormatBool(success)).Inc()
}
