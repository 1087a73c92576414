// SPDX-License-Identifier: MIT

// Package format maps requested quality tiers to downloader
// format-selection expressions.
package format

// Quality is a client-requested target resolution or audio-only mode.
type Quality string

const (
	QualityAudio Quality = "audio"
	Quality720   Quality = "720"
	Quality1080  Quality = "1080"
	Quality4K    Quality = "4k"
	QualityBest  Quality = "best"
)

// ParseQuality maps a raw query value to a Quality. Unknown or empty values
// fall back to QualityBest.
func ParseQuality(raw string) Quality {
	switch raw {
	case "audio":
		return QualityAudio
	case "720":
		return Quality720
	case "1080":
		return Quality1080
	case "4k", "2160":
		return Quality4K
	default:
		return QualityBest
	}
}

// IsAudio reports whether the tier requests an audio-only download.
func (q Quality) IsAudio() bool {
	return q == QualityAudio
}

// Selection returns the format-selection expression for the downloader as a
// fallback chain. YouTube gets a container- and codec-aware expression so the
// resulting streams remux straight into MP4; every other platform gets the
// generic family.
func Selection(q Quality, platformName string) string {
	if q == QualityAudio {
		return "bestaudio[ext=m4a]/bestaudio/best"
	}

	if platformName == "YouTube" {
		switch q {
		case Quality720:
			return "bestvideo[height<=720][ext=mp4][vcodec^=avc1]+bestaudio[ext=m4a]/best[height<=720][ext=mp4]/best[height<=720]/best"
		case Quality1080:
			return "bestvideo[height<=1080][ext=mp4][vcodec^=avc1]+bestaudio[ext=m4a]/best[height<=1080][ext=mp4]/best[height<=1080]/best"
		case Quality4K:
			return "bestvideo[height<=2160][ext=mp4][vcodec^=avc1]+bestaudio[ext=m4a]/best[height<=2160][ext=mp4]/best[height<=2160]/best"
		default:
			return "bestvideo[ext=mp4][vcodec^=avc1]+bestaudio[ext=m4a]/best[ext=mp4]/best"
		}
	}

	switch q {
	case Quality720:
		return "best[height<=720]/bestvideo[height<=720]+bestaudio/best"
	case Quality1080:
		return "best[height<=1080]/bestvideo[height<=1080]+bestaudio/best"
	case Quality4K:
		return "best[height<=2160]/bestvideo[height<=2160]+bestaudio/best"
	default:
		return "best/bestvideo+bestaudio"
	}
}
