// SPDX-License-Identifier: MIT

// Package platform classifies media URLs against the fixed list of
// supported platforms. The list is immutable for the process lifetime.
package platform

import "regexp"

// Platform describes one supported media platform.
type Platform struct {
	Name    string `json:"name"`
	Icon    string `json:"icon"`
	pattern *regexp.Regexp
}

// Order matters: the first pattern to match wins. Patterns are disjoint in
// practice, so ordering is only a tie-breaker.
var platforms = []Platform{
	{Name: "YouTube", Icon: "▶️", pattern: regexp.MustCompile(`(?i)(youtube\.com|youtu\.be)/`)},
	{Name: "TikTok", Icon: "🎵", pattern: regexp.MustCompile(`(?i)(tiktok\.com|vm\.tiktok\.com)/`)},
	{Name: "Instagram", Icon: "📸", pattern: regexp.MustCompile(`(?i)instagram\.com/(p|reel|reels|tv)/`)},
	{Name: "Twitter/X", Icon: "🐦", pattern: regexp.MustCompile(`(?i)(twitter\.com|x\.com)/\w+/status/`)},
	{Name: "Facebook", Icon: "📘", pattern: regexp.MustCompile(`(?i)(facebook\.com|fb\.watch)/`)},
	{Name: "Reddit", Icon: "🤖", pattern: regexp.MustCompile(`(?i)reddit\.com/r/\w+/comments/`)},
	{Name: "Twitch", Icon: "🎮", pattern: regexp.MustCompile(`(?i)(twitch\.tv/videos/|clips\.twitch\.tv/)`)},
	{Name: "Vimeo", Icon: "🎬", pattern: regexp.MustCompile(`(?i)vimeo\.com/\d+`)},
}

// Match returns the first platform whose pattern matches the URL.
func Match(url string) (Platform, bool) {
	for _, p := range platforms {
		if p.pattern.MatchString(url) {
			return p, true
		}
	}
	return Platform{}, false
}

// All returns the full platform list in match order.
func All() []Platform {
	out := make([]Platform, len(platforms))
	copy(out, platforms)
	return out
}

// Names returns the display names of all supported platforms in match order.
func Names() []string {
	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = p.Name
	}
	return names
}
