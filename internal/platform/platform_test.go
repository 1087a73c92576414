// SPDX-License-Identifier: MIT

package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"youtube_watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "YouTube"},
		{"youtube_short_link", "https://youtu.be/dQw4w9WgXcQ", "YouTube"},
		{"tiktok", "https://www.tiktok.com/@user/video/724001", "TikTok"},
		{"tiktok_share_link", "https://vm.tiktok.com/ZGdh1/", "TikTok"},
		{"instagram_reel", "https://www.instagram.com/reel/Cx1/", "Instagram"},
		{"instagram_post", "https://instagram.com/p/Cx1/", "Instagram"},
		{"twitter", "https://twitter.com/user/status/1234567890", "Twitter/X"},
		{"x_dot_com", "https://x.com/user/status/1234567890", "Twitter/X"},
		{"facebook", "https://www.facebook.com/watch/?v=123", "Facebook"},
		{"fb_watch", "https://fb.watch/abc123/", "Facebook"},
		{"reddit", "https://www.reddit.com/r/videos/comments/abc/title/", "Reddit"},
		{"twitch_vod", "https://www.twitch.tv/videos/123456", "Twitch"},
		{"twitch_clip", "https://clips.twitch.tv/FunnyClip", "Twitch"},
		{"vimeo", "https://vimeo.com/123456789", "Vimeo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := Match(tt.url)
			require.True(t, ok, "expected a match for %s", tt.url)
			assert.Equal(t, tt.want, p.Name)
		})
	}
}

func TestMatchUnsupported(t *testing.T) {
	for _, url := range []string{
		"https://example.com/not-a-platform",
		"https://instagram.com/someuser",
		"https://twitter.com/someuser",
		"not even a url",
		"",
	} {
		_, ok := Match(url)
		assert.False(t, ok, "expected no match for %q", url)
	}
}

func TestAllAndNames(t *testing.T) {
	all := All()
	names := Names()
	require.Equal(t, len(all), len(names))
	for i, p := range all {
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Icon)
		assert.Equal(t, p.Name, names[i])
	}
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	all[0].Name = "mutated"
	assert.NotEqual(t, "mutated", All()[0].Name)
}
