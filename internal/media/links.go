// Package media builds embed and viewer links for content sources. Best
// effort only: when a URL does not match the hosting provider's pattern,
// callers fall back to a native player or an external open.
package media

import (
	"fmt"
	"net/url"
	"regexp"
)

// youtubeIDPattern recognizes the 11-character video id in watch, embed,
// short and share URL shapes.
var youtubeIDPattern = regexp.MustCompile(`(?:youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*)`)

// YouTubeID extracts the video id from a YouTube URL, or "" when the URL
// does not look like one.
func YouTubeID(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	m := youtubeIDPattern.FindStringSubmatch(rawURL)
	if m == nil || len(m[1]) != 11 {
		return ""
	}
	return m[1]
}

// YouTubeEmbedURL returns the embeddable player URL for a video id.
func YouTubeEmbedURL(id string) string {
	return fmt.Sprintf("https://www.youtube.com/embed/%s?autoplay=1&rel=0&modestbranding=1", id)
}

// YouTubeThumbnailURL returns the max-resolution thumbnail for a video
// id.
func YouTubeThumbnailURL(id string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", id)
}

// DocViewerURL wraps a remote PDF-like source in the Google Docs viewer
// for inline embedding. The raw URL stays available as the manual "open
// externally" escape hatch when embedding fails.
func DocViewerURL(sourceURL string) string {
	return "https://docs.google.com/viewer?url=" + url.QueryEscape(sourceURL) + "&embedded=true"
}

// VideoEmbed describes how to render a video source: the provider's
// player when the id pattern matches, else the native element.
type VideoEmbed struct {
	EmbedURL     string `json:"embedUrl,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Native       bool   `json:"native"`
}

// ResolveVideo decides between the hosted player and the native
// fallback.
func ResolveVideo(sourceURL string) VideoEmbed {
	if id := YouTubeID(sourceURL); id != "" {
		return VideoEmbed{
			EmbedURL:     YouTubeEmbedURL(id),
			ThumbnailURL: YouTubeThumbnailURL(id),
		}
	}
	return VideoEmbed{Native: true}
}
