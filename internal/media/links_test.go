package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestYouTubeID(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short url", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"embed url", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch url with extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"not youtube", "https://example.com/video.mp4", ""},
		{"wrong id length", "https://youtu.be/short", ""},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, YouTubeID(tc.url))
		})
	}
}

func TestDocViewerURL(t *testing.T) {
	got := DocViewerURL("https://example.com/a file.pdf")
	assert.Equal(t, "https://docs.google.com/viewer?url=https%3A%2F%2Fexample.com%2Fa+file.pdf&embedded=true", got)
}

func TestResolveVideo(t *testing.T) {
	t.Run("hosted player", func(t *testing.T) {
		embed := ResolveVideo("https://youtu.be/dQw4w9WgXcQ")
		assert.False(t, embed.Native)
		assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1&rel=0&modestbranding=1", embed.EmbedURL)
		assert.Equal(t, "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg", embed.ThumbnailURL)
	})

	t.Run("native fallback", func(t *testing.T) {
		embed := ResolveVideo("https://cdn.example.com/lecture.mp4")
		assert.True(t, embed.Native)
		assert.Empty(t, embed.EmbedURL)
	})
}
