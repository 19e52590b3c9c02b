package site

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"content_syncer/internal/config"
)

func TestSiteName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.my-site.com/videos", "Mysite"},
		{"https://tour.othersite.com/updates", "Othersite"},
		{"https://plain.net", "Plain"},
		{"www.bare-host.org", "Barehost"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, SiteName(tt.url))
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		layouts []string
		want    string
		ok      bool
	}{
		{"plain", "March 3, 2024", nil, "Mar 03, 2024", true},
		{"prefix", "Date Added: March 3, 2024", nil, "Mar 03, 2024", true},
		{"released", "Released: 2024-03-03", nil, "Mar 03, 2024", true},
		{"pipe", "Mar 3, 2024 | 24 min", nil, "Mar 03, 2024", true},
		{"runtime suffix", "2024-03-03 Runtime 30:00", nil, "Mar 03, 2024", true},
		{"custom layout", "03.03.24", []string{"02.01.06"}, "Mar 03, 2024", true},
		{"unparsable", "  sometime soon ", nil, "sometime soon", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.raw, tt.layouts)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Hello Big World", Title("  hello BIG world\n"))
}

func TestCleanModel(t *testing.T) {
	assert.Equal(t, "Jane Doe", cleanModel("Starring: jane doe,"))
}

func TestMediaLink(t *testing.T) {
	replacements := []config.Replacement{
		{Split: "?"},
		{Old: "/thumb/", New: "/full/"},
	}

	assert.Equal(t, "https://cdn/full/a.jpg", mediaLink("https://cdn/thumb/a.jpg?w=200", replacements))
	assert.Equal(t, "https://cdn/full/b.jpg", mediaLink(`background-image: url("https://cdn/thumb/b.jpg")`, replacements))
}

func TestCleanHref(t *testing.T) {
	assert.Equal(t, "https://site/scene/1", cleanHref(" https://site/scene/1?ref=home "))
}
