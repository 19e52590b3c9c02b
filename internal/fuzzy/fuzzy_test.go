package fuzzy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "identical", a: "Hot Summer Day", b: "Hot Summer Day", want: 100},
		{name: "empty left", a: "", b: "abc", want: 0},
		{name: "empty both", a: "", b: "", want: 0},
		{name: "one substitution in ten", a: "abcdefghij", b: "abcdefghiX", want: 90},
		{name: "completely different", a: "abc", b: "xyz", want: 0},
		{name: "one char off in hundred", a: strings.Repeat("a", 100), b: strings.Repeat("a", 99) + "b", want: 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Ratio(tt.a, tt.b))
		})
	}
}

func TestRatio_Symmetric(t *testing.T) {
	assert.Equal(t, Ratio("kitten", "sitting"), Ratio("sitting", "kitten"))
}

func TestBestMatch(t *testing.T) {
	candidates := []string{"Other Title", "Hot Summer Dai", "Random"}

	assert.Equal(t, Ratio("Hot Summer Day", "Hot Summer Dai"), BestMatch(Ratio, "Hot Summer Day", candidates))
	assert.Equal(t, 0, BestMatch(Ratio, "Hot Summer Day", nil))
}
