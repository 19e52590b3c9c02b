package wordpress

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content_syncer/internal/domain"
)

func TestSplitParagraphs(t *testing.T) {
	first := strings.Repeat("a", 300) + ". "
	second := strings.Repeat("b", 300) + "!"

	got := splitParagraphs(first + second)

	require.Len(t, got, 2)
	assert.Equal(t, strings.Repeat("a", 300)+".", got[0])
	assert.Equal(t, " "+second, got[1])
}

func TestSplitParagraphs_NoSentenceEnd(t *testing.T) {
	got := splitParagraphs(strings.Repeat("x", 1200))

	require.Len(t, got, 3)
	assert.Len(t, got[0], 500)
	assert.Len(t, got[2], 200)
}

func TestDescription_LinksModels(t *testing.T) {
	b := PostBuilder{ModelLinks: map[string]string{"Jane Doe": "jane-doe"}}

	got := b.Description("jane doe and Jane Doe meet.", "Jane Doe, Amy")

	assert.Equal(t,
		"<!-- wp:paragraph -->\n<p>jane doe and <a href=\"/index.php/jane-doe\" data-type=\"link\" data-id=\"/index.php/jane-doe\">Jane Doe</a> meet.</p>\n<!-- /wp:paragraph -->\n",
		got)
}

func TestDescription_Empty(t *testing.T) {
	b := PostBuilder{}

	assert.Empty(t, b.Description("", "Amy"))
	assert.Empty(t, b.Description("-", "Amy"))
}

func TestVideo(t *testing.T) {
	b := PostBuilder{VASTTag: "https://ads.example/vast"}

	assert.Empty(t, b.Video(""))
	assert.Empty(t, b.Video("blob:https://site/123"))

	html := b.Video("https://cdn/trailer.mp4")
	assert.Contains(t, html, `<source src="https://cdn/trailer.mp4" type="video/mp4" />`)
	assert.Contains(t, html, `"vastTag": "https://ads.example/vast"`)

	assert.NotContains(t, PostBuilder{}.Video("https://cdn/trailer.mp4"), "vastOptions")
}

func TestButtons(t *testing.T) {
	b := PostBuilder{HomeURL: "https://wp.example"}

	home := b.Buttons("")
	assert.Contains(t, home, `href="https://wp.example">Home</a>`)
	assert.NotContains(t, home, "Watch full video")

	withPromo := b.Buttons("https://promo/1")
	assert.Contains(t, withPromo, `href="https://promo/1" target="_blank" rel="noreferrer noopener">Watch full video</a>`)
}

func TestBuild(t *testing.T) {
	b := PostBuilder{HomeURL: "https://wp.example"}
	rec := domain.Record{
		Title:       domain.Ptr("Scene"),
		Description: domain.Ptr("Text."),
		PromoLink:   domain.Ptr("https://promo/1"),
	}

	html := b.Build(rec)

	assert.True(t, strings.HasPrefix(html, "<!-- wp:heading --><h2 class='wp-block-heading'>Scene</h2>"))
	assert.Contains(t, html, "<p>Text.</p>")
	assert.NotContains(t, html, "fluidPlayer")
	assert.Contains(t, html, "Watch full video")
}
