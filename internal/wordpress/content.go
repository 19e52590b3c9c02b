package wordpress

import (
	"fmt"
	"strings"

	"content_syncer/internal/domain"
)

const paragraphLimit = 500

// PostBuilder renders a record as WordPress block markup.
type PostBuilder struct {
	// ModelLinks maps model names to the slug of their page.
	ModelLinks map[string]string
	HomeURL    string
	// VASTTag is the ad tag for the video player; empty disables ads.
	VASTTag string
}

func (b PostBuilder) Build(rec domain.Record) string {
	return b.Title(domain.Value(rec.Title)) +
		b.Description(domain.Value(rec.Description), domain.Value(rec.Models)) +
		b.Video(domain.Value(rec.VideoEmbedURL)) +
		b.Buttons(domain.Value(rec.PromoLink))
}

func (b PostBuilder) Title(title string) string {
	return fmt.Sprintf("<!-- wp:heading --><h2 class='wp-block-heading'>%s</h2><!-- /wp:heading -->\n", title)
}

// Description splits the text into paragraphs of at most 500 characters,
// breaking after the last sentence end in each chunk, and links known
// model names.
func (b PostBuilder) Description(description, models string) string {
	if description == "" || description == "-" {
		return ""
	}

	var out strings.Builder
	for _, p := range splitParagraphs(description) {
		out.WriteString("<!-- wp:paragraph -->\n<p>" + p + "</p>\n<!-- /wp:paragraph -->\n")
	}
	html := out.String()

	if models == "" {
		return html
	}
	for _, model := range strings.Split(models, ",") {
		model = strings.TrimSpace(model)
		if model == "" {
			continue
		}
		for name, slug := range b.ModelLinks {
			if !strings.EqualFold(name, model) {
				continue
			}
			link := fmt.Sprintf(`<a href="/index.php/%s" data-type="link" data-id="/index.php/%s">%s</a>`, slug, slug, name)
			html = strings.ReplaceAll(html, model, link)
			break
		}
	}
	return html
}

func splitParagraphs(text string) []string {
	runes := []rune(text)
	var paragraphs []string
	for len(runes) > 0 {
		if len(runes) <= paragraphLimit {
			paragraphs = append(paragraphs, string(runes))
			break
		}
		chunk := string(runes[:paragraphLimit])
		end := strings.LastIndexAny(chunk, ".!?")
		if end == -1 {
			paragraphs = append(paragraphs, chunk)
			runes = runes[paragraphLimit:]
			continue
		}
		cut := len([]rune(chunk[:end+1]))
		paragraphs = append(paragraphs, string(runes[:cut]))
		runes = runes[cut:]
	}
	return paragraphs
}

const playerScript = `
<!-- wp:html -->
<script src="https://cdn.fluidplayer.com/v3/current/fluidplayer.min.js"></script>
<video id="video-id"><source src="%s" type="video/mp4" /></video>
<script>
    var myFP = fluidPlayer(
        'video-id', {
        "layoutControls": {
            "controlBar": {
                "autoHideTimeout": 3,
                "animated": true,
                "autoHide": true
            },
            "autoPlay": false,
            "mute": false,
            "allowTheatre": true,
            "playPauseAnimation": false,
            "playbackRateEnabled": false,
            "allowDownload": false,
            "playButtonShowing": true,
            "fillToContainer": true,
            "posterImage": ""
        }%s
    });
</script>
<!-- /wp:html -->
`

const vastOptions = `,
        "vastOptions": {
            "adList": [
                {"roll": "preRoll", "vastTag": "%[1]s", "adText": ""},
                {"roll": "midRoll", "vastTag": "%[1]s", "adText": ""},
                {"roll": "postRoll", "vastTag": "%[1]s", "adText": ""}
            ],
            "adCTAText": false,
            "adCTATextPosition": ""
        }`

// Video embeds the trailer player. Blob URLs cannot be played outside the
// source page and are skipped.
func (b PostBuilder) Video(videoURL string) string {
	if videoURL == "" || strings.HasPrefix(videoURL, "blob") {
		return ""
	}
	ads := ""
	if b.VASTTag != "" {
		ads = fmt.Sprintf(vastOptions, b.VASTTag)
	}
	return fmt.Sprintf(playerScript, videoURL, ads)
}

func button(href, label string, external bool) string {
	attrs := ""
	if external {
		attrs = ` target="_blank" rel="noreferrer noopener"`
	}
	return fmt.Sprintf("<!-- wp:button -->\n<div class=\"wp-block-button\"><a class=\"wp-block-button__link wp-element-button\" href=\"%s\"%s>%s</a></div>\n<!-- /wp:button -->\n", href, attrs, label)
}

// Buttons renders the Home button, plus "Watch full video" when the record
// has a promo link.
func (b PostBuilder) Buttons(promoLink string) string {
	var out strings.Builder
	out.WriteString(`<!-- wp:buttons {"layout":{"type":"flex","justifyContent":"center"}} -->` + "\n")
	out.WriteString("<div class=\"wp-block-buttons\">\n")
	out.WriteString(button(b.HomeURL, "Home", false))
	if promoLink != "" && promoLink != "-" {
		out.WriteString(button(promoLink, "Watch full video", true))
	}
	out.WriteString("</div><!-- /wp:buttons -->")
	return out.String()
}
