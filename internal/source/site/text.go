package site

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"content_syncer/internal/config"
	"content_syncer/internal/domain"
)

var titleCaser = cases.Title(language.English)

// Title trims and title-cases scraped text.
func Title(s string) string {
	s = strings.NewReplacer("\n", "", "\u00a0", " ").Replace(s)
	return titleCaser.String(strings.TrimSpace(s))
}

// SiteName derives the display name of a site from its URL:
// "https://www.my-site.com/videos" becomes "Mysite" and
// "https://tour.other.com" becomes "Other".
func SiteName(rawURL string) string {
	host := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = u.Hostname()
	}
	host = strings.TrimPrefix(host, "www.")

	labels := strings.Split(host, ".")
	name := labels[0]
	if len(labels) >= 3 {
		name = labels[1]
	}
	return titleCaser.String(strings.ReplaceAll(name, "-", ""))
}

var datePrefixes = []string{
	"Date Added:", "Published: ", "PUBLISHED", "Published", "Release Date:",
	"Date:", "Released:", "Added on:", "Added:", "Added",
}

// dateSteps are applied one after another; the date is parsed after each.
var dateSteps = func() []func(string) string {
	steps := []func(string) string{func(s string) string { return s }}
	for _, prefix := range datePrefixes {
		steps = append(steps, func(s string) string { return strings.ReplaceAll(s, prefix, "") })
	}
	return append(steps,
		cutBefore("Available"),
		cutBefore("Runtime"),
		pick("|", 0),
		pick("|", 1),
		pick("•", 1),
		pick(":", 1),
		pick("📅", 1),
		strings.TrimSpace,
	)
}()

func cutBefore(sep string) func(string) string {
	return func(s string) string {
		before, _, _ := strings.Cut(s, sep)
		return before
	}
}

func pick(sep string, i int) func(string) string {
	return func(s string) string {
		parts := strings.Split(s, sep)
		if len(parts) <= i {
			return s
		}
		return parts[i]
	}
}

var defaultDateLayouts = []string{
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"02/01/2006",
	"01/02/2006",
	"2006-01-02",
	"01.02.2006",
	"2006/01/02",
	time.RFC3339,
}

// ParseDate cleans a scraped date label and reformats it as
// domain.DateLayout. When no layout matches, the trimmed text is
// returned as scraped.
func ParseDate(raw string, layouts []string) (string, bool) {
	if len(layouts) == 0 {
		layouts = defaultDateLayouts
	}
	text := strings.TrimSpace(strings.ReplaceAll(raw, "\n", ""))
	value := text
	for _, step := range dateSteps {
		value = step(value)
		candidate := strings.TrimSpace(value)
		for _, layout := range layouts {
			if t, err := time.Parse(layout, candidate); err == nil {
				return t.Format(domain.DateLayout), true
			}
		}
	}
	return text, false
}

var descriptionCleaner = strings.NewReplacer(
	"\n", "",
	"Synopsis", "",
	"DESCRIPTION:", "",
	"Description:", "",
	"Episode Summary", "",
)

func cleanDescription(s string) string {
	return strings.TrimSpace(descriptionCleaner.Replace(s))
}

func cleanTag(s string) string {
	return titleCaser.String(strings.TrimSpace(strings.NewReplacer(",", "", "\n", "").Replace(s)))
}

func cleanModel(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	s = strings.TrimPrefix(s, "Starring:")
	return titleCaser.String(strings.TrimSpace(s))
}

var styleURL = regexp.MustCompile(`url\((.+?)\)`)

// mediaLink applies the site's link rewrites and unwraps CSS url(...)
// values taken from style attributes.
func mediaLink(link string, replacements []config.Replacement) string {
	if m := styleURL.FindStringSubmatch(link); m != nil {
		link = strings.Trim(m[1], `"'`)
	}
	for _, r := range replacements {
		if r.Split != "" {
			link, _, _ = strings.Cut(link, r.Split)
		}
		if r.Old != "" {
			link = strings.ReplaceAll(link, r.Old, r.New)
		}
	}
	return strings.TrimSpace(link)
}

func cleanHref(href string) string {
	href, _, _ = strings.Cut(strings.TrimSpace(href), "?")
	return href
}

func resolve(base *url.URL, ref string) string {
	if ref == "" || base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
