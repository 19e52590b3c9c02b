package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// Content holds the static lookup tables shared by the scraper, the filters
// and the uploader. Site keys are case-insensitive.
type Content struct {
	BannedWords      []string                       `json:"banned_words"`
	ModelCorrections map[string]map[string]string   `json:"model_corrections"`
	SitePriorities   []SitePriority                 `json:"site_priorities"`
	PromoLinks       map[string]string              `json:"promo_links"`
	ModelLinks       map[string]string              `json:"model_links"`
	PostCategory     string                         `json:"post_category"`
	Categories       map[string]map[string]int      `json:"categories"`
	Schedules        map[string]map[string][]string `json:"schedules"`
	Sites            map[string]SiteConfig          `json:"sites"`
	VASTTag          string                         `json:"vast_tag"`
}

type SitePriority struct {
	Sites []string `json:"sites"`
	Drop  string   `json:"drop"`
}

// SiteConfig tells the scraper where a site lists its scenes. The home
// selectors pick parallel lists on the listing page, the detail selectors
// are applied to each scene page.
type SiteConfig struct {
	URL          string            `json:"site"`
	Method       string            `json:"scrape_method"`
	Headless     bool              `json:"headless"`
	Home         Selectors         `json:"home"`
	Detail       Selectors         `json:"inside"`
	Attributes   map[string]string `json:"attributes"`
	DateLayouts  []string          `json:"date_layouts"`
	Replacements []Replacement     `json:"replacements"`
}

type Selectors struct {
	Element     string `json:"element"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
	Models      string `json:"models"`
	Image       string `json:"image"`
	Video       string `json:"video"`
}

// Replacement rewrites a scraped media link: the part after Split is cut
// off first, then Old is replaced by New.
type Replacement struct {
	Split string `json:"split"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

// LoadContent reads the content tables from path and merges a sibling
// <name>.local.<ext> file over them when present.
func LoadContent(path string) (*Content, error) {
	var out Content
	found := false

	base, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read content file: %w", err)
	}
	if len(base) > 0 {
		if err := json5.Unmarshal(base, &out); err != nil {
			return nil, fmt.Errorf("parse content file: %w", err)
		}
		found = true
	}

	prefix, ext := splitExt(filepath.Base(path))
	localPath := filepath.Join(filepath.Dir(path), fmt.Sprintf("%s.local.%s", prefix, ext))
	local, err := os.ReadFile(localPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read local content file: %w", err)
	}
	if len(local) > 0 {
		var override Content
		if err := json5.Unmarshal(local, &override); err != nil {
			return nil, fmt.Errorf("parse local content file: %w", err)
		}
		if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merge local content: %w", err)
		}
		slog.Info("merging content with local overrides", "local", localPath)
		found = true
	}

	if !found {
		return nil, fmt.Errorf("content file %s: %w", path, os.ErrNotExist)
	}

	out.setDefaults()
	return &out, nil
}

func (c *Content) setDefaults() {
	if c.PostCategory == "" {
		c.PostCategory = "New videos"
	}
	for name, site := range c.Sites {
		if site.Method == "" {
			site.Method = "http"
		}
		c.Sites[name] = site
	}
}

// Site looks a site configuration up by name, ignoring case.
func (c *Content) Site(name string) (SiteConfig, bool) {
	if site, ok := c.Sites[name]; ok {
		return site, true
	}
	for key, site := range c.Sites {
		if strings.EqualFold(key, name) {
			return site, true
		}
	}
	return SiteConfig{}, false
}

// Category returns the category ID configured for a site, or 0.
func (c *Content) Category(site, category string) int {
	for key, categories := range c.Categories {
		if strings.EqualFold(key, site) {
			return categories[category]
		}
	}
	return 0
}
