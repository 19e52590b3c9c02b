package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"content_syncer/internal/config"
	"content_syncer/internal/domain"
)

const (
	MethodHTTP    = "http"
	MethodBrowser = "browser"
)

var (
	ErrUnsupportedMethod = errors.New("unsupported scrape method")
	ErrNoElements        = errors.New("no scene elements found")
)

var meter = otel.Meter("content_syncer/source/site")
var pagesFetched, _ = meter.Int64Counter("scraper.pages_fetched")

// ImageWriter persists downloaded images.
type ImageWriter interface {
	WriteFile(ctx context.Context, path string, data []byte) error
}

type Config struct {
	Timeout          time.Duration
	RetryCount       int
	RetryWait        time.Duration
	UserAgent        string
	CloudflareBypass bool
	ImageDir         string
}

// Scraper reads a site's listing page and its scene pages over plain
// HTTP, picking fields with the CSS selectors from the site config.
type Scraper struct {
	http     *resty.Client
	images   ImageWriter
	imageDir string
	now      func() time.Time
	logger   *slog.Logger
}

func New(cfg Config, images ImageWriter, logger *slog.Logger) (*Scraper, error) {
	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	client.SetCookieJar(jar)
	if cfg.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	client.SetHeader("user-agent", cfg.UserAgent)
	client.SetHeader("accept", "*/*")
	client.SetHeader("accept-language", "en-US,en;q=0.5")
	client.SetTimeout(cfg.Timeout)
	client.SetRetryCount(cfg.RetryCount)
	client.SetRetryWaitTime(cfg.RetryWait)
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		return r != nil && r.StatusCode() >= http.StatusInternalServerError
	})

	return &Scraper{
		http:     client,
		images:   images,
		imageDir: cfg.ImageDir,
		now:      time.Now,
		logger:   logger.With("component", "scraper"),
	}, nil
}

type homeItem struct {
	href   string
	title  string
	date   string
	models []string
	image  string
	video  string
}

// run carries the state of one site scrape.
type run struct {
	*Scraper
	site     config.SiteConfig
	siteName string
	base     *url.URL
	saved    int
	logger   *slog.Logger
}

// Scrape returns the scenes listed on the site's page that are not in
// known yet. Join-page entries share one link, so they are matched by
// title; the rest are matched by link.
func (s *Scraper) Scrape(ctx context.Context, name string, site config.SiteConfig, known []domain.Record) ([]domain.Record, error) {
	base, err := url.Parse(site.URL)
	if err != nil {
		return nil, fmt.Errorf("parse site url: %w", err)
	}

	doc, err := s.fetch(ctx, site.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch listing: %w", err)
	}

	items := homeItems(doc, site, base)
	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoElements)
	}

	r := &run{
		Scraper:  s,
		site:     site,
		siteName: SiteName(site.URL),
		base:     base,
		logger:   s.logger.With("site", name),
	}

	var links []string
	titles := make(map[string]bool)
	for _, rec := range known {
		if link := domain.Value(rec.VideoSourceURL); link != "" {
			links = append(links, link)
		}
		titles[domain.Value(rec.Title)] = true
	}

	var records []domain.Record
	for _, item := range items {
		if ctx.Err() != nil {
			return records, ctx.Err()
		}
		if item.href == "" || strings.HasPrefix(item.href, "https://join.") {
			continue
		}

		var rec domain.Record
		switch {
		case strings.HasSuffix(item.href, "/join"):
			if titles[item.title] {
				continue
			}
			rec = r.fromHome(ctx, item)
		case !containsLink(links, item.href):
			rec = r.fromDetail(ctx, item)
		default:
			continue
		}

		links = append(links, item.href)
		titles[domain.Value(rec.Title)] = true
		records = append(records, rec)
	}

	r.logger.Info("site scraped", "found", len(items), "new", len(records))
	return records, nil
}

func containsLink(links []string, href string) bool {
	for _, link := range links {
		if strings.Contains(link, href) {
			return true
		}
	}
	return false
}

func (s *Scraper) fetch(ctx context.Context, target string) (*goquery.Document, error) {
	res, err := s.http.R().
		SetContext(ctx).
		Get(target)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", target, err)
	}
	pagesFetched.Add(ctx, 1, metric.WithAttributes(attribute.Int("status", res.StatusCode())))
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("get %s: unexpected status: %d", target, res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

func attr(site config.SiteConfig, key, fallback string) string {
	if v := site.Attributes[key]; v != "" {
		return v
	}
	return fallback
}

func find(doc *goquery.Selection, selector string) *goquery.Selection {
	if selector == "" {
		return doc.Slice(0, 0)
	}
	return doc.Find(selector)
}

// homeItems zips the parallel home lists, padding shorter ones with
// empty values.
func homeItems(doc *goquery.Document, site config.SiteConfig, base *url.URL) []homeItem {
	root := doc.Selection
	elements := find(root, site.Home.Element)
	titles := find(root, site.Home.Title)
	dates := find(root, site.Home.Date)
	models := find(root, site.Home.Models)
	images := find(root, site.Home.Image)
	videos := find(root, site.Home.Video)

	n := max(elements.Length(), titles.Length(), dates.Length(), models.Length(), images.Length(), videos.Length())
	items := make([]homeItem, n)
	for i := range items {
		item := &items[i]
		if el := elements.Eq(i); el.Length() > 0 {
			item.href = cleanHref(resolve(base, el.AttrOr(attr(site, "element", "href"), "")))
		}
		if el := titles.Eq(i); el.Length() > 0 {
			item.title = Title(el.Text())
		}
		if el := dates.Eq(i); el.Length() > 0 {
			item.date = strings.TrimSpace(el.Text())
		}
		if el := models.Eq(i); el.Length() > 0 {
			item.models = modelNames(el, attr(site, "models", "a"))
		}
		if el := images.Eq(i); el.Length() > 0 {
			item.image = resolve(base, mediaLink(el.AttrOr(attr(site, "image", "src"), ""), site.Replacements))
		}
		if el := videos.Eq(i); el.Length() > 0 {
			item.video = resolve(base, mediaLink(el.AttrOr(attr(site, "video", "src"), ""), site.Replacements))
		}
	}
	return items
}

func modelNames(container *goquery.Selection, itemSelector string) []string {
	var names []string
	container.Find(itemSelector).Each(func(_ int, s *goquery.Selection) {
		if name := cleanModel(s.Text()); name != "" {
			names = append(names, name)
		}
	})
	if len(names) > 0 {
		return names
	}
	for _, part := range strings.Split(strings.TrimPrefix(strings.TrimSpace(container.Text()), "Starring:"), ",") {
		if name := cleanModel(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func (r *run) fromHome(ctx context.Context, item homeItem) domain.Record {
	rec := r.record(item.title, item.date, item.models, item.video, item.href)
	r.attachImage(ctx, &rec, item.image)
	return rec
}

func (r *run) fromDetail(ctx context.Context, item homeItem) domain.Record {
	doc, err := r.fetch(ctx, item.href)
	if err != nil {
		r.logger.Warn("scene page unavailable, using listing data", "link", item.href, "error", err)
		return r.fromHome(ctx, item)
	}
	page := doc.Selection
	detail := r.site.Detail

	title := item.title
	if title == "" {
		title = Title(find(page, detail.Title).First().Text())
	}

	date := item.date
	if date == "" {
		el := find(page, detail.Date).First()
		if a := r.site.Attributes["detail_date"]; a != "" {
			date = el.AttrOr(a, "")
		} else {
			date = el.Text()
		}
	}

	models := item.models
	if len(models) == 0 {
		find(page, detail.Models).Each(func(_ int, s *goquery.Selection) {
			if name := cleanModel(s.Text()); name != "" {
				models = append(models, name)
			}
		})
	}

	video := resolve(r.base, mediaLink(find(page, detail.Video).First().AttrOr(attr(r.site, "detail_video", "src"), ""), r.site.Replacements))
	if video == "" {
		video = item.video
	}

	rec := r.record(title, date, models, video, item.href)

	if desc := cleanDescription(find(page, detail.Description).First().Text()); desc != "" {
		rec.Description = domain.Ptr(desc)
	}

	var tags []string
	find(page, detail.Tags).Each(func(_ int, s *goquery.Selection) {
		if tag := cleanTag(s.Text()); tag != "" {
			tags = append(tags, tag)
		}
	})
	if len(tags) > 0 {
		rec.Tags = domain.Ptr(strings.Join(tags, ", "))
	}

	img := resolve(r.base, mediaLink(find(page, detail.Image).First().AttrOr(attr(r.site, "detail_image", "src"), ""), r.site.Replacements))
	if img == "" {
		img = item.image
	}
	r.attachImage(ctx, &rec, img)

	return rec
}

func (r *run) record(title, date string, models []string, video, href string) domain.Record {
	rec := domain.Record{
		Site:           r.siteName,
		Title:          optional(title),
		VideoEmbedURL:  optional(video),
		VideoSourceURL: optional(href),
	}
	if date != "" {
		parsed, ok := ParseDate(date, r.site.DateLayouts)
		if !ok {
			r.logger.Warn("date not recognised", "date", parsed)
		}
		rec.Date = optional(parsed)
	}
	if len(models) > 0 {
		rec.Models = domain.Ptr(strings.Join(models, ", "))
	}
	return rec
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return domain.Ptr(s)
}

func (r *run) attachImage(ctx context.Context, rec *domain.Record, link string) {
	if link == "" {
		return
	}
	rec.ImageSourceURL = domain.Ptr(link)

	path, err := r.saveImage(ctx, link)
	if err != nil {
		r.logger.Error("failed to save image", "link", link, "error", err)
		return
	}
	rec.ImageLocalPath = domain.Ptr(path)
}

// saveImage downloads link and stores it re-encoded as a JPEG under
// <image dir>/<site>/.
func (r *run) saveImage(ctx context.Context, link string) (string, error) {
	res, err := r.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		return "", fmt.Errorf("download image: %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("download image: unexpected status: %d", res.StatusCode())
	}

	img, _, err := image.Decode(bytes.NewReader(res.Body()))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 50}); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	r.saved++
	path := filepath.Join(r.imageDir, r.siteName, fmt.Sprintf("%s-%d.jpg", r.now().Format("2006-01-02 15-04-05"), r.saved))
	if err := r.images.WriteFile(ctx, path, buf.Bytes()); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	r.logger.Debug("image saved", "path", path)
	return path, nil
}

// Browser stands in for sites that need a scripted browser session.
type Browser struct{}

func (Browser) Scrape(_ context.Context, name string, _ config.SiteConfig, _ []domain.Record) ([]domain.Record, error) {
	return nil, fmt.Errorf("%s: %w: %s", name, ErrUnsupportedMethod, MethodBrowser)
}
