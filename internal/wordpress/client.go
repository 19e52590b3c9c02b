package wordpress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrUnexpectedStatus = errors.New("unexpected status")

const apiPath = "/wp-json/wp/v2"

// Destination is a WordPress site posts are published to.
type Destination struct {
	Name            string
	BaseURL         string
	Username        string
	Password        string
	DefaultCategory int
}

type Rendered struct {
	Rendered string `json:"rendered"`
}

type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Media struct {
	ID   int      `json:"id"`
	GUID Rendered `json:"guid"`
}

type Post struct {
	ID   int      `json:"id"`
	GUID Rendered `json:"guid"`
	Link string   `json:"link"`
}

type NewPost struct {
	Title         string `json:"title"`
	Content       string `json:"content"`
	Tags          []int  `json:"tags"`
	Status        string `json:"status"`
	Categories    []int  `json:"categories"`
	FeaturedMedia int    `json:"featured_media"`
}

// Client talks to the WordPress REST API of one destination.
type Client struct {
	http        *resty.Client
	destination Destination
	logger      *slog.Logger
}

func NewClient(dest Destination, timeout time.Duration, logger *slog.Logger) *Client {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(dest.BaseURL, "/") + apiPath)
	client.SetBasicAuth(dest.Username, dest.Password)
	client.SetTimeout(timeout)
	client.SetRetryCount(2)
	client.SetRetryWaitTime(time.Second)

	return &Client{
		http:        client,
		destination: dest,
		logger:      logger.With("destination", dest.Name),
	}
}

func (c *Client) Destination() Destination {
	return c.destination
}

func checkStatus(res *resty.Response, want int) error {
	if res.StatusCode() != want {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, res.StatusCode())
	}
	return nil
}

// FindTag returns the first tag matching name, or nil when there is none.
func (c *Client) FindTag(ctx context.Context, name string) (*Tag, error) {
	var tags []Tag
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("search", name).
		SetResult(&tags).
		Get("/tags")
	if err != nil {
		return nil, fmt.Errorf("search tags: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("search tags: %w: %d", ErrUnexpectedStatus, res.StatusCode())
	}
	if len(tags) == 0 {
		return nil, nil
	}
	return &tags[0], nil
}

func (c *Client) CreateTag(ctx context.Context, name string) (*Tag, error) {
	var tag Tag
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"name": name,
			"slug": strings.ReplaceAll(strings.ToLower(name), " ", "-"),
		}).
		SetResult(&tag).
		Post("/tags")
	if err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("create tag: %w: %d", ErrUnexpectedStatus, res.StatusCode())
	}
	return &tag, nil
}

// UploadMedia uploads the image at path with title as its alt text.
func (c *Client) UploadMedia(ctx context.Context, path, title string) (*Media, error) {
	var media Media
	res, err := c.http.R().
		SetContext(ctx).
		SetFile("file", path).
		SetFormData(map[string]string{"alt_text": title}).
		SetResult(&media).
		Post("/media")
	if err != nil {
		return nil, fmt.Errorf("upload media %s: %w", filepath.Base(path), err)
	}
	if err := checkStatus(res, http.StatusCreated); err != nil {
		return nil, fmt.Errorf("upload media %s: %w", filepath.Base(path), err)
	}
	return &media, nil
}

func (c *Client) CreatePost(ctx context.Context, post NewPost) (*Post, error) {
	var created Post
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(post).
		SetResult(&created).
		Post("/posts")
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	if err := checkStatus(res, http.StatusCreated); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &created, nil
}

// AttachMedia links an uploaded media item to a post.
func (c *Client) AttachMedia(ctx context.Context, mediaID, postID int) error {
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]int{"post": postID}).
		Post("/media/" + strconv.Itoa(mediaID))
	if err != nil {
		return fmt.Errorf("attach media: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("attach media: %w: %d", ErrUnexpectedStatus, res.StatusCode())
	}
	return nil
}
