package domain

import "time"

// FilterStats holds statistics about one apply-filters run.
type FilterStats struct {
	Scraped  int
	New      int
	Accepted int
	Duration time.Duration
}

// UploadStats holds statistics about one upload run.
type UploadStats struct {
	Pending   int
	Uploaded  int
	Skipped   int
	Errors    int
	Announced int
	Duration  time.Duration
}

// ScrapeStats holds statistics about one scrape run.
type ScrapeStats struct {
	JobID    string
	Sites    int
	Records  int
	Errors   int
	Duration time.Duration
}

// PostEvent announces a record published to a destination.
type PostEvent struct {
	Destination string    `json:"destination"`
	Site        string    `json:"site"`
	Title       string    `json:"title"`
	Models      []string  `json:"models,omitempty"`
	PostID      int       `json:"post_id"`
	PostURL     string    `json:"post_url"`
	PublishedAt time.Time `json:"published_at"`
}
