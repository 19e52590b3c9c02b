package service

import (
	"context"
	"fmt"

	"content_syncer/internal/scheduler"
)

const ActionScrapeUpload = "scrape_upload"

// Actions returns the actions scheduled jobs may name. scrape_upload
// takes the job ID from the job_id keyword, then the first argument.
func Actions(scraper Scraper, uploader Uploader) scheduler.Registry {
	return scheduler.Registry{
		ActionScrapeUpload: func(ctx context.Context, action scheduler.Action) error {
			jobID := action.Kwarg("job_id")
			if jobID == "" {
				jobID = action.Arg(0)
			}
			if _, err := scraper.Scrape(ctx, jobID); err != nil {
				return fmt.Errorf("scrape: %w", err)
			}
			if _, err := uploader.Upload(ctx); err != nil {
				return fmt.Errorf("upload: %w", err)
			}
			return nil
		},
	}
}
