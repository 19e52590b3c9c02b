package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"content_syncer/internal/domain"
	"content_syncer/internal/scheduler"
	"content_syncer/internal/service/mocks"
)

func TestActions_ScrapeUpload(t *testing.T) {
	ctrl := gomock.NewController(t)
	scraper := mocks.NewMockScraper(ctrl)
	uploader := mocks.NewMockUploader(ctrl)
	ctx := context.Background()

	gomock.InOrder(
		scraper.EXPECT().Scrape(ctx, "Sites at 12:00").Return(&domain.ScrapeStats{}, nil),
		uploader.EXPECT().Upload(ctx).Return(&domain.UploadStats{}, nil),
	)

	fn, err := Actions(scraper, uploader).Resolve(ActionScrapeUpload)
	require.NoError(t, err)

	err = fn(ctx, scheduler.Action{Name: ActionScrapeUpload, Kwargs: map[string]string{"job_id": "Sites at 12:00"}})

	assert.NoError(t, err)
}

func TestActions_ScrapeUploadUsesFirstArg(t *testing.T) {
	ctrl := gomock.NewController(t)
	scraper := mocks.NewMockScraper(ctrl)
	uploader := mocks.NewMockUploader(ctrl)
	ctx := context.Background()

	scraper.EXPECT().Scrape(ctx, "Not sorted").Return(nil, errors.New("plan failed"))

	fn, err := Actions(scraper, uploader).Resolve(ActionScrapeUpload)
	require.NoError(t, err)

	err = fn(ctx, scheduler.Action{Name: ActionScrapeUpload, Args: []string{"Not sorted"}})

	assert.Error(t, err)
}
