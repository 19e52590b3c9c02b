package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"content_syncer/internal/scheduler"
	"content_syncer/internal/service/mocks"
)

type SitePlannerTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	state   *mocks.MockJobStateReader
	planner *SitePlanner
	now     time.Time
}

func (s *SitePlannerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.state = mocks.NewMockJobStateReader(s.ctrl)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.planner = NewSitePlanner(map[string]map[string][]string{
		"Sites at 12:00": {
			"Daily":     {"site1", "site2"},
			"Wednesday": {"site3"},
			"Thursday":  {"site4"},
		},
	}, s.state, logger)

	// Wednesday
	s.now = time.Date(2024, 3, 6, 13, 0, 0, 0, time.UTC)
	s.planner.now = func() time.Time { return s.now }
}

func (s *SitePlannerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestSitePlannerTestSuite(t *testing.T) {
	suite.Run(t, new(SitePlannerTestSuite))
}

func record(at string, next time.Time) *scheduler.JobRecord {
	rec := &scheduler.JobRecord{ID: "Sites at 12:00", Interval: 1, Unit: scheduler.Days}
	if at != "" {
		rec.AtTime = &at
	}
	if !next.IsZero() {
		rec.NextRun = &scheduler.Timestamp{Time: next}
	}
	return rec
}

func (s *SitePlannerTestSuite) TestSitesToRun() {
	tests := []struct {
		name  string
		state *scheduler.JobRecord
		want  []string
	}{
		{"no persisted job", nil, []string{"site1", "site2", "site3"}},
		{"no at_time", record("", s.now), []string{"site1", "site2", "site3"}},
		{"past at_time and due today", record("12:00", s.now.Add(-time.Hour)), []string{"site1", "site2", "site3"}},
		{"exactly at_time", record("13:00", s.now), []string{"site1", "site2", "site3"}},
		{"one minute before at_time", record("13:01", s.now.Add(time.Minute)), nil},
		{"before at_time", record("14:00", s.now.Add(time.Hour)), nil},
		{"next run tomorrow", record("12:00", s.now.Add(23*time.Hour)), nil},
		{"invalid at_time is ignored", record("noon", s.now), []string{"site1", "site2", "site3"}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.state.EXPECT().Load(gomock.Any(), "Sites at 12:00").Return(tt.state, nil)

			sites, err := s.planner.SitesToRun(context.Background(), "Sites at 12:00")

			s.Require().NoError(err)
			s.Equal(tt.want, sites)
		})
	}
}

func (s *SitePlannerTestSuite) TestSitesToRun_JobIDIgnoresCase() {
	s.state.EXPECT().Load(gomock.Any(), "sites at 12:00").Return(nil, nil)

	sites, err := s.planner.SitesToRun(context.Background(), "sites at 12:00")

	s.Require().NoError(err)
	s.Equal([]string{"site1", "site2", "site3"}, sites)
}

func (s *SitePlannerTestSuite) TestSitesToRun_UnknownJob() {
	sites, err := s.planner.SitesToRun(context.Background(), "Not sorted")

	s.NoError(err)
	s.Empty(sites)
}

func (s *SitePlannerTestSuite) TestSitesToRun_StateError() {
	s.state.EXPECT().Load(gomock.Any(), "Sites at 12:00").Return(nil, errors.New("boom"))

	_, err := s.planner.SitesToRun(context.Background(), "Sites at 12:00")

	s.Error(err)
}
