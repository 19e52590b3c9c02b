package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
	dir string
}

func (s *ConfigTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) write(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (s *ConfigTestSuite) TestLoad_Defaults() {
	path := s.write("config.yaml", "log_level: debug\n")

	cfg, err := Load(path)

	s.Require().NoError(err)
	s.Equal("debug", cfg.LogLevel)
	s.Equal(BackendJSON, cfg.Storage.Backend)
	s.Equal(5, cfg.Storage.Lock.Attempts)
	s.Equal(10*time.Second, cfg.Storage.Lock.Timeout)
	s.Equal(5*time.Second, cfg.Storage.Lock.Backoff)
	s.Equal(5*time.Second, cfg.Scheduler.Poll)
	s.Equal(99, cfg.Filters.DuplicateThreshold)
	s.Equal(90, cfg.Filters.HistoryThreshold)
	s.Equal(3, cfg.Filters.MaxAgeDays)
	s.Equal(5, cfg.Filters.HistoryDays)
	s.Equal(filepath.Join("data", "Raw Data"), cfg.Paths.RawDir)
	s.Equal(filepath.Join("data", "scheduler_data.json"), cfg.Paths.StateFile)
	s.False(cfg.UsesPostgres())
}

func (s *ConfigTestSuite) TestLoad_ExpandsEnv() {
	s.T().Setenv("SYNCER_WP_PASSWORD", "secret")
	path := s.write("config.yaml", `
storage:
  backend: postgres
wordpress:
  destinations:
    - name: site1
      base_url: https://site1.example
      username: bot
      password: ${SYNCER_WP_PASSWORD}
scheduler:
  jobs:
    - id: morning
      every: 1
      unit: days
      at: "09:30"
      action: scrape_upload
`)

	cfg, err := Load(path)

	s.Require().NoError(err)
	s.Equal("secret", cfg.WordPress.Destinations[0].Password)
	s.Require().Len(cfg.Scheduler.Jobs, 1)
	s.Equal("09:30", cfg.Scheduler.Jobs[0].At)
	s.True(cfg.UsesPostgres())
}

func (s *ConfigTestSuite) TestLoad_RejectsUnknownBackend() {
	path := s.write("config.yaml", "storage:\n  backend: sqlite\n")

	_, err := Load(path)

	s.Error(err)
}

func (s *ConfigTestSuite) TestLoad_MissingFile() {
	_, err := Load(filepath.Join(s.dir, "missing.yaml"))

	s.Error(err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "n", SSLMode: "disable"}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", d.DSN())
}

func TestLoadContent_MergesLocalOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "content.json5"), []byte(`{
		// comments are allowed
		banned_words: ["word1", "word2"],
		promo_links: {site1: "https://promo/1", site2: "https://promo/2"},
		categories: {Site1: {"New videos": 55}},
		sites: {
			site1: {site: "https://www.site1.com/videos", home: {element: "a.scene"}},
		},
	}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "content.local.json5"), []byte(`{
		promo_links: {site2: "https://promo/local"},
	}`), 0o644))

	content, err := LoadContent(filepath.Join(dir, "content.json5"))

	require.NoError(t, err)
	assert.Equal(t, []string{"word1", "word2"}, content.BannedWords)
	assert.Equal(t, "https://promo/1", content.PromoLinks["site1"])
	assert.Equal(t, "https://promo/local", content.PromoLinks["site2"])
	assert.Equal(t, "New videos", content.PostCategory)
	assert.Equal(t, 55, content.Category("site1", "New videos"))
	assert.Equal(t, 0, content.Category("site9", "New videos"))

	site, ok := content.Site("SITE1")
	require.True(t, ok)
	assert.Equal(t, "http", site.Method)
	assert.Equal(t, "a.scene", site.Home.Element)
}

func TestLoadContent_Missing(t *testing.T) {
	_, err := LoadContent(filepath.Join(t.TempDir(), "content.json5"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}
