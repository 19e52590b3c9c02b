// Package filter turns freshly scraped records into publishable ones: it
// drops incomplete, duplicate, banned and stale records and normalises the
// titles and model names of the rest.
package filter

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"content_syncer/internal/domain"
	"content_syncer/internal/fuzzy"
)

var (
	meter             = otel.Meter("content_syncer/filter")
	droppedCounter, _ = meter.Int64Counter("filter.records_dropped")
	changedCounter, _ = meter.Int64Counter("filter.records_changed")
)

// HistoryReader reads previously uploaded records.
type HistoryReader interface {
	Read(ctx context.Context, key domain.StoreKey) ([]domain.Record, error)
}

type Config struct {
	DuplicateThreshold int
	HistoryThreshold   int
	MaxAgeDays         int
	HistoryDays        int
}

func DefaultConfig() Config {
	return Config{
		DuplicateThreshold: 99,
		HistoryThreshold:   90,
		MaxAgeDays:         3,
		HistoryDays:        5,
	}
}

type Pipeline struct {
	tables  compiledTables
	config  Config
	history HistoryReader
	score   fuzzy.Scorer
	now     func() time.Time
	logger  *slog.Logger
}

type Option func(*Pipeline)

func WithScorer(score fuzzy.Scorer) Option {
	return func(p *Pipeline) { p.score = score }
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

func NewPipeline(tables Tables, cfg Config, history HistoryReader, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		tables:  tables.normalized(),
		config:  cfg,
		history: history,
		score:   fuzzy.Ratio,
		now:     time.Now,
		logger:  logger.With("component", "filter"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type stage struct {
	name string
	run  func(ctx context.Context, records []domain.Record) []domain.Record
}

func (p *Pipeline) stages() []stage {
	return []stage{
		{"empty_title", p.dropEmptyTitles},
		{"empty_image", p.dropEmptyImages},
		{"duplicates", p.dropDuplicates},
		{"banned_words", p.dropBannedWords},
		{"title_symbols", p.replaceTitleSymbols},
		{"model_in_title", p.fixModelsInTitle},
		{"model_in_models", p.fixModelsField},
		{"title_equals_models", p.patchTitleEqualsModels},
		{"age", p.dropStale},
		{"promo_links", p.attachPromoLinks},
	}
}

// Run applies every stage in order to a copy of records. Later stages see
// the mutations of earlier ones.
func (p *Pipeline) Run(ctx context.Context, records []domain.Record) []domain.Record {
	out := make([]domain.Record, len(records))
	copy(out, records)

	for _, st := range p.stages() {
		before := len(out)
		out = st.run(ctx, out)

		if dropped := before - len(out); dropped > 0 {
			droppedCounter.Add(ctx, int64(dropped), metric.WithAttributes(attribute.String("stage", st.name)))
		}
	}

	p.logger.Info("filters applied", "input", len(records), "output", len(out))
	return out
}

func keep(records []domain.Record, mask []bool) []domain.Record {
	out := make([]domain.Record, 0, len(records))
	for i, r := range records {
		if mask[i] {
			out = append(out, r)
		}
	}
	return out
}

func allTrue(n int) []bool {
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = true
	}
	return mask
}

func countChange(ctx context.Context, stage string) {
	changedCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}
