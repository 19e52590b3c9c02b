package filter

import (
	"context"
	"maps"
	"strings"
	"time"

	"content_syncer/internal/domain"
)

func (p *Pipeline) dropEmptyTitles(_ context.Context, records []domain.Record) []domain.Record {
	mask := allTrue(len(records))
	for i, r := range records {
		mask[i] = r.Title != nil
	}

	out := keep(records, mask)
	if dropped := len(records) - len(out); dropped > 0 {
		p.logger.Info("records without title dropped", "count", dropped)
	}
	return out
}

func (p *Pipeline) dropEmptyImages(_ context.Context, records []domain.Record) []domain.Record {
	mask := allTrue(len(records))
	for i, r := range records {
		mask[i] = r.ImageLocalPath != nil
	}

	out := keep(records, mask)
	if dropped := len(records) - len(out); dropped > 0 {
		p.logger.Info("records without image dropped", "count", dropped)
	}
	return out
}

// dropDuplicates compares every pair of records. Rules learned for site pairs
// without a configured priority live only for this pass, so the outcome
// depends on record order.
func (p *Pipeline) dropDuplicates(_ context.Context, records []domain.Record) []domain.Record {
	mask := allTrue(len(records))
	rules := maps.Clone(p.tables.priorities)

	for i := range records {
		siteI := strings.ToLower(records[i].Site)
		titleI := domain.Value(records[i].Title)

		for j := i + 1; j < len(records); j++ {
			siteJ := strings.ToLower(records[j].Site)
			titleJ := domain.Value(records[j].Title)

			if p.score(titleI, titleJ) < p.config.DuplicateThreshold {
				continue
			}

			drop, ok := rules[sitePair{siteI, siteJ}]
			if !ok {
				drop, ok = rules[sitePair{siteJ, siteI}]
			}
			if ok {
				switch drop {
				case siteI:
					mask[i] = false
				case siteJ:
					mask[j] = false
				}
				continue
			}

			mask[j] = false
			rules[sitePair{siteI, siteJ}] = siteJ
			p.logger.Info("duplicate title dropped without site rule",
				"title", titleI,
				"kept_site", records[i].Site,
				"dropped_site", records[j].Site,
			)
		}
	}

	return keep(records, mask)
}

func (p *Pipeline) dropBannedWords(_ context.Context, records []domain.Record) []domain.Record {
	mask := allTrue(len(records))

	for i, r := range records {
		title := strings.ToLower(domain.Value(r.Title))
		for _, banned := range p.tables.banned {
			if banned.pattern.MatchString(title) {
				mask[i] = false
				p.logger.Info("title with banned word dropped", "title", domain.Value(r.Title), "word", banned.word)
				break
			}
		}
	}

	return keep(records, mask)
}

var symbolReplacer = strings.NewReplacer(
	"-", "",
	"|", "",
	":", "",
	",", "",
	".", "",
	")", "",
	"(", "",
	"#", "",
	"’", "'",
	"&", "and",
	"+", "and",
	"—", "",
	"?", "",
	"】", "",
	"【", "",
)

// NormalizeTitle strips punctuation from a title and collapses whitespace.
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(symbolReplacer.Replace(title)), " ")
}

func (p *Pipeline) replaceTitleSymbols(_ context.Context, records []domain.Record) []domain.Record {
	for i := range records {
		if records[i].Title == nil {
			continue
		}
		records[i].Title = domain.Ptr(NormalizeTitle(*records[i].Title))
	}
	return records
}

func (p *Pipeline) fixModelsInTitle(ctx context.Context, records []domain.Record) []domain.Record {
	for i := range records {
		rules := p.tables.models[strings.ToLower(records[i].Site)]
		if len(rules) == 0 || records[i].Title == nil {
			continue
		}

		original := *records[i].Title
		title := original
		for _, rule := range rules {
			if strings.Contains(title, rule.wrong) {
				title = strings.ReplaceAll(title, rule.wrong, rule.correct)
			}
		}

		if title != original {
			records[i].Title = domain.Ptr(title)
			countChange(ctx, "model_in_title")
			p.logger.Info("title changed", "from", original, "to", title)
		}
	}
	return records
}

func (p *Pipeline) fixModelsField(ctx context.Context, records []domain.Record) []domain.Record {
	for i := range records {
		if records[i].Models == nil {
			continue
		}

		original := *records[i].Models
		models := original
		for _, rule := range p.tables.models[strings.ToLower(records[i].Site)] {
			names := strings.Split(models, ", ")
			for k, name := range names {
				if strings.TrimSpace(name) == rule.wrong {
					names[k] = rule.correct
				}
			}
			models = strings.Join(names, ", ")
		}
		models = strings.TrimSpace(strings.ReplaceAll(models, ".", ""))

		if models != original {
			records[i].Models = domain.Ptr(models)
			countChange(ctx, "model_in_models")
			p.logger.Info("models changed", "from", original, "to", models)
		}
	}
	return records
}

func (p *Pipeline) patchTitleEqualsModels(ctx context.Context, records []domain.Record) []domain.Record {
	for i := range records {
		title := domain.Value(records[i].Title)
		models := domain.Value(records[i].Models)

		if title != "" && models != "" && title == models {
			records[i].Title = domain.Ptr(title + " is at " + records[i].Site)
			countChange(ctx, "title_equals_models")
		}
	}
	return records
}

// dropStale removes records dated before the age cutoff and records whose
// title is close to one uploaded during the last few days. Unparseable
// dates count as missing.
func (p *Pipeline) dropStale(ctx context.Context, records []domain.Record) []domain.Record {
	if len(records) == 0 {
		return records
	}

	now := p.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	cutoff := today.AddDate(0, 0, -p.config.MaxAgeDays)
	history := p.uploadedTitles(ctx, today)

	mask := allTrue(len(records))
	for i, r := range records {
		title := domain.Value(r.Title)

		if date, ok := parseDate(r.Date, now.Location()); ok && date.Before(cutoff) {
			mask[i] = false
			p.logger.Info("record older than cutoff dropped", "title", title, "date", domain.Value(r.Date))
			continue
		}

		for _, h := range history {
			if p.score(title, h.title) >= p.config.HistoryThreshold {
				mask[i] = false
				p.logger.Info("title similar to uploaded one dropped",
					"title", title,
					"uploaded_title", h.title,
					"store", h.store,
				)
				break
			}
		}
	}

	return keep(records, mask)
}

type historyTitle struct {
	title string
	store string
}

func (p *Pipeline) uploadedTitles(ctx context.Context, today time.Time) []historyTitle {
	if p.history == nil {
		return nil
	}

	var titles []historyTitle
	for d := 1; d <= p.config.HistoryDays; d++ {
		key := domain.UploadedKey(today.AddDate(0, 0, -d))
		uploaded, err := p.history.Read(ctx, key)
		if err != nil {
			p.logger.Error("failed to read upload history", "store", key.String(), "error", err)
			continue
		}
		for _, u := range uploaded {
			titles = append(titles, historyTitle{title: domain.Value(u.Title), store: key.String()})
		}
	}
	return titles
}

func parseDate(s *string, loc *time.Location) (time.Time, bool) {
	if s == nil || *s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(domain.DateLayout, *s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (p *Pipeline) attachPromoLinks(_ context.Context, records []domain.Record) []domain.Record {
	for i := range records {
		if link := p.tables.promo[strings.ToLower(records[i].Site)]; link != "" {
			records[i].PromoLink = domain.Ptr(link)
		} else {
			records[i].PromoLink = nil
		}
	}
	return records
}
