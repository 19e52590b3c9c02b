package filter

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SitePriority says which of two sites loses when both carry the same title.
type SitePriority struct {
	Sites [2]string
	Drop  string
}

// Tables are the static lookup tables of the pipeline. Site keys are matched
// case-insensitively.
type Tables struct {
	BannedWords      []string
	ModelCorrections map[string]map[string]string
	SitePriorities   []SitePriority
	PromoLinks       map[string]string
}

type modelRule struct {
	wrong   string
	correct string
}

type compiledTables struct {
	banned     []bannedWord
	models     map[string][]modelRule
	priorities map[sitePair]string
	promo      map[string]string
}

type bannedWord struct {
	word    string
	pattern *regexp.Regexp
}

type sitePair struct {
	a, b string
}

func (t Tables) normalized() compiledTables {
	c := compiledTables{
		models:     make(map[string][]modelRule, len(t.ModelCorrections)),
		priorities: make(map[sitePair]string, len(t.SitePriorities)),
		promo:      make(map[string]string, len(t.PromoLinks)),
	}

	words := make([]string, 0, len(t.BannedWords))
	for _, w := range t.BannedWords {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			words = append(words, w)
		}
	}
	sort.Strings(words)
	for _, w := range words {
		c.banned = append(c.banned, bannedWord{
			word:    w,
			pattern: wordPattern(w),
		})
	}

	for site, rules := range t.ModelCorrections {
		wrongs := make([]string, 0, len(rules))
		for wrong := range rules {
			wrongs = append(wrongs, wrong)
		}
		sort.Strings(wrongs)

		key := strings.ToLower(site)
		for _, wrong := range wrongs {
			if wrong == "" {
				continue
			}
			c.models[key] = append(c.models[key], modelRule{wrong: wrong, correct: rules[wrong]})
		}
	}

	for _, p := range t.SitePriorities {
		pair := sitePair{strings.ToLower(p.Sites[0]), strings.ToLower(p.Sites[1])}
		c.priorities[pair] = strings.ToLower(p.Drop)
	}

	for site, link := range t.PromoLinks {
		c.promo[strings.ToLower(site)] = link
	}

	return c
}

const (
	wordChar    = `[\p{L}\p{N}_]`
	nonWordChar = `[^\p{L}\p{N}_]`
)

// wordPattern matches w between word boundaries, where word characters are
// Unicode letters, digits and underscore. RE2's \b only knows ASCII.
func wordPattern(w string) *regexp.Regexp {
	first, _ := utf8.DecodeRuneInString(w)
	last, _ := utf8.DecodeLastRuneInString(w)

	before, after := wordChar, wordChar
	if isWordRune(first) {
		before = `(?:^|` + nonWordChar + `)`
	}
	if isWordRune(last) {
		after = `(?:$|` + nonWordChar + `)`
	}
	return regexp.MustCompile(before + regexp.QuoteMeta(w) + after)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
