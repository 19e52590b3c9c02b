// Package fuzzy scores how alike two titles are on a 0..100 scale.
package fuzzy

import (
	"math"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

// Scorer returns the similarity of a and b in 0..100.
type Scorer func(a, b string) int

// Ratio is the Levenshtein similarity of a and b normalised by the longer
// string. Empty input scores 0.
func Ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}

	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	distance := matchr.Levenshtein(a, b)
	if distance >= longest {
		return 0
	}

	return int(math.Round(100 * (1 - float64(distance)/float64(longest))))
}

// BestMatch returns the highest score of title against candidates.
func BestMatch(score Scorer, title string, candidates []string) int {
	best := 0
	for _, c := range candidates {
		if s := score(title, c); s > best {
			best = s
			if best == 100 {
				break
			}
		}
	}
	return best
}
