package help

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	scoreIDMatch        = 100
	scoreTokenHit       = 3
	scoreWholeSubstring = 10
	maxSuggestions      = 5
)

// MatchResult is the outcome of scoring a query against the catalog.
type MatchResult struct {
	Best        *ScoredTopic  `json:"best,omitempty"`
	Suggestions []ScoredTopic `json:"suggestions"`
}

// ScoredTopic pairs a topic with its relevance score.
type ScoredTopic struct {
	Topic Topic `json:"topic"`
	Score int   `json:"score"`
}

var diacriticsStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lower-cases, strips diacritics, replaces non-alphanumeric
// runes with spaces, and collapses whitespace.
func Normalize(s string) string {
	s = strings.ToLower(s)
	if stripped, _, err := transform.String(diacriticsStripper, s); err == nil {
		s = stripped
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Match scores the query against every catalog topic. An exact or
// containing id match scores 100; otherwise tokens longer than two
// characters found in the title+aliases haystack score 3 each, plus 10
// when the whole query is a substring. Zero-score topics are excluded.
// Ties keep catalog order.
func Match(query string) MatchResult {
	return matchAgainst(query, Catalog())
}

func matchAgainst(query string, topics []Topic) MatchResult {
	q := Normalize(query)
	if q == "" {
		return MatchResult{Suggestions: []ScoredTopic{}}
	}
	tokens := strings.Fields(q)

	scored := make([]ScoredTopic, 0, 8)
	for _, t := range topics {
		id := Normalize(t.ID)
		score := 0
		if q == id || strings.Contains(q, id) {
			score = scoreIDMatch
		} else {
			haystack := Normalize(t.Title)
			for _, a := range t.Aliases {
				haystack += " " + Normalize(a)
			}
			for _, tok := range tokens {
				if len(tok) > 2 && strings.Contains(haystack, tok) {
					score += scoreTokenHit
				}
			}
			if strings.Contains(haystack, q) {
				score += scoreWholeSubstring
			}
		}
		if score > 0 {
			scored = append(scored, ScoredTopic{Topic: t, Score: score})
		}
	}

	// stable: equal scores keep catalog order
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	res := MatchResult{Suggestions: []ScoredTopic{}}
	if len(scored) == 0 {
		return res
	}
	best := scored[0]
	res.Best = &best
	if len(scored) > maxSuggestions {
		scored = scored[:maxSuggestions]
	}
	res.Suggestions = scored
	return res
}
