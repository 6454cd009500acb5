// Package suggest offers type-ahead title completions over property records.
package suggest

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"propsearch/internal/models"
)

const DefaultLimit = 10

type Suggestion struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Score          int    `json:"score"`
	MatchedIndexes []int  `json:"matchedIndexes"`
}

type titleSource []models.PropertyRecord

func (s titleSource) String(i int) string {
	return s[i].Title
}

func (s titleSource) Len() int {
	return len(s)
}

// Titles returns up to limit distinct titles fuzzily matching query, best
// match first. A blank query yields no suggestions.
func Titles(records []models.PropertyRecord, query string, limit int) []Suggestion {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Suggestion{}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	matches := fuzzy.FindFrom(query, titleSource(records))

	seen := make(map[string]bool, len(matches))
	suggestions := make([]Suggestion, 0, min(limit, len(matches)))
	for _, match := range matches {
		if len(suggestions) == limit {
			break
		}
		key := strings.ToLower(match.Str)
		if seen[key] {
			continue
		}
		seen[key] = true

		suggestions = append(suggestions, Suggestion{
			ID:             records[match.Index].ID,
			Title:          match.Str,
			Score:          match.Score,
			MatchedIndexes: match.MatchedIndexes,
		})
	}
	return suggestions
}
