package engine

import (
	"sort"
	"strings"
	"unicode/utf8"

	"propsearch/internal/models"
)

// Relevance weights. Changing any of these changes result order for
// existing callers.
const (
	baseMatchScore    = 1.0
	titleMatchBonus   = 10.0
	addressMatchBonus = 5.0
	fuzzyMatchWeight  = 0.5

	// Records matching fewer than this share of the query terms score 0.
	minMatchRatio = 0.5
)

type SearchResult struct {
	Results []models.ScoredProperty `json:"results"`
	Query   string                  `json:"query"`
}

// Tokenize lowercases query and splits it on whitespace.
func Tokenize(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// Corpus is the lowercased text a record is searched against.
func Corpus(p models.PropertyRecord) string {
	parts := make([]string, 0, 7+len(p.Features))
	parts = append(parts,
		p.Title,
		p.Description,
		p.Address,
		p.City,
		p.Neighborhood,
		p.PropertyType,
		p.SaleType,
	)
	parts = append(parts, p.Features...)
	return strings.ToLower(strings.Join(parts, " "))
}

func (e *Engine) Search(records []models.PropertyRecord, query string, fuzzy bool) SearchResult {
	terms := Tokenize(query)
	if len(terms) == 0 {
		results := make([]models.ScoredProperty, len(records))
		for i := range records {
			results[i] = models.ScoredProperty{PropertyRecord: records[i]}
		}
		return SearchResult{Results: results, Query: query}
	}

	scores := make([]float64, len(records))
	e.forEach(len(records), func(i int) {
		scores[i] = ScoreRecord(records[i], terms, fuzzy)
	})

	results := make([]models.ScoredProperty, 0)
	for i, score := range scores {
		if score > 0 {
			s := score
			results = append(results, models.ScoredProperty{
				PropertyRecord: records[i],
				Score:          &s,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return *results[i].Score > *results[j].Score
	})

	return SearchResult{Results: results, Query: query}
}

// ScoreRecord scores p against already tokenized terms. It returns 0 when
// fewer than half of the terms occur in the record.
func ScoreRecord(p models.PropertyRecord, terms []string, fuzzy bool) float64 {
	if len(terms) == 0 {
		return 0
	}

	corpus := Corpus(p)
	title := strings.ToLower(p.Title)
	address := strings.ToLower(p.Address)

	var words []string
	if fuzzy {
		words = strings.Fields(corpus)
	}

	score := 0.0
	matched := 0
	for _, term := range terms {
		if !strings.Contains(corpus, term) {
			continue
		}

		termScore := baseMatchScore
		if strings.Contains(title, term) {
			termScore += titleMatchBonus
		}
		if strings.Contains(address, term) {
			termScore += addressMatchBonus
		}
		if fuzzy {
			termScore += fuzzyMatchWeight * float64(fuzzyMatchCount(words, term))
		}

		score += termScore
		matched++
	}

	if float64(matched)/float64(len(terms)) < minMatchRatio {
		return 0
	}
	return score
}

// fuzzyMatchCount counts words at most one character shorter than term that
// contain term without its last character.
func fuzzyMatchCount(words []string, term string) int {
	runes := []rune(term)
	if len(runes) == 0 {
		return 0
	}
	stem := string(runes[:len(runes)-1])
	minLen := len(runes) - 1

	count := 0
	for _, word := range words {
		if utf8.RuneCountInString(word) >= minLen && strings.Contains(word, stem) {
			count++
		}
	}
	return count
}
