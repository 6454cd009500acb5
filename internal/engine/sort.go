package engine

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"propsearch/internal/models"
)

// Sort returns a sorted copy of records. An unknown key returns the copy in
// input order.
func (e *Engine) Sort(records []models.PropertyRecord, key models.SortKey, order models.SortOrder) []models.PropertyRecord {
	out := make([]models.PropertyRecord, len(records))
	copy(out, records)

	cmp := comparator(key)
	if cmp == nil {
		return out
	}
	if order == models.Descending {
		asc := cmp
		cmp = func(a, b models.PropertyRecord) int { return asc(b, a) }
	}

	slices.SortStableFunc(out, cmp)
	return out
}

func comparator(key models.SortKey) func(a, b models.PropertyRecord) int {
	switch key {
	case models.SortByPrice:
		return byNumber(func(p models.PropertyRecord) float64 { return p.GetPrice() })
	case models.SortBySqft:
		return byNumber(func(p models.PropertyRecord) float64 { return float64(p.GetSquareFeet()) })
	case models.SortByBedrooms:
		return byNumber(func(p models.PropertyRecord) float64 { return float64(p.GetBedrooms()) })
	case models.SortByDate:
		return func(a, b models.PropertyRecord) int {
			return a.GetCreatedAt().Compare(b.GetCreatedAt())
		}
	case models.SortByTitle:
		// Collators keep scratch buffers, so each sort gets its own.
		collator := collate.New(language.Und, collate.IgnoreCase)
		return func(a, b models.PropertyRecord) int {
			return collator.CompareString(a.Title, b.Title)
		}
	default:
		return nil
	}
}

// byNumber orders by the sign of value(a) - value(b).
func byNumber(value func(models.PropertyRecord) float64) func(a, b models.PropertyRecord) int {
	return func(a, b models.PropertyRecord) int {
		diff := value(a) - value(b)
		switch {
		case diff < 0:
			return -1
		case diff > 0:
			return 1
		default:
			return 0
		}
	}
}
