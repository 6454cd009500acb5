package engine

import (
	"strings"

	"propsearch/internal/models"
)

type FilterResult struct {
	Passing      []models.PropertyRecord `json:"passing"`
	PassingCount int                     `json:"passingCount"`
	TotalCount   int                     `json:"totalCount"`
}

func (e *Engine) Filter(records []models.PropertyRecord, criteria models.FilterCriteria) FilterResult {
	keep := make([]bool, len(records))
	e.forEach(len(records), func(i int) {
		keep[i] = Matches(records[i], criteria)
	})

	passing := make([]models.PropertyRecord, 0, len(records))
	for i, ok := range keep {
		if ok {
			passing = append(passing, records[i])
		}
	}

	return FilterResult{
		Passing:      passing,
		PassingCount: len(passing),
		TotalCount:   len(records),
	}
}

// Matches reports whether p satisfies every predicate set in c.
func Matches(p models.PropertyRecord, c models.FilterCriteria) bool {
	price := p.GetPrice()
	if c.MinPrice != nil && price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && price > *c.MaxPrice {
		return false
	}

	if c.PropertyType != "" && p.PropertyType != c.PropertyType {
		return false
	}
	if c.SaleType != "" && p.SaleType != c.SaleType {
		return false
	}

	if c.Bedrooms != nil {
		beds := p.GetBedrooms()
		if *c.Bedrooms == models.BedroomsOrMore {
			if beds < models.BedroomsOrMore {
				return false
			}
		} else if beds != *c.Bedrooms {
			return false
		}
	}

	if c.Bathrooms != nil {
		baths := p.GetBathrooms()
		if *c.Bathrooms == models.BathroomsOrMore {
			if baths < models.BathroomsOrMore {
				return false
			}
		} else if baths < *c.Bathrooms {
			return false
		}
	}

	sqft := p.GetSquareFeet()
	if c.MinSquareFeet != nil && sqft < *c.MinSquareFeet {
		return false
	}
	if c.MaxSquareFeet != nil && sqft > *c.MaxSquareFeet {
		return false
	}

	if c.Location != "" {
		haystack := strings.ToLower(p.LocationText())
		if !strings.Contains(haystack, strings.ToLower(c.Location)) {
			return false
		}
	}

	if c.Bounds != nil {
		point, ok := p.GetLocation()
		if !ok || !c.Bounds.Contains(point) {
			return false
		}
	}

	return true
}
