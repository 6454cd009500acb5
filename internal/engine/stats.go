package engine

import (
	"sort"
	"strconv"

	"propsearch/internal/models"
)

func (e *Engine) ComputeStats(records []models.PropertyRecord) models.StatsReport {
	report := models.StatsReport{
		Total:               len(records),
		PropertyTypes:       make(map[string]int),
		BedroomDistribution: make(map[string]int),
	}

	prices := make([]float64, 0, len(records))
	var priceSum, sqftSum float64
	var sqftCount int

	for _, p := range records {
		switch p.SaleType {
		case models.SaleTypeForSale:
			report.ForSale++
		case models.SaleTypeForRent:
			report.ForRent++
		}

		if price := p.GetPrice(); price > 0 {
			prices = append(prices, price)
			priceSum += price
		}

		propertyType := p.PropertyType
		if propertyType == "" {
			propertyType = models.OtherPropertyType
		}
		report.PropertyTypes[propertyType]++

		bedrooms := models.UnknownBedrooms
		if p.Bedrooms != nil {
			bedrooms = strconv.Itoa(*p.Bedrooms)
		}
		report.BedroomDistribution[bedrooms]++

		if sqft := p.GetSquareFeet(); sqft > 0 {
			sqftSum += float64(sqft)
			sqftCount++
		}
	}

	if len(prices) > 0 {
		report.AveragePrice = priceSum / float64(len(prices))
		sort.Float64s(prices)
		report.MedianPrice = median(prices)
		report.PriceRange = models.PriceRange{
			Min: prices[0],
			Max: prices[len(prices)-1],
		}
	}

	if sqftCount > 0 {
		report.AverageSqft = sqftSum / float64(sqftCount)
	}

	return report
}

// median expects sorted, non-empty input.
func median(sorted []float64) float64 {
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
