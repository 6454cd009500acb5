package engine

import (
	"fmt"
	"time"

	"propsearch/internal/models"
)

func ptr[T any](v T) *T {
	return &v
}

func ids(records []models.PropertyRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func scoredIDs(results []models.ScoredProperty) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}

func sampleListings() []models.PropertyRecord {
	return []models.PropertyRecord{
		{
			ID:           "canal-apt",
			Title:        "Sunny Canal Apartment",
			Address:      "Prinsengracht 12",
			City:         "Amsterdam",
			Neighborhood: "Jordaan",
			PropertyType: "Apartment",
			SaleType:     models.SaleTypeForSale,
			Price:        ptr(450000.0),
			Bedrooms:     ptr(2),
			Bathrooms:    ptr(1.0),
			SquareFeet:   ptr(850),
			Features:     []string{"balcony"},
			CreatedAt:    ptr(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
			Latitude:     ptr(52.3752),
			Longitude:    ptr(4.8840),
		},
		{
			ID:           "family-home",
			Title:        "Family Home",
			Address:      "Canal Street 5",
			City:         "Utrecht",
			Neighborhood: "Oudwijk",
			PropertyType: "House",
			SaleType:     models.SaleTypeForSale,
			Price:        ptr(725000.0),
			Bedrooms:     ptr(5),
			Bathrooms:    ptr(2.5),
			SquareFeet:   ptr(2100),
			Features:     []string{"garden", "garage"},
			CreatedAt:    ptr(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)),
			Latitude:     ptr(52.0880),
			Longitude:    ptr(5.1370),
		},
		{
			ID:           "studio",
			Title:        "Compact Studio",
			Address:      "Damrak 70",
			City:         "Amsterdam",
			Neighborhood: "Centrum",
			PropertyType: "Apartment",
			SaleType:     models.SaleTypeForRent,
			Price:        ptr(1800.0),
			Bedrooms:     ptr(1),
			Bathrooms:    ptr(1.0),
			SquareFeet:   ptr(400),
		},
		{
			ID:    "bare",
			Title: "Unlisted Plot",
		},
	}
}

func generateListings(count int) []models.PropertyRecord {
	cities := []string{"Amsterdam", "Rotterdam", "Utrecht", "Den Haag"}
	types := []string{"Apartment", "House", "Villa"}
	records := make([]models.PropertyRecord, count)
	for i := range records {
		records[i] = models.PropertyRecord{
			ID:           fmt.Sprintf("gen-%d", i),
			Title:        fmt.Sprintf("%s with garden %d", types[i%len(types)], i),
			Address:      fmt.Sprintf("Keizersgracht %d", i),
			City:         cities[i%len(cities)],
			PropertyType: types[i%len(types)],
			SaleType:     models.SaleTypeForSale,
			Price:        ptr(float64(200000 + (i%50)*10000)),
			Bedrooms:     ptr(1 + i%6),
			Bathrooms:    ptr(float64(1 + i%3)),
			SquareFeet:   ptr(500 + (i%20)*50),
		}
	}
	return records
}
