package engine

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"

	"propsearch/internal/models"
)

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		criteria models.FilterCriteria
		expected []string
	}{
		{
			name:     "No criteria passes everything",
			criteria: models.FilterCriteria{},
			expected: []string{"canal-apt", "family-home", "studio", "bare"},
		},
		{
			name:     "Price range",
			criteria: models.FilterCriteria{MinPrice: ptr(400000.0), MaxPrice: ptr(500000.0)},
			expected: []string{"canal-apt"},
		},
		{
			name:     "Price range bounds are inclusive",
			criteria: models.FilterCriteria{MinPrice: ptr(450000.0), MaxPrice: ptr(725000.0)},
			expected: []string{"canal-apt", "family-home"},
		},
		{
			name:     "Max price alone keeps unpriced records",
			criteria: models.FilterCriteria{MaxPrice: ptr(2000.0)},
			expected: []string{"studio", "bare"},
		},
		{
			name:     "Property type is exact",
			criteria: models.FilterCriteria{PropertyType: "Apartment"},
			expected: []string{"canal-apt", "studio"},
		},
		{
			name:     "Property type is case sensitive",
			criteria: models.FilterCriteria{PropertyType: "apartment"},
			expected: []string{},
		},
		{
			name:     "Sale type",
			criteria: models.FilterCriteria{SaleType: models.SaleTypeForRent},
			expected: []string{"studio"},
		},
		{
			name:     "Bedrooms below five match exactly",
			criteria: models.FilterCriteria{Bedrooms: ptr(2)},
			expected: []string{"canal-apt"},
		},
		{
			name:     "Bedrooms zero matches records without bedrooms",
			criteria: models.FilterCriteria{Bedrooms: ptr(0)},
			expected: []string{"bare"},
		},
		{
			name:     "Bathrooms are a lower bound",
			criteria: models.FilterCriteria{Bathrooms: ptr(1.0)},
			expected: []string{"canal-apt", "family-home", "studio"},
		},
		{
			name:     "Bathrooms half step",
			criteria: models.FilterCriteria{Bathrooms: ptr(2.0)},
			expected: []string{"family-home"},
		},
		{
			name:     "Bathrooms three or more",
			criteria: models.FilterCriteria{Bathrooms: ptr(3.0)},
			expected: []string{},
		},
		{
			name:     "Square footage range",
			criteria: models.FilterCriteria{MinSquareFeet: ptr(400), MaxSquareFeet: ptr(850)},
			expected: []string{"canal-apt", "studio"},
		},
		{
			name:     "Location matches city case-insensitively",
			criteria: models.FilterCriteria{Location: "AMSTERDAM"},
			expected: []string{"canal-apt", "studio"},
		},
		{
			name:     "Location matches neighborhood",
			criteria: models.FilterCriteria{Location: "jordaan"},
			expected: []string{"canal-apt"},
		},
		{
			name:     "Location matches address",
			criteria: models.FilterCriteria{Location: "canal street"},
			expected: []string{"family-home"},
		},
		{
			name: "Bounds around Amsterdam",
			criteria: models.FilterCriteria{Bounds: &orb.Bound{
				Min: orb.Point{4.75, 52.30},
				Max: orb.Point{5.05, 52.45},
			}},
			expected: []string{"canal-apt"},
		},
		{
			name: "Combined criteria",
			criteria: models.FilterCriteria{
				PropertyType: "Apartment",
				SaleType:     models.SaleTypeForSale,
				Location:     "amsterdam",
			},
			expected: []string{"canal-apt"},
		},
	}

	records := sampleListings()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Filter(records, tt.criteria)

			assert.Equal(t, tt.expected, ids(result.Passing))
			assert.Equal(t, len(tt.expected), result.PassingCount)
			assert.Equal(t, len(records), result.TotalCount)
		})
	}
}

func TestFilter_BedroomsFiveOrMore(t *testing.T) {
	var records []models.PropertyRecord
	for i, beds := range []int{2, 3, 3, 5, 6} {
		records = append(records, models.PropertyRecord{
			ID:       string(rune('a' + i)),
			Bedrooms: ptr(beds),
		})
	}

	result := Filter(records, models.FilterCriteria{Bedrooms: ptr(5)})

	assert.Equal(t, 2, result.PassingCount)
	assert.Equal(t, 5, result.TotalCount)
	for _, p := range result.Passing {
		assert.GreaterOrEqual(t, p.GetBedrooms(), 5)
	}

	exact := Filter(records, models.FilterCriteria{Bedrooms: ptr(3)})
	assert.Equal(t, []string{"b", "c"}, ids(exact.Passing))
}

func TestFilter_Idempotent(t *testing.T) {
	records := generateListings(200)
	criteria := models.FilterCriteria{
		MinPrice:  ptr(250000.0),
		Bathrooms: ptr(2.0),
		Location:  "rotterdam",
	}

	first := Filter(records, criteria)
	second := Filter(first.Passing, criteria)

	assert.Equal(t, ids(first.Passing), ids(second.Passing))
	assert.Equal(t, first.PassingCount, second.TotalCount)
}

func TestFilter_MonotonicUnderRelaxation(t *testing.T) {
	records := generateListings(300)
	strict := models.FilterCriteria{
		MinPrice:      ptr(300000.0),
		MaxPrice:      ptr(600000.0),
		PropertyType:  "House",
		Bedrooms:      ptr(5),
		MinSquareFeet: ptr(600),
		Location:      "utrecht",
	}
	relaxations := []models.FilterCriteria{
		{MinPrice: strict.MinPrice, MaxPrice: strict.MaxPrice},
		{PropertyType: strict.PropertyType, Bedrooms: strict.Bedrooms},
		{MinSquareFeet: strict.MinSquareFeet, Location: strict.Location},
		{},
	}

	strictIDs := ids(Filter(records, strict).Passing)
	assert.NotEmpty(t, strictIDs)

	for _, relaxed := range relaxations {
		relaxedIDs := ids(Filter(records, relaxed).Passing)
		assert.Subset(t, relaxedIDs, strictIDs)
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	records := sampleListings()
	before := ids(records)

	Filter(records, models.FilterCriteria{SaleType: models.SaleTypeForRent})

	assert.Equal(t, before, ids(records))
}

func TestFilter_ParallelMatchesSequential(t *testing.T) {
	records := generateListings(1000)
	criteria := models.FilterCriteria{MinPrice: ptr(350000.0), Bathrooms: ptr(2.0)}

	parallel := New(WithParallelism(4, 10)).Filter(records, criteria)
	serial := Filter(records, criteria)

	assert.Equal(t, ids(serial.Passing), ids(parallel.Passing))
	assert.Equal(t, serial.PassingCount, parallel.PassingCount)
}
