package models

const (
	OtherPropertyType = "Other"
	UnknownBedrooms   = "Unknown"
)

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// StatsReport aggregates a record set. Price figures only consider records
// with a positive price, AverageSqft only records with a positive area.
type StatsReport struct {
	Total               int            `json:"total"`
	ForSale             int            `json:"forSale"`
	ForRent             int            `json:"forRent"`
	AveragePrice        float64        `json:"averagePrice"`
	MedianPrice         float64        `json:"medianPrice"`
	PriceRange          PriceRange     `json:"priceRange"`
	PropertyTypes       map[string]int `json:"propertyTypes"`
	BedroomDistribution map[string]int `json:"bedroomDistribution"`
	AverageSqft         float64        `json:"averageSqft"`
}
