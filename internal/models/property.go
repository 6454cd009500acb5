package models

import (
	"time"

	"github.com/paulmach/orb"
)

const (
	SaleTypeForSale = "For Sale"
	SaleTypeForRent = "For Rent"
)

// PropertyRecord is a listing as supplied by the caller's data layer.
// Optional numeric fields are pointers; read them through the Get accessors.
type PropertyRecord struct {
	ID           string     `json:"id"`
	Title        string     `json:"title,omitempty"`
	Description  string     `json:"description,omitempty"`
	Address      string     `json:"address,omitempty"`
	City         string     `json:"city,omitempty"`
	Neighborhood string     `json:"neighborhood,omitempty"`
	PropertyType string     `json:"propertyType,omitempty"`
	SaleType     string     `json:"saleType,omitempty"`
	Price        *float64   `json:"price,omitempty"`
	Bedrooms     *int       `json:"bedrooms,omitempty"`
	Bathrooms    *float64   `json:"bathrooms,omitempty"`
	SquareFeet   *int       `json:"squareFeet,omitempty"`
	Features     []string   `json:"features,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
}

// Epoch is the fallback for records without a creation time.
var Epoch = time.Unix(0, 0).UTC()

func (p PropertyRecord) GetPrice() float64 {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}

func (p PropertyRecord) GetBedrooms() int {
	if p.Bedrooms == nil {
		return 0
	}
	return *p.Bedrooms
}

func (p PropertyRecord) GetBathrooms() float64 {
	if p.Bathrooms == nil {
		return 0
	}
	return *p.Bathrooms
}

func (p PropertyRecord) GetSquareFeet() int {
	if p.SquareFeet == nil {
		return 0
	}
	return *p.SquareFeet
}

func (p PropertyRecord) GetCreatedAt() time.Time {
	if p.CreatedAt == nil {
		return Epoch
	}
	return *p.CreatedAt
}

// GetLocation returns the record's point as (longitude, latitude).
// ok is false unless both coordinates are present.
func (p PropertyRecord) GetLocation() (orb.Point, bool) {
	if p.Latitude == nil || p.Longitude == nil {
		return orb.Point{}, false
	}
	return orb.Point{*p.Longitude, *p.Latitude}, true
}

// LocationText joins the address parts matched by the location filter.
func (p PropertyRecord) LocationText() string {
	return p.Address + " " + p.City + " " + p.Neighborhood
}

// ScoredProperty is a copy of a record decorated with its search score.
// Score is nil when the search was a pass-through.
type ScoredProperty struct {
	PropertyRecord
	Score *float64 `json:"score,omitempty"`
}
