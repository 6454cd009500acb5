package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

// FilterCriteria holds the optional predicates of a filter request.
// Nil pointers and empty strings are not applied.
type FilterCriteria struct {
	MinPrice      *float64 `json:"minPrice,omitempty"`
	MaxPrice      *float64 `json:"maxPrice,omitempty"`
	PropertyType  string   `json:"propertyType,omitempty"`
	SaleType      string   `json:"saleType,omitempty"`
	Bedrooms      *int     `json:"bedrooms,omitempty"`
	Bathrooms     *float64 `json:"bathrooms,omitempty"`
	MinSquareFeet *int     `json:"minSquareFeet,omitempty"`
	MaxSquareFeet *int     `json:"maxSquareFeet,omitempty"`
	Location      string   `json:"location,omitempty"`

	// Bounds restricts results to records whose (longitude, latitude)
	// falls inside the box.
	Bounds *orb.Bound `json:"bounds,omitempty"`
}

// UnmarshalJSON decodes criteria the way records are decoded: numeric
// strings are accepted and a field of the wrong type is left unset.
func (c *FilterCriteria) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode filter criteria: %w", err)
	}

	*c = FilterCriteria{
		MinPrice:      decodeFloat(raw["minPrice"]),
		MaxPrice:      decodeFloat(raw["maxPrice"]),
		PropertyType:  decodeString(raw["propertyType"]),
		SaleType:      decodeString(raw["saleType"]),
		Bedrooms:      decodeInt(raw["bedrooms"]),
		Bathrooms:     decodeFloat(raw["bathrooms"]),
		MinSquareFeet: decodeInt(raw["minSquareFeet"]),
		MaxSquareFeet: decodeInt(raw["maxSquareFeet"]),
		Location:      decodeString(raw["location"]),
		Bounds:        decodeBound(raw["bounds"]),
	}
	return nil
}

const (
	// BedroomsOrMore is the bedroom threshold that means "this many or more".
	// Any other threshold is an exact match.
	BedroomsOrMore = 5

	// BathroomsOrMore is the bathroom label for "this many or more". Every
	// bathroom threshold is a lower bound, this one included.
	BathroomsOrMore = 3
)

// IsEmpty reports whether no predicate is set.
func (c FilterCriteria) IsEmpty() bool {
	return c.MinPrice == nil && c.MaxPrice == nil &&
		c.PropertyType == "" && c.SaleType == "" &&
		c.Bedrooms == nil && c.Bathrooms == nil &&
		c.MinSquareFeet == nil && c.MaxSquareFeet == nil &&
		c.Location == "" && c.Bounds == nil
}

type SortKey string

const (
	SortByPrice    SortKey = "price"
	SortByDate     SortKey = "date"
	SortBySqft     SortKey = "sqft"
	SortByBedrooms SortKey = "bedrooms"
	SortByTitle    SortKey = "title"
)

// SortKeys lists the supported keys.
var SortKeys = []SortKey{SortByPrice, SortByDate, SortBySqft, SortByBedrooms, SortByTitle}

func (k SortKey) IsValid() bool {
	for _, key := range SortKeys {
		if k == key {
			return true
		}
	}
	return false
}

type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortOrder maps "desc"/"descending" (any case) to Descending and
// everything else to Ascending.
func ParseSortOrder(s string) SortOrder {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "desc", "descending":
		return Descending
	default:
		return Ascending
	}
}
