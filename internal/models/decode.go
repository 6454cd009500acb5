package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"
)

// UnmarshalJSON decodes a record leniently. A field holding a value of the
// wrong type is left at its fallback instead of failing the record.
func (p *PropertyRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode property record: %w", err)
	}

	*p = PropertyRecord{
		ID:           decodeID(raw["id"]),
		Title:        decodeString(raw["title"]),
		Description:  decodeString(raw["description"]),
		Address:      decodeString(raw["address"]),
		City:         decodeString(raw["city"]),
		Neighborhood: decodeString(raw["neighborhood"]),
		PropertyType: decodeString(raw["propertyType"]),
		SaleType:     decodeString(raw["saleType"]),
		Price:        decodeFloat(raw["price"]),
		Bedrooms:     decodeInt(raw["bedrooms"]),
		Bathrooms:    decodeFloat(raw["bathrooms"]),
		Features:     decodeStrings(raw["features"]),
		CreatedAt:    decodeTime(raw["createdAt"]),
		Latitude:     decodeFloat(raw["latitude"]),
		Longitude:    decodeFloat(raw["longitude"]),
	}

	// Older listings carry the legacy "sqft" name.
	p.SquareFeet = decodeInt(raw["squareFeet"])
	if p.SquareFeet == nil {
		p.SquareFeet = decodeInt(raw["sqft"])
	}

	return nil
}

// UnmarshalJSON keeps the lenient record decoding and picks up the score.
func (s *ScoredProperty) UnmarshalJSON(data []byte) error {
	if err := s.PropertyRecord.UnmarshalJSON(data); err != nil {
		return err
	}
	var aux struct {
		Score json.RawMessage `json:"score"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("failed to decode score: %w", err)
	}
	s.Score = decodeFloat(aux.Score)
	return nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func decodeString(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func decodeID(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func decodeFloat(raw json.RawMessage) *float64 {
	if isNull(raw) {
		return nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		f = parsed
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func decodeInt(raw json.RawMessage) *int {
	f := decodeFloat(raw)
	if f == nil {
		return nil
	}
	i := int(math.Trunc(*f))
	return &i
}

func decodeBound(raw json.RawMessage) *orb.Bound {
	if isNull(raw) {
		return nil
	}
	var b orb.Bound
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil
	}
	return &b
}

func decodeStrings(raw json.RawMessage) []string {
	if isNull(raw) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
		}
	}
	return out
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamps outside years 0 through 9999 cannot be encoded as JSON and
// are treated as malformed.
var (
	minTime = time.Date(0, time.January, 1, 0, 0, 0, 0, time.UTC)
	maxTime = time.Date(9999, time.December, 31, 23, 59, 59, 999999999, time.UTC)
)

// decodeTime accepts RFC3339-ish text, epoch milliseconds, or a
// {seconds, nanoseconds} timestamp object. Anything else, including a
// time outside years 0 through 9999, is nil.
func decodeTime(raw json.RawMessage) *time.Time {
	if isNull(raw) {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return inRange(t)
			}
		}
		return nil
	}

	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil {
		if math.IsNaN(ms) || math.IsInf(ms, 0) ||
			ms < float64(minTime.UnixMilli()) || ms > float64(maxTime.UnixMilli()) {
			return nil
		}
		return inRange(time.UnixMilli(int64(ms)))
	}

	var ts struct {
		Seconds      *int64 `json:"seconds"`
		Nanoseconds  int64  `json:"nanoseconds"`
		USeconds     *int64 `json:"_seconds"`
		UNanoseconds int64  `json:"_nanoseconds"`
	}
	if err := json.Unmarshal(raw, &ts); err == nil {
		switch {
		case ts.Seconds != nil:
			return unixTime(*ts.Seconds, ts.Nanoseconds)
		case ts.USeconds != nil:
			return unixTime(*ts.USeconds, ts.UNanoseconds)
		}
	}
	return nil
}

func unixTime(sec, nsec int64) *time.Time {
	if sec < minTime.Unix() || sec > maxTime.Unix() {
		return nil
	}
	return inRange(time.Unix(sec, nsec))
}

func inRange(t time.Time) *time.Time {
	t = t.UTC()
	if t.Before(minTime) || t.After(maxTime) {
		return nil
	}
	return &t
}
