// Package geometry turns located property records into GeoJSON: one point
// feature per record plus a convex hull per city.
package geometry

import (
	"sort"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"propsearch/internal/models"
)

// FeatureCollection returns a point feature for every record with both
// coordinates, followed by the hull of each city with at least three
// distinct non-collinear points. Records without coordinates are skipped.
func FeatureCollection(records []models.PropertyRecord) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	byCity := make(map[string][]orb.Point)
	cityNames := make(map[string]string)
	for _, p := range records {
		point, ok := p.GetLocation()
		if !ok {
			continue
		}
		fc.Append(pointFeature(p, point))

		key := strings.ToLower(p.City)
		if key == "" {
			continue
		}
		if _, seen := cityNames[key]; !seen {
			cityNames[key] = p.City
		}
		byCity[key] = append(byCity[key], point)
	}

	cities := make([]string, 0, len(byCity))
	for key := range byCity {
		cities = append(cities, key)
	}
	sort.Strings(cities)

	for _, key := range cities {
		points := byCity[key]
		hull := ConvexHull(points)
		if hull == nil {
			continue
		}
		feature := geojson.NewFeature(orb.Polygon{hull})
		feature.Properties = geojson.Properties{
			"city":          cityNames[key],
			"point_count":   len(points),
			"geometry_type": "hull",
			"hull_type":     "convex",
		}
		fc.Append(feature)
	}

	return fc
}

func pointFeature(p models.PropertyRecord, point orb.Point) *geojson.Feature {
	feature := geojson.NewFeature(point)
	feature.ID = p.ID
	feature.Properties = geojson.Properties{
		"id":            p.ID,
		"title":         p.Title,
		"city":          p.City,
		"property_type": p.PropertyType,
		"sale_type":     p.SaleType,
		"geometry_type": "listing",
	}
	if p.Price != nil {
		feature.Properties["price"] = *p.Price
	}
	return feature
}

// ConvexHull returns the closed counter-clockwise hull of points, or nil
// when the points do not span an area. points is not modified.
func ConvexHull(points []orb.Point) orb.Ring {
	sorted := make([]orb.Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i][0] != sorted[j][0] {
			return sorted[i][0] < sorted[j][0]
		}
		return sorted[i][1] < sorted[j][1]
	})

	unique := sorted[:0]
	for i, p := range sorted {
		if i == 0 || !p.Equal(unique[len(unique)-1]) {
			unique = append(unique, p)
		}
	}
	if len(unique) < 3 {
		return nil
	}

	// Andrew's monotone chain: lower hull, then upper hull.
	hull := make([]orb.Point, 0, 2*len(unique))
	for _, p := range unique {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(unique) - 2; i >= 0; i-- {
		p := unique[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// The last point repeats the first, closing the ring.
	if len(hull) < 4 {
		return nil
	}
	return orb.Ring(hull)
}

// cross is the z component of (a->b) x (a->c); positive for a left turn.
func cross(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}
