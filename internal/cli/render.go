package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	"propsearch/internal/engine"
	"propsearch/internal/models"
)

func renderFilter(w io.Writer, result *engine.FilterResult) {
	fmt.Fprintf(w, "%d of %d records passed\n", result.PassingCount, result.TotalCount)
	renderRecords(w, result.Passing)
}

func renderSearch(w io.Writer, result *engine.SearchResult) {
	fmt.Fprintf(w, "%d results for %q\n", len(result.Results), result.Query)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range result.Results {
		score := "-"
		if r.Score != nil {
			score = strconv.FormatFloat(*r.Score, 'f', 1, 64)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", score, r.ID, r.Title, formatPrice(r.PropertyRecord))
	}
	tw.Flush()
}

func renderRecords(w io.Writer, records []models.PropertyRecord) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Title, r.City, formatPrice(r))
	}
	tw.Flush()
}

func renderStats(w io.Writer, report *models.StatsReport) {
	fmt.Fprintf(w, "%-16s%d\n", "Total:", report.Total)
	fmt.Fprintf(w, "%-16s%d\n", "For sale:", report.ForSale)
	fmt.Fprintf(w, "%-16s%d\n", "For rent:", report.ForRent)
	fmt.Fprintf(w, "%-16s%.2f\n", "Average price:", report.AveragePrice)
	fmt.Fprintf(w, "%-16s%.2f\n", "Median price:", report.MedianPrice)
	fmt.Fprintf(w, "%-16s%.2f - %.2f\n", "Price range:", report.PriceRange.Min, report.PriceRange.Max)
	fmt.Fprintf(w, "%-16s%.2f\n", "Average sqft:", report.AverageSqft)

	fmt.Fprintln(w, "Property types:")
	types := make([]string, 0, len(report.PropertyTypes))
	for t := range report.PropertyTypes {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(w, "  %s: %d\n", t, report.PropertyTypes[t])
	}

	fmt.Fprintln(w, "Bedrooms:")
	for _, b := range bedroomKeys(report.BedroomDistribution) {
		fmt.Fprintf(w, "  %s: %d\n", b, report.BedroomDistribution[b])
	}
}

// bedroomKeys orders counts numerically with non-numeric labels last.
func bedroomKeys(distribution map[string]int) []string {
	keys := make([]string, 0, len(distribution))
	for k := range distribution {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

func formatPrice(p models.PropertyRecord) string {
	if p.Price == nil {
		return "-"
	}
	return strconv.FormatFloat(*p.Price, 'f', 0, 64)
}
