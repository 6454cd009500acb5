package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/spf13/cobra"

	"propsearch/internal/dispatcher"
	"propsearch/internal/models"
)

type filterOptions struct {
	minPrice, maxPrice float64
	propertyType       string
	saleType           string
	bedrooms           int
	bathrooms          float64
	minSqft, maxSqft   int
	location           string
	bounds             string
}

// NewFilterCommand creates the filter command.
func NewFilterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &filterOptions{}

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Keep the records matching every given criterion",
		Long: `Keep the records matching every given criterion. Criteria that are not
given are not applied.

--bedrooms 5 means five or more; any other value is an exact match.
--bathrooms is always a minimum.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, err := opts.criteria(cmd)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid filter criteria", err)
			}
			return runPayload(rootOpts, cmd, func(records []models.PropertyRecord) dispatcher.Payload {
				return dispatcher.FilterPayload{Records: records, Criteria: criteria}
			})
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&opts.minPrice, "min-price", 0, "minimum price")
	flags.Float64Var(&opts.maxPrice, "max-price", 0, "maximum price")
	flags.StringVar(&opts.propertyType, "type", "", "property type, exact match")
	flags.StringVar(&opts.saleType, "sale-type", "", `sale type ("For Sale" or "For Rent")`)
	flags.IntVar(&opts.bedrooms, "bedrooms", 0, "bedrooms (5 means 5 or more)")
	flags.Float64Var(&opts.bathrooms, "bathrooms", 0, "minimum bathrooms")
	flags.IntVar(&opts.minSqft, "min-sqft", 0, "minimum square feet")
	flags.IntVar(&opts.maxSqft, "max-sqft", 0, "maximum square feet")
	flags.StringVar(&opts.location, "location", "", "text contained in address, city or neighborhood")
	flags.StringVar(&opts.bounds, "bounds", "", "bounding box as minLng,minLat,maxLng,maxLat")

	return cmd
}

func (o *filterOptions) criteria(cmd *cobra.Command) (models.FilterCriteria, error) {
	flags := cmd.Flags()
	c := models.FilterCriteria{
		PropertyType: o.propertyType,
		SaleType:     o.saleType,
		Location:     o.location,
	}
	if flags.Changed("min-price") {
		c.MinPrice = &o.minPrice
	}
	if flags.Changed("max-price") {
		c.MaxPrice = &o.maxPrice
	}
	if flags.Changed("bedrooms") {
		c.Bedrooms = &o.bedrooms
	}
	if flags.Changed("bathrooms") {
		c.Bathrooms = &o.bathrooms
	}
	if flags.Changed("min-sqft") {
		c.MinSquareFeet = &o.minSqft
	}
	if flags.Changed("max-sqft") {
		c.MaxSquareFeet = &o.maxSqft
	}
	if o.bounds != "" {
		bound, err := parseBounds(o.bounds)
		if err != nil {
			return c, err
		}
		c.Bounds = &bound
	}
	return c, nil
}

func parseBounds(s string) (orb.Bound, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return orb.Bound{}, fmt.Errorf("bounds %q: want minLng,minLat,maxLng,maxLat", s)
	}

	var v [4]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("bounds %q: %w", s, err)
		}
		v[i] = f
	}

	bound := orb.Bound{Min: orb.Point{v[0], v[1]}, Max: orb.Point{v[2], v[3]}}
	if bound.Min.X() > bound.Max.X() || bound.Min.Y() > bound.Max.Y() {
		return orb.Bound{}, fmt.Errorf("bounds %q: minimum exceeds maximum", s)
	}
	return bound, nil
}
