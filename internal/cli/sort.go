package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"propsearch/internal/dispatcher"
	"propsearch/internal/models"
)

// NewSortCommand creates the sort command.
func NewSortCommand(rootOpts *RootOptions) *cobra.Command {
	var key, order string

	cmd := &cobra.Command{
		Use:           "sort",
		Short:         "Order records by price, date, sqft, bedrooms or title",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sortKey := models.SortKey(key)
			if !sortKey.IsValid() {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid sort key %q: must be one of %v", key, models.SortKeys))
			}
			sortOrder := models.ParseSortOrder(order)
			return runPayload(rootOpts, cmd, func(records []models.PropertyRecord) dispatcher.Payload {
				return dispatcher.SortPayload{Records: records, Key: sortKey, Order: sortOrder}
			})
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", string(models.SortByPrice), "sort key (price|date|sqft|bedrooms|title)")
	cmd.Flags().StringVarP(&order, "order", "o", string(models.Ascending), "sort order (asc|desc)")

	return cmd
}
