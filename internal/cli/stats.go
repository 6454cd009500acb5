package cli

import (
	"github.com/spf13/cobra"

	"propsearch/internal/dispatcher"
	"propsearch/internal/models"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "stats",
		Short:         "Summarize counts, prices and distributions",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPayload(rootOpts, cmd, func(records []models.PropertyRecord) dispatcher.Payload {
				return dispatcher.StatsPayload{Records: records}
			})
		},
	}
}
