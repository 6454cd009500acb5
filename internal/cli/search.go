package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"propsearch/internal/dispatcher"
	"propsearch/internal/models"
)

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	var fuzzy bool

	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Rank records by relevance to a free-text query",
		Long: `Rank records by relevance to a free-text query. Records matching fewer
than half of the query words are dropped. An empty query returns every
record unscored.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			var fuzzyOverride *bool
			if cmd.Flags().Changed("fuzzy") {
				fuzzyOverride = &fuzzy
			}
			return runPayload(rootOpts, cmd, func(records []models.PropertyRecord) dispatcher.Payload {
				return dispatcher.SearchPayload{Records: records, Query: query, Fuzzy: fuzzyOverride}
			})
		},
	}

	cmd.Flags().BoolVar(&fuzzy, "fuzzy", true, "credit words similar to each query word; overrides ENGINE_FUZZY_DEFAULT")

	return cmd
}
