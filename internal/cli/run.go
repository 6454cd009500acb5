package cli

import (
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"propsearch/internal/dispatcher"
	"propsearch/internal/engine"
	"propsearch/internal/models"
)

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

func newDispatcher(opts *RootOptions, cmd *cobra.Command) *dispatcher.Dispatcher {
	logger := opts.config.NewLogger()
	logger.SetOutput(cmd.ErrOrStderr())
	if opts.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetOutput(io.Discard)
	}

	eng := engine.New(engine.WithParallelism(opts.config.Engine.Parallelism, opts.config.Engine.ParallelThreshold))
	return dispatcher.NewDispatcher(eng, opts.config.Engine.FuzzyDefault, logger)
}

func loadRecords(opts *RootOptions, cmd *cobra.Command, formatter *OutputFormatter) ([]models.PropertyRecord, error) {
	records, err := LoadRecords(opts.File, cmd.InOrStdin())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load records", err)
	}
	source := opts.File
	if source == "" || source == "-" {
		source = "stdin"
	}
	formatter.VerboseLog("Loaded %d record(s) from %s", len(records), source)
	return records, nil
}

// runPayload loads records, builds the payload from them and prints the
// response.
func runPayload(opts *RootOptions, cmd *cobra.Command, build func([]models.PropertyRecord) dispatcher.Payload) error {
	formatter := newFormatter(opts, cmd)

	records, err := loadRecords(opts, cmd, formatter)
	if err != nil {
		return err
	}

	req := dispatcher.NewRequest(uuid.NewString(), build(records))
	return printResponse(formatter, newDispatcher(opts, cmd).Dispatch(req))
}

func printResponse(formatter *OutputFormatter, resp dispatcher.Response) error {
	switch resp.Kind {
	case dispatcher.KindFilterComplete:
		return formatter.Success(resp.Filter, func(w io.Writer) { renderFilter(w, resp.Filter) })
	case dispatcher.KindSearchComplete:
		return formatter.Success(resp.Search, func(w io.Writer) { renderSearch(w, resp.Search) })
	case dispatcher.KindSortComplete:
		return formatter.Success(resp.Sort, func(w io.Writer) { renderRecords(w, resp.Sort.Records) })
	case dispatcher.KindStatsComplete:
		return formatter.Success(resp.Stats, func(w io.Writer) { renderStats(w, resp.Stats) })
	default:
		message := "engine returned no result"
		operation := ""
		if resp.Error != nil {
			message = resp.Error.Message
			operation = resp.Error.Operation
		}
		if err := formatter.Error(operation, message); err != nil {
			return err
		}
		return NewExitError(ExitFailure, message)
	}
}
