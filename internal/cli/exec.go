package cli

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"propsearch/internal/dispatcher"
)

// NewExecCommand creates the exec command.
func NewExecCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "exec [request-file]",
		Short: "Run a raw request envelope",
		Long: `Run a JSON request envelope {"id", "operation", "payload"} whose payload
carries its own records. Reads stdin when no file is given; --file is ignored.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			var data []byte
			var err error
			if len(args) == 0 || args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read request", err)
			}

			req, err := dispatcher.DecodeRequest(data)
			if err != nil {
				if errors.Is(err, dispatcher.ErrInvalidRequest) {
					_ = formatter.Error("", err.Error())
				}
				return WrapExitError(ExitCommandError, "failed to decode request", err)
			}
			formatter.VerboseLog("Running %s request %s", req.Operation, req.ID)

			return printResponse(formatter, newDispatcher(rootOpts, cmd).Dispatch(req))
		},
	}
}
