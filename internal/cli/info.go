package cli

import (
	"github.com/spf13/cobra"

	"github.com/seismix/seismix"
)

// InfoOptions holds flags for the info command.
type InfoOptions struct {
	*RootOptions
	Forward bool
}

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InfoOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "info <database-dir>",
		Short: "Summarize a wavefield database",
		Long: `Open a wavefield database and print its run parameters: velocity
model, dump and excitation type, sampling, spatial order.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Forward, "forward", false, "open as a forward (elemental moment tensor) database")

	return cmd
}

type infoPayload struct {
	Path    string `json:"path"`
	Summary string `json:"summary"`
}

func runInfo(opts *InfoOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	db, err := openDatabase(path, opts.Forward, seismix.DefaultBufferBytes)
	if err != nil {
		formatter.Error(ErrCodeDatabase, err.Error())
		return WrapExitError(ExitCommandError, "open database", err)
	}
	defer db.Close()

	summary := db.Info()
	return formatter.Success(infoPayload{Path: path, Summary: summary}, summary)
}

func openDatabase(path string, forward bool, bufferBytes int64) (*seismix.Database, error) {
	if forward {
		return seismix.OpenForward(path, seismix.WithBufferBytes(bufferBytes))
	}
	return seismix.Open(path, seismix.WithBufferBytes(bufferBytes))
}
