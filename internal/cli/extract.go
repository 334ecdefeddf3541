package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/seismix/seismix"
)

// ExtractOptions holds flags for the extract command.
type ExtractOptions struct {
	*RootOptions
	Output   string
	Parallel int
}

// NewExtractCommand creates the extract command.
func NewExtractCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExtractOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "extract <job-file> <stations-file>",
		Short: "Extract seismograms for a station inventory",
		Long: `Run the extraction job against every station in a YAML inventory,
writing the traces of each station as two-column ASCII files. Stations are
processed concurrently; the first failure aborts the run.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", ".", "directory to write trace files to")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 4, "maximum concurrent station extractions")

	return cmd
}

type extractPayload struct {
	Stations int      `json:"stations"`
	Files    []string `json:"files"`
}

func runExtract(opts *ExtractOptions, jobPath, stationsPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	job, err := LoadJob(jobPath)
	if err != nil {
		formatter.Error(ErrCodeJobFile, err.Error())
		return WrapExitError(ExitCommandError, "load job", err)
	}
	src, err := job.PointSource()
	if err != nil {
		formatter.Error(ErrCodeJobFile, err.Error())
		return WrapExitError(ExitCommandError, "load job", err)
	}
	stations, err := LoadStations(stationsPath)
	if err != nil {
		formatter.Error(ErrCodeStationFile, err.Error())
		return WrapExitError(ExitCommandError, "load stations", err)
	}

	db, err := job.OpenDatabase()
	if err != nil {
		formatter.Error(ErrCodeDatabase, err.Error())
		return WrapExitError(ExitCommandError, "open database", err)
	}
	defer db.Close()

	// The database handle is safe for concurrent queries; the element
	// caches make the per-station work share decoded elements.
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(opts.Parallel)
	perStation := make([][]string, len(stations))
	for i, st := range stations {
		i, st := i, st
		g.Go(func() error {
			rec := seismix.Receiver{
				Latitude:  st.Latitude,
				Longitude: st.Longitude,
				Station:   st.Station,
				Network:   st.Network,
			}
			traces, err := db.Seismograms(src, rec, job.Options())
			if err != nil {
				return fmt.Errorf("station %s.%s: %w", st.Network, st.Station, err)
			}
			files, err := WriteTraces(opts.Output, traces)
			if err != nil {
				return fmt.Errorf("station %s.%s: %w", st.Network, st.Station, err)
			}
			perStation[i] = files
			formatter.VerboseLog("extracted %s.%s (%d traces)", st.Network, st.Station, len(files))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		formatter.Error(ErrCodeExtraction, err.Error())
		return WrapExitError(ExitFailure, "extract", err)
	}

	var files []string
	for _, fs := range perStation {
		files = append(files, fs...)
	}
	return formatter.Success(
		extractPayload{Stations: len(stations), Files: files},
		fmt.Sprintf("extracted %d station(s), %d trace file(s) in %s",
			len(stations), len(files), opts.Output),
	)
}
