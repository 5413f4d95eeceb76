package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// SequentialOptions holds flags for the sequential command.
type SequentialOptions struct {
	*RootOptions
	Selection SelectionOptions
	Output    string // output file path
}

// NewSequentialCommand creates the sequential command.
func NewSequentialCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SequentialOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sequential",
		Short: "Build the utterance-level dataset",
		Long: `Build a sequential dataset: one row per utterance of the selected
interviews, one column per selected coding property.

Utterances without a value for a property get a missing cell. Unknown
property ids are reported as warnings and skipped.

Example:
  caasets sequential --db coding.db --interview S1,S2 --property 1,2 --format csv -o seq.csv
  caasets sequential --db coding.db --scope scope.cue`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSequential(opts, cmd)
		},
	}

	opts.Selection.register(cmd, false)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runSequential(opts *SequentialOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	req, err := opts.Selection.sequentialRequest(cmd)
	if err != nil {
		return argumentFailure(formatter, err)
	}

	st, err := opts.openStore(formatter, true)
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	formatter.VerboseLog("Building sequential dataset for %d interview(s), %d property id(s)",
		len(req.InterviewNames), len(req.PropertyIDs))

	result, err := opts.builder(st).Sequential(cmd.Context(), req)
	if err != nil {
		return datasetFailure(formatter, err)
	}

	if err := withOutputFile(formatter, opts.Output, func() error {
		return formatter.Table(result)
	}); err != nil {
		return err
	}

	if opts.Output != "" {
		fmt.Fprintf(formatter.GetErrWriter(), "Wrote %d row(s) to %s\n", result.NumRows(), opts.Output)
	}
	return nil
}
