package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// SessionOptions holds flags for the session command.
type SessionOptions struct {
	*RootOptions
	Selection SelectionOptions
	Output    string // output file path
}

// NewSessionCommand creates the session command.
func NewSessionCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SessionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Build the session-level dataset",
		Long: `Build a session-level dataset: one row per interview with a column per
"<property>_<value>" code count and a column per global rating.

Omitted selectors include everything. A selector given with no values
(for example --global=) includes nothing. Counts are 0 when a value was
never coded; ratings are missing when an interview was never rated.

Example:
  caasets session --db coding.db --format csv -o session.csv
  caasets session --db coding.db --interview S1 --property 3 --global=`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(opts, cmd)
		},
	}

	opts.Selection.register(cmd, true)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runSession(opts *SessionOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	req, err := opts.Selection.sessionRequest(cmd)
	if err != nil {
		return argumentFailure(formatter, err)
	}

	st, err := opts.openStore(formatter, true)
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	result, err := opts.builder(st).SessionLevel(cmd.Context(), req)
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
