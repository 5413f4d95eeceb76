package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/caasets/internal/projection"
)

// NewPlanCommand creates the plan command group. Plans are compiled against
// the database catalog but never executed.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the SQL a dataset command would run",
		Long: `Compile a dataset request to SQL without running it.

The statement and its bound parameters are printed; the session-level
pivot happens after the query and is not shown.

Example:
  caasets plan sequential --db coding.db --interview S1 --property 1,2
  caasets plan session --db coding.db --format json`,
	}

	cmd.AddCommand(newPlanSequentialCommand(rootOpts))
	cmd.AddCommand(newPlanSessionCommand(rootOpts))

	return cmd
}

// PlanOptions holds flags for the plan subcommands.
type PlanOptions struct {
	*RootOptions
	Selection SelectionOptions
}

func newPlanSequentialCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "sequential",
		Short:         "Show the sequential dataset query",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			stmt, err := opts.builder(st).ExplainSequential(cmd.Context(), req)
			if err != nil {
				return datasetFailure(formatter, err)
			}
			return outputStatement(formatter, stmt)
		},
	}

	opts.Selection.register(cmd, false)
	return cmd
}

func newPlanSessionCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "session",
		Short:         "Show the session-level union query",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			stmt, err := opts.builder(st).ExplainSession(cmd.Context(), req)
			if err != nil {
				return datasetFailure(formatter, err)
			}
			return outputStatement(formatter, stmt)
		},
	}

	opts.Selection.register(cmd, true)
	return cmd
}

func outputStatement(f *OutputFormatter, stmt projection.Statement) error {
	if f.Format == "json" {
		return f.Success(stmt)
	}
	fmt.Fprintln(f.Writer, stmt.SQL)
	for i, p := range stmt.Params {
		fmt.Fprintf(f.Writer, "-- $%d = %v\n", i+1, p)
	}
	return nil
}
