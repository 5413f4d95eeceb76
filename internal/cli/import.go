package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/caasets/internal/harness"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
}

// ImportSummary is the result of an import.
type ImportSummary struct {
	Fixture  string `json:"fixture"`
	Inserted int64  `json:"inserted"`
	Skipped  int64  `json:"skipped"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <fixture.yaml>",
		Short: "Load coding data from a YAML fixture",
		Long: `Load coding systems, interviews, utterances, codes and global ratings
from a YAML fixture into the database, creating it if needed.

The whole fixture is written in one transaction. Rows whose key already
exists are skipped, so importing the same fixture twice is harmless.

Example:
  caasets import --db coding.db testdata/fixtures/standard.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	return cmd
}

func runImport(opts *ImportOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	fixture, err := harness.LoadFixture(path)
	if err != nil {
		_ = formatter.Error(ErrCodeFixture, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid fixture", err)
	}
	formatter.VerboseLog("Loaded fixture %q with %d row(s)", fixture.Name, fixture.Data.Size())

	st, err := opts.openStore(formatter, false)
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	result, err := st.Import(cmd.Context(), fixture.Data)
	if err != nil {
		_ = formatter.Error(ErrCodeImportFailed, err.Error(), nil)
		return WrapExitError(ExitFailure, "import failed", err)
	}

	opts.Logger.Info("fixture imported", "fixture", fixture.Name, "inserted", result.Inserted, "skipped", result.Skipped)

	summary := ImportSummary{Fixture: fixture.Name, Inserted: result.Inserted, Skipped: result.Skipped}
	if formatter.Format == "json" {
		return formatter.Success(summary)
	}
	fmt.Fprintf(formatter.Writer, "✓ Imported %s: %d row(s) inserted, %d skipped\n", summary.Fixture, summary.Inserted, summary.Skipped)
	return nil
}
