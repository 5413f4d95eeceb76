package cli

import (
	"encoding/csv"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/caasets/internal/catalog"
)

// LabelsOptions holds flags for the labels command.
type LabelsOptions struct {
	*RootOptions
	CodingSystem int64
	Kind         string // "sequential" | "session"
}

// NewLabelsCommand creates the labels command.
func NewLabelsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LabelsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "labels",
		Short: "List variable labels of a coding system",
		Long: `List the variable names and descriptions of a coding system's datasets,
for labelling columns in statistical packages.

Example:
  caasets labels --db coding.db --coding-system 1 --kind session --format csv`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLabels(opts, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.CodingSystem, "coding-system", 0, "coding system id (required)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "session", "dataset kind (sequential|session)")
	_ = cmd.MarkFlagRequired("coding-system")

	return cmd
}

func runLabels(opts *LabelsOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if opts.Kind != "sequential" && opts.Kind != "session" {
		_ = formatter.Error(ErrCodeInvalidArgs, fmt.Sprintf("invalid kind %q: must be sequential or session", opts.Kind), nil)
		return NewExitError(ExitCommandError, "invalid --kind")
	}

	st, err := opts.openStore(formatter, true)
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	b := opts.builder(st)
	var labels []catalog.Label
	if opts.Kind == "sequential" {
		labels, err = b.SequentialLabels(cmd.Context(), opts.CodingSystem)
	} else {
		labels, err = b.SessionLabels(cmd.Context(), opts.CodingSystem)
	}
	if err != nil {
		return datasetFailure(formatter, err)
	}

	return outputLabels(formatter, labels)
}

func outputLabels(f *OutputFormatter, labels []catalog.Label) error {
	switch f.Format {
	case "json":
		return f.Success(labels)
	case "csv":
		w := csv.NewWriter(f.Writer)
		_ = w.Write([]string{"name", "description"})
		for _, l := range labels {
			_ = w.Write([]string{l.Name, l.Description})
		}
		w.Flush()
		return w.Error()
	default:
		tw := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)
		for _, l := range labels {
			fmt.Fprintf(tw, "%s\t%s\n", l.Name, l.Description)
		}
		return tw.Flush()
	}
}
