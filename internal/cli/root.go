package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roach88/caasets/internal/projection"
)

// RootOptions holds global flags for all commands, after config resolution.
type RootOptions struct {
	Verbose  bool
	Format   string // "text" | "json" | "csv"
	Config   string // optional config file
	Database string
	Missing  projection.MissingPolicy

	// RunID tags every log line and JSON response of one invocation.
	RunID  string
	Logger *slog.Logger

	v *viper.Viper
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "csv"}

// NewRootCommand creates the root command for the caasets CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{v: viper.New(), Logger: slog.Default()}

	cmd := &cobra.Command{
		Use:   "caasets",
		Short: "caasets - behavioral coding datasets",
		Long: `Build analysis-ready datasets from coded clinical interviews.

Two shapes are available: a sequential dataset with one row per utterance
and one column per coding property, and a session-level dataset with one row
per interview holding code counts and global ratings.

Configuration hierarchy (highest to lowest priority):
  1. CLI flags
  2. Environment variables (CAASETS_DB, CAASETS_FORMAT, CAASETS_MISSING, ...)
  3. Config file (--config)
  4. Defaults`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (text|json|csv)")
	flags.StringVar(&opts.Config, "config", "", "config file (yaml)")
	flags.StringVar(&opts.Database, "db", "", "path to SQLite database")
	flags.String("missing", "null", "missing-value policy inside generated SQL (null|sentinel)")

	for _, name := range []string{"verbose", "format", "db", "missing"} {
		_ = opts.v.BindPFlag(name, flags.Lookup(name))
	}

	cmd.AddCommand(NewSequentialCommand(opts))
	cmd.AddCommand(NewSessionCommand(opts))
	cmd.AddCommand(NewLabelsCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewPlanCommand(opts))

	return cmd
}

// resolve layers config file and environment under the parsed flags,
// validates the result and sets up logging for the run.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	o.v.SetEnvPrefix("CAASETS")
	o.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	o.v.AutomaticEnv()

	if o.Config != "" {
		o.v.SetConfigFile(o.Config)
		if err := o.v.ReadInConfig(); err != nil {
			return reject(cmd, ErrCodeNotFound, WrapExitError(ExitCommandError, "failed to read config file", err))
		}
	}

	o.Verbose = o.v.GetBool("verbose")
	o.Format = o.v.GetString("format")
	o.Database = o.v.GetString("db")

	if !isValidFormat(o.Format) {
		return reject(cmd, ErrCodeInvalidArgs, NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats)))
	}
	missing, err := projection.ParseMissingPolicy(o.v.GetString("missing"))
	if err != nil {
		return reject(cmd, ErrCodeInvalidArgs, WrapExitError(ExitCommandError, "invalid --missing", err))
	}
	o.Missing = missing

	runID, err := uuid.NewV7()
	if err != nil {
		return reject(cmd, ErrCodeGeneric, WrapExitError(ExitFailure, "failed to generate run id", err))
	}
	o.RunID = runID.String()
	o.Logger = newLogger(cmd.ErrOrStderr(), o.Verbose).With("run_id", o.RunID)

	if used := o.v.ConfigFileUsed(); used != "" {
		o.Logger.Debug("using config file", "path", used)
	}
	return nil
}

// reject reports a configuration error on stderr before any output format
// is known, and returns it.
func reject(cmd *cobra.Command, code string, err *ExitError) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error [%s]: %v\n", code, err)
	return err
}

// newLogger builds the run logger: text on w, debug level when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// formatter returns an OutputFormatter writing to cmd's streams.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
		TraceID:   o.RunID,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
