package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/caasets/internal/dataset"
	"github.com/roach88/caasets/internal/projection"
	"github.com/roach88/caasets/internal/store"
)

// SelectionOptions holds the flags that choose what a dataset contains.
// Flags override the matching field of a --scope file.
type SelectionOptions struct {
	Interviews   []string
	Properties   []string
	Globals      []string
	ScopeFile    string
	ClientAsText bool
}

// register adds selection flags to cmd. Globals only apply to session
// datasets.
func (s *SelectionOptions) register(cmd *cobra.Command, withGlobals bool) {
	cmd.Flags().StringSliceVar(&s.Interviews, "interview", nil, "interview name (repeatable or comma separated)")
	cmd.Flags().StringSliceVar(&s.Properties, "property", nil, "coding property id (repeatable or comma separated)")
	if withGlobals {
		cmd.Flags().StringSliceVar(&s.Globals, "global", nil, "global property id (repeatable or comma separated)")
	}
	cmd.Flags().StringVar(&s.ScopeFile, "scope", "", "CUE file selecting interviews, properties and globals")
	cmd.Flags().BoolVar(&s.ClientAsText, "client-as-text", false, "keep client_id as text instead of casting to integer")
}

// resolve merges the scope file (if any) with the flags that were set.
func (s *SelectionOptions) resolve(cmd *cobra.Command) (*Scope, error) {
	scope := &Scope{}
	if s.ScopeFile != "" {
		loaded, err := LoadScope(s.ScopeFile)
		if err != nil {
			return nil, err
		}
		scope = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("interview") {
		scope.Interviews = projection.Only(nonEmpty(s.Interviews)...)
	}
	if flags.Changed("property") {
		ids, err := parseIDs("property", s.Properties)
		if err != nil {
			return nil, err
		}
		scope.Properties = projection.Only(ids...)
	}
	if flags.Lookup("global") != nil && flags.Changed("global") {
		ids, err := parseIDs("global", s.Globals)
		if err != nil {
			return nil, err
		}
		scope.Globals = projection.Only(ids...)
	}
	if flags.Changed("client-as-text") || scope.ClientAsText == nil {
		scope.ClientAsText = &s.ClientAsText
	}
	return scope, nil
}

// sequentialRequest builds a sequential request; interviews are required.
func (s *SelectionOptions) sequentialRequest(cmd *cobra.Command) (dataset.SequentialRequest, error) {
	scope, err := s.resolve(cmd)
	if err != nil {
		return dataset.SequentialRequest{}, err
	}
	if !scope.Interviews.Active() {
		return dataset.SequentialRequest{}, &LoadError{
			Code:    ErrCodeInvalidArgs,
			Message: "sequential datasets need --interview or a scope file listing interviews",
		}
	}
	return dataset.SequentialRequest{
		InterviewNames: scope.Interviews.Values(),
		PropertyIDs:    scope.Properties.Values(),
		ClientAsText:   *scope.ClientAsText,
	}, nil
}

// sessionRequest builds a session-level request.
func (s *SelectionOptions) sessionRequest(cmd *cobra.Command) (dataset.SessionRequest, error) {
	scope, err := s.resolve(cmd)
	if err != nil {
		return dataset.SessionRequest{}, err
	}
	return dataset.SessionRequest{
		Interviews:   scope.Interviews,
		Properties:   scope.Properties,
		Globals:      scope.Globals,
		ClientAsText: *scope.ClientAsText,
	}, nil
}

// parseIDs parses id flag values. Blank entries are skipped so "--property="
// selects nothing.
func parseIDs(flag string, raw []string) ([]int64, error) {
	ids := make([]int64, 0, len(raw))
	for _, r := range nonEmpty(raw) {
		id, err := strconv.ParseInt(r, 10, 64)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeInvalidArgs, Message: fmt.Sprintf("--%s: invalid id %q", flag, r)}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func nonEmpty(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// openStore opens the configured database. Read commands require it to
// exist already.
func (o *RootOptions) openStore(f *OutputFormatter, mustExist bool) (*store.Store, error) {
	if o.Database == "" {
		_ = f.Error(ErrCodeInvalidArgs, "--db is required (or set CAASETS_DB)", nil)
		return nil, NewExitError(ExitCommandError, "--db is required")
	}
	if mustExist {
		if _, err := os.Stat(o.Database); err != nil {
			_ = f.Error(ErrCodeNotFound, fmt.Sprintf("database not found: %s", o.Database), nil)
			return nil, WrapExitError(ExitCommandError, "database not found", err)
		}
	}

	o.Logger.Debug("opening database", "path", o.Database)
	st, err := store.Open(o.Database)
	if err != nil {
		_ = f.Error(ErrCodeStoreOpen, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// closeStore closes st, logging any error.
func (o *RootOptions) closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		o.Logger.Error("error closing database", "error", err)
	}
}

// builder returns a dataset builder configured from the root options.
func (o *RootOptions) builder(st *store.Store) *dataset.Builder {
	return dataset.New(st,
		dataset.WithLogger(o.Logger),
		dataset.WithMissingPolicy(o.Missing),
	)
}

// argumentFailure reports a selection or scope error (exit code 2).
func argumentFailure(f *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		details := any(nil)
		if loadErr.Pos.IsValid() {
			details = map[string]any{
				"file":   loadErr.Pos.Filename(),
				"line":   loadErr.Pos.Line(),
				"column": loadErr.Pos.Column(),
			}
		}
		_ = f.Error(loadErr.Code, loadErr.Message, details)
		return WrapExitError(ExitCommandError, loadErr.Code, err)
	}
	_ = f.Error(ErrCodeInvalidArgs, err.Error(), nil)
	return WrapExitError(ExitCommandError, ErrCodeInvalidArgs, err)
}

// datasetFailure reports a failed dataset operation (exit code 1).
func datasetFailure(f *OutputFormatter, err error) error {
	code := ErrCodeGeneric
	var de *dataset.Error
	if errors.As(err, &de) {
		switch de.Code {
		case dataset.CodeTransaction:
			code = ErrCodeTransaction
		case dataset.CodeInvalidPlan:
			code = ErrCodeInvalidPlan
		case dataset.CodePivot:
			code = ErrCodePivot
		}
	}
	_ = f.Error(code, err.Error(), nil)
	return WrapExitError(ExitFailure, code, err)
}

// withOutputFile redirects f.Writer to path for the duration of fn.
func withOutputFile(f *OutputFormatter, path string, fn func() error) error {
	if path == "" {
		return fn()
	}
	file, err := os.Create(path)
	if err != nil {
		_ = f.Error(ErrCodeWriteFailed, fmt.Sprintf("creating output file: %v", err), nil)
		return WrapExitError(ExitCommandError, "failed to create output file", err)
	}

	stdout := f.Writer
	f.Writer = file
	runErr := fn()
	f.Writer = stdout

	if err := file.Close(); err != nil && runErr == nil {
		_ = f.Error(ErrCodeWriteFailed, fmt.Sprintf("closing output file: %v", err), nil)
		return WrapExitError(ExitCommandError, "failed to write output file", err)
	}
	return runErr
}
