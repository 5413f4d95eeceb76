package dataset

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/caasets/internal/catalog"
	"github.com/roach88/caasets/internal/projection"
	"github.com/roach88/caasets/internal/queryir"
	"github.com/roach88/caasets/internal/store"
	"github.com/roach88/caasets/internal/table"
)

// Builder produces datasets from one store. It keeps no state between
// calls and is safe for concurrent use.
type Builder struct {
	store        *store.Store
	catalog      *catalog.Catalog
	materializer *projection.Materializer
	logger       *slog.Logger
	missing      projection.MissingPolicy
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithMissingPolicy selects how missing values are represented inside the
// generated SQL. Tables always carry model.Null for missing cells.
func WithMissingPolicy(p projection.MissingPolicy) Option {
	return func(b *Builder) {
		b.missing = p
	}
}

// New creates a Builder reading from st.
func New(st *store.Store, opts ...Option) *Builder {
	b := &Builder{
		store:   st,
		logger:  slog.Default(),
		missing: projection.MissingNull,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.catalog = catalog.New(b.logger)
	b.materializer = projection.NewMaterializer(b.logger, b.missing)
	b.logger = b.logger.With("component", "dataset")
	return b
}

// SequentialRequest selects a sequential dataset.
type SequentialRequest struct {
	// InterviewNames to include. Names not in the store are ignored; an
	// empty list yields a table with headers and no rows.
	InterviewNames []string

	// PropertyIDs of the coding properties to project. Duplicates collapse;
	// unknown ids are logged and skipped.
	PropertyIDs []int64

	// ClientAsText keeps client_id as stored text instead of casting it to
	// an integer.
	ClientAsText bool
}

// SessionRequest selects a session-level dataset. Unset filters include
// everything; explicit empty filters include nothing.
type SessionRequest struct {
	Interviews projection.Filter[string]
	Properties projection.Filter[int64]
	Globals    projection.Filter[int64]

	// ClientAsText keeps client_id as stored text instead of casting it to
	// an integer.
	ClientAsText bool
}

func (b *Builder) options(clientAsText bool) projection.Options {
	return projection.Options{ClientAsText: clientAsText, Missing: b.missing}
}

// Sequential builds the utterance-level dataset.
func (b *Builder) Sequential(ctx context.Context, req SequentialRequest) (*table.Table, error) {
	start := time.Now()
	var result *table.Table

	err := b.store.ReadSnapshot(ctx, func(q store.Querier) error {
		plan, err := b.sequentialPlan(ctx, q, req)
		if err != nil {
			return err
		}
		result, err = b.run(ctx, q, plan)
		return err
	})
	if err != nil {
		return nil, classify("sequential", err)
	}

	b.logger.InfoContext(ctx, "sequential dataset built",
		"interviews", len(req.InterviewNames),
		"rows", result.NumRows(),
		"columns", len(result.Columns),
		"duration", time.Since(start))
	return result, nil
}

// SessionLevel builds the interview-level dataset.
//
// Variable names must be unique within an interview's coding system. Two
// properties sharing a display name, or a global property named like a
// "<display>_<value>" count, would fill the same cell twice; the call then
// fails with CodePivot instead of renaming columns, so a column header always
// maps to exactly one variable.
func (b *Builder) SessionLevel(ctx context.Context, req SessionRequest) (*table.Table, error) {
	start := time.Now()
	var long *table.Table

	err := b.store.ReadSnapshot(ctx, func(q store.Querier) error {
		plan, err := b.sessionPlan(ctx, q, req)
		if err != nil {
			return err
		}
		long, err = b.run(ctx, q, plan)
		return err
	})
	if err != nil {
		return nil, classify("session", err)
	}

	wide, err := table.Pivot(long, projection.SessionPivot)
	if err != nil {
		return nil, &Error{Code: CodePivot, Op: "session", Err: err}
	}

	b.logger.InfoContext(ctx, "session-level dataset built",
		"rows", wide.NumRows(),
		"columns", len(wide.Columns),
		"duration", time.Since(start))
	return wide, nil
}

// sequentialPlan resolves the requested properties and builds the plan.
func (b *Builder) sequentialPlan(ctx context.Context, q store.Querier, req SequentialRequest) (queryir.Query, error) {
	props, err := b.catalog.ResolveProperties(ctx, q, req.PropertyIDs)
	if err != nil {
		return nil, err
	}
	reg := projection.NewRegistry(props.Properties, b.logger)
	return projection.SequentialPlan(req.InterviewNames, reg, b.options(req.ClientAsText)), nil
}

// sessionPlan builds the session-level plan. Explicit property and global
// filters are resolved only so unknown ids are reported.
func (b *Builder) sessionPlan(ctx context.Context, q store.Querier, req SessionRequest) (queryir.Query, error) {
	if req.Properties.Active() {
		if _, err := b.catalog.ResolveProperties(ctx, q, req.Properties.Values()); err != nil {
			return nil, err
		}
	}
	if req.Globals.Active() {
		if _, err := b.catalog.ResolveGlobals(ctx, q, req.Globals.Values()); err != nil {
			return nil, err
		}
	}
	scope := projection.SessionScope{
		Interviews: req.Interviews,
		Properties: req.Properties,
		Globals:    req.Globals,
	}
	return projection.SessionPlan(scope, b.options(req.ClientAsText)), nil
}

// run compiles and executes plan inside the caller's snapshot.
func (b *Builder) run(ctx context.Context, q store.Querier, plan queryir.Query) (*table.Table, error) {
	var stmt projection.Statement
	if err := b.compile(plan, &stmt); err != nil {
		return nil, err
	}
	return b.materializer.Execute(ctx, q, stmt)
}

func (b *Builder) compile(plan queryir.Query, out *projection.Statement) error {
	stmt, err := b.materializer.Compile(plan)
	if err != nil {
		return &Error{Code: CodeInvalidPlan, Err: err}
	}
	*out = stmt
	return nil
}
