package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/caasets/internal/model"
	"github.com/roach88/caasets/internal/queryir"
	"github.com/roach88/caasets/internal/querysql"
	"github.com/roach88/caasets/internal/store"
)

// Catalog resolves schema metadata. It holds no data between calls.
type Catalog struct {
	logger   *slog.Logger
	compiler *querysql.SQLCompiler
}

// New creates a Catalog. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		logger:   logger.With("component", "catalog"),
		compiler: querysql.NewSQLCompiler(),
	}
}

// PropertySet is the outcome of resolving coding property ids.
type PropertySet struct {
	// Properties that exist, in ascending id order.
	Properties []model.CodingProperty

	// Missing lists requested ids with no matching property, ascending.
	Missing []int64
}

// GlobalSet is the outcome of resolving global property ids.
type GlobalSet struct {
	Globals []model.GlobalProperty
	Missing []int64
}

// ResolveProperties looks up the given coding property ids. Duplicate ids
// collapse. Each unknown id is logged as a warning and reported in Missing.
func (c *Catalog) ResolveProperties(ctx context.Context, q store.Querier, ids []int64) (PropertySet, error) {
	ids = dedupe(ids)
	set := PropertySet{Properties: []model.CodingProperty{}, Missing: []int64{}}
	if len(ids) == 0 {
		return set, nil
	}

	plan := queryir.Select{
		Columns: []queryir.Column{
			{Expr: queryir.C("cp", "coding_property_id")},
			{Expr: queryir.C("cp", "coding_system_id")},
			{Expr: queryir.C("cp", "cp_name")},
			{Expr: queryir.C("cp", "cp_display_name")},
			{Expr: queryir.C("cp", "cp_description")},
			{Expr: queryir.C("cp", "cp_data_type")},
		},
		From:    queryir.TableRef{Name: "coding_properties", Alias: "cp"},
		Filter:  queryir.In{Expr: queryir.C("cp", "coding_property_id"), Values: intValues(ids)},
		OrderBy: []queryir.Order{queryir.Asc(queryir.C("cp", "coding_property_id"))},
	}

	err := c.each(ctx, q, plan, func(rows *sql.Rows) error {
		var cp model.CodingProperty
		var dataType string
		if err := rows.Scan(&cp.ID, &cp.CodingSystemID, &cp.Name, &cp.DisplayName, &cp.Description, &dataType); err != nil {
			return fmt.Errorf("scan coding property: %w", err)
		}
		dt, err := model.ParseDataType(dataType)
		if err != nil {
			return fmt.Errorf("coding property %d: %w", cp.ID, err)
		}
		cp.DataType = dt
		set.Properties = append(set.Properties, cp)
		return nil
	})
	if err != nil {
		return PropertySet{}, fmt.Errorf("resolve properties: %w", err)
	}

	found := make(map[int64]bool, len(set.Properties))
	for _, cp := range set.Properties {
		found[cp.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			c.logger.WarnContext(ctx, "coding property not found; its data will not be included",
				"property_id", id)
			set.Missing = append(set.Missing, id)
		}
	}

	return set, nil
}

// ResolveGlobals looks up the given global property ids with the same
// contract as ResolveProperties.
func (c *Catalog) ResolveGlobals(ctx context.Context, q store.Querier, ids []int64) (GlobalSet, error) {
	ids = dedupe(ids)
	set := GlobalSet{Globals: []model.GlobalProperty{}, Missing: []int64{}}
	if len(ids) == 0 {
		return set, nil
	}

	plan := queryir.Select{
		Columns: []queryir.Column{
			{Expr: queryir.C("gp", "global_property_id")},
			{Expr: queryir.C("gp", "coding_system_id")},
			{Expr: queryir.C("gp", "gp_name")},
			{Expr: queryir.C("gp", "gp_description")},
		},
		From:    queryir.TableRef{Name: "global_properties", Alias: "gp"},
		Filter:  queryir.In{Expr: queryir.C("gp", "global_property_id"), Values: intValues(ids)},
		OrderBy: []queryir.Order{queryir.Asc(queryir.C("gp", "global_property_id"))},
	}

	err := c.each(ctx, q, plan, func(rows *sql.Rows) error {
		var gp model.GlobalProperty
		if err := rows.Scan(&gp.ID, &gp.CodingSystemID, &gp.Name, &gp.Description); err != nil {
			return fmt.Errorf("scan global property: %w", err)
		}
		set.Globals = append(set.Globals, gp)
		return nil
	})
	if err != nil {
		return GlobalSet{}, fmt.Errorf("resolve globals: %w", err)
	}

	found := make(map[int64]bool, len(set.Globals))
	for _, gp := range set.Globals {
		found[gp.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			c.logger.WarnContext(ctx, "global property not found; its ratings will not be included",
				"global_property_id", id)
			set.Missing = append(set.Missing, id)
		}
	}

	return set, nil
}

// each validates, compiles and runs plan, calling fn for every row.
// Store failures are reported as *store.TxError.
func (c *Catalog) each(ctx context.Context, q store.Querier, plan queryir.Query, fn func(*sql.Rows) error) error {
	if err := queryir.Validate(plan).Err(); err != nil {
		return err
	}
	text, params, err := c.compiler.Compile(plan)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}

	rows, err := q.QueryContext(ctx, text, params...)
	if err != nil {
		return &store.TxError{Op: "query", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return &store.TxError{Op: "query", Err: err}
	}
	return nil
}

// dedupe returns the distinct ids in ascending order.
func dedupe(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func intValues(ids []int64) []model.Value {
	vals := make([]model.Value, len(ids))
	for i, id := range ids {
		vals[i] = model.Int(id)
	}
	return vals
}
