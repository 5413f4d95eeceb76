package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/caasets/internal/model"
	"github.com/roach88/caasets/internal/queryir"
	"github.com/roach88/caasets/internal/store"
)

// Label describes one dataset variable for statistical packages.
type Label struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// SequentialLabels returns one label per coding property of the coding
// system, named by display name (the sequential column header), in property
// id order.
func (c *Catalog) SequentialLabels(ctx context.Context, q store.Querier, codingSystemID int64) ([]Label, error) {
	plan := queryir.Select{
		Columns: []queryir.Column{
			{Expr: queryir.C("cp", "cp_display_name")},
			{Expr: queryir.C("cp", "cp_description")},
		},
		From:    queryir.TableRef{Name: "coding_properties", Alias: "cp"},
		Filter:  queryir.Equals{Left: queryir.C("cp", "coding_system_id"), Right: queryir.Lit{Value: model.Int(codingSystemID)}},
		OrderBy: []queryir.Order{queryir.Asc(queryir.C("cp", "coding_property_id"))},
	}

	labels := []Label{}
	err := c.each(ctx, q, plan, func(rows *sql.Rows) error {
		var l Label
		if err := rows.Scan(&l.Name, &l.Description); err != nil {
			return fmt.Errorf("scan label: %w", err)
		}
		l.Name = model.CanonicalName(l.Name)
		labels = append(labels, l)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sequential labels: %w", err)
	}
	return labels, nil
}

// SessionLabels returns the labels of a session-level dataset: one per
// property value ("<display name>_<value>", described by the value
// description or, when empty, the property description), followed by one per
// global property.
func (c *Catalog) SessionLabels(ctx context.Context, q store.Querier, codingSystemID int64) ([]Label, error) {
	values := queryir.Select{
		Columns: []queryir.Column{
			{Expr: queryir.C("cp", "cp_display_name")},
			{Expr: queryir.C("pv", "pv_value")},
			{Expr: queryir.C("pv", "pv_description")},
			{Expr: queryir.C("cp", "cp_description")},
		},
		From: queryir.TableRef{Name: "property_values", Alias: "pv"},
		Joins: []queryir.Join{
			queryir.InnerJoin(queryir.TableRef{Name: "coding_properties", Alias: "cp"},
				queryir.Equals{Left: queryir.C("cp", "coding_property_id"), Right: queryir.C("pv", "coding_property_id")}),
		},
		Filter: queryir.Equals{Left: queryir.C("cp", "coding_system_id"), Right: queryir.Lit{Value: model.Int(codingSystemID)}},
		OrderBy: []queryir.Order{
			queryir.Asc(queryir.C("cp", "coding_property_id")),
			queryir.Asc(queryir.C("pv", "pv_value")),
		},
	}

	labels := []Label{}
	err := c.each(ctx, q, values, func(rows *sql.Rows) error {
		var display, value, valueDesc, propDesc string
		if err := rows.Scan(&display, &value, &valueDesc, &propDesc); err != nil {
			return fmt.Errorf("scan value label: %w", err)
		}
		desc := valueDesc
		if desc == "" {
			desc = propDesc
		}
		labels = append(labels, Label{Name: model.VariableName(display, value), Description: desc})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("session labels: %w", err)
	}

	globals := queryir.Select{
		Columns: []queryir.Column{
			{Expr: queryir.C("gp", "gp_name")},
			{Expr: queryir.C("gp", "gp_description")},
		},
		From:    queryir.TableRef{Name: "global_properties", Alias: "gp"},
		Filter:  queryir.Equals{Left: queryir.C("gp", "coding_system_id"), Right: queryir.Lit{Value: model.Int(codingSystemID)}},
		OrderBy: []queryir.Order{queryir.Asc(queryir.C("gp", "global_property_id"))},
	}

	err = c.each(ctx, q, globals, func(rows *sql.Rows) error {
		var l Label
		if err := rows.Scan(&l.Name, &l.Description); err != nil {
			return fmt.Errorf("scan global label: %w", err)
		}
		l.Name = model.CanonicalName(l.Name)
		labels = append(labels, l)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("session labels: %w", err)
	}

	return labels, nil
}
