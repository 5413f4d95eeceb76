package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/caasets/internal/model"
)

// ImportResult counts the rows actually inserted by Import.
// Rows skipped by ON CONFLICT DO NOTHING are not counted.
type ImportResult struct {
	Inserted int64
	Skipped  int64
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insertStep is one table of a batch import.
type insertStep struct {
	table string
	query string
	rows  [][]any
}

// Import writes every entity of the batch in one transaction, in dependency
// order. Uses ON CONFLICT DO NOTHING for idempotency - re-importing the same
// batch inserts nothing. Other constraint violations (foreign keys, CHECK on
// cp_data_type) abort the whole import.
func (s *Store) Import(ctx context.Context, batch model.Batch) (ImportResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportResult{}, &TxError{Op: "begin", Err: err}
	}
	defer tx.Rollback() // No-op if committed

	var result ImportResult
	for _, step := range importSteps(batch) {
		for i, args := range step.rows {
			inserted, err := insertRow(ctx, tx, step.query, args)
			if err != nil {
				return ImportResult{}, fmt.Errorf("import %s row %d: %w", step.table, i, err)
			}
			if inserted {
				result.Inserted++
			} else {
				result.Skipped++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return ImportResult{}, &TxError{Op: "commit", Err: err}
	}

	return result, nil
}

// insertRow executes one insert and reports whether a row was written.
func insertRow(ctx context.Context, ex execer, query string, args []any) (bool, error) {
	res, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// importSteps flattens a batch into per-table inserts, parents first.
func importSteps(b model.Batch) []insertStep {
	steps := []insertStep{
		{table: "coding_systems", query: `
			INSERT INTO coding_systems (coding_system_id, cs_name)
			VALUES (?, ?) ON CONFLICT DO NOTHING`},
		{table: "interviews", query: `
			INSERT INTO interviews
			(interview_id, interview_name, client_id, rater_id, session_number, coding_system_id)
			VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT DO NOTHING`},
		{table: "utterances", query: `
			INSERT INTO utterances
			(utterance_id, interview_id, utt_enum, utt_line, utt_role, utt_text, utt_start_time, utt_end_time)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT DO NOTHING`},
		{table: "coding_properties", query: `
			INSERT INTO coding_properties
			(coding_property_id, coding_system_id, cp_name, cp_display_name, cp_description, cp_data_type)
			VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT DO NOTHING`},
		{table: "property_values", query: `
			INSERT INTO property_values (property_value_id, coding_property_id, pv_value, pv_description)
			VALUES (?, ?, ?, ?) ON CONFLICT DO NOTHING`},
		{table: "utterance_codes", query: `
			INSERT INTO utterance_codes (utterance_id, property_value_id)
			VALUES (?, ?) ON CONFLICT DO NOTHING`},
		{table: "global_properties", query: `
			INSERT INTO global_properties (global_property_id, coding_system_id, gp_name, gp_description)
			VALUES (?, ?, ?, ?) ON CONFLICT DO NOTHING`},
		{table: "global_values", query: `
			INSERT INTO global_values (global_value_id, global_property_id, gv_value)
			VALUES (?, ?, ?) ON CONFLICT DO NOTHING`},
		{table: "global_ratings", query: `
			INSERT INTO global_ratings (interview_id, global_value_id)
			VALUES (?, ?) ON CONFLICT DO NOTHING`},
	}

	for _, cs := range b.CodingSystems {
		steps[0].rows = append(steps[0].rows, []any{cs.ID, cs.Name})
	}
	for _, iv := range b.Interviews {
		steps[1].rows = append(steps[1].rows, []any{iv.ID, iv.Name, iv.ClientID, iv.RaterID, iv.SessionNumber, iv.CodingSystemID})
	}
	for _, u := range b.Utterances {
		steps[2].rows = append(steps[2].rows, []any{u.ID, u.InterviewID, u.Enum, u.Line, u.Role, u.Text, nullable(u.StartTime), nullable(u.EndTime)})
	}
	for _, cp := range b.CodingProperties {
		steps[3].rows = append(steps[3].rows, []any{cp.ID, cp.CodingSystemID, cp.Name, cp.DisplayName, cp.Description, string(cp.DataType)})
	}
	for _, pv := range b.PropertyValues {
		steps[4].rows = append(steps[4].rows, []any{pv.ID, pv.PropertyID, pv.Value, pv.Description})
	}
	for _, uc := range b.UtteranceCodes {
		steps[5].rows = append(steps[5].rows, []any{uc.UtteranceID, uc.PropertyValueID})
	}
	for _, gp := range b.GlobalProperties {
		steps[6].rows = append(steps[6].rows, []any{gp.ID, gp.CodingSystemID, gp.Name, gp.Description})
	}
	for _, gv := range b.GlobalValues {
		steps[7].rows = append(steps[7].rows, []any{gv.ID, gv.GlobalPropertyID, gv.Value})
	}
	for _, gr := range b.GlobalRatings {
		steps[8].rows = append(steps[8].rows, []any{gr.InterviewID, gr.GlobalValueID})
	}

	return steps
}

// nullable stores empty optional text as NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
