package projection

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/caasets/internal/model"
	"github.com/roach88/caasets/internal/queryir"
	"github.com/roach88/caasets/internal/querysql"
	"github.com/roach88/caasets/internal/store"
	"github.com/roach88/caasets/internal/table"
)

// Statement is a compiled plan ready to execute.
type Statement struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params"`
}

// Materializer compiles plans and turns their results into tables.
type Materializer struct {
	compiler *querysql.SQLCompiler
	logger   *slog.Logger
	missing  MissingPolicy
}

// NewMaterializer creates a Materializer for plans built with the given
// missing-value policy. A nil logger uses slog.Default().
func NewMaterializer(logger *slog.Logger, missing MissingPolicy) *Materializer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Materializer{
		compiler: querysql.NewSQLCompiler(),
		logger:   logger.With("component", "materializer"),
		missing:  missing,
	}
}

// Compile validates plan and compiles it to SQL.
func (m *Materializer) Compile(plan queryir.Query) (Statement, error) {
	if err := queryir.Validate(plan).Err(); err != nil {
		return Statement{}, err
	}
	text, params, err := m.compiler.Compile(plan)
	if err != nil {
		return Statement{}, fmt.Errorf("compile plan: %w", err)
	}
	return Statement{SQL: text, Params: params}, nil
}

// Execute runs stmt and reads every row into a table whose columns are the
// result columns reported by the driver. Under MissingSentinel the
// sentinels become model.Null; under MissingNull every value is kept as read. Any store failure is returned as *store.TxError and no table
// is produced.
func (m *Materializer) Execute(ctx context.Context, q store.Querier, stmt Statement) (*table.Table, error) {
	start := time.Now()

	rows, err := q.QueryContext(ctx, stmt.SQL, stmt.Params...)
	if err != nil {
		return nil, &store.TxError{Op: "query", Err: err}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &store.TxError{Op: "query", Err: err}
	}

	result := table.New(columns)
	raw := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range raw {
		dest[i] = &raw[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, &store.TxError{Op: "query", Err: fmt.Errorf("scan row %d: %w", result.NumRows(), err)}
		}
		row := make([]model.Value, len(columns))
		for i, cell := range raw {
			v, err := toValue(cell)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", columns[i], err)
			}
			if m.missing == MissingSentinel && isSentinel(v) {
				v = model.Null{}
			}
			row[i] = v
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &store.TxError{Op: "query", Err: err}
	}

	m.logger.DebugContext(ctx, "plan executed",
		"rows", result.NumRows(),
		"columns", len(columns),
		"duration", time.Since(start))
	return result, nil
}

// Materialize compiles plan and executes it.
func (m *Materializer) Materialize(ctx context.Context, q store.Querier, plan queryir.Query) (*table.Table, error) {
	stmt, err := m.Compile(plan)
	if err != nil {
		return nil, err
	}
	return m.Execute(ctx, q, stmt)
}

// toValue converts a driver cell to a model.Value.
func toValue(cell any) (model.Value, error) {
	switch v := cell.(type) {
	case nil:
		return model.Null{}, nil
	case int64:
		return model.Int(v), nil
	case float64:
		return model.Float(v), nil
	case string:
		return model.Text(v), nil
	case []byte:
		return model.Text(string(v)), nil
	case bool:
		if v {
			return model.Int(1), nil
		}
		return model.Int(0), nil
	case time.Time:
		return model.Text(v.Format(time.RFC3339Nano)), nil
	default:
		return nil, fmt.Errorf("unsupported cell type %T", cell)
	}
}
