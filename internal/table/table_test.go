package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/caasets/internal/model"
)

func TestAppend_ChecksWidth(t *testing.T) {
	tbl := New([]string{"a", "b"})
	require.NoError(t, tbl.Append([]model.Value{model.Int(1), model.Null{}}))

	err := tbl.Append([]model.Value{model.Int(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 cells")
	assert.Equal(t, 1, tbl.NumRows())
}

func TestNew_CopiesColumns(t *testing.T) {
	cols := []string{"a"}
	tbl := New(cols)
	cols[0] = "changed"
	assert.Equal(t, []string{"a"}, tbl.Columns)
}

func TestValueAndColumn(t *testing.T) {
	tbl := New([]string{"name", "score"})
	require.NoError(t, tbl.Append([]model.Value{model.Text("S1"), model.Float(3)}))
	require.NoError(t, tbl.Append([]model.Value{model.Text("S2"), model.Null{}}))

	v, ok := tbl.Value(0, "score")
	require.True(t, ok)
	assert.Equal(t, model.Float(3), v)

	_, ok = tbl.Value(5, "score")
	assert.False(t, ok)
	_, ok = tbl.Value(0, "nope")
	assert.False(t, ok)

	col, ok := tbl.Column("name")
	require.True(t, ok)
	assert.Equal(t, []model.Value{model.Text("S1"), model.Text("S2")}, col)
	assert.Equal(t, -1, tbl.ColumnIndex("nope"))
}

func TestMarshalJSON_KeepsColumnOrder(t *testing.T) {
	tbl := New([]string{"z", "a"})
	require.NoError(t, tbl.Append([]model.Value{model.Int(1), model.Null{}}))

	data, err := tbl.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"columns":["z","a"],"rows":[[1,null]]}`, string(data))
}
