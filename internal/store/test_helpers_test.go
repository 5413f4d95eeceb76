package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/caasets/internal/model"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestBatch returns one coding system with one interview, two
// utterances, one coded property and one rated global property.
func createTestBatch() model.Batch {
	return model.Batch{
		CodingSystems: []model.CodingSystem{{ID: 1, Name: "MISC"}},
		Interviews: []model.Interview{
			{ID: 1, Name: "S1", ClientID: "101", RaterID: "R1", SessionNumber: 1, CodingSystemID: 1},
		},
		Utterances: []model.Utterance{
			{ID: 1, InterviewID: 1, Enum: 1, Line: 1, Role: "T", Text: "hello"},
			{ID: 2, InterviewID: 1, Enum: 2, Line: 2, Role: "C", Text: "hi", StartTime: "00:00:01", EndTime: "00:00:02"},
		},
		CodingProperties: []model.CodingProperty{
			{ID: 1, CodingSystemID: 1, Name: "code", DisplayName: "Code", DataType: model.DataTypeText},
		},
		PropertyValues: []model.PropertyValue{
			{ID: 1, PropertyID: 1, Value: "X"},
			{ID: 2, PropertyID: 1, Value: "Y"},
		},
		UtteranceCodes: []model.UtteranceCode{
			{UtteranceID: 1, PropertyValueID: 1},
		},
		GlobalProperties: []model.GlobalProperty{
			{ID: 1, CodingSystemID: 1, Name: "Empathy"},
		},
		GlobalValues: []model.GlobalValue{
			{ID: 1, GlobalPropertyID: 1, Value: "4"},
		},
		GlobalRatings: []model.GlobalRating{
			{InterviewID: 1, GlobalValueID: 1},
		},
	}
}

// countRows returns the number of rows in a table.
func countRows(t *testing.T, s *Store, table string) int {
	t.Helper()
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
