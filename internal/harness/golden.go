package harness

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/caasets/internal/table"
)

// AssertTableGolden compares tbl, rendered as CSV, against
// testdata/golden/{name}.golden.
func AssertTableGolden(t *testing.T, name string, tbl *table.Table) {
	t.Helper()

	var buf bytes.Buffer
	if err := table.WriteCSV(&buf, tbl); err != nil {
		t.Fatalf("render %s: %v", name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, buf.Bytes())
}
