package csvio

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/helmcode/bughunter/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadEntries(t *testing.T) {
	path := writeTempCSV(t, "ID,Context,Code\n1,read sensor,\"rdi.pmux(4);\nrdi.execute();\"\n2,clamp,iClamp(50);\n")

	entries, err := ReadEntries(path)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{ID: "1", Context: "read sensor", Code: "rdi.pmux(4);\nrdi.execute();"}, entries[0])
	assert.Equal(t, Entry{ID: "2", Context: "clamp", Code: "iClamp(50);"}, entries[1])
}

func TestReadEntriesHeaderCaseAndOrder(t *testing.T) {
	path := writeTempCSV(t, "code,id,context\nx();,7,ctx\n")

	entries, err := ReadEntries(path)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, Entry{ID: "7", Context: "ctx", Code: "x();"}, entries[0])
}

func TestReadEntriesMissingIDColumn(t *testing.T) {
	path := writeTempCSV(t, "Context,Code\nctx,x();\n")

	_, err := ReadEntries(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ID")
}

func TestReadEntriesMissingOptionalColumns(t *testing.T) {
	path := writeTempCSV(t, "ID\n5\n")

	entries, err := ReadEntries(path)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, Entry{ID: "5"}, entries[0])
}

func TestReadEntriesMissingFile(t *testing.T) {
	_, err := ReadEntries(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestWriteResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.csv")
	records := []model.Record{
		{ID: "1", BugLine: "3,7", Explanation: "swapped; typo", CorrectedCode: "iClamp(-50, 50);"},
		{ID: "2", BugLine: "", Explanation: "No bugs detected", CorrectedCode: ""},
	}

	require.NoError(t, WriteResults(path, records))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "Bug Line", "Explanation", "Corrected Code"}, rows[0])
	assert.Equal(t, []string{"1", "3,7", "swapped; typo", "iClamp(-50, 50);"}, rows[1])
	assert.Equal(t, []string{"2", "", "No bugs detected", ""}, rows[2])
}

// Fields carrying the CSV delimiter, quotes, or newlines must survive the
// write unchanged.
func TestWriteResultsEscapesDelimiters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	rec := model.Record{
		ID:            "1",
		BugLine:       "2,3",
		Explanation:   `pin "D0" vs "DO"; range – exceeded`,
		CorrectedCode: "iClamp(-50, 50);\nrdi.execute();",
	}

	require.NoError(t, WriteResults(path, []model.Record{rec}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{rec.ID, rec.BugLine, rec.Explanation, rec.CorrectedCode}, rows[1])
}

func TestRoundTripThroughRecord(t *testing.T) {
	res := model.AnalysisResult{
		ID:           "11",
		BugLines:     []string{"2"},
		Explanations: []string{"wrong pin name"},
		EvidenceDocs: []model.EvidenceDoc{{Text: "stripped", Score: 1}},
	}
	path := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, WriteResults(path, []model.Record{res.Record()}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stripped")
	assert.Contains(t, string(data), "wrong pin name")
}
