package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordProjection(t *testing.T) {
	res := AnalysisResult{
		ID:            "42",
		BugLines:      []string{"3", "7"},
		Explanations:  []string{"args swapped", "typo"},
		CorrectedCode: "iClamp(-50, 50);",
		EvidenceDocs:  []EvidenceDoc{{Text: "internal only", Score: 0.9}},
	}

	rec := res.Record()

	assert.Equal(t, "42", rec.ID)
	assert.Equal(t, "3,7", rec.BugLine)
	assert.Equal(t, "args swapped; typo", rec.Explanation)
	assert.Equal(t, "iClamp(-50, 50);", rec.CorrectedCode)
}

func TestRecordNoBugs(t *testing.T) {
	rec := AnalysisResult{ID: "1"}.Record()

	assert.Equal(t, "", rec.BugLine)
	assert.Equal(t, "No bugs detected", rec.Explanation)
	assert.Equal(t, "", rec.CorrectedCode)
}

func TestRecordErrorResult(t *testing.T) {
	res := AnalysisResult{
		ID:           "9",
		BugLines:     []string{},
		Explanations: []string{"Error: model API error (status 503)"},
	}

	rec := res.Record()

	assert.Equal(t, "", rec.BugLine)
	assert.Equal(t, "Error: model API error (status 503)", rec.Explanation)
}

func TestEvidenceDocUnmarshal(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		text    string
		score   float64
	}{
		{"numeric score", `{"text":"a","score":0.25}`, "a", 0.25},
		{"string score", `{"text":"b","score":" 0.5 "}`, "b", 0.5},
		{"missing score", `{"text":"c"}`, "c", 0},
		{"null score", `{"text":"d","score":null}`, "d", 0},
		{"junk score", `{"text":"e","score":"high"}`, "e", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var doc EvidenceDoc
			require.NoError(t, json.Unmarshal([]byte(tc.payload), &doc))
			assert.Equal(t, tc.text, doc.Text)
			assert.InDelta(t, tc.score, doc.Score, 1e-9)
		})
	}
}
