package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// AnalysisRequest is the immutable input to one analysis. ID comes from the
// batch CSV or is generated for interactive requests.
type AnalysisRequest struct {
	ID      string
	Code    string
	Context string
}

// EvidenceDoc is one retrieval hit from the documentation-search service.
type EvidenceDoc struct {
	Text  string  `json:"text" yaml:"text"`
	Score float64 `json:"score" yaml:"score"`
}

// UnmarshalJSON tolerates the loose payloads the search service emits: score
// may be a number, a numeric string, or missing entirely (treated as 0).
func (d *EvidenceDoc) UnmarshalJSON(data []byte) error {
	var aux struct {
		Text  string          `json:"text"`
		Score json.RawMessage `json:"score"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.Text = aux.Text
	d.Score = coerceScore(aux.Score)
	return nil
}

func coerceScore(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return 0
}

// Verdict is the normalized output of the response parser. BugLines and
// Explanations are always the same length.
type Verdict struct {
	BugLines      []string `json:"bug_lines"`
	Explanations  []string `json:"explanations"`
	CorrectedCode string   `json:"corrected_code"`
}

// AnalysisResult is the outcome of one entry's analysis. EvidenceDocs is
// informational for interactive inspection and is stripped from the tabular
// projection.
type AnalysisResult struct {
	ID            string        `json:"id" yaml:"id"`
	BugLines      []string      `json:"bug_lines" yaml:"bug_lines"`
	Explanations  []string      `json:"explanations" yaml:"explanations"`
	CorrectedCode string        `json:"corrected_code" yaml:"corrected_code"`
	EvidenceDocs  []EvidenceDoc `json:"evidence_docs,omitempty" yaml:"evidence_docs,omitempty"`
}

// Record is the flat row shape the batch CSV contract expects.
type Record struct {
	ID            string
	BugLine       string
	Explanation   string
	CorrectedCode string
}

// Record projects the result into the tabular shape: bug lines comma-joined,
// explanations semicolon-joined or the literal "No bugs detected".
func (r AnalysisResult) Record() Record {
	rec := Record{
		ID:            r.ID,
		BugLine:       strings.Join(r.BugLines, ","),
		CorrectedCode: r.CorrectedCode,
	}
	if len(r.Explanations) > 0 {
		rec.Explanation = strings.Join(r.Explanations, "; ")
	} else {
		rec.Explanation = "No bugs detected"
	}
	return rec
}
