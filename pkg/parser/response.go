// Package parser normalizes raw model replies into a typed Verdict. The
// model is asked for a bare JSON object but routinely wraps it in markdown
// fences, surrounds it with prose, or ignores the format entirely; this
// package repairs all of that without ever returning an error.
package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/helmcode/bughunter/pkg/model"
)

// maxExplanationWords caps each explanation after normalization.
const maxExplanationWords = 15

var (
	// ```json ... ``` or bare ``` ... ```
	fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")
	// first { through last }
	braceRe = regexp.MustCompile(`(?s)\{.*\}`)
	// "Line 5: explanation" / "line 5 - explanation" / en-dash variant
	lineRe = regexp.MustCompile(`(?m)[Ll]ine\s+(\d+)\s*[:\-–]\s*(.+)$`)
	// "Corrected Code:" label followed by a fenced block
	correctedRe = regexp.MustCompile("(?is)corrected code:?\\s*```(?:cpp|c)?\\n?(.*?)```")
)

// Parse extracts a Verdict from the raw model reply. It first attempts
// strict JSON extraction (unwrapping fences and surrounding prose) and falls
// back to the heuristic line-pattern parser over the original reply when
// that fails. The returned Verdict always has matching list lengths and
// explanations of at most 15 words.
func Parse(raw string) model.Verdict {
	if strings.TrimSpace(raw) == "" {
		return normalize(model.Verdict{})
	}

	candidate := strings.TrimSpace(raw)
	if m := fenceRe.FindStringSubmatch(candidate); m != nil {
		candidate = strings.TrimSpace(m[1])
	}
	if m := braceRe.FindString(candidate); m != "" {
		candidate = m
	}

	verdict, ok := parseStrict(candidate)
	if !ok {
		verdict = parseFallback(raw)
	}
	return normalize(verdict)
}

// parseStrict decodes the candidate as the expected JSON object. Bug lines
// arrive as numbers or strings and are coerced to strings; explanations are
// stringified so one odd-typed entry cannot fail the whole reply.
func parseStrict(candidate string) (model.Verdict, bool) {
	var payload struct {
		BugLines      []interface{} `json:"bug_lines"`
		Explanations  []interface{} `json:"explanations"`
		CorrectedCode string        `json:"corrected_code"`
	}
	dec := json.NewDecoder(strings.NewReader(candidate))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return model.Verdict{}, false
	}

	v := model.Verdict{CorrectedCode: payload.CorrectedCode}
	for _, line := range payload.BugLines {
		v.BugLines = append(v.BugLines, stringify(line))
	}
	for _, expl := range payload.Explanations {
		v.Explanations = append(v.Explanations, stringify(expl))
	}
	return v, true
}

// parseFallback scans the reply for "Line <n>: text" pairs and a labeled
// corrected-code fence. Absence of matches yields empty lists, never an
// error. Phrasings like "L5:" or "at line 5" are deliberately not matched.
func parseFallback(raw string) model.Verdict {
	var v model.Verdict
	for _, m := range lineRe.FindAllStringSubmatch(raw, -1) {
		v.BugLines = append(v.BugLines, m[1])
		v.Explanations = append(v.Explanations, strings.TrimSpace(m[2]))
	}
	if m := correctedRe.FindStringSubmatch(raw); m != nil {
		v.CorrectedCode = strings.TrimSpace(m[1])
	}
	return v
}

// normalize applies the post-parse invariants shared by both paths:
// explanations truncated to maxExplanationWords, then the two lists padded
// ("Bug detected" / "") until their lengths match. Corrected code passes
// through untouched.
func normalize(v model.Verdict) model.Verdict {
	if v.BugLines == nil {
		v.BugLines = []string{}
	}
	if v.Explanations == nil {
		v.Explanations = []string{}
	}
	for i, expl := range v.Explanations {
		v.Explanations[i] = truncateWords(expl, maxExplanationWords)
	}
	for len(v.Explanations) < len(v.BugLines) {
		v.Explanations = append(v.Explanations, "Bug detected")
	}
	for len(v.BugLines) < len(v.Explanations) {
		v.BugLines = append(v.BugLines, "")
	}
	return v
}

func truncateWords(text string, max int) string {
	words := strings.Fields(text)
	if len(words) <= max {
		return text
	}
	return strings.Join(words[:max], " ")
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case json.Number:
		return t.String()
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
