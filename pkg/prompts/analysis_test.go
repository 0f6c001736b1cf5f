package prompts

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestNumberLines(t *testing.T) {
	assert.Equal(t, "1: a();\n2: b();", NumberLines("a();\nb();"))
	assert.Equal(t, "1: ", NumberLines(""))
	assert.Equal(t, "1: x\n2: ", NumberLines("x\n"))
}

// Bug-line numbers from the model must map back to the original snippet:
// numbering then stripping the prefixes is lossless.
func TestNumberLinesRoundTrip(t *testing.T) {
	code := "RDI_BEGIN();\n\niClamp(-50, 50);\nRDI_END();"

	numbered := NumberLines(code)

	var restored []string
	for _, line := range strings.Split(numbered, "\n") {
		_, rest, _ := strings.Cut(line, ": ")
		restored = append(restored, rest)
	}
	assert.Equal(t, code, strings.Join(restored, "\n"))
}

func TestBuildAnalysisPromptDeterministic(t *testing.T) {
	a := BuildAnalysisPrompt("1: x();", "do the thing", "[Doc 1 (relevance: 0.900)]:\nuse y()", "3: [warning] oops")
	b := BuildAnalysisPrompt("1: x();", "do the thing", "[Doc 1 (relevance: 0.900)]:\nuse y()", "3: [warning] oops")

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("prompt not deterministic (-first +second):\n%s", diff)
	}
}

func TestBuildAnalysisPromptSections(t *testing.T) {
	p := BuildAnalysisPrompt("1: x();", "clamp current", "docs here", "5: [error] boom")

	assert.Contains(t, p, "**Context:** clamp current")
	assert.Contains(t, p, "**Relevant API Documentation (from knowledge base):**\ndocs here")
	assert.Contains(t, p, "**Static Analysis Findings (CppCheck):**\n5: [error] boom")
	assert.Contains(t, p, "strong evidence, but verify them against the context")
	assert.Contains(t, p, "1: x();")
	assert.Contains(t, p, "FEW-SHOT EXAMPLES")
	assert.Contains(t, p, `{"bug_lines": [line_numbers]`)
}

func TestBuildAnalysisPromptOmitsEmptySections(t *testing.T) {
	p := BuildAnalysisPrompt("1: x();", "ctx", "", "   ")

	assert.NotContains(t, p, "Relevant API Documentation")
	assert.NotContains(t, p, "Static Analysis Findings")
}

func TestBuildAnalysisPromptNamesBugTaxonomy(t *testing.T) {
	p := BuildAnalysisPrompt("1: x();", "ctx", "", "")

	for _, category := range []string{
		"misspelled function names",
		"argument order",
		"documented ranges",
		"Wrong API calls",
		"Variable mismatches",
		"Lifecycle errors",
		"Pin name typos",
	} {
		assert.Contains(t, p, category)
	}
}
