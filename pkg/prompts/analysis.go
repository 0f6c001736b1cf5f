package prompts

import (
	"fmt"
	"strings"
)

// NumberLines prefixes every line of code with its 1-based line number so
// bug-line numbers in the model reply map back to the original snippet.
func NumberLines(code string) string {
	lines := strings.Split(code, "\n")
	numbered := make([]string, len(lines))
	for i, line := range lines {
		numbered[i] = fmt.Sprintf("%d: %s", i+1, line)
	}
	return strings.Join(numbered, "\n")
}

// BuildAnalysisPrompt assembles the bug-detection prompt from the numbered
// code, the user's context, and the optional evidence and static-analysis
// sections. Identical inputs produce a byte-identical prompt.
func BuildAnalysisPrompt(numberedCode, context, evidenceText, findingsText string) string {
	evidenceSection := ""
	if strings.TrimSpace(evidenceText) != "" {
		evidenceSection = fmt.Sprintf(`
**Relevant API Documentation (from knowledge base):**
%s
`, evidenceText)
	}

	findingsSection := ""
	if strings.TrimSpace(findingsText) != "" {
		findingsSection = fmt.Sprintf(`
**Static Analysis Findings (CppCheck):**
%s
(Note: Use these findings as strong evidence, but verify them against the context.)
`, findingsText)
	}

	return fmt.Sprintf(`You are an expert bug detector for RDI/SmartRDI embedded test code. Find ALL bugs and provide the CORRECTED code.

**Context:** %s
%s%s
**Code:**
`+"```"+`
%s
`+"```"+`

**Bug categories to check:**
- Wrong/misspelled function names (e.g., readHumanSeniority vs readHumSensor, iMeans vs iMeas)
- Wrong argument order (e.g., iClamp(high, low) should be iClamp(low, high))
- Values exceeding documented ranges.
- Wrong API calls (e.g., use execute() instead of burst()).
- Variable mismatches.
- Lifecycle errors (e.g., RDI_END before RDI_BEGIN).
- Pin name typos (e.g., "D0" vs "DO").

**FEW-SHOT EXAMPLES:**

Example 1:
Code: `+"`"+`2: rdi.pmux(4).module("02").readHumanSeniority().execute();`+"`"+`
Output: {"bug_lines": [2], "explanations": ["readHumanSeniority -> readHumSensor"], "corrected_code": "rdi.pmux(4).module(\"02\").readHumSensor().execute();"}

Example 2:
Code: `+"`"+`3: iClamp(50 mA, -50 mA);`+"`"+`
Output: {"bug_lines": [3], "explanations": ["iClamp args swapped"], "corrected_code": "iClamp(-50 mA, 50 mA);"}

**RULES:**
1. Explanations MUST be under 10 words.
2. Report the exact line number.
3. Provide the COMPLETE corrected line(s) of code in `+"`"+`corrected_code`+"`"+`. If multiple lines are wrong, fix all of them.
4. Respond with ONLY the JSON object.

{"bug_lines": [line_numbers], "explanations": ["short explanation"], "corrected_code": "full corrected code snippet"}`,
		context, evidenceSection, findingsSection, numberedCode)
}
