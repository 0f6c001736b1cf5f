package formatter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/helmcode/bughunter/pkg/model"
	"gopkg.in/yaml.v3"
)

// DisplayResult formats and displays one analysis result.
func DisplayResult(result *model.AnalysisResult, format string) error {
	switch format {
	case "json":
		return displayJSON(result)
	case "yaml":
		return displayYAML(result)
	case "human":
		fallthrough
	default:
		displayHuman(result)
	}
	return nil
}

func displayJSON(result *model.AnalysisResult) error {
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

func displayYAML(result *model.AnalysisResult) error {
	output, err := yaml.Marshal(result)
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

func displayHuman(result *model.AnalysisResult) {
	red := color.New(color.FgRed, color.Bold)
	green := color.New(color.FgGreen, color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)

	fmt.Println()

	if len(result.BugLines) == 0 {
		green.Println("✓ NO BUGS DETECTED")
		fmt.Println()
	} else {
		red.Printf("🐞 BUGS FOUND (%d):\n", len(result.BugLines))
		for i, line := range result.BugLines {
			explanation := ""
			if i < len(result.Explanations) {
				explanation = result.Explanations[i]
			}
			if line == "" {
				fmt.Printf("   %d. %s\n", i+1, explanation)
			} else {
				fmt.Printf("   %d. line %s: %s\n", i+1, color.YellowString(line), explanation)
			}
		}
		fmt.Println()
	}

	if result.CorrectedCode != "" {
		green.Println("🔧 CORRECTED CODE:")
		for _, line := range strings.Split(result.CorrectedCode, "\n") {
			fmt.Printf("   %s\n", line)
		}
		fmt.Println()
	}

	if len(result.EvidenceDocs) > 0 {
		cyan.Printf("📚 EVIDENCE: %d documentation snippet(s) consulted\n", len(result.EvidenceDocs))
		for i, doc := range result.EvidenceDocs {
			fmt.Printf("   %d. (relevance: %.3f) %s\n", i+1, doc.Score, firstLine(doc.Text))
		}
		fmt.Println()
	}

	fmt.Println(strings.Repeat("─", 80))
	fmt.Printf("💡 %s\n", color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if len(text) > 100 {
		text = text[:100] + "..."
	}
	return text
}
