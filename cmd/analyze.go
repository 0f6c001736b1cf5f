package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/helmcode/bughunter/pkg/analyzer"
	"github.com/helmcode/bughunter/pkg/config"
	"github.com/helmcode/bughunter/pkg/cppcheck"
	"github.com/helmcode/bughunter/pkg/formatter"
	"github.com/helmcode/bughunter/pkg/llm"
	"github.com/helmcode/bughunter/pkg/model"
	"github.com/helmcode/bughunter/pkg/retrieval"
	"github.com/spf13/cobra"
)

var (
	analyzeFile    string
	analyzeCode    string
	analyzeConfig  string
	analyzeOutput  string
	analyzeVerbose bool
)

func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze CONTEXT",
		Short: "Analyze a single code snippet for bugs",
		Long: `Analyze one RDI/SmartRDI test-code snippet using retrieved documentation,
CppCheck static analysis and an LLM, and print the structured verdict.

Examples:
  # Analyze a snippet from a file
  bughunter analyze "Read the humidity sensor on pmux 4" -f snippet.cpp

  # Analyze inline code
  bughunter analyze "Clamp the current to +/-50mA" --code "iClamp(50 mA, -50 mA);"

  # Read the snippet from stdin, print JSON
  cat snippet.cpp | bughunter analyze "Burst measurement sequence" -o json`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Path to the code snippet (\"-\" or empty reads stdin)")
	cmd.Flags().StringVar(&analyzeCode, "code", "", "Code snippet passed inline")
	cmd.Flags().StringVar(&analyzeConfig, "config", "", "Path to YAML config file")
	cmd.Flags().StringVarP(&analyzeOutput, "output", "o", "human", "Output format (human, json, yaml)")
	cmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print soft-failure diagnostics")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	contextText := args[0]

	cfg, err := config.Load(analyzeConfig)
	if err != nil {
		return err
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("HF_API_KEY environment variable not set")
	}

	code, err := readSnippet()
	if err != nil {
		return err
	}

	printAnalyzeHeader(contextText, cfg)

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Suffix = " Preparing analysis..."
	s.Start()

	retriever := retrieval.NewClient(cfg.RetrievalURL)
	defer retriever.Close()

	a := analyzer.New(newLLMClient(cfg), retriever, cppcheck.New(), cfg.MaxDocs)
	a.Progress = func(stage string) {
		s.Suffix = " " + stage + "..."
	}
	if analyzeVerbose {
		a.Diag = func(format string, args ...interface{}) {
			s.Stop()
			printWarn(fmt.Sprintf(format, args...))
			s.Start()
		}
	}

	result := a.AnalyzeEntry(cmd.Context(), model.AnalysisRequest{
		ID:      "ui-" + uuid.New().String()[:8],
		Code:    code,
		Context: contextText,
	})

	s.Stop()
	printSuccess("Analysis complete")

	return formatter.DisplayResult(&result, analyzeOutput)
}

func readSnippet() (string, error) {
	if analyzeCode != "" {
		return analyzeCode, nil
	}
	if analyzeFile != "" && analyzeFile != "-" {
		data, err := os.ReadFile(analyzeFile)
		if err != nil {
			return "", fmt.Errorf("read snippet: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read snippet from stdin: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("no code provided: use -f, --code, or pipe the snippet on stdin")
	}
	return string(data), nil
}

func newLLMClient(cfg config.Config) *llm.Client {
	return llm.New(llm.Options{
		Endpoint:    cfg.Endpoint,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout(),
	})
}

func printAnalyzeHeader(contextText string, cfg config.Config) {
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Println()
	cyan.Println("🔍 Bug Hunter")
	fmt.Printf("📝 Context: %s\n", contextText)
	fmt.Printf("🤖 Model: %s\n", cfg.Model)
	fmt.Println()
}

func printSuccess(msg string) {
	green := color.New(color.FgGreen)
	green.Printf("✓ %s\n", msg)
}

func printWarn(msg string) {
	yellow := color.New(color.FgYellow)
	yellow.Printf("⚠ %s\n", msg)
}
