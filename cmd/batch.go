package cmd

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/helmcode/bughunter/pkg/analyzer"
	"github.com/helmcode/bughunter/pkg/config"
	"github.com/helmcode/bughunter/pkg/cppcheck"
	"github.com/helmcode/bughunter/pkg/csvio"
	"github.com/helmcode/bughunter/pkg/model"
	"github.com/helmcode/bughunter/pkg/retrieval"
	"github.com/spf13/cobra"
)

var (
	batchInput   string
	batchOutput  string
	batchConfig  string
	batchWorkers int
	batchVerbose bool
)

func NewBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Analyze a CSV of code snippets and write the results CSV",
		Long: `Process every entry of an input CSV (columns: ID, Context, Code) through
the analysis pipeline and write one result row per entry (columns: ID,
Bug Line, Explanation, Corrected Code). A failing entry records its error
and never aborts the batch.

Examples:
  # Sequential batch (the default)
  bughunter batch --input data/input.csv

  # Bounded parallelism; output rows keep the input order
  bughunter batch --input data/input.csv --workers 4`,
		RunE: runBatch,
	}

	cmd.Flags().StringVarP(&batchInput, "input", "i", "", "Input CSV file path")
	cmd.Flags().StringVarP(&batchOutput, "output", "o", "data/output.csv", "Output CSV file path")
	cmd.Flags().StringVar(&batchConfig, "config", "", "Path to YAML config file")
	cmd.Flags().IntVarP(&batchWorkers, "workers", "w", 1, "Concurrent entries (each entry stays sequential internally)")
	cmd.Flags().BoolVarP(&batchVerbose, "verbose", "v", false, "Print soft-failure diagnostics")
	cmd.MarkFlagRequired("input")

	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(batchConfig)
	if err != nil {
		return err
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("HF_API_KEY environment variable not set")
	}

	entries, err := csvio.ReadEntries(batchInput)
	if err != nil {
		return err
	}

	printBatchHeader(cfg, len(entries))

	// One retrieval connection for the whole batch, released on every
	// exit path.
	retriever := retrieval.NewClient(cfg.RetrievalURL)
	defer retriever.Close()

	a := analyzer.New(newLLMClient(cfg), retriever, cppcheck.New(), cfg.MaxDocs)

	var mu sync.Mutex
	if batchVerbose {
		a.Diag = func(format string, args ...interface{}) {
			mu.Lock()
			printWarn(fmt.Sprintf(format, args...))
			mu.Unlock()
		}
	}

	requests := make([]model.AnalysisRequest, len(entries))
	for i, e := range entries {
		requests[i] = toRequest(e)
	}
	results := a.AnalyzeAll(cmd.Context(), requests, batchWorkers, func(done int, res model.AnalysisResult) {
		mu.Lock()
		fmt.Printf("[%d/%d] Analyzed ID=%s\n", done, len(entries), res.ID)
		printEntryResult(res)
		mu.Unlock()
	})

	records := make([]model.Record, len(results))
	for i, res := range results {
		records[i] = res.Record()
	}
	if err := csvio.WriteResults(batchOutput, records); err != nil {
		return err
	}

	printBatchSummary(records)
	return nil
}

func toRequest(e csvio.Entry) model.AnalysisRequest {
	return model.AnalysisRequest{ID: e.ID, Code: e.Code, Context: e.Context}
}

func printEntryResult(res model.AnalysisResult) {
	rec := res.Record()
	if rec.BugLine != "" {
		fmt.Printf("    >> Bugs at line(s): %s\n", rec.BugLine)
		fmt.Printf("       %s\n", truncateForLog(rec.Explanation, 120))
	} else {
		fmt.Println("    >> No bugs detected")
	}
	fmt.Println()
}

func printBatchHeader(cfg config.Config, total int) {
	cyan := color.New(color.FgCyan, color.Bold)
	rule := strings.Repeat("=", 60)
	fmt.Println()
	fmt.Println(rule)
	cyan.Println("  Bug Hunter -- RAG + CppCheck batch bug detection")
	fmt.Println(rule)
	fmt.Printf("  Input:     %s\n", batchInput)
	fmt.Printf("  Output:    %s\n", batchOutput)
	fmt.Printf("  Retrieval: %s\n", cfg.RetrievalURL)
	fmt.Printf("  Model:     %s\n", cfg.Model)
	fmt.Printf("  Entries:   %d\n", total)
	fmt.Println(rule)
	fmt.Println()
}

func printBatchSummary(records []model.Record) {
	bugsFound := 0
	for _, rec := range records {
		if rec.BugLine != "" {
			bugsFound++
		}
	}
	rule := strings.Repeat("=", 60)
	fmt.Println(rule)
	printSuccess("Analysis complete")
	fmt.Printf("  Total entries:    %d\n", len(records))
	fmt.Printf("  Bugs detected in: %d entries\n", bugsFound)
	fmt.Printf("  Results saved to: %s\n", batchOutput)
	fmt.Println(rule)
}

func truncateForLog(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
