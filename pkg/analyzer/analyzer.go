// Package analyzer orchestrates one entry's analysis: retrieval, static
// analysis, prompt construction, the model call, and response normalization.
package analyzer

import (
	"context"
	"fmt"
	"sync"

	"github.com/helmcode/bughunter/pkg/evidence"
	"github.com/helmcode/bughunter/pkg/llm"
	"github.com/helmcode/bughunter/pkg/model"
	"github.com/helmcode/bughunter/pkg/parser"
	"github.com/helmcode/bughunter/pkg/prompts"
	"golang.org/x/sync/errgroup"
)

// Retriever is the documentation-search collaborator.
type Retriever interface {
	Search(ctx context.Context, query string) ([]model.EvidenceDoc, error)
}

// Checker is the static-analysis collaborator. It returns already-formatted
// findings text, or "" when the code is clean.
type Checker interface {
	Check(ctx context.Context, code string) (string, error)
}

type Analyzer struct {
	llm       llm.LLM
	retriever Retriever
	checker   Checker
	maxDocs   int

	// Progress, when set, is called with a short stage description before
	// each step. Used by the CLI to drive its spinner.
	Progress func(stage string)
	// Diag, when set, receives soft-failure and degradation diagnostics.
	// These are not errors and are never surfaced in results.
	Diag func(format string, args ...interface{})
}

// New builds an Analyzer. retriever and checker may be nil, which degrades
// the corresponding evidence to empty rather than failing.
func New(l llm.LLM, retriever Retriever, checker Checker, maxDocs int) *Analyzer {
	if maxDocs <= 0 {
		maxDocs = evidence.DefaultMaxDocs
	}
	return &Analyzer{
		llm:       l,
		retriever: retriever,
		checker:   checker,
		maxDocs:   maxDocs,
	}
}

// AnalyzeEntry runs the full pipeline for one request. It never returns an
// error: retrieval and static-analysis failures degrade silently, and a
// model failure produces a result whose single explanation carries the
// error, so batch processing never aborts on one bad entry.
func (a *Analyzer) AnalyzeEntry(ctx context.Context, req model.AnalysisRequest) model.AnalysisResult {
	a.progress("Searching documentation")
	docs := a.searchDocs(ctx, req.Context)
	evidenceText := evidence.Format(docs, a.maxDocs)

	a.progress("Running static analysis")
	findings := a.runChecker(ctx, req.Code)

	numbered := prompts.NumberLines(req.Code)
	prompt := prompts.BuildAnalysisPrompt(numbered, req.Context, evidenceText, findings)

	a.progress("Querying model")
	raw, err := a.llm.Chat(prompt)
	if err != nil {
		step := &StepError{Kind: KindModel, Err: err}
		a.diagf("entry %s failed: %v", req.ID, step)
		return model.AnalysisResult{
			ID:           req.ID,
			BugLines:     []string{},
			Explanations: []string{fmt.Sprintf("Error: %v", err)},
		}
	}

	a.progress("Parsing verdict")
	verdict := parser.Parse(raw)

	return model.AnalysisResult{
		ID:            req.ID,
		BugLines:      verdict.BugLines,
		Explanations:  verdict.Explanations,
		CorrectedCode: verdict.CorrectedCode,
		EvidenceDocs:  docs,
	}
}

// AnalyzeAll runs every request through AnalyzeEntry, at most workers at a
// time (each entry's own steps stay sequential). The returned slice keeps
// the input order regardless of completion order. onResult, when non-nil,
// is invoked serially as entries finish, with the completed count so far.
func (a *Analyzer) AnalyzeAll(ctx context.Context, reqs []model.AnalysisRequest, workers int, onResult func(done int, res model.AnalysisResult)) []model.AnalysisResult {
	results := make([]model.AnalysisResult, len(reqs))

	if workers <= 1 {
		for i, req := range reqs {
			results[i] = a.AnalyzeEntry(ctx, req)
			if onResult != nil {
				onResult(i+1, results[i])
			}
		}
		return results
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	var mu sync.Mutex
	var done int
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			res := a.AnalyzeEntry(ctx, req)
			mu.Lock()
			results[i] = res
			done++
			if onResult != nil {
				onResult(done, res)
			}
			mu.Unlock()
			return nil
		})
	}
	// Workers never return errors; AnalyzeEntry absorbs its own failures.
	_ = g.Wait()
	return results
}

func (a *Analyzer) searchDocs(ctx context.Context, query string) []model.EvidenceDoc {
	if a.retriever == nil {
		return nil
	}
	docs, err := a.retriever.Search(ctx, query)
	if err != nil {
		a.diagf("%v (continuing without evidence)", &StepError{Kind: KindRetrieval, Err: err})
		return nil
	}
	return docs
}

func (a *Analyzer) runChecker(ctx context.Context, code string) string {
	if a.checker == nil {
		return ""
	}
	findings, err := a.checker.Check(ctx, code)
	if err != nil {
		a.diagf("%v (continuing without findings)", &StepError{Kind: KindStaticAnalysis, Err: err})
		return ""
	}
	return findings
}

func (a *Analyzer) progress(stage string) {
	if a.Progress != nil {
		a.Progress(stage)
	}
}

func (a *Analyzer) diagf(format string, args ...interface{}) {
	if a.Diag != nil {
		a.Diag(format, args...)
	}
}
