package analyzer

import "fmt"

// ErrorKind classifies a failed analysis step. Soft kinds degrade the
// evidence for one entry; the hard kind fails the entry.
type ErrorKind int

const (
	// KindRetrieval: documentation search failed. Soft — the prompt is
	// built without an evidence section.
	KindRetrieval ErrorKind = iota
	// KindStaticAnalysis: cppcheck failed. Soft — the prompt is built
	// without a findings section.
	KindStaticAnalysis
	// KindModel: the model call failed. Hard — the entry's result carries
	// the error text instead of a verdict.
	KindModel
)

func (k ErrorKind) String() string {
	switch k {
	case KindRetrieval:
		return "retrieval"
	case KindStaticAnalysis:
		return "static analysis"
	case KindModel:
		return "model"
	default:
		return "unknown"
	}
}

// StepError tags a collaborator failure with the step it came from, so the
// absorb-or-surface decision is explicit rather than an untyped cascade.
type StepError struct {
	Kind ErrorKind
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Soft reports whether the orchestrator absorbs this failure instead of
// surfacing it in the entry's result.
func (e *StepError) Soft() bool {
	return e.Kind != KindModel
}
