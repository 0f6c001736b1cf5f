// Package evidence renders retrieval hits into the bounded documentation
// block embedded in the analysis prompt.
package evidence

import (
	"fmt"
	"sort"
	"strings"

	"github.com/helmcode/bughunter/pkg/model"
)

// DefaultMaxDocs bounds how many retrieval hits make it into the prompt.
const DefaultMaxDocs = 5

// Format sorts docs by relevance score (descending, stable on ties), keeps
// the top maxDocs, and renders each non-blank hit as a numbered block.
// Returns "" when there is nothing worth embedding.
func Format(docs []model.EvidenceDoc, maxDocs int) string {
	if len(docs) == 0 {
		return ""
	}
	if maxDocs <= 0 {
		maxDocs = DefaultMaxDocs
	}

	ranked := make([]model.EvidenceDoc, len(docs))
	copy(ranked, docs)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > maxDocs {
		ranked = ranked[:maxDocs]
	}

	var parts []string
	for i, doc := range ranked {
		text := strings.TrimSpace(doc.Text)
		if text == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("[Doc %d (relevance: %.3f)]:\n%s", i+1, doc.Score, text))
	}
	return strings.Join(parts, "\n\n")
}
