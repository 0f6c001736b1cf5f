// Package csvio reads batch input CSVs (ID, Context, Code) and writes the
// result CSV (ID, Bug Line, Explanation, Corrected Code).
package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/helmcode/bughunter/pkg/model"
)

// Entry is one input row. Context and Code may be empty; ID is required.
type Entry struct {
	ID      string
	Context string
	Code    string
}

// ReadEntries loads the input CSV. Column order is free; headers are matched
// by name, case-insensitively.
func ReadEntries(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty CSV", path)
	}

	cols := map[string]int{}
	for i, name := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	idCol, ok := cols["id"]
	if !ok {
		return nil, fmt.Errorf("%s: missing required column %q", path, "ID")
	}
	contextCol, hasContext := cols["context"]
	codeCol, hasCode := cols["code"]

	entries := make([]Entry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		e := Entry{ID: field(row, idCol)}
		if hasContext {
			e.Context = field(row, contextCol)
		}
		if hasCode {
			e.Code = field(row, codeCol)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// WriteResults writes the output CSV, creating the parent directory if
// needed.
func WriteResults(path string, records []model.Record) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"ID", "Bug Line", "Explanation", "Corrected Code"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write([]string{rec.ID, rec.BugLine, rec.Explanation, rec.CorrectedCode}); err != nil {
			return fmt.Errorf("write record %s: %w", rec.ID, err)
		}
	}
	w.Flush()
	return w.Error()
}

func field(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}
