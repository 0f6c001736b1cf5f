// Package cppcheck wraps the external cppcheck binary. Findings are opaque
// formatted text ("line: [severity] message") embedded in the prompt as-is.
package cppcheck

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

type Checker struct {
	binary string
}

func New() *Checker {
	return &Checker{binary: "cppcheck"}
}

// Check writes the snippet to a temp .cpp file and runs cppcheck over it.
// Returns the formatted findings, or "" when the snippet is clean. Errors
// (binary missing, context canceled) are soft: the analyzer degrades to
// "no findings".
func (c *Checker) Check(ctx context.Context, code string) (string, error) {
	tmp, err := os.CreateTemp("", "bughunter-*.cpp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(code); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	// missingInclude and unusedFunction fire on nearly every snippet, so
	// they are suppressed rather than reported.
	cmd := exec.CommandContext(ctx, c.binary,
		"--enable=style,warning,performance,portability",
		"--inconclusive",
		"--template={line}: [{severity}] {message}",
		"--suppress=missingInclude",
		"--suppress=unusedFunction",
		tmp.Name(),
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run cppcheck: %w", err)
	}

	var findings []string
	for _, line := range strings.Split(stderr.String(), "\n") {
		line = strings.TrimSpace(strings.ReplaceAll(line, tmp.Name(), ""))
		if line == "" || strings.HasPrefix(line, "Checking") {
			continue
		}
		findings = append(findings, line)
	}
	return strings.Join(findings, "\n"), nil
}
