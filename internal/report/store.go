// Package report keeps the results of compiler runs made through the MCP
// server so they can be inspected after the fact.
package report

import (
	"sort"
)

// Store persists and retrieves run results.
type Store interface {
	Save(result *RunResult) error
	Load(runID string) (*RunResult, error)
}

// RunResult holds the structured outcome of one compiler run.
type RunResult struct {
	ID          string       `json:"id"`
	File        string       `json:"file"`
	Args        []string     `json:"args,omitempty"`
	ExitCode    int          `json:"exit_code"`
	Outcome     string       `json:"outcome"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	Output      string       `json:"output,omitempty"`
	Truncated   bool         `json:"truncated,omitempty"`
}

// Class is the compiler's classification column, e.g. "Error".
type Class string

const (
	ClassWarning     Class = "Warning"
	ClassDeprecation Class = "Deprecation"
	ClassSyntax      Class = "Syntax"
	ClassError       Class = "Error"
	ClassDirective   Class = "Directive"
)

// IsError reports whether the class stops compilation.
func (c Class) IsError() bool {
	return c == ClassSyntax || c == ClassError || c == ClassDirective
}

// Diagnostic is a single compiler message.
type Diagnostic struct {
	Class    Class  `json:"class"`
	Code     string `json:"code,omitempty"` // e.g. E50001
	Symbol   string `json:"symbol"`
	Line     int    `json:"line,omitempty"`
	Position int    `json:"position,omitempty"`
	Detail   string `json:"detail,omitempty"`
	URL      string `json:"url,omitempty"`
}

// Counts returns the number of error and warning diagnostics.
func (r *RunResult) Counts() (errs, warnings int) {
	for _, d := range r.Diagnostics {
		if d.Class.IsError() {
			errs++
		} else {
			warnings++
		}
	}
	return errs, warnings
}

// ByLine returns the diagnostics reported on line.
func ByLine(result *RunResult, line int) []Diagnostic {
	var out []Diagnostic
	for _, d := range result.Diagnostics {
		if d.Line == line {
			out = append(out, d)
		}
	}
	return out
}

// Sorted returns the diagnostics ordered by line, then position.
// Diagnostics without a position come first.
func Sorted(result *RunResult) []Diagnostic {
	out := append([]Diagnostic(nil), result.Diagnostics...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Position < out[j].Position
	})
	return out
}
