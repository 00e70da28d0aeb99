package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/ek9lang/ek9launch/internal/report"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type inspectParams struct {
	RunID string `json:"run_id" jsonschema:"the run ID from an ek9_compile_file or ek9_compile_source result"`
	Line  int    `json:"line,omitempty" jsonschema:"only show diagnostics on this source line"`
}

func (h *handler) inspectHandler(ctx context.Context, req *mcp.CallToolRequest, params inspectParams) (*mcp.CallToolResult, any, error) {
	if params.RunID == "" {
		return errorResult("run_id is required")
	}

	result, err := h.store.Load(params.RunID)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to load run %s: %v", params.RunID, err))
	}

	var diagnostics []report.Diagnostic
	if params.Line > 0 {
		diagnostics = report.ByLine(result, params.Line)
		if len(diagnostics) == 0 {
			return textResult(fmt.Sprintf("No diagnostics on line %d of %s in run %s.", params.Line, result.File, params.RunID))
		}
	} else {
		diagnostics = report.Sorted(result)
	}

	return textResult(formatInspectOutput(result, diagnostics, params.Line == 0))
}

func formatInspectOutput(result *report.RunResult, diagnostics []report.Diagnostic, withOutput bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run: %s (%s)\n", result.ID, result.File)
	fmt.Fprintf(&b, "Exit: %d (%s)\n", result.ExitCode, result.Outcome)
	fmt.Fprintln(&b)

	if len(diagnostics) == 0 {
		fmt.Fprintln(&b, "No diagnostics.")
	}
	for _, d := range diagnostics {
		fmt.Fprintln(&b, formatDiagnostic(result.File, d))
		if d.URL != "" {
			fmt.Fprintf(&b, "    See: %s\n", d.URL)
		}
	}

	if withOutput && strings.TrimSpace(result.Output) != "" {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "Output:")
		for _, line := range strings.Split(strings.TrimRight(result.Output, "\n"), "\n") {
			fmt.Fprintf(&b, "    %s\n", line)
		}
		if result.Truncated {
			fmt.Fprintln(&b, "    (truncated)")
		}
	}

	return b.String()
}
