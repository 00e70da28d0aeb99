package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ek9lang/ek9launch/internal/exitcode"
	"github.com/ek9lang/ek9launch/internal/report"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Compiler flags for the two compile modes.
const (
	compileOnlyFlag = "-c"
	fullCompileFlag = "-C"
)

// maxDiagnosticsShown bounds the diagnostics listed in a compile summary.
const maxDiagnosticsShown = 20

type compileFileParams struct {
	Path string `json:"path" jsonschema:"path of the .ek9 source file; relative paths resolve against the workspace root"`
	Full bool   `json:"full,omitempty" jsonschema:"run a full compilation (-C) instead of compile-only (-c). Default: false."`
}

type compileSourceParams struct {
	Code     string `json:"code" jsonschema:"EK9 source code to compile"`
	Filename string `json:"filename,omitempty" jsonschema:"file name to compile the code as, e.g. hello.ek9. Default: main.ek9."`
}

func (h *handler) compileFileHandler(ctx context.Context, req *mcp.CallToolRequest, params compileFileParams) (*mcp.CallToolResult, any, error) {
	if params.Path == "" {
		return errorResult("path is required")
	}
	path := params.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(h.currentWorkspace(), path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return errorResult(fmt.Sprintf("Cannot read %s: %v", params.Path, err))
	}
	if info.IsDir() {
		return errorResult(fmt.Sprintf("%s is a directory, not an EK9 source file", params.Path))
	}

	return h.compile(ctx, path, params.Path, params.Full)
}

func (h *handler) compileSourceHandler(ctx context.Context, req *mcp.CallToolRequest, params compileSourceParams) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(params.Code) == "" {
		return errorResult("code is required")
	}
	name := params.Filename
	if name == "" {
		name = "main.ek9"
	}
	if name != filepath.Base(name) || !strings.HasSuffix(name, ".ek9") {
		return errorResult(fmt.Sprintf("filename must be a bare .ek9 file name, got %q", name))
	}

	dir, err := os.MkdirTemp("", "ek9-source-*")
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to create temp dir: %v", err))
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(params.Code), 0o644); err != nil {
		return errorResult(fmt.Sprintf("Failed to write source: %v", err))
	}

	return h.compile(ctx, path, name, false)
}

// compile runs the compiler on path, stores the result and summarises it.
// display is the name shown to the client.
func (h *handler) compile(ctx context.Context, path, display string, full bool) (*mcp.CallToolResult, any, error) {
	flag := compileOnlyFlag
	if full {
		flag = fullCompileFlag
	}

	res, err := h.engine.Compile(ctx, h.runner, h.loc, []string{flag, path})
	if err != nil {
		return errorResult(fmt.Sprintf("Compilation could not run: %v", err))
	}

	output := string(res.Stdout)
	if len(res.Stderr) > 0 {
		output += string(res.Stderr)
	}
	rr := &report.RunResult{
		ID:          res.RunID,
		File:        display,
		Args:        []string{flag},
		ExitCode:    res.ExitCode,
		Outcome:     exitcode.Describe(res.ExitCode),
		Diagnostics: report.ParseDiagnostics(output),
		Output:      output,
		Truncated:   res.Truncated,
	}

	if err := h.store.Save(rr); err != nil {
		return errorResult(fmt.Sprintf("Failed to store run %s: %v", rr.ID, err))
	}
	return textResult(formatCompile(rr))
}

// passed reports whether the compiler accepted the source.
func passed(rr *report.RunResult) bool {
	errs, _ := rr.Counts()
	return errs == 0 && (rr.ExitCode == exitcode.Success || rr.ExitCode == exitcode.RunCommand)
}

func formatCompile(rr *report.RunResult) string {
	var b strings.Builder

	if passed(rr) {
		fmt.Fprintln(&b, "Status: PASS")
	} else {
		fmt.Fprintln(&b, "Status: FAIL")
	}
	fmt.Fprintf(&b, "Run: %s\n", rr.ID)
	fmt.Fprintf(&b, "File: %s\n", rr.File)
	fmt.Fprintf(&b, "Exit: %d (%s)\n", rr.ExitCode, rr.Outcome)
	fmt.Fprintln(&b)

	errs, warnings := rr.Counts()
	if errs+warnings == 0 {
		if passed(rr) {
			fmt.Fprintln(&b, "No diagnostics.")
		} else if out := strings.TrimSpace(rr.Output); out != "" {
			fmt.Fprintln(&b, "Output:")
			fmt.Fprintln(&b, out)
		}
		return b.String()
	}

	fmt.Fprintf(&b, "Diagnostics: %d errors, %d warnings\n", errs, warnings)
	sorted := report.Sorted(rr)
	for i, d := range sorted {
		if i == maxDiagnosticsShown {
			fmt.Fprintf(&b, "  ... %d more\n", len(sorted)-i)
			break
		}
		fmt.Fprintf(&b, "  %s\n", formatDiagnostic(rr.File, d))
	}
	if rr.Truncated {
		fmt.Fprintln(&b, "  (output truncated)")
	}
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Inspect with ek9_inspect(run_id=%q, line=<line>).\n", rr.ID)

	return b.String()
}

func formatDiagnostic(file string, d report.Diagnostic) string {
	loc := file
	if d.Line > 0 {
		loc = fmt.Sprintf("%s:%d:%d", file, d.Line, d.Position)
	}
	tag := string(d.Class)
	if d.Code != "" {
		tag += " " + d.Code
	}
	msg := fmt.Sprintf("%s: [%s] '%s'", loc, tag, d.Symbol)
	if d.Detail != "" {
		msg += ": " + d.Detail
	}
	return msg
}
