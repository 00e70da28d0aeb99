// Package mcp provides the EK9 MCP server, exposing compiler runs and
// their diagnostics as tools.
package mcp

import (
	"context"
	_ "embed"
	"net/url"
	"sync"
	"time"

	"github.com/ek9lang/ek9launch"
	"github.com/ek9lang/ek9launch/internal/artifact"
	"github.com/ek9lang/ek9launch/internal/launcher"
	"github.com/ek9lang/ek9launch/internal/report"
	"github.com/ek9lang/ek9launch/internal/runner"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	engine *launcher.Engine
	loc    artifact.Location
	runner *runner.Runner // compile runs; carries the timeout and output bound
	store  report.Store

	mu        sync.Mutex
	workspace string // relative paths resolve here; updated from client roots
}

// NewServer creates an MCP server with all EK9 tools registered.
func NewServer(eng *launcher.Engine, loc artifact.Location, r *runner.Runner, store report.Store, workspace string) *mcp.Server {
	h := &handler{
		engine:    eng,
		loc:       loc,
		runner:    r,
		store:     store,
		workspace: workspace,
	}

	opts := &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
		InitializedHandler: func(ctx context.Context, req *mcp.InitializedRequest) {
			h.updateWorkspaceFromRoots(ctx, req.Session)
		},
	}
	s := mcp.NewServer(&mcp.Implementation{Name: "ek9", Version: ek9launch.Version}, opts)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "ek9_status",
		Description: "Report where the EK9 compiler JAR is expected, whether it exists, the Java version found, and the JVM memory flag in use.",
	}, h.statusHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "ek9_compile_file",
		Description: `Compile an EK9 source file and report its diagnostics.

Runs the compiler in compile-only mode (-c), or a full compilation (-C) when full=true.
Nothing is executed. Results are stored for drill-down via ek9_inspect.`,
	}, h.compileFileHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "ek9_compile_source",
		Description: `Compile EK9 source code given inline and report its diagnostics.

The code is written to a temporary file and compiled as with ek9_compile_file.`,
	}, h.compileSourceHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "ek9_inspect",
		Description: `Drill into the diagnostics of an ek9_compile_file or ek9_compile_source run.

Use the run_id from the compile output. Pass line to see only the diagnostics on that line.`,
	}, h.inspectHandler)

	return s
}

// updateWorkspaceFromRoots queries the client for MCP roots and uses the
// first file root as the base for relative source paths.
func (h *handler) updateWorkspaceFromRoots(ctx context.Context, session *mcp.ServerSession) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	roots, err := session.ListRoots(ctx, &mcp.ListRootsParams{})
	if err != nil || len(roots.Roots) == 0 {
		return
	}

	u, err := url.Parse(roots.Roots[0].URI)
	if err != nil || u.Scheme != "file" {
		return
	}

	h.mu.Lock()
	h.workspace = u.Path
	h.mu.Unlock()
}

func (h *handler) currentWorkspace() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.workspace
}

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
