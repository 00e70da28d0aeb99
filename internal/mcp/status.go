package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type statusParams struct{}

func (h *handler) statusHandler(ctx context.Context, req *mcp.CallToolRequest, _ statusParams) (*mcp.CallToolResult, any, error) {
	st := h.engine.Status(ctx, h.loc)

	var b strings.Builder
	if st.Ready() {
		fmt.Fprintln(&b, "Status: READY")
	} else {
		fmt.Fprintln(&b, "Status: NOT READY")
	}
	fmt.Fprintln(&b)

	source := "next to the launcher"
	if st.UsedOverride {
		source = "from EK9_HOME"
	}
	fmt.Fprintf(&b, "Compiler: %s (%s)\n", st.Artifact, source)
	if st.Warning != "" {
		fmt.Fprintf(&b, "  warning: %s\n", st.Warning)
	}
	if st.ArtifactErr != nil {
		fmt.Fprintf(&b, "  %s\n", indent(st.ArtifactErr.Error()))
	}

	if st.JavaErr != nil {
		fmt.Fprintf(&b, "Java: unavailable\n  %s\n", indent(st.JavaErr.Error()))
	} else {
		fmt.Fprintf(&b, "Java: %d\n", st.JavaVersion)
	}
	fmt.Fprintf(&b, "Memory: %s\n", st.Memory)

	return textResult(b.String())
}

func indent(s string) string {
	return strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", "\n  ")
}
