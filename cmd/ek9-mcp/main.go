// Command ek9-mcp serves the EK9 compiler tools over the Model Context
// Protocol, on stdio or HTTP.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/ek9lang/ek9launch"
	"github.com/ek9lang/ek9launch/internal/artifact"
	"github.com/ek9lang/ek9launch/internal/config"
	"github.com/ek9lang/ek9launch/internal/diag"
	"github.com/ek9lang/ek9launch/internal/launcher"
	ek9mcp "github.com/ek9lang/ek9launch/internal/mcp"
	"github.com/ek9lang/ek9launch/internal/report"
	"github.com/ek9lang/ek9launch/internal/runner"
	"github.com/ek9lang/ek9launch/internal/toolchain"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("ek9-mcp: ")

	var (
		httpAddr     string
		instructions bool
	)

	rootCmd := &cobra.Command{
		Use:          "ek9-mcp",
		Short:        "Serve EK9 compiler tools over MCP",
		Version:      ek9launch.Version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if instructions {
				fmt.Fprint(cmd.OutOrStdout(), ek9mcp.Instructions)
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return serve(ctx, httpAddr)
		},
	}
	rootCmd.Flags().StringVar(&httpAddr, "http", "", "start HTTP server on address (e.g. :9090)")
	rootCmd.Flags().BoolVar(&instructions, "instructions", false, "print model instructions and exit")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func serve(ctx context.Context, httpAddr string) error {
	workspace, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining workspace: %w", err)
	}

	env := config.FromEnviron()
	loc := (&artifact.Locator{Home: env.Home}).Locate()

	cfg, err := config.Load(loc.Dir())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Child processes must not read the protocol stream on stdin.
	devNull, err := os.Open(os.DevNull)
	if err != nil {
		return fmt.Errorf("opening %s: %w", os.DevNull, err)
	}
	defer devNull.Close()

	probe := toolchain.NewRunner()
	probe.Stdin = devNull

	eng := &launcher.Engine{
		Config:    cfg,
		Env:       env,
		Validator: &toolchain.Validator{Runner: probe},
		Log:       diag.NewLogger(os.Stderr, cfg.LogLevel(), env.NoColor),
	}

	r := &runner.Runner{
		Timeout:   cfg.MCPTimeout(),
		MaxOutput: cfg.MCPMaxOutput(),
		Stdin:     devNull,
	}

	store := report.NewLRUStore(5, report.NewDiskStore(""))
	server := ek9mcp.NewServer(eng, loc, r, store, workspace)

	if httpAddr != "" {
		return serveHTTP(ctx, server, httpAddr)
	}
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}

func serveHTTP(ctx context.Context, server *mcpsdk.Server, addr string) error {
	handler := mcpsdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcpsdk.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	log.Printf("listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
