package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/mjall/ripple/internal/analysis"
	"github.com/mjall/ripple/internal/server"
	"github.com/mjall/ripple/internal/updater"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server (stdio transport)",
	Long: `Starts the edit-protocol MCP server over stdin/stdout.

Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "ripple": {
        "command": "ripple",
        "args": ["serve"]
      }
    }
  }

The analysis backend (RIPPLE_ANALYSIS_URL) is probed at startup; if it is
not reachable yet the server still starts, and reviews will fail with a
clear error until the backend comes up.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	// All diagnostics go to stderr — stdout belongs to the MCP
	// stdio transport.
	log.SetOutput(os.Stderr)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, cleanup, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Best-effort backend probe. A dead backend is not fatal: the
	// model browsing tools work without it.
	probeCtx, probeCancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer probeCancel()
	probe := analysis.NewHTTPClient(cfg.AnalysisURL)
	if err := probe.WaitReady(probeCtx); err != nil {
		log.Printf("WARNING: analysis backend not reachable at %s: %v", cfg.AnalysisURL, err)
	}

	// Background version check — prints to stderr so it doesn't
	// interfere with the stdio transport.
	go checkForUpdates()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	_ = ctx // stdio server manages its own lifecycle

	return mcpserver.ServeStdio(s)
}

// checkForUpdates runs a non-blocking version check and prints a notice
// to stderr if an update is available. Best-effort — network failures
// are silently ignored.
func checkForUpdates() {
	result := updater.CheckVersion(server.Version)
	if result.UpdateAvailable {
		fmt.Fprintf(os.Stderr,
			"\n  📦 Update available: v%s → v%s\n"+
				"     Run: ripple update\n"+
				"     Release: %s\n\n",
			result.CurrentVersion, result.LatestVersion, result.ReleaseURL,
		)
	}
}
