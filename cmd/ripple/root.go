// Ripple: cascade-aware edit server for event-modeling project models.
//
// A universal MCP server that integrates with any AI coding tool to make
// artifact edits safe: every change is analyzed for cascade effects on
// dependent artifacts before anything is committed.
//
// Usage:
//
//	ripple serve            # Start MCP server (stdio transport)
//	ripple import model.yaml
//	ripple export model.yaml
//	ripple update           # Update to the latest version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mjall/ripple/internal/config"
	"github.com/mjall/ripple/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "ripple",
	Short: "Cascade-aware editing for event-modeling project models",
	Long: "Ripple edits project-model artifacts (epics, stories, slices, commands,\n" +
		"events, read models, ...) through a review-before-commit protocol: every\n" +
		"edit is analyzed for cascade effects on dependent artifacts, and only the\n" +
		"changes you accept are committed — atomically.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.Version = server.Version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves configuration from ripple.yaml in the working
// directory plus RIPPLE_* environment overrides.
func loadConfig() (config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, fmt.Errorf("resolving working directory: %w", err)
	}
	return config.Load(wd)
}
