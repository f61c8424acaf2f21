package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mjall/ripple/internal/server"
	"github.com/mjall/ripple/internal/updater"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update ripple to the latest release",
	RunE:  runUpdate,
}

func runUpdate(cmd *cobra.Command, _ []string) error {
	fmt.Fprintf(os.Stderr, "🔍 Checking for updates...\n")

	result := updater.CheckVersion(server.Version)
	if !result.UpdateAvailable {
		fmt.Fprintf(os.Stderr, "✅ Already at the latest version (v%s)\n", result.CurrentVersion)
		return nil
	}

	fmt.Fprintf(os.Stderr, "📦 New version available: v%s → v%s\n", result.CurrentVersion, result.LatestVersion)
	fmt.Fprintf(os.Stderr, "⬇️  Downloading...\n")

	if err := updater.SelfUpdate(server.Version); err != nil {
		fmt.Fprintf(os.Stderr, "\n   You can download manually from:\n   %s\n", result.ReleaseURL)
		return fmt.Errorf("update failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✅ Updated to v%s!\n", result.LatestVersion)
	fmt.Fprintf(os.Stderr, "   Restart ripple to use the new version.\n")
	return nil
}
