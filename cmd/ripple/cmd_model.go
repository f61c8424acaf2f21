package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mjall/ripple/internal/model"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a project model from a YAML file",
	Long: `Loads artifacts from a YAML file into the local model store.

The file holds a list under an 'artifacts' key; each entry has a 'kind'
and a 'fields' map. Every artifact is validated before anything is
written — a single bad entry rejects the whole file. Existing artifacts
with the same identity are overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the project model to a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := model.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening model store: %w", err)
	}
	defer store.Close()

	n, err := model.ImportFile(store, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d artifact(s) into %s\n", n, cfg.DatabasePath)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := model.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening model store: %w", err)
	}
	defer store.Close()

	if err := model.ExportFile(store, args[0]); err != nil {
		return err
	}
	n, err := store.Count()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d artifact(s) to %s\n", n, args[0])
	return nil
}
