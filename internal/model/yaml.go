package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mjall/ripple/internal/artifact"
)

// ModelFile is the on-disk YAML shape of a project model: a flat list
// of artifacts. Grouping (chapters, swimlanes) lives in the artifact
// fields themselves, not in the file structure.
type ModelFile struct {
	Artifacts []artifact.Artifact `yaml:"artifacts"`
}

// ImportFile loads a YAML model file into the store, upserting every
// artifact. Returns the number imported. A file with an unknown kind or
// an unidentifiable artifact fails as a whole — no partial import.
func ImportFile(store Store, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading model file: %w", err)
	}

	var file ModelFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return 0, fmt.Errorf("parsing model file %s: %w", path, err)
	}

	// Validate everything before writing anything.
	for i, a := range file.Artifacts {
		if err := artifact.ValidateKind(a.Kind); err != nil {
			return 0, fmt.Errorf("artifact %d in %s: %w", i+1, path, err)
		}
		if _, err := a.Identity(); err != nil {
			return 0, fmt.Errorf("artifact %d in %s: %w", i+1, path, err)
		}
	}

	for _, a := range file.Artifacts {
		if err := store.Put(a); err != nil {
			return 0, err
		}
	}
	return len(file.Artifacts), nil
}

// ExportFile writes the whole model to a YAML file, kinds and ids in
// stable order.
func ExportFile(store Store, path string) error {
	artifacts, err := store.List("")
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(ModelFile{Artifacts: artifacts})
	if err != nil {
		return fmt.Errorf("encoding model file: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing model file: %w", err)
	}
	return nil
}
