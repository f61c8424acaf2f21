// Package model persists the local copy of the project model: the
// artifact graph that edit sessions open from and that committed
// changes are written back into.
//
// The backend remains the source of truth for what was persisted — the
// local store is only updated after the apply endpoint confirms a
// commit, never speculatively.
package model

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mjall/ripple/internal/artifact"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ErrNotFound is returned when no artifact matches a (kind, id) pair.
var ErrNotFound = errors.New("artifact not found")

// Store defines the persistence interface for the project model.
// Abstracted so tools depend on the behavior, not on SQLite.
type Store interface {
	Put(a artifact.Artifact) error
	Get(kind artifact.Kind, id string) (*artifact.Artifact, error)
	List(kind artifact.Kind) ([]artifact.Artifact, error)
	Delete(kind artifact.Kind, id string) error
	Count() (int, error)
	ApplyChanges(changes []artifact.Change) (int, error)
	Close() error
}

// SQLiteStore implements Store on a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates or opens the model database at path, creating parent
// directories and running migrations as needed.
func Open(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating model directory: %w", err)
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening model database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS artifacts (
		kind       TEXT NOT NULL,
		id         TEXT NOT NULL,
		fields     TEXT NOT NULL DEFAULT '{}',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (kind, id)
	);
	CREATE INDEX IF NOT EXISTS idx_artifacts_kind ON artifacts(kind);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("migrating model schema: %w", err)
	}
	return nil
}

// Put upserts an artifact, keyed by its kind and resolved identity.
func (s *SQLiteStore) Put(a artifact.Artifact) error {
	if err := artifact.ValidateKind(a.Kind); err != nil {
		return err
	}
	id, err := a.Identity()
	if err != nil {
		return err
	}

	fields, err := json.Marshal(a.Fields)
	if err != nil {
		return fmt.Errorf("encoding %s %q: %w", a.Kind, id, err)
	}

	now := timeNow().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(`
		INSERT INTO artifacts (kind, id, fields, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(kind, id) DO UPDATE SET
			fields = excluded.fields,
			updated_at = excluded.updated_at`,
		string(a.Kind), id, string(fields), now, now,
	)
	if err != nil {
		return fmt.Errorf("saving %s %q: %w", a.Kind, id, err)
	}
	return nil
}

// Get loads one artifact.
func (s *SQLiteStore) Get(kind artifact.Kind, id string) (*artifact.Artifact, error) {
	var fields string
	err := s.db.QueryRow(
		`SELECT fields FROM artifacts WHERE kind = ? AND id = ?`,
		string(kind), id,
	).Scan(&fields)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s %q", ErrNotFound, artifact.DisplayName(kind), id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s %q: %w", kind, id, err)
	}

	return decodeArtifact(kind, id, fields)
}

// List returns artifacts of one kind, or the whole model when kind is
// empty. Ordered by kind then id for deterministic output.
func (s *SQLiteStore) List(kind artifact.Kind) ([]artifact.Artifact, error) {
	query := `SELECT kind, id, fields FROM artifacts ORDER BY kind, id`
	args := []any{}
	if kind != "" {
		query = `SELECT kind, id, fields FROM artifacts WHERE kind = ? ORDER BY id`
		args = append(args, string(kind))
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing artifacts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []artifact.Artifact
	for rows.Next() {
		var k, id, fields string
		if err := rows.Scan(&k, &id, &fields); err != nil {
			return nil, fmt.Errorf("scanning artifact row: %w", err)
		}
		a, err := decodeArtifact(artifact.Kind(k), id, fields)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// Delete removes one artifact. Deleting a missing artifact is a no-op.
func (s *SQLiteStore) Delete(kind artifact.Kind, id string) error {
	_, err := s.db.Exec(`DELETE FROM artifacts WHERE kind = ? AND id = ?`, string(kind), id)
	if err != nil {
		return fmt.Errorf("deleting %s %q: %w", kind, id, err)
	}
	return nil
}

// Count returns the number of artifacts in the model.
func (s *SQLiteStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM artifacts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting artifacts: %w", err)
	}
	return n, nil
}

// ApplyChanges writes committed field values into the local model in a
// single transaction. Changes whose target artifact is not in the local
// model are skipped — the local copy may hold only a subset of the
// graph the backend knows about. Returns the number of changes applied.
func (s *SQLiteStore) ApplyChanges(changes []artifact.Change) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := timeNow().UTC().Format(time.RFC3339)
	applied := 0

	for _, c := range changes {
		var encoded string
		err := tx.QueryRow(
			`SELECT fields FROM artifacts WHERE kind = ? AND id = ?`,
			string(c.Kind), c.ArtifactID,
		).Scan(&encoded)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("loading %s %q: %w", c.Kind, c.ArtifactID, err)
		}

		var fields map[string]any
		if err := json.Unmarshal([]byte(encoded), &fields); err != nil {
			return 0, fmt.Errorf("decoding %s %q: %w", c.Kind, c.ArtifactID, err)
		}
		fields[c.Field] = c.NewValue

		updated, err := json.Marshal(fields)
		if err != nil {
			return 0, fmt.Errorf("encoding %s %q: %w", c.Kind, c.ArtifactID, err)
		}

		if _, err := tx.Exec(
			`UPDATE artifacts SET fields = ?, updated_at = ? WHERE kind = ? AND id = ?`,
			string(updated), now, string(c.Kind), c.ArtifactID,
		); err != nil {
			return 0, fmt.Errorf("updating %s %q: %w", c.Kind, c.ArtifactID, err)
		}
		applied++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing changes: %w", err)
	}
	return applied, nil
}

func decodeArtifact(kind artifact.Kind, id, encoded string) (*artifact.Artifact, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(encoded), &fields); err != nil {
		return nil, fmt.Errorf("decoding %s %q: %w", kind, id, err)
	}
	return &artifact.Artifact{Kind: kind, Fields: fields}, nil
}
