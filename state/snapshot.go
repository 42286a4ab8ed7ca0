// ABOUTME: Persisted opportunity snapshot keyed by entity key
// ABOUTME: Loaded once per cycle, replaced wholesale with an atomic write
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harperreed/crmdigest/models"
)

// SnapshotStore reads and replaces the JSON snapshot file. The file is
// a plain object mapping entity key to the last-seen opportunity, kept
// human-inspectable on purpose.
type SnapshotStore struct {
	path string
}

// NewSnapshotStore creates a store for the given file path.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

// Path returns the snapshot file location.
func (s *SnapshotStore) Path() string {
	return s.path
}

// Load reads the previous snapshot. A missing file is the baseline
// case and returns an empty map, not an error.
func (s *SnapshotStore) Load() (map[string]models.SnapshotEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]models.SnapshotEntry{}, nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot map[string]models.SnapshotEntry
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if snapshot == nil {
		snapshot = map[string]models.SnapshotEntry{}
	}
	return snapshot, nil
}

// Replace overwrites the snapshot file with the given mapping,
// unconditionally. The write goes through a temp file and rename so a
// crash mid-write never leaves a torn snapshot behind.
func (s *SnapshotStore) Replace(snapshot map[string]models.SnapshotEntry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}
