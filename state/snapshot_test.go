// ABOUTME: Tests for snapshot persistence
// ABOUTME: Covers the empty baseline, round trips, and wholesale replacement
package state

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/crmdigest/models"
)

func tempSnapshot(t *testing.T) *SnapshotStore {
	t.Helper()
	return NewSnapshotStore(filepath.Join(t.TempDir(), "snapshot.json"))
}

func TestSnapshotLoadMissingFileIsBaseline(t *testing.T) {
	store := tempSnapshot(t)

	snap, err := store.Load()
	if err != nil {
		t.Fatalf("Load on missing file failed: %v", err)
	}
	if len(snap) != 0 {
		t.Errorf("expected empty baseline, got %d entries", len(snap))
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := tempSnapshot(t)
	now := time.Now().UTC().Truncate(time.Second)

	opp := models.Opportunity{
		Account: "Acme",
		Brand:   "X",
		Product: "P",
		Value:   1250000.50,
		Owner:   "Arora Johney",
		Status:  models.StatusOpen,
		Note:    "awaiting PO",
	}
	in := map[string]models.SnapshotEntry{
		opp.Key(): {Opportunity: opp, RecordedAt: now},
	}

	if err := store.Replace(in); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	out, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	entry, ok := out[opp.Key()]
	if !ok {
		t.Fatalf("entry missing after round trip")
	}
	if entry.Opportunity != opp {
		t.Errorf("opportunity changed: %+v", entry.Opportunity)
	}
	if entry.RecordedAt.Unix() != now.Unix() {
		t.Errorf("recorded_at changed: %v", entry.RecordedAt)
	}
}

func TestSnapshotReplaceIsWholesale(t *testing.T) {
	store := tempSnapshot(t)

	old := models.Opportunity{Account: "Old", Brand: "B", Product: "P"}
	if err := store.Replace(map[string]models.SnapshotEntry{old.Key(): {Opportunity: old}}); err != nil {
		t.Fatalf("first Replace failed: %v", err)
	}

	fresh := models.Opportunity{Account: "Fresh", Brand: "B", Product: "P"}
	if err := store.Replace(map[string]models.SnapshotEntry{fresh.Key(): {Opportunity: fresh}}); err != nil {
		t.Fatalf("second Replace failed: %v", err)
	}

	snap, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := snap[old.Key()]; ok {
		t.Error("old entry survived a wholesale replace")
	}
	if len(snap) != 1 {
		t.Errorf("expected 1 entry, got %d", len(snap))
	}
}

func TestSnapshotReplaceEmptyMap(t *testing.T) {
	store := tempSnapshot(t)

	if err := store.Replace(map[string]models.SnapshotEntry{}); err != nil {
		t.Fatalf("Replace with empty map failed: %v", err)
	}
	snap, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap) != 0 {
		t.Errorf("expected empty snapshot, got %d", len(snap))
	}
}

func TestSnapshotFileIsHumanInspectable(t *testing.T) {
	store := tempSnapshot(t)

	opp := models.Opportunity{Account: "Acme", Brand: "X", Product: "P", Value: 1000}
	if err := store.Replace(map[string]models.SnapshotEntry{opp.Key(): {Opportunity: opp}}); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	raw, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	content := string(raw)
	if !strings.Contains(content, "Acme|X|P") {
		t.Error("entity key not visible in snapshot file")
	}
	if !strings.Contains(content, "\"value\": 1000") {
		t.Error("value not serialized as a plain number")
	}
}

func TestSnapshotCorruptFileErrors(t *testing.T) {
	store := tempSnapshot(t)
	if err := os.WriteFile(store.Path(), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Load(); err == nil {
		t.Error("expected error on corrupt snapshot")
	}
}
