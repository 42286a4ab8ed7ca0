// ABOUTME: Tests for the snapshot diff engine
// ABOUTME: Covers baseline runs, new entities, note-change policy, and full replacement
package crm

import (
	"reflect"
	"testing"
	"time"

	"github.com/harperreed/crmdigest/models"
)

var diffNow = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

func snapshotOf(opps ...models.Opportunity) map[string]models.SnapshotEntry {
	snap := make(map[string]models.SnapshotEntry, len(opps))
	for _, opp := range opps {
		snap[opp.Key()] = models.SnapshotEntry{Opportunity: opp, RecordedAt: diffNow.Add(-24 * time.Hour)}
	}
	return snap
}

func TestDiffBaseline(t *testing.T) {
	current := []models.Opportunity{
		{Account: "A", Brand: "X", Product: "P1", Note: "n1"},
		{Account: "B", Brand: "Y", Product: "P2", Note: "n2"},
		{Account: "A", Brand: "X", Product: "P1", Note: "dup key"},
	}

	result := Diff(current, nil, diffNow)

	if len(result.New) != 0 {
		t.Errorf("baseline reported %d new entities", len(result.New))
	}
	if len(result.NoteChanges) != 0 {
		t.Errorf("baseline reported %d note changes", len(result.NoteChanges))
	}
	// One entry per distinct key
	if len(result.Next) != 2 {
		t.Errorf("expected 2 snapshot entries, got %d", len(result.Next))
	}
}

func TestDiffUnchangedSecondRun(t *testing.T) {
	a := models.Opportunity{Account: "A", Brand: "X", Product: "P1", Value: 1000, Note: "n1"}

	first := Diff([]models.Opportunity{a}, nil, diffNow)
	second := Diff([]models.Opportunity{a}, first.Next, diffNow)

	if len(second.New) != 0 || len(second.NoteChanges) != 0 {
		t.Errorf("unchanged record reported changes: new=%d notes=%d", len(second.New), len(second.NoteChanges))
	}
}

func TestDiffNewEntity(t *testing.T) {
	a := models.Opportunity{Account: "A", Brand: "X", Product: "P1"}
	c := models.Opportunity{Account: "C", Brand: "Z", Product: "P3", Value: 500}

	result := Diff([]models.Opportunity{a, c}, snapshotOf(a), diffNow)

	if len(result.New) != 1 {
		t.Fatalf("expected 1 new entity, got %d", len(result.New))
	}
	if result.New[0].Account != "C" {
		t.Errorf("new entity = %q, want C", result.New[0].Account)
	}
}

func TestDiffNoteChanged(t *testing.T) {
	prev := models.Opportunity{Account: "A", Brand: "X", Product: "P1", Note: "n1"}
	curr := prev
	curr.Note = "n2"

	result := Diff([]models.Opportunity{curr}, snapshotOf(prev), diffNow)

	if len(result.NoteChanges) != 1 {
		t.Fatalf("expected 1 note change, got %d", len(result.NoteChanges))
	}
	change := result.NoteChanges[0]
	if change.PreviousNote != "n1" || change.NewNote != "n2" {
		t.Errorf("change = %q -> %q, want n1 -> n2", change.PreviousNote, change.NewNote)
	}
}

func TestDiffNoteChangePrecision(t *testing.T) {
	// Non-empty to empty must NOT be reported; empty to non-empty must.
	toEmpty := models.Opportunity{Account: "A", Brand: "X", Product: "P1", Note: "had a note"}
	currEmpty := toEmpty
	currEmpty.Note = ""

	fromEmpty := models.Opportunity{Account: "B", Brand: "Y", Product: "P2", Note: ""}
	currFilled := fromEmpty
	currFilled.Note = "now has a note"

	result := Diff(
		[]models.Opportunity{currEmpty, currFilled},
		snapshotOf(toEmpty, fromEmpty),
		diffNow,
	)

	if len(result.NoteChanges) != 1 {
		t.Fatalf("expected exactly 1 note change, got %d", len(result.NoteChanges))
	}
	if result.NoteChanges[0].Account != "B" {
		t.Errorf("reported change for %q, want B", result.NoteChanges[0].Account)
	}
	if result.NoteChanges[0].PreviousNote != "" {
		t.Errorf("previous note = %q, want empty", result.NoteChanges[0].PreviousNote)
	}
}

func TestDiffSnapshotReplaceNotMerge(t *testing.T) {
	gone := models.Opportunity{Account: "Gone", Brand: "X", Product: "P"}
	kept := models.Opportunity{Account: "Kept", Brand: "Y", Product: "P"}

	result := Diff([]models.Opportunity{kept}, snapshotOf(gone, kept), diffNow)

	if _, present := result.Next[gone.Key()]; present {
		t.Error("entity absent from current survived into next snapshot")
	}
	if _, present := result.Next[kept.Key()]; !present {
		t.Error("current entity missing from next snapshot")
	}
	if len(result.Next) != 1 {
		t.Errorf("expected 1 snapshot entry, got %d", len(result.Next))
	}
}

func TestDiffDeterminism(t *testing.T) {
	current := []models.Opportunity{
		{Account: "A", Brand: "X", Product: "P1", Note: "n2"},
		{Account: "C", Brand: "Z", Product: "P3"},
	}
	prev := snapshotOf(models.Opportunity{Account: "A", Brand: "X", Product: "P1", Note: "n1"})

	first := Diff(current, prev, diffNow)
	second := Diff(current, prev, diffNow)

	if !reflect.DeepEqual(first, second) {
		t.Error("diff is not deterministic for identical inputs")
	}
}

func TestDiffOutputOrderFollowsInput(t *testing.T) {
	prev := snapshotOf(models.Opportunity{Account: "Seen", Brand: "S", Product: "P"})
	current := []models.Opportunity{
		{Account: "N3", Brand: "B", Product: "P"},
		{Account: "N1", Brand: "B", Product: "P"},
		{Account: "N2", Brand: "B", Product: "P"},
	}

	result := Diff(current, prev, diffNow)

	for i, account := range []string{"N3", "N1", "N2"} {
		if result.New[i].Account != account {
			t.Errorf("New[%d] = %q, want %q", i, result.New[i].Account, account)
		}
	}
}

func TestLimit(t *testing.T) {
	list := []int{1, 2, 3, 4, 5}

	if got := Limit(list, 3); len(got) != 3 {
		t.Errorf("Limit(5 items, 3) = %d items", len(got))
	}
	if got := Limit(list, 10); len(got) != 5 {
		t.Errorf("Limit(5 items, 10) = %d items", len(got))
	}
	if got := Limit(list, -1); len(got) != 5 {
		t.Errorf("Limit with negative n should not truncate, got %d", len(got))
	}
}
