// ABOUTME: Snapshot diff engine classifying opportunities as new, note-changed, or unchanged
// ABOUTME: Produces the full replacement snapshot alongside untruncated change lists
package crm

import (
	"time"

	"github.com/harperreed/crmdigest/models"
)

// DiffResult is the outcome of diffing a cycle's opportunities against
// the previous snapshot. New and NoteChanges preserve input order and
// are never truncated here; Limit exists for presentation.
type DiffResult struct {
	New         []models.Opportunity
	NoteChanges []models.NoteChange
	Next        map[string]models.SnapshotEntry
}

// Diff compares current opportunities with the previous snapshot.
//
// An empty previous snapshot is the baseline case: the next snapshot is
// built from current and no changes are reported, whatever the content.
// Otherwise each current opportunity is classified: key absent from the
// snapshot means new; key present with a differing, non-empty note means
// a note change. A note transitioning to empty is deliberately not
// reported; only substantive new notes trigger an alert.
//
// Next is always a full replacement keyed by entity key. Entities absent
// from current this cycle vanish from the snapshot.
func Diff(current []models.Opportunity, previous map[string]models.SnapshotEntry, now time.Time) DiffResult {
	result := DiffResult{
		Next: make(map[string]models.SnapshotEntry, len(current)),
	}

	baseline := len(previous) == 0

	for _, opp := range current {
		key := opp.Key()
		result.Next[key] = models.SnapshotEntry{Opportunity: opp, RecordedAt: now}

		if baseline {
			continue
		}

		prev, seen := previous[key]
		if !seen {
			result.New = append(result.New, opp)
			continue
		}

		if opp.Note != prev.Note && opp.Note != "" {
			result.NoteChanges = append(result.NoteChanges, models.NoteChange{
				Opportunity:  opp,
				PreviousNote: prev.Note,
				NewNote:      opp.Note,
			})
		}
	}

	return result
}

// Limit returns at most n elements of list for display. Callers report
// totals from the untruncated lists.
func Limit[T any](list []T, n int) []T {
	if n < 0 || len(list) <= n {
		return list
	}
	return list[:n]
}
