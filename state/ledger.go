// ABOUTME: Durable set of processed message identifiers
// ABOUTME: Prevents duplicate report dispatch; persists synchronously on every mark
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Ledger tracks which inbound messages have completed processing. The
// file is a JSON array of opaque message-id strings. There is no
// eviction; growth is accepted at mailbox volume.
type Ledger struct {
	path string
	ids  map[string]struct{}
}

// OpenLedger loads the ledger from disk. A missing file yields an
// empty ledger; a corrupt file is an error the caller must decide on.
func OpenLedger(path string) (*Ledger, error) {
	l := &Ledger{path: path, ids: make(map[string]struct{})}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to parse ledger: %w", err)
	}
	for _, id := range ids {
		l.ids[id] = struct{}{}
	}
	return l, nil
}

// IsProcessed reports whether the message id completed processing in a
// previous cycle (or earlier in this one).
func (l *Ledger) IsProcessed(id string) bool {
	_, ok := l.ids[id]
	return ok
}

// MarkProcessed records the id and persists before returning. A crash
// before the write repeats work next cycle; it never silently drops it.
func (l *Ledger) MarkProcessed(id string) error {
	l.ids[id] = struct{}{}
	return l.save()
}

// Len returns the number of recorded ids.
func (l *Ledger) Len() int {
	return len(l.ids)
}

func (l *Ledger) save() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	ids := make([]string, 0, len(l.ids))
	for id := range l.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids) // stable file content for inspection and diffing

	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return fmt.Errorf("failed to replace ledger: %w", err)
	}
	return nil
}
