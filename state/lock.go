// ABOUTME: Advisory single-instance lock for the state directory
// ABOUTME: Guards snapshot and ledger files against two concurrent processes
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Lock is an advisory lockfile holding the owning pid. Snapshot and
// ledger are read-once/write-once per cycle by a single process; the
// lock keeps a second instance from corrupting either file.
type Lock struct {
	path string
}

// AcquireLock creates the lockfile exclusively. If it already exists
// the error names the pid recorded inside so the operator can decide.
func AcquireLock(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			holder, _ := os.ReadFile(path)
			return nil, fmt.Errorf("another instance appears to be running (lock %s held by pid %s)", path, string(holder))
		}
		return nil, fmt.Errorf("failed to create lock: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to write lock: %w", err)
	}

	return &Lock{path: path}, nil
}

// Release removes the lockfile.
func (l *Lock) Release() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}
