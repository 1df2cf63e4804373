// Package state persists ledger snapshots as JSON files. Writes are atomic:
// the snapshot is written to a temporary file in the target directory and
// renamed into place, so a crash mid-write never leaves a torn file.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/thanhnp/pow-ledger/internal/ledger"
)

// ErrCorruptState reports a state file that exists but cannot be decoded.
var ErrCorruptState = errors.New("corrupt state file")

// Save writes the snapshot to path atomically.
func Save(path string, s *ledger.State) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close state file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// Load reads a snapshot from path. A missing file is reported as
// os.ErrNotExist; a file that cannot be decoded as ErrCorruptState. Callers
// fall back to a fresh genesis-only ledger in both cases.
func Load(path string) (*ledger.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var s ledger.State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if len(s.Chain) == 0 {
		return nil, fmt.Errorf("%w: empty chain", ErrCorruptState)
	}
	return &s, nil
}
