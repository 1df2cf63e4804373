package state

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/thanhnp/pow-ledger/internal/ledger"
)

func testState(t *testing.T) *ledger.State {
	t.Helper()

	l := ledger.New(1, 100)
	if _, err := l.AddTransaction("alice", "bob", 50); err != nil {
		t.Fatalf("AddTransaction() unexpected error = %v", err)
	}
	if _, err := l.Mine(context.Background(), "miner-1"); err != nil {
		t.Fatalf("Mine() unexpected error = %v", err)
	}
	if _, err := l.AddTransaction("bob", "charlie", 20); err != nil {
		t.Fatalf("AddTransaction() unexpected error = %v", err)
	}
	return l.Snapshot()
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	original := testState(t)

	if err := Save(path, original); err != nil {
		t.Fatalf("Save() unexpected error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}
	if !reflect.DeepEqual(loaded, original) {
		t.Errorf("loaded state differs from saved state")
	}

	// Re-saving the loaded state must reproduce the file byte for byte.
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() unexpected error = %v", err)
	}
	if err := Save(path, loaded); err != nil {
		t.Fatalf("Save() unexpected error = %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() unexpected error = %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("persisted representation is not stable across a save/load cycle")
	}
}

func TestSaveLeavesNoTemporaryFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.json")

	if err := Save(path, testState(t)); err != nil {
		t.Fatalf("Save() unexpected error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() unexpected error = %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp") {
			t.Errorf("temporary file %q left behind after Save()", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("state directory has %d entries, want 1", len(entries))
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data", "ledger.json")

	if err := Save(path, testState(t)); err != nil {
		t.Fatalf("Save() unexpected error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("state file missing after Save(): %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if !os.IsNotExist(err) {
		t.Errorf("Load() on missing file = %v, want not-exist error", err)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "this is not json"},
		{"wrong shape", `{"chain": "nope"}`},
		{"empty chain", `{"chain": [], "pending_transactions": [], "difficulty": 2, "mining_reward": 100}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "ledger.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("WriteFile() unexpected error = %v", err)
			}

			_, err := Load(path)
			if !errors.Is(err, ErrCorruptState) {
				t.Errorf("Load() = %v, want ErrCorruptState", err)
			}
		})
	}
}
