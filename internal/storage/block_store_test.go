package storage

import (
	"context"
	"reflect"
	"testing"

	"github.com/thanhnp/pow-ledger/internal/ledger"
)

func testStore(t *testing.T) (*PebbleDB, *BlockStore) {
	t.Helper()

	db, err := NewPebbleDB(t.TempDir())
	if err != nil {
		t.Fatalf("NewPebbleDB() unexpected error = %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() unexpected error = %v", err)
		}
	})
	return db, NewBlockStore(db)
}

func minedChain(t *testing.T) []*ledger.Block {
	t.Helper()

	l := ledger.New(1, 100)
	if _, err := l.AddTransaction("alice", "bob", 10); err != nil {
		t.Fatalf("AddTransaction() unexpected error = %v", err)
	}
	if _, err := l.Mine(context.Background(), "miner-1"); err != nil {
		t.Fatalf("Mine() unexpected error = %v", err)
	}
	return l.Blocks()
}

func TestBlockStoreSaveAndGet(t *testing.T) {
	_, store := testStore(t)
	chain := minedChain(t)

	for _, block := range chain {
		if err := store.Save(block); err != nil {
			t.Fatalf("Save() unexpected error = %v", err)
		}
	}

	byHash, err := store.GetByHash(chain[1].Hash)
	if err != nil {
		t.Fatalf("GetByHash() unexpected error = %v", err)
	}
	if !reflect.DeepEqual(byHash, chain[1]) {
		t.Errorf("GetByHash() = %+v, want %+v", byHash, chain[1])
	}

	byHeight, err := store.GetByHeight(0)
	if err != nil {
		t.Fatalf("GetByHeight() unexpected error = %v", err)
	}
	if !reflect.DeepEqual(byHeight, chain[0]) {
		t.Errorf("GetByHeight(0) = %+v, want genesis", byHeight)
	}

	latest, err := store.GetLatest()
	if err != nil {
		t.Fatalf("GetLatest() unexpected error = %v", err)
	}
	if latest == nil || latest.Index != 1 {
		t.Errorf("GetLatest() = %+v, want block at height 1", latest)
	}
}

func TestBlockStoreGetMissing(t *testing.T) {
	_, store := testStore(t)

	block, err := store.GetByHash("deadbeef")
	if err != nil {
		t.Fatalf("GetByHash() unexpected error = %v", err)
	}
	if block != nil {
		t.Errorf("GetByHash() on empty store = %+v, want nil", block)
	}

	latest, err := store.GetLatest()
	if err != nil {
		t.Fatalf("GetLatest() unexpected error = %v", err)
	}
	if latest != nil {
		t.Errorf("GetLatest() on empty store = %+v, want nil", latest)
	}
}

func TestBlockStoreSaveChainResets(t *testing.T) {
	_, store := testStore(t)
	oldChain := minedChain(t)

	if err := store.SaveChain(oldChain); err != nil {
		t.Fatalf("SaveChain() unexpected error = %v", err)
	}

	freshChain := ledger.New(1, 100).Blocks()
	if err := store.SaveChain(freshChain); err != nil {
		t.Fatalf("SaveChain() unexpected error = %v", err)
	}

	// Entries from the replaced chain are gone.
	stale, err := store.GetByHash(oldChain[1].Hash)
	if err != nil {
		t.Fatalf("GetByHash() unexpected error = %v", err)
	}
	if stale != nil {
		t.Errorf("replaced chain block still archived: %+v", stale)
	}

	latest, err := store.GetLatest()
	if err != nil {
		t.Fatalf("GetLatest() unexpected error = %v", err)
	}
	if latest == nil || latest.Index != 0 {
		t.Errorf("GetLatest() after reset = %+v, want genesis", latest)
	}
}
