package storage

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/thanhnp/pow-ledger/internal/ledger"
)

// BlockStore is a durable archive of sealed blocks, indexed by hash and by
// height. It trails the in-memory chain: every mined block is recorded here
// and the whole chain is re-archived on startup.
type BlockStore struct {
	db *PebbleDB
}

// NewBlockStore creates a new BlockStore
func NewBlockStore(db *PebbleDB) *BlockStore {
	return &BlockStore{db: db}
}

var metaLatestKey = []byte("latest_height")

// blockHeightKey creates a key for the blocks_by_height column family
func blockHeightKey(height int) []byte {
	return []byte(fmt.Sprintf("%012d", height))
}

// Save records a sealed block under both indexes and advances the latest
// height marker when the block extends the archive.
func (s *BlockStore) Save(block *ledger.Block) error {
	data, err := json.Marshal(block)
	if err != nil {
		return fmt.Errorf("failed to marshal block: %w", err)
	}

	batch := s.db.NewBatch()
	defer batch.Destroy()

	if err := s.db.PutBatch(batch, CFBlocks, []byte(block.Hash), data); err != nil {
		return err
	}
	if err := s.db.PutBatch(batch, CFBlocksByHeight, blockHeightKey(block.Index), []byte(block.Hash)); err != nil {
		return err
	}

	latest, err := s.latestHeight()
	if err != nil {
		return err
	}
	if latest < 0 || block.Index > latest {
		if err := s.db.PutBatch(batch, CFMeta, metaLatestKey, []byte(strconv.Itoa(block.Index))); err != nil {
			return err
		}
	}

	return s.db.WriteBatch(batch)
}

// SaveChain resets the archive and records the whole chain in one batch.
// Used on startup restore and when a chain is replaced.
func (s *BlockStore) SaveChain(blocks []*ledger.Block) error {
	for _, cf := range []string{CFBlocks, CFBlocksByHeight, CFMeta} {
		if err := s.db.ResetCF(cf); err != nil {
			return fmt.Errorf("failed to reset archive: %w", err)
		}
	}

	batch := s.db.NewBatch()
	defer batch.Destroy()

	latest := -1
	for _, block := range blocks {
		data, err := json.Marshal(block)
		if err != nil {
			return fmt.Errorf("failed to marshal block: %w", err)
		}
		if err := s.db.PutBatch(batch, CFBlocks, []byte(block.Hash), data); err != nil {
			return err
		}
		if err := s.db.PutBatch(batch, CFBlocksByHeight, blockHeightKey(block.Index), []byte(block.Hash)); err != nil {
			return err
		}
		if block.Index > latest {
			latest = block.Index
		}
	}
	if latest >= 0 {
		if err := s.db.PutBatch(batch, CFMeta, metaLatestKey, []byte(strconv.Itoa(latest))); err != nil {
			return err
		}
	}

	return s.db.WriteBatch(batch)
}

// GetByHash retrieves a block by its hash
func (s *BlockStore) GetByHash(hash string) (*ledger.Block, error) {
	data, err := s.db.Get(CFBlocks, []byte(hash))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var block ledger.Block
	if err := json.Unmarshal(data, &block); err != nil {
		return nil, fmt.Errorf("failed to unmarshal block: %w", err)
	}
	return &block, nil
}

// GetByHeight retrieves a block by its height
func (s *BlockStore) GetByHeight(height int) (*ledger.Block, error) {
	hashData, err := s.db.Get(CFBlocksByHeight, blockHeightKey(height))
	if err != nil {
		return nil, err
	}
	if hashData == nil {
		return nil, nil
	}

	return s.GetByHash(string(hashData))
}

// GetLatest retrieves the most recently archived block
func (s *BlockStore) GetLatest() (*ledger.Block, error) {
	latest, err := s.latestHeight()
	if err != nil {
		return nil, err
	}
	if latest < 0 {
		return nil, nil
	}

	return s.GetByHeight(latest)
}

func (s *BlockStore) latestHeight() (int, error) {
	data, err := s.db.Get(CFMeta, metaLatestKey)
	if err != nil {
		return 0, err
	}
	if data == nil {
		return -1, nil
	}

	height, err := strconv.Atoi(string(data))
	if err != nil {
		return 0, fmt.Errorf("failed to parse latest height: %w", err)
	}
	return height, nil
}
