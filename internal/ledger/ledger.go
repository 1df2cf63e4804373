package ledger

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Ledger owns the block chain, the pending transaction pool and the mining
// configuration. All access goes through its methods; state is guarded by a
// single lock, and at most one mining operation runs at a time.
type Ledger struct {
	mu      sync.RWMutex
	chain   []*Block
	pending []Transaction

	difficulty   int
	miningReward float64

	// mineMu gates the proof-of-work search so only one Mine call can be
	// in flight per ledger. It is acquired with TryLock: a concurrent
	// attempt is rejected, not queued.
	mineMu sync.Mutex
}

// State is the serializable snapshot of a ledger, matching the persisted
// file shape.
type State struct {
	Chain        []*Block      `json:"chain"`
	Pending      []Transaction `json:"pending_transactions"`
	Difficulty   int           `json:"difficulty"`
	MiningReward float64       `json:"mining_reward"`
}

// Status is a read-only summary of the ledger.
type Status struct {
	BlockCount   int     `json:"blocks"`
	PendingCount int     `json:"pending_transactions"`
	Difficulty   int     `json:"difficulty"`
	MiningReward float64 `json:"mining_reward"`
}

// MinedBlock is the result of a successful Mine call.
type MinedBlock struct {
	Block    *Block
	Duration time.Duration
}

// New creates a fresh ledger containing only the genesis block. The genesis
// block has no transactions, the all-zero previous hash sentinel and nonce 0;
// its hash is computed like any other block but it is exempt from the
// difficulty predicate.
func New(difficulty int, miningReward float64) *Ledger {
	genesis := &Block{
		Index:        0,
		Timestamp:    time.Now().Unix(),
		Transactions: []Transaction{},
		PreviousHash: GenesisPreviousHash,
		Nonce:        0,
	}
	genesis.Hash = genesis.ComputeHash()

	return &Ledger{
		chain:        []*Block{genesis},
		pending:      []Transaction{},
		difficulty:   difficulty,
		miningReward: miningReward,
	}
}

// FromState rebuilds a ledger from a persisted snapshot.
func FromState(s *State) (*Ledger, error) {
	if s == nil || len(s.Chain) == 0 {
		return nil, fmt.Errorf("state has no chain")
	}
	if s.Chain[0].Index != 0 {
		return nil, fmt.Errorf("state chain does not start at the genesis block")
	}

	pending := s.Pending
	if pending == nil {
		pending = []Transaction{}
	}

	return &Ledger{
		chain:        s.Chain,
		pending:      pending,
		difficulty:   s.Difficulty,
		miningReward: s.MiningReward,
	}, nil
}

// Snapshot returns a deep copy of the ledger state for persistence.
func (l *Ledger) Snapshot() *State {
	l.mu.RLock()
	defer l.mu.RUnlock()

	chain := make([]*Block, len(l.chain))
	for i, b := range l.chain {
		blk := *b
		blk.Transactions = append([]Transaction(nil), b.Transactions...)
		chain[i] = &blk
	}

	return &State{
		Chain:        chain,
		Pending:      append([]Transaction{}, l.pending...),
		Difficulty:   l.difficulty,
		MiningReward: l.miningReward,
	}
}

// AddTransaction validates the transfer and appends it to the pending pool.
// It returns the index of the block the transaction is expected to be mined
// into. On validation failure the pool is left unchanged.
func (l *Ledger) AddTransaction(sender, recipient string, amount float64) (int, error) {
	tx, err := NewTransaction(sender, recipient, amount)
	if err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.pending = append(l.pending, tx)
	return len(l.chain), nil
}

// Mine seals the pending transactions plus a reward transaction into a new
// block and appends it to the chain.
//
// The pending pool is snapshotted up front; transactions submitted while the
// proof-of-work search runs stay in the pool for the next round. The search
// itself executes outside the state lock so status and block reads are not
// held up. On cancellation via ctx the ledger is left untouched.
func (l *Ledger) Mine(ctx context.Context, minerAddress string) (*MinedBlock, error) {
	if minerAddress == "" {
		return nil, fmt.Errorf("%w: miner address must not be empty", ErrInvalidTransaction)
	}

	if !l.mineMu.TryLock() {
		return nil, ErrMiningInProgress
	}
	defer l.mineMu.Unlock()

	l.mu.RLock()
	if len(l.pending) == 0 {
		l.mu.RUnlock()
		return nil, ErrNothingToMine
	}
	consumed := len(l.pending)
	txs := make([]Transaction, 0, consumed+1)
	txs = append(txs, l.pending[:consumed]...)
	index := len(l.chain)
	previousHash := l.chain[index-1].Hash
	difficulty := l.difficulty
	reward := l.miningReward
	l.mu.RUnlock()

	txs = append(txs, newRewardTransaction(minerAddress, reward))

	log.Printf("[Ledger] Mining block %d with %d transactions at difficulty %d", index, len(txs), difficulty)

	start := time.Now()
	block, err := SealCandidate(ctx, index, txs, previousHash, difficulty)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	l.mu.Lock()
	defer l.mu.Unlock()

	// The mine gate keeps appends serialized, but the chain may have been
	// replaced underneath us by a reset or restore.
	if len(l.chain) != index || l.chain[index-1].Hash != previousHash {
		return nil, fmt.Errorf("ledger state changed while mining block %d", index)
	}

	l.chain = append(l.chain, block)
	l.pending = append([]Transaction{}, l.pending[consumed:]...)

	log.Printf("[Ledger] Block %d mined in %v, nonce %d, hash %s", block.Index, elapsed, block.Nonce, block.Hash)
	return &MinedBlock{Block: block, Duration: elapsed}, nil
}

// Validate walks the whole chain and recomputes every hash independently of
// mining. It returns nil for a valid chain, or a *ChainError naming the
// first failing block and the violated check.
//
// The proof-of-work check uses the configured difficulty: the difficulty is
// fixed for the lifetime of a chain (changing it replaces the chain), so the
// configured value is the one each block was mined under. Genesis is checked
// for hash self-consistency only.
func (l *Ledger) Validate() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	genesis := l.chain[0]
	if genesis.Index != 0 || genesis.PreviousHash != GenesisPreviousHash {
		return &ChainError{Index: 0, Reason: ReasonMalformedGenesis}
	}
	if genesis.ComputeHash() != genesis.Hash {
		return &ChainError{Index: 0, Reason: ReasonHashMismatch}
	}

	for i := 1; i < len(l.chain); i++ {
		block := l.chain[i]
		if block.ComputeHash() != block.Hash {
			return &ChainError{Index: i, Reason: ReasonHashMismatch}
		}
		if block.PreviousHash != l.chain[i-1].Hash {
			return &ChainError{Index: i, Reason: ReasonBrokenLinkage}
		}
		if !MeetsDifficulty(block.Hash, l.difficulty) {
			return &ChainError{Index: i, Reason: ReasonProofOfWork}
		}
	}
	return nil
}

// Status returns a summary of the ledger. Pure read.
func (l *Ledger) Status() Status {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return Status{
		BlockCount:   len(l.chain),
		PendingCount: len(l.pending),
		Difficulty:   l.difficulty,
		MiningReward: l.miningReward,
	}
}

// Blocks returns a copy of the chain for read-only projection.
func (l *Ledger) Blocks() []*Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return append([]*Block(nil), l.chain...)
}

// Pending returns a copy of the pending transaction pool.
func (l *Ledger) Pending() []Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return append([]Transaction(nil), l.pending...)
}
