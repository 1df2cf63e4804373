package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"
)

// GenesisPreviousHash is the sentinel previous-hash of the genesis block,
// an all-zero 256-bit digest in lowercase hex.
const GenesisPreviousHash = "0000000000000000000000000000000000000000000000000000000000000000"

// cancelCheckInterval is the number of nonce attempts between context checks
// during the proof-of-work search.
const cancelCheckInterval = 4096

// Block is a sealed batch of transactions plus chain linkage and
// proof-of-work metadata. Once appended to a chain it is never mutated.
type Block struct {
	Index        int           `json:"index"`
	Timestamp    int64         `json:"timestamp"`
	Transactions []Transaction `json:"transactions"`
	PreviousHash string        `json:"previous_hash"`
	Nonce        int           `json:"nonce"`
	Hash         string        `json:"hash"`
}

// hashPayload is the canonical encoding of a block for hashing. Field order
// is fixed (JSON keys in lexicographic order, matching a sorted-keys encoder)
// so the same block content always produces the same digest, across processes
// and implementations.
type hashPayload struct {
	Index        int         `json:"index"`
	Nonce        int         `json:"nonce"`
	PreviousHash string      `json:"previous_hash"`
	Timestamp    int64       `json:"timestamp"`
	Transactions []txPayload `json:"transactions"`
}

type txPayload struct {
	Amount    float64 `json:"amount"`
	Recipient string  `json:"recipient"`
	Sender    string  `json:"sender"`
	Timestamp int64   `json:"timestamp"`
}

// ComputeHash returns the SHA-256 digest of the block's canonical encoding
// as lowercase hex. It is a pure function of the block's content; the stored
// Hash field does not participate.
func (b *Block) ComputeHash() string {
	payload := hashPayload{
		Index:        b.Index,
		Nonce:        b.Nonce,
		PreviousHash: b.PreviousHash,
		Timestamp:    b.Timestamp,
		Transactions: make([]txPayload, len(b.Transactions)),
	}
	for i, tx := range b.Transactions {
		payload.Transactions[i] = txPayload{
			Amount:    tx.Amount,
			Recipient: tx.Recipient,
			Sender:    tx.Sender,
			Timestamp: tx.Timestamp,
		}
	}

	// Marshal of a fixed struct cannot fail.
	data, _ := json.Marshal(payload)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// MeetsDifficulty reports whether hash has at least difficulty leading
// zero hex characters.
func MeetsDifficulty(hash string, difficulty int) bool {
	if difficulty <= 0 {
		return true
	}
	if difficulty > len(hash) {
		return false
	}
	return strings.HasPrefix(hash, strings.Repeat("0", difficulty))
}

// SealCandidate constructs a candidate block and runs the proof-of-work
// search: starting from nonce 0, the hash is recomputed for successive
// nonces until it meets the difficulty. The block timestamp is fixed once
// at candidate creation and does not change across attempts.
//
// The search has no nonce ceiling. Cancellation via ctx is best-effort:
// the context is polled between batches of attempts, and on cancellation
// the partial candidate is discarded.
func SealCandidate(ctx context.Context, index int, txs []Transaction, previousHash string, difficulty int) (*Block, error) {
	block := &Block{
		Index:        index,
		Timestamp:    time.Now().Unix(),
		Transactions: txs,
		PreviousHash: previousHash,
		Nonce:        0,
	}

	for attempts := 0; ; attempts++ {
		if attempts%cancelCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		hash := block.ComputeHash()
		if MeetsDifficulty(hash, difficulty) {
			block.Hash = hash
			return block, nil
		}
		block.Nonce++
	}
}
