package models

import "github.com/thanhnp/pow-ledger/internal/ledger"

// BlockView is the API projection of a sealed block.
type BlockView struct {
	Index        int               `json:"index"`
	Timestamp    int64             `json:"timestamp"`
	Transactions []TransactionView `json:"transactions"`
	PreviousHash string            `json:"previous_hash"`
	Nonce        int               `json:"nonce"`
	Hash         string            `json:"hash"`
}

// NewBlockView converts a ledger block at the API boundary.
func NewBlockView(b *ledger.Block) BlockView {
	txs := make([]TransactionView, len(b.Transactions))
	for i, tx := range b.Transactions {
		txs[i] = NewTransactionView(tx)
	}
	return BlockView{
		Index:        b.Index,
		Timestamp:    b.Timestamp,
		Transactions: txs,
		PreviousHash: b.PreviousHash,
		Nonce:        b.Nonce,
		Hash:         b.Hash,
	}
}

// NewBlockViews converts a chain projection.
func NewBlockViews(blocks []*ledger.Block) []BlockView {
	views := make([]BlockView, len(blocks))
	for i, b := range blocks {
		views[i] = NewBlockView(b)
	}
	return views
}
