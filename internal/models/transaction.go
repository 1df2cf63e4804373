package models

import "github.com/thanhnp/pow-ledger/internal/ledger"

// TransactionView is the API projection of a transaction.
type TransactionView struct {
	Sender    string  `json:"sender"`
	Recipient string  `json:"recipient"`
	Amount    float64 `json:"amount"`
	Timestamp int64   `json:"timestamp"`
}

// NewTransactionView converts a ledger transaction at the API boundary.
func NewTransactionView(tx ledger.Transaction) TransactionView {
	return TransactionView{
		Sender:    tx.Sender,
		Recipient: tx.Recipient,
		Amount:    tx.Amount,
		Timestamp: tx.Timestamp,
	}
}

// NewTransactionViews converts a pending pool projection.
func NewTransactionViews(txs []ledger.Transaction) []TransactionView {
	views := make([]TransactionView, len(txs))
	for i, tx := range txs {
		views[i] = NewTransactionView(tx)
	}
	return views
}
