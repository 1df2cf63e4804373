package ledger

import (
	"fmt"
	"math"
	"time"
)

// RewardSender is the designated origin of mining reward transactions.
const RewardSender = "network"

// Transaction represents a single value transfer recorded on the ledger.
// It is a plain value type and is never mutated after construction.
type Transaction struct {
	Sender    string  `json:"sender"`
	Recipient string  `json:"recipient"`
	Amount    float64 `json:"amount"`
	Timestamp int64   `json:"timestamp"`
}

// NewTransaction validates the transfer fields and captures the creation time.
func NewTransaction(sender, recipient string, amount float64) (Transaction, error) {
	if sender == "" {
		return Transaction{}, fmt.Errorf("%w: sender must not be empty", ErrInvalidTransaction)
	}
	if recipient == "" {
		return Transaction{}, fmt.Errorf("%w: recipient must not be empty", ErrInvalidTransaction)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Transaction{}, fmt.Errorf("%w: amount must be a finite number", ErrInvalidTransaction)
	}
	if amount <= 0 {
		return Transaction{}, fmt.Errorf("%w: amount must be positive, got %v", ErrInvalidTransaction, amount)
	}

	return Transaction{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
		Timestamp: time.Now().Unix(),
	}, nil
}

// newRewardTransaction builds the miner payout included in every mined block.
// It bypasses NewTransaction so a zero reward remains representable.
func newRewardTransaction(minerAddress string, reward float64) Transaction {
	return Transaction{
		Sender:    RewardSender,
		Recipient: minerAddress,
		Amount:    reward,
		Timestamp: time.Now().Unix(),
	}
}
