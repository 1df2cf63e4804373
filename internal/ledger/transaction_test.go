package ledger

import (
	"errors"
	"math"
	"testing"
)

func TestNewTransaction(t *testing.T) {
	tests := []struct {
		name      string
		sender    string
		recipient string
		amount    float64
		wantErr   bool
	}{
		{
			name:      "valid transaction",
			sender:    "alice",
			recipient: "bob",
			amount:    5,
			wantErr:   false,
		},
		{
			name:      "empty sender",
			sender:    "",
			recipient: "bob",
			amount:    5,
			wantErr:   true,
		},
		{
			name:      "empty recipient",
			sender:    "alice",
			recipient: "",
			amount:    5,
			wantErr:   true,
		},
		{
			name:      "negative amount",
			sender:    "alice",
			recipient: "bob",
			amount:    -1,
			wantErr:   true,
		},
		{
			name:      "zero amount",
			sender:    "alice",
			recipient: "bob",
			amount:    0,
			wantErr:   true,
		},
		{
			name:      "NaN amount",
			sender:    "alice",
			recipient: "bob",
			amount:    math.NaN(),
			wantErr:   true,
		},
		{
			name:      "infinite amount",
			sender:    "alice",
			recipient: "bob",
			amount:    math.Inf(1),
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := NewTransaction(tt.sender, tt.recipient, tt.amount)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewTransaction() expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidTransaction) {
					t.Errorf("NewTransaction() error = %v, want ErrInvalidTransaction", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("NewTransaction() unexpected error = %v", err)
			}
			if tx.Sender != tt.sender || tx.Recipient != tt.recipient || tx.Amount != tt.amount {
				t.Errorf("NewTransaction() = %+v, want fields %q %q %v", tx, tt.sender, tt.recipient, tt.amount)
			}
			if tx.Timestamp == 0 {
				t.Errorf("NewTransaction() did not capture a timestamp")
			}
		})
	}
}

func TestNewRewardTransaction(t *testing.T) {
	tx := newRewardTransaction("miner-1", 100)

	if tx.Sender != RewardSender {
		t.Errorf("reward sender = %q, want %q", tx.Sender, RewardSender)
	}
	if tx.Recipient != "miner-1" {
		t.Errorf("reward recipient = %q, want %q", tx.Recipient, "miner-1")
	}
	if tx.Amount != 100 {
		t.Errorf("reward amount = %v, want 100", tx.Amount)
	}
}
