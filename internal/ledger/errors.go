package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransaction reports a rejected transaction submission.
	ErrInvalidTransaction = errors.New("invalid transaction")

	// ErrNothingToMine reports a mining attempt with an empty pending pool.
	ErrNothingToMine = errors.New("no pending transactions to mine")

	// ErrMiningInProgress reports a mining attempt while another one is running.
	ErrMiningInProgress = errors.New("mining already in progress")
)

// Chain validation failure reasons.
const (
	ReasonHashMismatch     = "hash mismatch"
	ReasonBrokenLinkage    = "previous hash linkage mismatch"
	ReasonProofOfWork      = "proof of work not satisfied"
	ReasonMalformedGenesis = "malformed genesis block"
)

// ChainError reports the first block at which chain validation failed.
type ChainError struct {
	Index  int
	Reason string
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("chain invalid at block %d: %s", e.Index, e.Reason)
}
