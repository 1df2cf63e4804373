package models

import "github.com/thanhnp/pow-ledger/internal/ledger"

// MineResult is the API projection of a successful mining operation.
type MineResult struct {
	Block      BlockView `json:"block"`
	DurationMS float64   `json:"mining_duration_ms"`
}

// NewMineResult converts a mined block plus its elapsed search time.
func NewMineResult(m *ledger.MinedBlock) MineResult {
	return MineResult{
		Block:      NewBlockView(m.Block),
		DurationMS: float64(m.Duration.Microseconds()) / 1000.0,
	}
}
