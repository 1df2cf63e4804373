package handlers

import (
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/thanhnp/pow-ledger/internal/ledger"
	"github.com/thanhnp/pow-ledger/internal/models"
	"github.com/thanhnp/pow-ledger/internal/state"
	"github.com/thanhnp/pow-ledger/internal/storage"
)

// LedgerHandler handles ledger API requests. It owns the live ledger handle:
// the create endpoint swaps in a replacement chain, every other endpoint
// operates on the current one.
type LedgerHandler struct {
	mu        sync.RWMutex
	ledger    *ledger.Ledger
	statePath string
	archive   *storage.BlockStore
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(l *ledger.Ledger, statePath string, archive *storage.BlockStore) *LedgerHandler {
	return &LedgerHandler{
		ledger:    l,
		statePath: statePath,
		archive:   archive,
	}
}

// Ledger returns the current ledger handle.
func (h *LedgerHandler) Ledger() *ledger.Ledger {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ledger
}

type createRequest struct {
	Difficulty   int     `json:"difficulty"`
	MiningReward float64 `json:"mining_reward"`
}

// Create replaces the in-memory chain with a fresh genesis-only ledger
// POST /api/v1/ledger
func (h *LedgerHandler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	if req.Difficulty < 1 || req.Difficulty > 6 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Difficulty must be between 1 and 6"})
		return
	}
	if req.MiningReward <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Mining reward must be positive"})
		return
	}

	fresh := ledger.New(req.Difficulty, req.MiningReward)
	if err := state.Save(h.statePath, fresh.Snapshot()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	if err := h.archive.SaveChain(fresh.Blocks()); err != nil {
		log.Printf("[API] Failed to reset block archive: %v", err)
	}

	h.mu.Lock()
	h.ledger = fresh
	h.mu.Unlock()

	log.Printf("[API] Ledger reinitialized with difficulty %d, mining reward %v", req.Difficulty, req.MiningReward)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  fresh.Status(),
	})
}

// GetStatus returns the ledger summary
// GET /api/v1/ledger/status
func (h *LedgerHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.Ledger().Status())
}

// GetBlocks returns the full chain as block views
// GET /api/v1/ledger/blocks
func (h *LedgerHandler) GetBlocks(c *gin.Context) {
	c.JSON(http.StatusOK, models.NewBlockViews(h.Ledger().Blocks()))
}

// GetPending returns the pending transaction pool
// GET /api/v1/ledger/pending
func (h *LedgerHandler) GetPending(c *gin.Context) {
	c.JSON(http.StatusOK, models.NewTransactionViews(h.Ledger().Pending()))
}

type addTransactionRequest struct {
	Sender    string  `json:"sender"`
	Recipient string  `json:"recipient"`
	Amount    float64 `json:"amount"`
}

// AddTransaction submits a transfer to the pending pool
// POST /api/v1/ledger/transactions
func (h *LedgerHandler) AddTransaction(c *gin.Context) {
	var req addTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	nextIndex, err := h.Ledger().AddTransaction(req.Sender, req.Recipient, req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "next_block_index": nextIndex})
}

type mineRequest struct {
	MinerAddress string `json:"miner_address"`
}

// Mine seals the pending pool into a new block
// POST /api/v1/ledger/mine
func (h *LedgerHandler) Mine(c *gin.Context) {
	var req mineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	mined, err := h.Ledger().Mine(c.Request.Context(), req.MinerAddress)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrNothingToMine), errors.Is(err, ledger.ErrInvalidTransaction):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		case errors.Is(err, ledger.ErrMiningInProgress):
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		}
		return
	}

	// The archive trails the chain; a failed write is logged, not fatal.
	if err := h.archive.Save(mined.Block); err != nil {
		log.Printf("[API] Failed to archive block %d: %v", mined.Block.Index, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  models.NewMineResult(mined),
	})
}

// Validate walks the chain and reports the first integrity failure
// GET /api/v1/ledger/validate
func (h *LedgerHandler) Validate(c *gin.Context) {
	err := h.Ledger().Validate()
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"valid": true})
		return
	}

	resp := gin.H{"valid": false, "error": err.Error()}
	var chainErr *ledger.ChainError
	if errors.As(err, &chainErr) {
		resp["index"] = chainErr.Index
		resp["reason"] = chainErr.Reason
	}
	c.JSON(http.StatusOK, resp)
}

// Save persists the current ledger snapshot
// POST /api/v1/ledger/save
func (h *LedgerHandler) Save(c *gin.Context) {
	if err := state.Save(h.statePath, h.Ledger().Snapshot()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
