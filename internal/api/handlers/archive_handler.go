package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/thanhnp/pow-ledger/internal/models"
	"github.com/thanhnp/pow-ledger/internal/storage"
)

// ArchiveHandler serves block lookups from the durable archive
type ArchiveHandler struct {
	blockStore *storage.BlockStore
}

// NewArchiveHandler creates a new ArchiveHandler
func NewArchiveHandler(blockStore *storage.BlockStore) *ArchiveHandler {
	return &ArchiveHandler{
		blockStore: blockStore,
	}
}

// GetByHash returns an archived block by its hash
// GET /api/v1/archive/blocks/:hash
func (h *ArchiveHandler) GetByHash(c *gin.Context) {
	hash := c.Param("hash")

	block, err := h.blockStore.GetByHash(hash)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if block == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Block not found"})
		return
	}

	c.JSON(http.StatusOK, models.NewBlockView(block))
}

// GetByHeight returns an archived block by its height
// GET /api/v1/archive/blocks/height/:height
func (h *ArchiveHandler) GetByHeight(c *gin.Context) {
	heightStr := c.Param("height")

	height, err := strconv.Atoi(heightStr)
	if err != nil || height < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid height"})
		return
	}

	block, err := h.blockStore.GetByHeight(height)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if block == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Block not found"})
		return
	}

	c.JSON(http.StatusOK, models.NewBlockView(block))
}

// GetLatest returns the most recently archived block
// GET /api/v1/archive/blocks/latest
func (h *ArchiveHandler) GetLatest(c *gin.Context) {
	block, err := h.blockStore.GetLatest()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if block == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No blocks found"})
		return
	}

	c.JSON(http.StatusOK, models.NewBlockView(block))
}
