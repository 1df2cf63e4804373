package api

import (
	"github.com/gin-gonic/gin"

	"github.com/thanhnp/pow-ledger/internal/api/handlers"
	"github.com/thanhnp/pow-ledger/internal/api/middleware"
	"github.com/thanhnp/pow-ledger/internal/ledger"
	"github.com/thanhnp/pow-ledger/internal/storage"
)

// Router wraps the Gin router with handlers
type Router struct {
	engine         *gin.Engine
	ledgerHandler  *handlers.LedgerHandler
	archiveHandler *handlers.ArchiveHandler
}

// NewRouter creates a new Router with all handlers
func NewRouter(l *ledger.Ledger, statePath string, blockStore *storage.BlockStore) *Router {
	gin.SetMode(gin.ReleaseMode)

	r := &Router{
		engine:         gin.New(),
		ledgerHandler:  handlers.NewLedgerHandler(l, statePath, blockStore),
		archiveHandler: handlers.NewArchiveHandler(blockStore),
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// setupMiddleware configures middleware
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.Logger())
	r.engine.Use(middleware.CORS())
}

// setupRoutes configures API routes
func (r *Router) setupRoutes() {
	// Health check
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := r.engine.Group("/api/v1")
	{
		// Ledger routes
		lg := v1.Group("/ledger")
		{
			lg.POST("", r.ledgerHandler.Create)
			lg.GET("/status", r.ledgerHandler.GetStatus)
			lg.GET("/blocks", r.ledgerHandler.GetBlocks)
			lg.GET("/pending", r.ledgerHandler.GetPending)
			lg.POST("/transactions", r.ledgerHandler.AddTransaction)
			lg.POST("/mine", r.ledgerHandler.Mine)
			lg.GET("/validate", r.ledgerHandler.Validate)
			lg.POST("/save", r.ledgerHandler.Save)
		}

		// Archive routes
		blocks := v1.Group("/archive/blocks")
		{
			blocks.GET("/latest", r.archiveHandler.GetLatest)
			blocks.GET("/height/:height", r.archiveHandler.GetByHeight)
			blocks.GET("/:hash", r.archiveHandler.GetByHash)
		}
	}
}

// Engine returns the underlying Gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Ledger returns the handler owning the live ledger handle
func (r *Router) Ledger() *handlers.LedgerHandler {
	return r.ledgerHandler
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
