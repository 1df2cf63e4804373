package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thanhnp/pow-ledger/internal/api"
	"github.com/thanhnp/pow-ledger/internal/config"
	"github.com/thanhnp/pow-ledger/internal/ledger"
	"github.com/thanhnp/pow-ledger/internal/state"
	"github.com/thanhnp/pow-ledger/internal/storage"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("Starting PoW ledger server...")

	// Restore the ledger from the snapshot file, falling back to a fresh
	// genesis-only ledger when the file is missing or unreadable.
	lgr := loadLedger(cfg)

	// Open the block archive
	log.Printf("Opening block archive at %s", cfg.Archive.Path)
	db, err := storage.NewPebbleDB(cfg.Archive.Path)
	if err != nil {
		log.Fatalf("Failed to open block archive: %v", err)
	}
	blockStore := storage.NewBlockStore(db)

	// Re-archive the restored chain so the archive matches the live state
	if err := blockStore.SaveChain(lgr.Blocks()); err != nil {
		log.Printf("Warning: Failed to archive restored chain: %v", err)
	}

	// Initialize API router
	router := api.NewRouter(lgr, cfg.State.Path, blockStore)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Engine(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // mining requests can run long
		IdleTimeout:  120 * time.Second,
	}

	// Start HTTP server in goroutine
	go func() {
		log.Printf("HTTP server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Persist whichever ledger is live once requests have drained
	if err := state.Save(cfg.State.Path, router.Ledger().Ledger().Snapshot()); err != nil {
		log.Printf("Failed to save ledger state: %v", err)
	} else {
		log.Printf("Ledger state saved to %s", cfg.State.Path)
	}

	if err := db.Close(); err != nil {
		log.Printf("Error closing block archive: %v", err)
	}

	log.Println("Server stopped")
}

func loadLedger(cfg *config.Config) *ledger.Ledger {
	snapshot, err := state.Load(cfg.State.Path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("No saved ledger at %s, initializing a new one", cfg.State.Path)
		} else if errors.Is(err, state.ErrCorruptState) {
			log.Printf("Warning: %v, initializing a new ledger", err)
		} else {
			log.Printf("Warning: Failed to load ledger state: %v, initializing a new ledger", err)
		}
		return ledger.New(cfg.Ledger.Difficulty, cfg.Ledger.MiningReward)
	}

	lgr, err := ledger.FromState(snapshot)
	if err != nil {
		log.Printf("Warning: Rejected saved ledger state: %v, initializing a new ledger", err)
		return ledger.New(cfg.Ledger.Difficulty, cfg.Ledger.MiningReward)
	}

	status := lgr.Status()
	log.Printf("Restored ledger from %s: %d blocks, %d pending transactions", cfg.State.Path, status.BlockCount, status.PendingCount)
	return lgr
}
