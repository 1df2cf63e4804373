package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("default server port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Ledger.Difficulty != 2 {
		t.Errorf("default difficulty = %d, want 2", cfg.Ledger.Difficulty)
	}
	if cfg.Ledger.MiningReward != 100.0 {
		t.Errorf("default mining reward = %v, want 100", cfg.Ledger.MiningReward)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
  host: "127.0.0.1"
state:
  path: "/tmp/ledger.json"
ledger:
  difficulty: 3
  mining_reward: 25.5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() unexpected error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}

	if cfg.Server.Port != 9090 || cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server config = %+v, want port 9090 host 127.0.0.1", cfg.Server)
	}
	if cfg.State.Path != "/tmp/ledger.json" {
		t.Errorf("state path = %q, want /tmp/ledger.json", cfg.State.Path)
	}
	if cfg.Ledger.Difficulty != 3 || cfg.Ledger.MiningReward != 25.5 {
		t.Errorf("ledger config = %+v, want difficulty 3 reward 25.5", cfg.Ledger)
	}
	// Unset sections keep their defaults
	if cfg.Archive.Path != "./data/pebble" {
		t.Errorf("archive path = %q, want default", cfg.Archive.Path)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("LEDGER_DIFFICULTY", "4")
	t.Setenv("LEDGER_MINING_REWARD", "12.5")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("server port = %d, want env override 7070", cfg.Server.Port)
	}
	if cfg.Ledger.Difficulty != 4 {
		t.Errorf("difficulty = %d, want env override 4", cfg.Ledger.Difficulty)
	}
	if cfg.Ledger.MiningReward != 12.5 {
		t.Errorf("mining reward = %v, want env override 12.5", cfg.Ledger.MiningReward)
	}
}

func TestLoadRejectsNegativeSettings(t *testing.T) {
	t.Setenv("LEDGER_DIFFICULTY", "-1")

	if _, err := Load(""); err == nil {
		t.Errorf("Load() with negative difficulty expected error, got nil")
	}
}
