package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Session.StartingCash != 10000 {
		t.Fatalf("starting cash got %v", cfg.Session.StartingCash)
	}
	if cfg.Session.Players != 1 {
		t.Fatalf("players got %d", cfg.Session.Players)
	}
	if cfg.Session.RunFor != 10*time.Second {
		t.Fatalf("run duration got %v", cfg.Session.RunFor)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PAPERTRADE_STARTING_CASH", "25000")
	t.Setenv("PAPERTRADE_PLAYERS", "3")
	t.Setenv("PAPERTRADE_RUN_SECONDS", "30")
	t.Setenv("PAPERTRADE_DATA", "prices.csv")

	cfg := Load()

	if cfg.Session.StartingCash != 25000 {
		t.Fatalf("starting cash got %v", cfg.Session.StartingCash)
	}
	if cfg.Session.Players != 3 {
		t.Fatalf("players got %d", cfg.Session.Players)
	}
	if cfg.Session.RunFor != 30*time.Second {
		t.Fatalf("run duration got %v", cfg.Session.RunFor)
	}
	if cfg.DataPath != "prices.csv" {
		t.Fatalf("data path got %q", cfg.DataPath)
	}
}

func TestLoad_MalformedEnvFallsBack(t *testing.T) {
	t.Setenv("PAPERTRADE_STARTING_CASH", "lots")
	t.Setenv("PAPERTRADE_PLAYERS", "two")

	cfg := Load()

	if cfg.Session.StartingCash != 10000 || cfg.Session.Players != 1 {
		t.Fatalf("malformed env not ignored: %+v", cfg.Session)
	}
}
