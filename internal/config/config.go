package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/zappabad/papertrade/internal/session"
)

// Config is the process-level configuration: where the data comes from and
// how the simulation session is set up. Values load from the environment
// (optionally via a .env file) and may be overridden by flags.
type Config struct {
	// DataPath is the CSV series to load; empty means the built-in sample.
	DataPath string
	// LogFile receives debug logs while the TUI owns the terminal.
	LogFile string
	// Session is the simulation session configuration.
	Session session.Config
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present. Unset or malformed variables fall back
// to defaults; bounds are enforced by session.Config itself.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: skipping .env: %v", err)
	}

	cfg := Config{
		DataPath: os.Getenv("PAPERTRADE_DATA"),
		LogFile:  os.Getenv("PAPERTRADE_LOG"),
		Session:  session.DefaultConfig(),
	}

	if v, ok := envFloat("PAPERTRADE_STARTING_CASH"); ok {
		cfg.Session.StartingCash = v
	}
	if v, ok := envInt("PAPERTRADE_PLAYERS"); ok {
		cfg.Session.Players = v
	}
	if v, ok := envInt("PAPERTRADE_RUN_SECONDS"); ok {
		cfg.Session.RunFor = time.Duration(v) * time.Second
	}
	return cfg
}

func envFloat(key string) (float64, bool) {
	s := os.Getenv(key)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Printf("config: ignoring %s=%q: %v", key, s, err)
		return 0, false
	}
	return v, true
}

func envInt(key string) (int, bool) {
	s := os.Getenv(key)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("config: ignoring %s=%q: %v", key, s, err)
		return 0, false
	}
	return v, true
}
