package session

import "time"

// MaxPlayers is the most players one session supports.
const MaxPlayers = 4

// Config holds configuration for a simulation session.
type Config struct {
	// StartingCash is the cash every player begins with.
	StartingCash float64
	// Players is the number of players (1..MaxPlayers).
	Players int
	// RunFor is the total wall-clock duration of a full auto-progress run;
	// the per-step delay is RunFor divided by the series length.
	RunFor time.Duration
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		StartingCash: 10000,
		Players:      1,
		RunFor:       10 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	if c.StartingCash <= 0 {
		c.StartingCash = DefaultConfig().StartingCash
	}
	if c.Players < 1 {
		c.Players = 1
	}
	if c.Players > MaxPlayers {
		c.Players = MaxPlayers
	}
	if c.RunFor < time.Second {
		c.RunFor = DefaultConfig().RunFor
	}
	return c
}
