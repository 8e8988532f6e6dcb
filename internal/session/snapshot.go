package session

import (
	"time"

	"github.com/zappabad/papertrade/internal/clock"
	"github.com/zappabad/papertrade/internal/perf"
	"github.com/zappabad/papertrade/internal/portfolio"
)

// PlayerView is a read-only copy of one player's state for presentation.
type PlayerView struct {
	ID       PlayerID
	Name     string
	Cash     float64
	Position int
	Value    float64
	PnL      float64
	Metrics  perf.Metrics
	Trades   []portfolio.Trade
	History  []perf.Snapshot
	Pending  bool
}

// Snapshot is a read-only copy of the whole session for presentation. Nothing
// reachable from it aliases engine state.
type Snapshot struct {
	Day         int
	LastIndex   int
	Date        time.Time
	Price       float64
	Mode        clock.Mode
	Breakpoints []int
	Players     []PlayerView
}

// Finished reports whether the simulation has run past the last day.
func (s Snapshot) Finished() bool { return s.Mode == clock.Finished }

// PausedForTrade reports whether the clock is gated on trade decisions.
func (s Snapshot) PausedForTrade() bool { return s.Mode == clock.PausedForTrade }

// Snapshot captures the current session state for the presentation layer.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pt := s.series.At(s.clk.Index())
	snap := Snapshot{
		Day:         s.clk.Index(),
		LastIndex:   s.series.LastIndex(),
		Date:        pt.Date,
		Price:       pt.Price,
		Mode:        s.clk.Mode(),
		Breakpoints: s.series.Breakpoints(),
	}
	for _, id := range s.order {
		ps := s.players[id]
		snap.Players = append(snap.Players, PlayerView{
			ID:       id,
			Name:     ps.name,
			Cash:     ps.ledger.Cash(),
			Position: ps.ledger.Position(),
			Value:    ps.ledger.Value(pt.Price),
			PnL:      ps.ledger.Value(pt.Price) - ps.ledger.InitialCash(),
			Metrics:  ps.tracker.Metrics(),
			Trades:   ps.ledger.Trades(),
			History:  ps.tracker.History(),
			Pending:  s.clk.IsPending(clock.PlayerID(id)),
		})
	}
	return snap
}
