package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zappabad/papertrade/internal/clock"
	"github.com/zappabad/papertrade/internal/perf"
	"github.com/zappabad/papertrade/internal/portfolio"
	"github.com/zappabad/papertrade/internal/series"
)

// PlayerID identifies one player within a session. Players are numbered from 1.
type PlayerID int

var (
	// ErrUnknownPlayer is returned for trade requests naming a player that is
	// not part of the session.
	ErrUnknownPlayer = errors.New("unknown player")
	// ErrNoTradePending is returned when a trade arrives outside a breakpoint
	// pause, or from a player that has already decided.
	ErrNoTradePending = errors.New("no trade pending for player")
)

type playerState struct {
	name    string
	ledger  *portfolio.Ledger
	tracker *perf.Tracker
}

// Session coordinates 1..MaxPlayers independent ledger/tracker pairs sharing
// one price series and one clock. All methods are safe for use from the
// presentation layer and the auto-progress runner.
type Session struct {
	cfg    Config
	series *series.Series

	mu      sync.RWMutex
	clk     *clock.Clock
	players map[PlayerID]*playerState
	order   []PlayerID
}

// New creates a session over the given series. The clock starts at index 0 in
// Running mode and every player is valued at the first day's price.
func New(s *series.Series, cfg Config) *Session {
	cfg = cfg.withDefaults()

	sess := &Session{
		cfg:     cfg,
		series:  s,
		players: make(map[PlayerID]*playerState),
	}
	for i := 1; i <= cfg.Players; i++ {
		id := PlayerID(i)
		sess.players[id] = newPlayerState(id, cfg.StartingCash)
		sess.order = append(sess.order, id)
	}
	sess.clk = clock.New(s.Len(), s.Breakpoints(), sess.clockPlayers())
	sess.recordAll()
	return sess
}

func newPlayerState(id PlayerID, startingCash float64) *playerState {
	return &playerState{
		name:    fmt.Sprintf("Player %d", id),
		ledger:  portfolio.NewLedger(startingCash),
		tracker: perf.NewTracker(startingCash),
	}
}

// Step advances the clock one day and records a valuation snapshot for every
// player at the new day's price. Valuation always happens after the advance
// and before any trade for that day is accepted. Returns the clock's error
// when no advance is possible (paused or finished).
func (s *Session) Step() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.clk.Index()
	if err := s.clk.Advance(); err != nil {
		return err
	}
	if s.clk.Index() != before {
		s.recordAll()
	}
	return nil
}

// Trade executes a decision for one player at the current day's price and, on
// success, marks the player's breakpoint decision as submitted. The ledger
// re-validates funds and position regardless of any clamping done upstream.
// Failed trades leave both the ledger and the clock untouched.
func (s *Session) Trade(player PlayerID, action portfolio.Action, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, ok := s.players[player]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPlayer, player)
	}
	if !s.clk.IsPending(clock.PlayerID(player)) {
		return fmt.Errorf("%w: %d", ErrNoTradePending, player)
	}

	pt := s.series.At(s.clk.Index())
	if err := ps.ledger.Execute(action, quantity, pt.Price, pt.Date); err != nil {
		return err
	}
	return s.clk.SubmitTrade(clock.PlayerID(player))
}

// SkipToNextBreakpoint jumps the clock to the next breakpoint (or the last
// day) and values every player at the destination.
func (s *Session) SkipToNextBreakpoint() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.clk.Index()
	if err := s.clk.SkipToNextBreakpoint(); err != nil {
		return err
	}
	if s.clk.Index() != before {
		s.recordAll()
	}
	return nil
}

// Reset returns the session to day 0 with fresh ledgers and trackers at the
// configured starting cash. Player names are kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ps := range s.players {
		ps.ledger = portfolio.NewLedger(s.cfg.StartingCash)
		ps.tracker.Reset()
	}
	s.clk.Reset()
	s.recordAll()
}

// SetPlayerCount changes the number of players (clamped to 1..MaxPlayers).
// Existing players keep their state; added players start with the configured
// cash, valued at the current day. Removed players are discarded permanently.
func (s *Session) SetPlayerCount(n int) {
	if n < 1 {
		n = 1
	}
	if n > MaxPlayers {
		n = MaxPlayers
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := n + 1; i <= MaxPlayers; i++ {
		delete(s.players, PlayerID(i))
	}
	s.order = s.order[:0]
	pt := s.series.At(s.clk.Index())
	for i := 1; i <= n; i++ {
		id := PlayerID(i)
		if _, ok := s.players[id]; !ok {
			ps := newPlayerState(id, s.cfg.StartingCash)
			ps.tracker.Record(pt.Date, pt.Price, ps.ledger.Cash(), ps.ledger.Position())
			s.players[id] = ps
		}
		s.order = append(s.order, id)
	}
	s.clk.SetPlayers(s.clockPlayers())
}

// SetPlayerName sets a display name for one player. Empty names restore the
// default.
func (s *Session) SetPlayerName(player PlayerID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, ok := s.players[player]
	if !ok {
		return
	}
	if name == "" {
		name = fmt.Sprintf("Player %d", player)
	}
	ps.name = name
}

// StepDelay returns the auto-progress delay between days: the configured run
// duration spread over the series length.
func (s *Session) StepDelay() time.Duration {
	return s.cfg.RunFor / time.Duration(s.series.Len())
}

// Series returns the shared price series.
func (s *Session) Series() *series.Series { return s.series }

// Config returns the session configuration after defaulting.
func (s *Session) Config() Config { return s.cfg }

func (s *Session) clockPlayers() []clock.PlayerID {
	out := make([]clock.PlayerID, len(s.order))
	for i, id := range s.order {
		out[i] = clock.PlayerID(id)
	}
	return out
}

// recordAll values every player at the current day. Callers hold the lock.
func (s *Session) recordAll() {
	pt := s.series.At(s.clk.Index())
	for _, ps := range s.players {
		ps.tracker.Record(pt.Date, pt.Price, ps.ledger.Cash(), ps.ledger.Position())
	}
}
