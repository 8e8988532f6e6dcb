package clock

import (
	"errors"
	"fmt"
)

// PlayerID identifies a player whose trade decision gates the clock.
type PlayerID int

// Mode is the state of the simulation clock.
type Mode uint8

const (
	Running Mode = iota
	PausedForTrade
	Finished
)

func (m Mode) String() string {
	switch m {
	case Running:
		return "RUNNING"
	case PausedForTrade:
		return "PAUSED_FOR_TRADE"
	case Finished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// ErrInvalidTransition is wrapped by every transition rejected for being
// called in the wrong mode.
var ErrInvalidTransition = errors.New("invalid clock transition")

// Clock owns the current day index and the breakpoint-gating state machine.
// It knows the series only through its length and breakpoint indices; prices
// never enter here.
type Clock struct {
	lastIndex   int
	breakpoints []int
	players     []PlayerID

	index   int
	mode    Mode
	pending map[PlayerID]struct{}
}

// New creates a clock over a series with the given length and ascending
// breakpoint indices, gated by the given active players. Starts at index 0
// in Running.
func New(seriesLen int, breakpoints []int, players []PlayerID) *Clock {
	c := &Clock{
		lastIndex:   seriesLen - 1,
		breakpoints: append([]int(nil), breakpoints...),
		players:     append([]PlayerID(nil), players...),
		pending:     make(map[PlayerID]struct{}),
	}
	return c
}

// Index returns the current day index.
func (c *Clock) Index() int { return c.index }

// Mode returns the current mode.
func (c *Clock) Mode() Mode { return c.mode }

// Pending returns the players that still owe a trade decision at the current
// breakpoint.
func (c *Clock) Pending() []PlayerID {
	out := make([]PlayerID, 0, len(c.pending))
	for _, p := range c.players {
		if _, ok := c.pending[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// IsPending reports whether player p still owes a decision.
func (c *Clock) IsPending(p PlayerID) bool {
	_, ok := c.pending[p]
	return ok
}

// SetPlayers replaces the active player set. Players removed while pending
// are dropped from the pending set; an emptied set resumes the clock.
func (c *Clock) SetPlayers(players []PlayerID) {
	c.players = append([]PlayerID(nil), players...)
	if c.mode != PausedForTrade {
		return
	}
	keep := make(map[PlayerID]struct{}, len(players))
	for _, p := range players {
		if _, ok := c.pending[p]; ok {
			keep[p] = struct{}{}
		}
	}
	c.pending = keep
	if len(c.pending) == 0 {
		c.mode = Running
	}
}

// Advance moves to the next day. Valid only in Running. At the last index the
// clock transitions to Finished without moving. Landing on a breakpoint
// transitions to PausedForTrade with every active player pending.
func (c *Clock) Advance() error {
	if c.mode != Running {
		return fmt.Errorf("%w: advance in %v", ErrInvalidTransition, c.mode)
	}
	if c.index >= c.lastIndex {
		c.mode = Finished
		return nil
	}
	c.index++
	if c.isBreakpoint(c.index) {
		c.pauseForTrade()
	}
	return nil
}

// SubmitTrade marks player p's decision as made. Valid only in
// PausedForTrade. When the last pending player submits, the clock returns to
// Running; the index does not change.
func (c *Clock) SubmitTrade(p PlayerID) error {
	if c.mode != PausedForTrade {
		return fmt.Errorf("%w: submit trade in %v", ErrInvalidTransition, c.mode)
	}
	delete(c.pending, p)
	if len(c.pending) == 0 {
		c.mode = Running
	}
	return nil
}

// SkipToNextBreakpoint jumps directly to the next breakpoint after the
// current index, or to the last index when none remains. Valid in Running and
// PausedForTrade.
func (c *Clock) SkipToNextBreakpoint() error {
	if c.mode == Finished {
		return fmt.Errorf("%w: skip in %v", ErrInvalidTransition, c.mode)
	}

	dest, ok := c.nextBreakpoint(c.index)
	if !ok {
		dest = c.lastIndex
	}
	c.index = dest
	if c.isBreakpoint(dest) {
		c.pauseForTrade()
	} else {
		c.mode = Running
		c.pending = make(map[PlayerID]struct{})
	}
	return nil
}

// Reset returns the clock to index 0, Running, with no pending players.
// Valid in any mode.
func (c *Clock) Reset() {
	c.index = 0
	c.mode = Running
	c.pending = make(map[PlayerID]struct{})
}

func (c *Clock) pauseForTrade() {
	c.mode = PausedForTrade
	c.pending = make(map[PlayerID]struct{}, len(c.players))
	for _, p := range c.players {
		c.pending[p] = struct{}{}
	}
}

func (c *Clock) isBreakpoint(idx int) bool {
	for _, bp := range c.breakpoints {
		if bp == idx {
			return true
		}
		if bp > idx {
			break
		}
	}
	return false
}

func (c *Clock) nextBreakpoint(after int) (int, bool) {
	for _, bp := range c.breakpoints {
		if bp > after {
			return bp, true
		}
	}
	return 0, false
}
