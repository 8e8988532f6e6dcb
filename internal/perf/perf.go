package perf

import (
	"math"
	"time"
)

// Snapshot is one valuation of a player's portfolio, taken once per day index.
type Snapshot struct {
	Date        time.Time
	Cash        float64
	Position    int
	Value       float64
	PnL         float64
	ReturnPct   float64
	DrawdownPct float64
}

// Metrics is the derived performance triple. Undefined arithmetic (empty
// history, zero denominators) resolves to 0 rather than an error, so the
// triple is always well formed.
type Metrics struct {
	TotalReturnPct float64
	MaxDrawdownPct float64
	SharpeRatio    float64
}

// Tracker accumulates per-step portfolio snapshots for one player and derives
// return, drawdown and a simplified Sharpe ratio from them.
type Tracker struct {
	initialCash float64
	history     []Snapshot
	maxValue    float64
	maxDrawdown float64
}

// NewTracker creates a tracker for a portfolio with the given starting cash.
func NewTracker(initialCash float64) *Tracker {
	return &Tracker{initialCash: initialCash}
}

// Record appends one snapshot valuing the portfolio at price and returns it.
func (t *Tracker) Record(date time.Time, price, cash float64, position int) Snapshot {
	value := cash + float64(position)*price

	if value > t.maxValue {
		t.maxValue = value
	}
	var drawdown float64
	if t.maxValue > 0 {
		drawdown = (t.maxValue - value) / t.maxValue * 100
	}
	if drawdown > t.maxDrawdown {
		t.maxDrawdown = drawdown
	}

	var returnPct float64
	if t.initialCash > 0 {
		returnPct = (value/t.initialCash - 1) * 100
	}

	snap := Snapshot{
		Date:        date,
		Cash:        cash,
		Position:    position,
		Value:       value,
		PnL:         value - t.initialCash,
		ReturnPct:   returnPct,
		DrawdownPct: drawdown,
	}
	t.history = append(t.history, snap)
	return snap
}

// Metrics derives the performance triple from the recorded history. With
// fewer than two snapshots everything is 0: there is no activity to measure.
func (t *Tracker) Metrics() Metrics {
	if len(t.history) < 2 {
		return Metrics{}
	}

	last := t.history[len(t.history)-1]
	var totalReturn float64
	if t.initialCash > 0 {
		totalReturn = (last.Value/t.initialCash - 1) * 100
	}

	return Metrics{
		TotalReturnPct: totalReturn,
		MaxDrawdownPct: t.maxDrawdown,
		SharpeRatio:    t.sharpe(),
	}
}

// sharpe is mean over stdev of the discrete per-step returns, risk-free rate
// zero, not annualized. 0 when fewer than two returns exist or stdev is 0.
func (t *Tracker) sharpe() float64 {
	var returns []float64
	for i := 1; i < len(t.history); i++ {
		prev := t.history[i-1].Value
		if prev == 0 {
			continue
		}
		returns = append(returns, t.history[i].Value/prev-1)
	}
	if len(returns) < 2 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var sq float64
	for _, r := range returns {
		d := r - mean
		sq += d * d
	}
	// Sample standard deviation, matching a pandas-style pct_change().std().
	stdev := math.Sqrt(sq / float64(len(returns)-1))
	if stdev == 0 {
		return 0
	}
	return mean / stdev
}

// History returns a copy of the recorded snapshots in order.
func (t *Tracker) History() []Snapshot {
	out := make([]Snapshot, len(t.history))
	copy(out, t.history)
	return out
}

// Len returns the number of recorded snapshots.
func (t *Tracker) Len() int { return len(t.history) }

// Reset clears the history and running maxima, keeping the initial cash.
func (t *Tracker) Reset() {
	t.history = nil
	t.maxValue = 0
	t.maxDrawdown = 0
}
