package perf

import (
	"math"
	"testing"
	"time"
)

func day(i int) time.Time {
	return time.Date(2024, time.January, 1+i, 0, 0, 0, 0, time.UTC)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMetrics_EmptyAndSingleSnapshot(t *testing.T) {
	tr := NewTracker(10000)

	if m := tr.Metrics(); m != (Metrics{}) {
		t.Fatalf("empty metrics got %+v", m)
	}

	tr.Record(day(0), 100, 10000, 0)
	if m := tr.Metrics(); m != (Metrics{}) {
		t.Fatalf("single-snapshot metrics got %+v", m)
	}
}

func TestRecord_ValueAndPnL(t *testing.T) {
	tr := NewTracker(10000)

	// Starting cash 10000, price 100, bought 50 shares: cash 5000, pos 50.
	snap := tr.Record(day(0), 100, 5000, 50)

	if snap.Value != 10000 {
		t.Fatalf("value got %v", snap.Value)
	}
	if snap.PnL != 0 {
		t.Fatalf("pnl got %v", snap.PnL)
	}
	if snap.ReturnPct != 0 {
		t.Fatalf("return got %v", snap.ReturnPct)
	}
}

func TestMetrics_TotalReturn(t *testing.T) {
	tr := NewTracker(10000)

	tr.Record(day(0), 100, 5000, 50)
	tr.Record(day(1), 110, 5000, 50) // value 10500

	m := tr.Metrics()
	if !almostEqual(m.TotalReturnPct, 5) {
		t.Fatalf("total return got %v", m.TotalReturnPct)
	}
}

func TestMetrics_MaxDrawdown(t *testing.T) {
	tr := NewTracker(10000)

	// All-in at price 100, then 100 -> 120 -> 90 -> 105.
	tr.Record(day(0), 100, 0, 100) // 10000
	tr.Record(day(1), 120, 0, 100) // 12000 peak
	tr.Record(day(2), 90, 0, 100)  // 9000, drawdown 25% from 12000
	tr.Record(day(3), 105, 0, 100) // recovery does not shrink max drawdown

	m := tr.Metrics()
	if !almostEqual(m.MaxDrawdownPct, 25) {
		t.Fatalf("max drawdown got %v", m.MaxDrawdownPct)
	}
}

func TestMetrics_SharpeZeroWhenFlat(t *testing.T) {
	tr := NewTracker(10000)

	// Constant value: stdev of returns is 0, ratio must fall back to 0.
	for i := 0; i < 5; i++ {
		tr.Record(day(i), 100, 10000, 0)
	}

	if m := tr.Metrics(); m.SharpeRatio != 0 {
		t.Fatalf("sharpe got %v", m.SharpeRatio)
	}
}

func TestMetrics_SharpeKnownSeries(t *testing.T) {
	tr := NewTracker(10000)

	// Values 10000, 11000, 10450: returns +10%, -5%.
	tr.Record(day(0), 100, 10000, 0)
	tr.Record(day(1), 110, 0, 100)
	tr.Record(day(2), 104.5, 0, 100)

	// mean = 0.025, sample stdev = 0.10606..., ratio ≈ 0.2357
	m := tr.Metrics()
	want := 0.025 / (0.15 / math.Sqrt2)
	if !almostEqual(m.SharpeRatio, want) {
		t.Fatalf("sharpe got %v want %v", m.SharpeRatio, want)
	}
}

func TestReset_ClearsHistory(t *testing.T) {
	tr := NewTracker(10000)
	tr.Record(day(0), 100, 0, 100)
	tr.Record(day(1), 50, 0, 100)

	tr.Reset()

	if tr.Len() != 0 {
		t.Fatalf("len got %d", tr.Len())
	}
	if m := tr.Metrics(); m != (Metrics{}) {
		t.Fatalf("metrics after reset got %+v", m)
	}
	// Old peak must not leak into new drawdown tracking.
	tr.Record(day(2), 100, 10000, 0)
	tr.Record(day(3), 100, 10000, 0)
	if m := tr.Metrics(); m.MaxDrawdownPct != 0 {
		t.Fatalf("drawdown after reset got %v", m.MaxDrawdownPct)
	}
}

func TestHistory_IsACopy(t *testing.T) {
	tr := NewTracker(10000)
	tr.Record(day(0), 100, 10000, 0)

	h := tr.History()
	h[0].Value = -1

	if tr.History()[0].Value != 10000 {
		t.Fatalf("history mutated through copy")
	}
}
