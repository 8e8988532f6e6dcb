package session

import (
	"testing"
	"time"

	"github.com/zappabad/papertrade/internal/clock"
	"github.com/zappabad/papertrade/internal/portfolio"
)

func drain(t *testing.T, r *Runner, timeout time.Duration) []Event {
	t.Helper()
	var out []Event
	deadline := time.After(timeout)
	for {
		select {
		case ev, ok := <-r.Events():
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-deadline:
			t.Fatalf("runner did not stop within %v (events so far: %v)", timeout, out)
		}
	}
}

func TestRunner_StopsAtBreakpoint(t *testing.T) {
	s := New(testSeries(t), Config{StartingCash: 10000, Players: 1})

	r := NewRunner(s, RunnerConfig{StepDelay: time.Millisecond, EventBuffer: 64})
	events := drain(t, r, time.Second)
	r.Close()

	last := events[len(events)-1]
	if last.Type != EventPaused || last.Day != 3 {
		t.Fatalf("last event got %+v", last)
	}
	snap := s.Snapshot()
	if snap.Day != 3 || !snap.PausedForTrade() {
		t.Fatalf("session got day=%d mode=%v", snap.Day, snap.Mode)
	}
}

func TestRunner_RunsToFinishAfterDecisions(t *testing.T) {
	s := New(testSeries(t), Config{StartingCash: 10000, Players: 1})

	// First leg: 0 -> 3.
	r := NewRunner(s, RunnerConfig{StepDelay: time.Millisecond, EventBuffer: 64})
	drain(t, r, time.Second)
	r.Close()
	mustTrade(t, s, 1, portfolio.Hold, 0)

	// Second leg: 3 -> 7.
	r = NewRunner(s, RunnerConfig{StepDelay: time.Millisecond, EventBuffer: 64})
	events := drain(t, r, time.Second)
	r.Close()
	if last := events[len(events)-1]; last.Type != EventPaused || last.Day != 7 {
		t.Fatalf("second leg last event %+v", last)
	}
	mustTrade(t, s, 1, portfolio.Hold, 0)

	// Final leg: 7 -> end.
	r = NewRunner(s, RunnerConfig{StepDelay: time.Millisecond, EventBuffer: 64})
	events = drain(t, r, time.Second)
	r.Close()
	if last := events[len(events)-1]; last.Type != EventFinished {
		t.Fatalf("final leg last event %+v", last)
	}
	if snap := s.Snapshot(); snap.Mode != clock.Finished || snap.Day != 9 {
		t.Fatalf("session got day=%d mode=%v", snap.Day, snap.Mode)
	}
}

func TestRunner_CloseCancelsBeforeNextDelay(t *testing.T) {
	s := New(testSeries(t), Config{StartingCash: 10000, Players: 1})

	// Long delay: Close must not wait a full step out.
	r := NewRunner(s, RunnerConfig{StepDelay: time.Minute, EventBuffer: 64})

	done := make(chan struct{})
	go func() {
		r.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Close blocked on the step delay")
	}
	if snap := s.Snapshot(); snap.Day != 0 {
		t.Fatalf("session advanced after cancel: day=%d", snap.Day)
	}
}
