package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/zappabad/papertrade/internal/clock"
)

// EventType indicates the type of runner event.
type EventType int

const (
	// EventStep is emitted after each auto-progressed day.
	EventStep EventType = iota
	// EventPaused is emitted when auto-progress stops at a breakpoint.
	EventPaused
	// EventFinished is emitted when auto-progress reaches the end of the series.
	EventFinished
	// EventStopped is emitted when auto-progress is cancelled via Close.
	EventStopped
)

// Event is one auto-progress notification for the presentation layer.
type Event struct {
	Type EventType
	Day  int
	Mode clock.Mode
	Time int64
}

// RunnerConfig holds configuration for the auto-progress runner.
type RunnerConfig struct {
	// StepDelay is the wall-clock delay before each step. Zero means derive
	// it from the session (run duration over series length).
	StepDelay time.Duration
	// EventBuffer is the size of the events channel.
	EventBuffer int
	// DropEvents determines whether the events channel drops on overflow.
	DropEvents bool
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		EventBuffer: 64,
		DropEvents:  true,
	}
}

// Runner auto-progresses a session on a timer. It is cooperative: the loop
// ends (handing control back to the caller) as soon as the clock leaves
// Running, so it never blocks waiting for trade input. One Runner serves one
// auto-play activation; create a new one to resume after a pause.
type Runner struct {
	cfg     RunnerConfig
	session *Session

	events        chan Event
	droppedEvents atomic.Int64

	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewRunner creates a runner and starts auto-progressing the session.
func NewRunner(s *Session, cfg RunnerConfig) *Runner {
	if cfg.StepDelay <= 0 {
		cfg.StepDelay = s.StepDelay()
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = DefaultRunnerConfig().EventBuffer
	}

	r := &Runner{
		cfg:     cfg,
		session: s,
		events:  make(chan Event, cfg.EventBuffer),
		closed:  make(chan struct{}),
	}

	r.wg.Add(1)
	go r.run()

	return r
}

func (r *Runner) run() {
	defer r.wg.Done()
	defer close(r.events)

	for {
		// Cancellation must take effect before the next delay, so the stop
		// check comes immediately before each sleep.
		select {
		case <-r.closed:
			r.emit(EventStopped)
			return
		default:
		}

		select {
		case <-r.closed:
			r.emit(EventStopped)
			return
		case <-time.After(r.cfg.StepDelay):
		}

		if err := r.session.Step(); err != nil {
			// The clock refused to advance under us (e.g. an external reset
			// race); stop rather than spin.
			r.emit(EventStopped)
			return
		}

		snap := r.session.Snapshot()
		switch snap.Mode {
		case clock.PausedForTrade:
			r.emit(EventPaused)
			return
		case clock.Finished:
			r.emit(EventFinished)
			return
		default:
			r.emit(EventStep)
		}
	}
}

func (r *Runner) emit(typ EventType) {
	snap := r.session.Snapshot()
	ev := Event{
		Type: typ,
		Day:  snap.Day,
		Mode: snap.Mode,
		Time: time.Now().UnixNano(),
	}

	if r.cfg.DropEvents {
		select {
		case r.events <- ev:
		default:
			r.droppedEvents.Add(1)
		}
	} else {
		select {
		case r.events <- ev:
		case <-r.closed:
		}
	}
}

// Events returns the runner events channel. It is closed when the runner
// stops for any reason.
func (r *Runner) Events() <-chan Event {
	return r.events
}

// DroppedEvents returns the count of dropped events.
func (r *Runner) DroppedEvents() int64 {
	return r.droppedEvents.Load()
}

// Close stops auto-progress and waits for the loop to exit.
func (r *Runner) Close() {
	r.closeOnce.Do(func() {
		close(r.closed)
	})
	r.wg.Wait()
}
