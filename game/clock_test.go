package game

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSessionClock_TicksThenDeadline(t *testing.T) {
	var ticks, deadlines atomic.Int32
	clk := NewSessionClock()

	clk.Start(120*time.Millisecond, 25*time.Millisecond,
		func() { ticks.Add(1) },
		func() { deadlines.Add(1) },
	)

	time.Sleep(250 * time.Millisecond)

	if got := deadlines.Load(); got != 1 {
		t.Errorf("deadline fired %d times, want 1", got)
	}
	if got := ticks.Load(); got < 2 || got > 5 {
		t.Errorf("ticks = %d, want a handful before the deadline", got)
	}
	if clk.Running() {
		t.Error("clock still running after deadline")
	}

	after := ticks.Load()
	time.Sleep(80 * time.Millisecond)
	if got := ticks.Load(); got != after {
		t.Errorf("ticks kept firing after deadline: %d -> %d", after, got)
	}
}

func TestSessionClock_PauseFreezesBudget(t *testing.T) {
	var deadlines atomic.Int32
	clk := NewSessionClock()

	clk.Start(150*time.Millisecond, time.Hour, nil, func() { deadlines.Add(1) })
	time.Sleep(50 * time.Millisecond)

	elapsed, remaining := clk.Pause()
	if elapsed <= 0 {
		t.Errorf("elapsed = %v, want > 0", elapsed)
	}
	if remaining <= 0 || remaining >= 150*time.Millisecond {
		t.Errorf("remaining = %v, want within (0, 150ms)", remaining)
	}

	// Frozen: the deadline must not fire while paused.
	time.Sleep(200 * time.Millisecond)
	if got := deadlines.Load(); got != 0 {
		t.Fatalf("deadline fired %d times while paused", got)
	}
	if got := clk.Remaining(); got != remaining {
		t.Errorf("Remaining while paused = %v, want frozen %v", got, remaining)
	}

	clk.Resume()
	time.Sleep(remaining + 100*time.Millisecond)
	if got := deadlines.Load(); got != 1 {
		t.Errorf("deadline fired %d times after resume, want 1", got)
	}
}

func TestSessionClock_PauseWhenStopped(t *testing.T) {
	clk := NewSessionClock()
	if elapsed, _ := clk.Pause(); elapsed != 0 {
		t.Errorf("Pause on a stopped clock returned elapsed %v", elapsed)
	}
}

func TestSessionClock_CancelIdempotent(t *testing.T) {
	var ticks atomic.Int32
	clk := NewSessionClock()
	clk.Start(time.Hour, 10*time.Millisecond, func() { ticks.Add(1) }, nil)
	time.Sleep(35 * time.Millisecond)

	clk.Cancel()
	clk.Cancel()
	clk.Cancel()

	if clk.Running() {
		t.Error("clock running after Cancel")
	}
	after := ticks.Load()
	time.Sleep(50 * time.Millisecond)
	if got := ticks.Load(); got != after {
		t.Errorf("ticks kept firing after cancel: %d -> %d", after, got)
	}
}

func TestSessionClock_ResumeNeedsBudget(t *testing.T) {
	var deadlines atomic.Int32
	clk := NewSessionClock()
	clk.Start(30*time.Millisecond, time.Hour, nil, func() { deadlines.Add(1) })
	time.Sleep(100 * time.Millisecond)

	if got := deadlines.Load(); got != 1 {
		t.Fatalf("deadline fired %d times, want 1", got)
	}
	clk.Resume() // budget spent, must stay stopped
	if clk.Running() {
		t.Error("Resume restarted a clock with no remaining budget")
	}
}
