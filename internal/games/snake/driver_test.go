package snake

import (
	"context"
	"sync"
	"testing"
	"time"
)

// recorder collects reported states.
type recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *recorder) report(st State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, st)
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

func (r *recorder) last() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.states) == 0 {
		return State{}
	}
	return r.states[len(r.states)-1]
}

func (r *recorder) waitFor(t *testing.T, what string, cond func(State) bool) State {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if st := r.last(); r.len() > 0 && cond(st) {
			return st
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s; last state %+v", what, r.last())
	return State{}
}

func fastRules(n int, origin Cell) Rules {
	return Rules{
		GridSize:          n,
		Origin:            origin,
		InitialDirection:  DirRight,
		InitialIntervalMs: 2,
		IntervalStepMs:    0,
		MinIntervalMs:     1,
		Reward:            10,
	}
}

func newTestDriver(t *testing.T, rules Rules) (*Driver, *recorder) {
	t.Helper()
	e, err := NewEngine(rules, 1)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	rec := &recorder{}
	d := NewDriver(context.Background(), e, rec.report, nil)
	t.Cleanup(d.Close)
	return d, rec
}

func TestDriverRunsUntilTerminated(t *testing.T) {
	d, rec := newTestDriver(t, fastRules(5, Cell{X: 0, Y: 2}))
	d.Start()

	st := rec.waitFor(t, "termination", func(s State) bool { return s.Status == StatusTerminated })
	if st.Reason != ReasonBoundaryCollision && st.Reason != ReasonBoardFull {
		t.Errorf("Reason = %q, want boundary collision", st.Reason)
	}

	n := rec.len()
	time.Sleep(20 * time.Millisecond)
	if got := rec.len(); got != n {
		t.Errorf("driver reported %d states after termination", got-n)
	}
}

func TestDriverPauseStopsTicks(t *testing.T) {
	d, rec := newTestDriver(t, fastRules(200, Cell{X: 0, Y: 100}))
	d.Start()
	rec.waitFor(t, "a tick", func(s State) bool { return s.Tick > 0 })

	d.Pause()
	paused := rec.waitFor(t, "pause", func(s State) bool { return s.Status == StatusPaused })

	time.Sleep(20 * time.Millisecond)
	if st := rec.last(); st.Tick != paused.Tick || st.Status != StatusPaused {
		t.Errorf("ticks continued while paused: %d -> %d", paused.Tick, st.Tick)
	}

	d.Resume()
	rec.waitFor(t, "resumed tick", func(s State) bool { return s.Tick > paused.Tick })
}

func TestDriverNoReportsAfterClose(t *testing.T) {
	d, rec := newTestDriver(t, fastRules(200, Cell{X: 0, Y: 100}))
	d.Start()
	rec.waitFor(t, "a tick", func(s State) bool { return s.Tick > 1 })

	d.Close()
	n := rec.len()
	time.Sleep(20 * time.Millisecond)
	if got := rec.len(); got != n {
		t.Errorf("driver reported %d states after Close", got-n)
	}

	// Commands after close are dropped, Close is repeatable.
	d.Start()
	d.SetDirection(DirUp)
	d.Close()

	select {
	case <-d.Done():
	default:
		t.Error("Done not closed after Close")
	}
}

func TestDriverStopsOnContextCancel(t *testing.T) {
	e, err := NewEngine(fastRules(200, Cell{X: 0, Y: 100}), 1)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDriver(ctx, e, nil, nil)
	d.Start()
	cancel()

	select {
	case <-d.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("driver did not stop after cancel")
	}
}

func TestDriverResetDisarmsTimer(t *testing.T) {
	d, rec := newTestDriver(t, fastRules(200, Cell{X: 0, Y: 100}))
	d.Start()
	rec.waitFor(t, "a tick", func(s State) bool { return s.Tick > 0 })

	d.Reset()
	rec.waitFor(t, "reset", func(s State) bool { return s.Status == StatusReady })

	time.Sleep(20 * time.Millisecond)
	if st := rec.last(); st.Status != StatusReady || st.Tick != 0 {
		t.Errorf("driver advanced after reset: %+v", st)
	}
}

func TestDriverSetDirection(t *testing.T) {
	e, err := NewEngine(fastRules(200, Cell{X: 100, Y: 100}), 1)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	e.rules.InitialIntervalMs = 1000
	e.interval = 1000
	rec := &recorder{}
	d := NewDriver(context.Background(), e, rec.report, nil)
	defer d.Close()

	d.SetDirection(DirLeft) // reversal, ignored
	d.SetDirection(DirDown)
	d.Start()

	st := rec.waitFor(t, "start", func(s State) bool { return s.Status == StatusRunning })
	if st.Pending != DirDown {
		t.Errorf("Pending = %v, want down", st.Pending)
	}
}

func TestDriverRearmsAtShorterIntervalAfterConsuming(t *testing.T) {
	rules := Rules{
		GridSize:          40,
		Origin:            Cell{X: 0, Y: 20},
		InitialDirection:  DirRight,
		InitialIntervalMs: 200,
		IntervalStepMs:    150,
		MinIntervalMs:     40,
		Reward:            10,
	}
	e, err := NewEngine(rules, 1)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	e.item = Cell{X: 1, Y: 20}

	type stamped struct {
		st State
		at time.Time
	}
	var (
		mu   sync.Mutex
		seen []stamped
	)
	d := NewDriver(context.Background(), e, func(st State) {
		mu.Lock()
		seen = append(seen, stamped{st: st, at: time.Now()})
		mu.Unlock()
	}, nil)
	t.Cleanup(d.Close)

	d.Start()
	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(seen)
		mu.Unlock()
		if n >= 5 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("got %d reports, want 5", n)
		}
		time.Sleep(time.Millisecond)
	}
	d.Close()

	mu.Lock()
	defer mu.Unlock()

	start, first := seen[0], seen[1]
	if start.st.Status != StatusRunning || start.st.TickIntervalMs != 200 {
		t.Fatalf("start report = %+v", start.st)
	}
	if first.st.Consumed != 1 || first.st.TickIntervalMs != 50 {
		t.Fatalf("first tick: consumed %d, interval %d; want 1, 50", first.st.Consumed, first.st.TickIntervalMs)
	}
	if gap := first.at.Sub(start.at); gap < 200*time.Millisecond {
		t.Errorf("first tick after %v, want at least 200ms", gap)
	}

	for i := 2; i < len(seen); i++ {
		prev, cur := seen[i-1], seen[i]
		if cur.st.Tick != prev.st.Tick+1 {
			t.Errorf("report %d: tick %d after %d, want one report per tick", i, cur.st.Tick, prev.st.Tick)
		}
		want := prev.st.Interval()
		gap := cur.at.Sub(prev.at)
		if gap < want {
			t.Errorf("report %d came %v after the previous one, interval is %v", i, gap, want)
		}
		if gap >= 200*time.Millisecond {
			t.Errorf("report %d came %v after the previous one, still on the initial interval", i, gap)
		}
	}
}
