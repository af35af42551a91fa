package snake

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// StateFunc receives every state the driver reports.
// It runs on the driver goroutine and must not call back into the Driver.
type StateFunc func(State)

type commandKind int

const (
	cmdStart commandKind = iota
	cmdPause
	cmdResume
	cmdReset
	cmdDirection
)

type command struct {
	kind commandKind
	dir  Direction
}

// Driver owns an Engine and its tick timer. A single goroutine runs every
// engine call, so ticks are serialized and input is applied between them.
// The timer is re-armed only after an Advance and its report have finished,
// and it is disarmed on pause, reset, termination and Close.
type Driver struct {
	engine *Engine
	report StateFunc
	logger *log.Logger

	cmds     chan command
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewDriver starts the driver loop for engine. The loop ends when ctx is
// cancelled or Close is called. A nil logger discards output.
func NewDriver(ctx context.Context, engine *Engine, report StateFunc, logger *log.Logger) *Driver {
	if report == nil {
		report = func(State) {}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	d := &Driver{
		engine: engine,
		report: report,
		logger: logger,
		cmds:   make(chan command, 16),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go d.run(ctx)
	return d
}

// Start begins play and arms the tick timer.
func (d *Driver) Start() { d.send(command{kind: cmdStart}) }

// Pause disarms the timer without touching the game.
func (d *Driver) Pause() { d.send(command{kind: cmdPause}) }

// Resume re-arms the timer for a paused game.
func (d *Driver) Resume() { d.send(command{kind: cmdResume}) }

// Reset discards the game and reports a fresh Ready state.
func (d *Driver) Reset() { d.send(command{kind: cmdReset}) }

// SetDirection buffers a direction change for the next tick.
func (d *Driver) SetDirection(dir Direction) { d.send(command{kind: cmdDirection, dir: dir}) }

// Close stops the loop and waits for it to exit. After Close returns no
// further Advance runs and nothing more is reported. Safe to call repeatedly.
func (d *Driver) Close() {
	d.stopOnce.Do(func() { close(d.stop) })
	<-d.done
}

// Done is closed once the driver loop has exited.
func (d *Driver) Done() <-chan struct{} {
	return d.done
}

// send queues a command; commands sent after shutdown are dropped.
func (d *Driver) send(c command) {
	select {
	case <-d.done:
		return
	case <-d.stop:
		return
	default:
	}

	select {
	case d.cmds <- c:
	case <-d.done:
	case <-d.stop:
	}
}

func (d *Driver) run(ctx context.Context) {
	defer close(d.done)

	var (
		timer *time.Timer
		tickC <-chan time.Time
	)
	disarm := func() {
		if timer != nil {
			timer.Stop()
			timer, tickC = nil, nil
		}
	}
	arm := func(st State) {
		disarm()
		timer = time.NewTimer(st.Interval())
		tickC = timer.C
	}
	defer disarm()

	for {
		select {
		case <-ctx.Done():
			d.logger.Debug("driver stopped", "reason", ctx.Err())
			return

		case <-d.stop:
			d.logger.Debug("driver closed")
			return

		case c := <-d.cmds:
			st, changed := d.apply(c)
			if !changed {
				continue
			}
			switch st.Status {
			case StatusRunning:
				if timer == nil {
					arm(st)
				}
			default:
				disarm()
			}
			d.report(st)

		case <-tickC:
			timer, tickC = nil, nil

			// A close request that raced the timer wins.
			select {
			case <-d.stop:
				return
			default:
			}

			st := d.engine.Advance()
			d.report(st)

			switch st.Status {
			case StatusRunning:
				arm(st)
			case StatusTerminated:
				d.logger.Debug("game over", "reason", st.Reason, "score", st.Score, "length", len(st.Body))
			}
		}
	}
}

// apply runs a command against the engine. changed is false for commands
// that produce no report (direction input).
func (d *Driver) apply(c command) (st State, changed bool) {
	switch c.kind {
	case cmdStart:
		d.logger.Debug("start")
		return d.engine.Start(), true
	case cmdPause:
		d.logger.Debug("pause")
		return d.engine.Pause(), true
	case cmdResume:
		d.logger.Debug("resume")
		return d.engine.Resume(), true
	case cmdReset:
		d.logger.Debug("reset")
		return d.engine.Reset(), true
	case cmdDirection:
		d.engine.SetPendingDirection(c.dir)
		return State{}, false
	default:
		return State{}, false
	}
}
