package snake

import (
	"math/rand"
)

// Engine is the Snake movement engine: a fixed grid, a head-first body, one
// buffered direction change, one item and a tick period that shrinks as
// items are eaten.
//
// Engine is not safe for concurrent use. It has exactly one writer, the
// driver that owns it; see Driver for a goroutine-based owner.
type Engine struct {
	rules Rules
	rng   *rand.Rand

	body      []Cell // head at index 0
	direction Direction
	pending   Direction
	item      Cell
	hasItem   bool
	score     int
	interval  int
	status    Status
	reason    Reason
	tick      uint64
	consumed  int
}

// NewEngine creates an engine in the Ready state.
func NewEngine(rules Rules, seed int64) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		rules: rules,
		rng:   rand.New(rand.NewSource(seed)),
	}
	e.Reset()
	return e, nil
}

// Rules returns the rules the engine was built with.
func (e *Engine) Rules() Rules {
	return e.rules
}

// Reset discards the current game and builds a fresh one.
// The RNG keeps its sequence, so consecutive games place items differently.
func (e *Engine) Reset() State {
	e.body = []Cell{e.rules.Origin}
	e.direction = e.rules.InitialDirection
	e.pending = DirNone
	e.score = 0
	e.interval = e.rules.InitialIntervalMs
	e.status = StatusReady
	e.reason = ReasonNone
	e.tick = 0
	e.consumed = 0
	e.placeItem()
	return e.State()
}

// Start moves a Ready engine to Running. No-op in any other state.
func (e *Engine) Start() State {
	if e.status == StatusReady {
		e.status = StatusRunning
	}
	return e.State()
}

// Pause stops the simulation without touching the game.
func (e *Engine) Pause() State {
	if e.status == StatusRunning {
		e.status = StatusPaused
	}
	return e.State()
}

// Resume continues a paused game.
func (e *Engine) Resume() State {
	if e.status == StatusPaused {
		e.status = StatusRunning
	}
	return e.State()
}

// SetPendingDirection buffers d for the next tick. Only the most recent
// accepted call between two ticks counts. Reversals of the current direction
// of travel, invalid directions and input after termination are ignored.
func (e *Engine) SetPendingDirection(d Direction) {
	if e.status == StatusTerminated || !d.Valid() {
		return
	}
	if d == e.direction.Opposite() {
		return
	}
	e.pending = d
}

// Advance applies exactly one simulation step while Running. In any other
// state it changes nothing and returns the current state, so a tick racing a
// stop request is harmless.
func (e *Engine) Advance() State {
	if e.status != StatusRunning {
		return e.State()
	}

	if e.pending != DirNone {
		e.direction = e.pending
		e.pending = DirNone
	}

	next := e.direction.step(e.body[0])

	if !e.rules.InBounds(next) {
		e.terminate(ReasonBoundaryCollision)
		return e.State()
	}

	// Checked against the whole pre-move body, tail included.
	if e.occupied(next) {
		e.terminate(ReasonSelfCollision)
		return e.State()
	}

	e.tick++
	e.body = append(e.body, Cell{})
	copy(e.body[1:], e.body)
	e.body[0] = next

	if e.hasItem && next == e.item {
		e.score += e.rules.Reward
		e.consumed++
		e.interval = e.rules.IntervalAfter(e.consumed)
		e.placeItem()
	} else {
		e.body = e.body[:len(e.body)-1]
	}

	return e.State()
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	return State{
		Body:           append([]Cell(nil), e.body...),
		Direction:      e.direction,
		Pending:        e.pending,
		Item:           e.item,
		HasItem:        e.hasItem,
		Score:          e.score,
		TickIntervalMs: e.interval,
		Alive:          e.status != StatusTerminated,
		Status:         e.status,
		Reason:         e.reason,
		Tick:           e.tick,
		Consumed:       e.consumed,
	}
}

func (e *Engine) terminate(reason Reason) {
	e.status = StatusTerminated
	e.reason = reason
	e.pending = DirNone
}

func (e *Engine) occupied(c Cell) bool {
	for _, seg := range e.body {
		if seg == c {
			return true
		}
	}
	return false
}

// freeCells lists every cell not covered by the body, in row-major order.
func (e *Engine) freeCells() []Cell {
	n := e.rules.GridSize
	taken := make(map[Cell]struct{}, len(e.body))
	for _, seg := range e.body {
		taken[seg] = struct{}{}
	}

	free := make([]Cell, 0, n*n-len(taken))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			c := Cell{X: x, Y: y}
			if _, ok := taken[c]; !ok {
				free = append(free, c)
			}
		}
	}
	return free
}

// placeItem puts the item on a uniformly chosen free cell. A full board
// ends the game as a win.
func (e *Engine) placeItem() {
	free := e.freeCells()
	if len(free) == 0 {
		e.hasItem = false
		e.item = Cell{X: -1, Y: -1}
		e.terminate(ReasonBoardFull)
		return
	}
	e.item = free[e.rng.Intn(len(free))]
	e.hasItem = true
}
