package snake

import "time"

// Cell is an integer grid coordinate.
type Cell struct {
	X, Y int
}

// Direction represents the snake's movement direction.
// The zero value DirNone means "no direction" and is used for an empty
// pending-direction buffer.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Valid reports whether d is one of the four movement directions.
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirRight
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return DirNone
	}
}

// step returns the cell one unit away from c along d.
func (d Direction) step(c Cell) Cell {
	switch d {
	case DirUp:
		c.Y--
	case DirDown:
		c.Y++
	case DirLeft:
		c.X--
	case DirRight:
		c.X++
	}
	return c
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// ParseDirection converts a direction name ("up", "down", "left", "right").
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return DirUp, true
	case "down":
		return DirDown, true
	case "left":
		return DirLeft, true
	case "right":
		return DirRight, true
	default:
		return DirNone, false
	}
}

// Status is the engine's lifecycle state.
type Status string

const (
	StatusReady      Status = "ready"      // created or reset, waiting for Start
	StatusRunning    Status = "running"    // ticks advance the simulation
	StatusPaused     Status = "paused"     // ticks are ignored until Resume
	StatusTerminated Status = "terminated" // absorbing; only Reset leaves it
)

// Reason explains a terminal state.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonBoundaryCollision Reason = "boundary_collision"
	ReasonSelfCollision     Reason = "self_collision"
	ReasonBoardFull         Reason = "board_full" // body covers the whole grid; a win
)

// State captures the complete engine state. Values returned by the engine
// are copies and never alias engine memory.
type State struct {
	Body           []Cell // head at index 0
	Direction      Direction
	Pending        Direction // DirNone when nothing is buffered
	Item           Cell
	HasItem        bool // false only once the board is full
	Score          int
	TickIntervalMs int
	Alive          bool
	Status         Status
	Reason         Reason
	Tick           uint64 // advances applied since the last reset
	Consumed       int    // items eaten since the last reset
}

// Head returns the head cell.
func (s State) Head() Cell {
	return s.Body[0]
}

// Won reports whether the game ended by filling the board.
func (s State) Won() bool {
	return s.Status == StatusTerminated && s.Reason == ReasonBoardFull
}

// Interval returns the current tick period.
func (s State) Interval() time.Duration {
	return time.Duration(s.TickIntervalMs) * time.Millisecond
}
