package web

import (
	"github.com/vovakirdan/neon-arcade/internal/games/snake"
)

// Inbound message types.
const (
	msgStart     = "start"
	msgPause     = "pause"
	msgResume    = "resume"
	msgReset     = "reset"
	msgDirection = "direction"
)

// Outbound frame types.
const (
	frameState  = "state"
	frameResult = "result"
	frameBest   = "best"
	frameError  = "error"
)

// clientMessage is a command sent by the browser.
type clientMessage struct {
	Type      string `json:"type"`
	Direction string `json:"direction,omitempty"`
}

type cellJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// stateFrame mirrors snake.State for the browser.
type stateFrame struct {
	Type           string     `json:"type"`
	Status         string     `json:"status"`
	Reason         string     `json:"reason,omitempty"`
	GridSize       int        `json:"grid_size"`
	Body           []cellJSON `json:"body"`
	Direction      string     `json:"direction"`
	Item           *cellJSON  `json:"item,omitempty"`
	Score          int        `json:"score"`
	Best           int        `json:"best"`
	TickIntervalMs int        `json:"tick_interval_ms"`
	Alive          bool       `json:"alive"`
	Tick           uint64     `json:"tick"`
}

// resultFrame is sent once when a game ends.
type resultFrame struct {
	Type    string `json:"type"`
	Score   int    `json:"score"`
	Reason  string `json:"reason"`
	Won     bool   `json:"won"`
	NewBest bool   `json:"new_best"`
}

// bestFrame is sent once per game when the running score first passes the
// stored best.
type bestFrame struct {
	Type     string `json:"type"`
	Score    int    `json:"score"`
	Previous int    `json:"previous"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func newStateFrame(st snake.State, gridSize, best int) stateFrame {
	f := stateFrame{
		Type:           frameState,
		Status:         string(st.Status),
		Reason:         string(st.Reason),
		GridSize:       gridSize,
		Body:           make([]cellJSON, len(st.Body)),
		Direction:      st.Direction.String(),
		Score:          st.Score,
		Best:           best,
		TickIntervalMs: st.TickIntervalMs,
		Alive:          st.Alive,
		Tick:           st.Tick,
	}
	for i, c := range st.Body {
		f.Body[i] = cellJSON{X: c.X, Y: c.Y}
	}
	if st.HasItem {
		f.Item = &cellJSON{X: st.Item.X, Y: st.Item.Y}
	}
	return f
}
