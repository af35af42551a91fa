package snake

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/neon-arcade/internal/config"
)

// ErrInvalidRules is returned by NewEngine when Rules fail validation.
var ErrInvalidRules = errors.New("snake: invalid rules")

// Rules are the fixed parameters of one game.
type Rules struct {
	GridSize          int
	Origin            Cell
	InitialDirection  Direction
	InitialIntervalMs int
	IntervalStepMs    int // shaved off the interval per item
	MinIntervalMs     int // floor for the interval
	Reward            int // score per item
}

// DefaultRules returns the classic 20×20 setup.
func DefaultRules() Rules {
	return RulesFromConfig(config.DefaultSnakeConfig())
}

// RulesFromConfig converts loaded YAML configuration into engine rules.
func RulesFromConfig(cfg config.SnakeConfig) Rules {
	dir, ok := ParseDirection(cfg.Grid.InitialDirection)
	if !ok {
		dir = DirRight
	}
	return Rules{
		GridSize:          cfg.Grid.Size,
		Origin:            Cell{X: cfg.Grid.OriginX, Y: cfg.Grid.OriginY},
		InitialDirection:  dir,
		InitialIntervalMs: cfg.Timing.InitialIntervalMs,
		IntervalStepMs:    cfg.Timing.IntervalStepMs,
		MinIntervalMs:     cfg.Timing.MinIntervalMs,
		Reward:            cfg.Scoring.Reward,
	}
}

// Validate checks that the rules describe a playable game.
func (r Rules) Validate() error {
	switch {
	case r.GridSize < 2:
		return fmt.Errorf("%w: grid size %d", ErrInvalidRules, r.GridSize)
	case !r.InBounds(r.Origin):
		return fmt.Errorf("%w: origin %v outside grid", ErrInvalidRules, r.Origin)
	case !r.InitialDirection.Valid():
		return fmt.Errorf("%w: initial direction %v", ErrInvalidRules, r.InitialDirection)
	case r.MinIntervalMs <= 0 || r.InitialIntervalMs < r.MinIntervalMs:
		return fmt.Errorf("%w: intervals initial=%d min=%d", ErrInvalidRules, r.InitialIntervalMs, r.MinIntervalMs)
	case r.IntervalStepMs < 0 || r.Reward < 0:
		return fmt.Errorf("%w: negative step or reward", ErrInvalidRules)
	}
	return nil
}

// InBounds reports whether c lies on the grid.
func (r Rules) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < r.GridSize && c.Y >= 0 && c.Y < r.GridSize
}

// IntervalAfter returns the tick interval after k items have been eaten:
// max(MinIntervalMs, InitialIntervalMs - k*IntervalStepMs).
func (r Rules) IntervalAfter(k int) int {
	return max(r.MinIntervalMs, r.InitialIntervalMs-k*r.IntervalStepMs)
}
