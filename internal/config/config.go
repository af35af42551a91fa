// Package config provides YAML-based game configuration loading and
// difficulty presets for the arcade platform.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// SnakeConfig contains all configuration for the Snake game.
type SnakeConfig struct {
	Grid    SnakeGrid    `yaml:"grid"`
	Timing  SnakeTiming  `yaml:"timing"`
	Scoring SnakeScoring `yaml:"scoring"`
}

// SnakeGrid defines the board and the starting position.
type SnakeGrid struct {
	Size             int    `yaml:"size"`
	OriginX          int    `yaml:"origin_x"`
	OriginY          int    `yaml:"origin_y"`
	InitialDirection string `yaml:"initial_direction"`
}

// SnakeTiming defines the tick period and how it shrinks as items are eaten.
type SnakeTiming struct {
	InitialIntervalMs int `yaml:"initial_interval_ms"`
	IntervalStepMs    int `yaml:"interval_step_ms"`
	MinIntervalMs     int `yaml:"min_interval_ms"`
}

// SnakeScoring defines points awarded per item.
type SnakeScoring struct {
	Reward int `yaml:"reward"`
}

// validDirections lists the accepted initial_direction values.
var validDirections = map[string]bool{
	"up":    true,
	"down":  true,
	"left":  true,
	"right": true,
}

// Validate checks that the configuration describes a playable game.
func (c SnakeConfig) Validate() error {
	g, tm := c.Grid, c.Timing

	switch {
	case g.Size < 2:
		return fmt.Errorf("%w: grid.size must be at least 2, got %d", ErrInvalidConfig, g.Size)
	case g.OriginX < 0 || g.OriginX >= g.Size || g.OriginY < 0 || g.OriginY >= g.Size:
		return fmt.Errorf("%w: origin (%d, %d) outside %dx%d grid", ErrInvalidConfig, g.OriginX, g.OriginY, g.Size, g.Size)
	case !validDirections[g.InitialDirection]:
		return fmt.Errorf("%w: unknown initial_direction %q", ErrInvalidConfig, g.InitialDirection)
	case tm.InitialIntervalMs <= 0 || tm.MinIntervalMs <= 0:
		return fmt.Errorf("%w: tick intervals must be positive", ErrInvalidConfig)
	case tm.MinIntervalMs > tm.InitialIntervalMs:
		return fmt.Errorf("%w: min_interval_ms %d exceeds initial_interval_ms %d", ErrInvalidConfig, tm.MinIntervalMs, tm.InitialIntervalMs)
	case tm.IntervalStepMs < 0:
		return fmt.Errorf("%w: interval_step_ms must not be negative", ErrInvalidConfig)
	case c.Scoring.Reward < 0:
		return fmt.Errorf("%w: reward must not be negative", ErrInvalidConfig)
	}
	return nil
}
