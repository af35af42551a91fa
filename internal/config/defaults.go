package config

import (
	_ "embed"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// DefaultSnakeConfig returns the built-in Snake configuration.
// Mirrors defaults/snake.yaml and is used when the embedded file cannot be parsed.
func DefaultSnakeConfig() SnakeConfig {
	return SnakeConfig{
		Grid: SnakeGrid{
			Size:             20,
			OriginX:          10,
			OriginY:          10,
			InitialDirection: "right",
		},
		Timing: SnakeTiming{
			InitialIntervalMs: 150,
			IntervalStepMs:    5,
			MinIntervalMs:     50,
		},
		Scoring: SnakeScoring{
			Reward: 10,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "snake":
		return defaultSnakeYAML
	default:
		return nil
	}
}
