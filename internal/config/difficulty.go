package config

import "strings"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed" // no speed-up
)

// ParsePreset converts a flag value into a preset.
// Empty input yields ok=true with an empty preset, meaning "leave config alone".
func ParsePreset(s string) (DifficultyPreset, bool) {
	p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	default:
		return "", false
	}
}

// InitialIntervalForPreset returns the starting tick period for a preset.
// Returns 0 for presets that keep the configured value.
func InitialIntervalForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyEasy:
		return 180
	case DifficultyNormal:
		return 150
	case DifficultyHard:
		return 110
	default:
		return 0
	}
}

// IsFixedPreset returns true if the preset disables speed-up.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplySnakePreset modifies the config based on a difficulty preset.
func ApplySnakePreset(cfg *SnakeConfig, preset DifficultyPreset) {
	if IsFixedPreset(preset) {
		cfg.Timing.IntervalStepMs = 0
		return
	}

	interval := InitialIntervalForPreset(preset)
	if interval == 0 {
		return
	}
	cfg.Timing.InitialIntervalMs = interval
	if cfg.Timing.MinIntervalMs > interval {
		cfg.Timing.MinIntervalMs = interval
	}
}
