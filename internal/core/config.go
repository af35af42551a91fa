package core

// RuntimeConfig contains configuration passed to games at initialization.
type RuntimeConfig struct {
	ScreenW int   // Screen width in characters
	ScreenH int   // Screen height in characters
	Seed    int64 // RNG seed; 0 means the platform picks one from the clock
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
	}
}

// GameState is the platform-facing view of a game.
// Returned by Game.State() and after every Step.
type GameState struct {
	Score    int    // Current score
	Started  bool   // Whether play has been started since the last reset
	Paused   bool   // Whether the game is paused
	GameOver bool   // Whether the game has reached a terminal state
	Won      bool   // Terminal state was a win
	Reason   string // Why the game ended (empty while playing)
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
	Ate   bool // An item was consumed this tick
}
