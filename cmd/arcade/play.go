package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/neon-arcade/internal/games/snake"
	"github.com/vovakirdan/neon-arcade/internal/platform/tui"
	"github.com/vovakirdan/neon-arcade/internal/registry"
	"github.com/vovakirdan/neon-arcade/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game.

Controls:
  Arrows/WASD  - Steer
  Space/Enter  - Play / pause (try again after game over)
  P/Esc        - Pause
  R            - Reset
  ?            - Full help
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - 180 ms per step, speeds up with every item
  normal - 150 ms per step, speeds up with every item
  hard   - 110 ms per step, speeds up with every item
  fixed  - Stays at the config's initial speed

Without --difficulty a picker is shown first.

Examples:
  arcade play snake
  arcade play snake --difficulty hard
  arcade play snake --config ./my-snake.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := args[0]

	// Check if game exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'arcade list' to see available games.")
		os.Exit(1)
	}

	cfg := terminalConfig()

	logger, closeLog := fileLogger()
	defer closeLog()

	difficulty := flagDifficulty
	if gameID == snake.GameID && difficulty == "" {
		preset, err := tui.RunDifficultySelector(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		// User pressed back or quit
		if preset == nil {
			return
		}
		difficulty = string(*preset)
		snake.SetDifficultyPreset(difficulty)
	}

	// Create game instance
	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	logger.Info("play", "game", gameID, "difficulty", difficulty)

	// Run the game
	runErr := tui.Run(game, cfg, tui.Options{Store: store, Logger: logger})

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

