package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/neon-arcade/internal/core"
	"github.com/vovakirdan/neon-arcade/internal/games/snake"
	"github.com/vovakirdan/neon-arcade/internal/platform/tui"
	"github.com/vovakirdan/neon-arcade/internal/registry"
	"github.com/vovakirdan/neon-arcade/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the arcade with a game picker menu",
	Long: `Start the arcade in interactive menu mode.

Pick a game, play it, press B to come back and pick again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select game
  Tab          - High scores
  Q            - Quit

Examples:
  arcade menu
  arcade menu --difficulty hard
  arcade menu --db ./scores.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	} else {
		defer store.Close()
	}

	logger, closeLog := fileLogger()
	defer closeLog()

	cfg := terminalConfig()
	for {
		res, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg = res.Config

		switch {
		case res.Quit, res.GameID == "" && !res.WantsScoreboard:
			return

		case res.WantsScoreboard:
			goBack, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			if !goBack {
				return
			}

		default:
			if err := playFromMenu(res.GameID, cfg, store, logger); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}

// playFromMenu runs one game and returns to the menu loop. Backing out of
// the difficulty picker is not an error.
func playFromMenu(gameID string, cfg core.RuntimeConfig, store *storage.Store, logger *log.Logger) error {
	difficulty := flagDifficulty
	if gameID == snake.GameID && difficulty == "" {
		preset, err := tui.RunDifficultySelector(cfg)
		if err != nil {
			return err
		}
		if preset == nil {
			return nil
		}
		difficulty = string(*preset)
		snake.SetDifficultyPreset(difficulty)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	// --seed pins the item sequence; otherwise every round differs.
	if flagSeed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	logger.Info("menu play", "game", gameID, "difficulty", difficulty, "seed", cfg.Seed)
	if err := tui.Run(game, cfg, tui.Options{Store: store, Logger: logger}); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
