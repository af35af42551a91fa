package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/neon-arcade/internal/registry"
	"github.com/vovakirdan/neon-arcade/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available games",
	Long:  `Shows every registered game with its stored best score.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()
	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	// Best scores are a nicety; the list works without a database.
	store, err := storage.Open(flagDBPath)
	if err != nil {
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tTITLE\tBEST\tDESCRIPTION")
	for _, g := range games {
		best := "-"
		if store != nil {
			if n, err := store.HighScore(g.ID); err == nil && n > 0 {
				best = fmt.Sprint(n)
			}
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", g.ID, g.Title, best, g.Description)
	}
	w.Flush()

	fmt.Println()
	fmt.Println("Run 'arcade play <id>' to play a game.")
}
