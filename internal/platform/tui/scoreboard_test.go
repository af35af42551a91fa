package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/neon-arcade/internal/storage"
)

func newScoreStore(t *testing.T, scores ...int) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	for _, s := range scores {
		if _, err := store.SaveScore("snake", s); err != nil {
			t.Fatalf("SaveScore: %v", err)
		}
	}
	return store
}

func sendScoreboard(t *testing.T, m ScoreboardModel, msg tea.Msg) (ScoreboardModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	sm, ok := next.(ScoreboardModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return sm, cmd
}

func TestScoreboardShowsRankedScores(t *testing.T) {
	m := NewScoreboardModel(newScoreStore(t, 30, 10, 20), 100, 30)

	g, ok := m.currentGame()
	if !ok || g.ID != "snake" {
		t.Fatalf("current game = %+v, %v; want snake", g, ok)
	}

	rows := m.table.Rows()
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0][0] != "#1" || rows[0][1] != "30" {
		t.Errorf("first row = %v, want #1 30", rows[0])
	}
	if rows[2][1] != "10" {
		t.Errorf("last row score = %s, want 10", rows[2][1])
	}

	view := m.View()
	for _, want := range []string{"HIGH SCORES", "Snake", "Games   3", "Best    30"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestScoreboardNarrowShowsStatsLine(t *testing.T) {
	m := NewScoreboardModel(newScoreStore(t, 40), 50, 30)
	view := m.View()
	if !strings.Contains(view, "1 games  |  best 40") {
		t.Errorf("narrow view missing stats line:\n%s", view)
	}
	if strings.Contains(view, "Last played") {
		t.Error("narrow view should not render the stats panel")
	}
}

func TestScoreboardEmptyAndNoStore(t *testing.T) {
	m := NewScoreboardModel(newScoreStore(t), 100, 30)
	if !strings.Contains(m.View(), "No scores recorded yet.") {
		t.Error("empty store should say no scores")
	}

	m = NewScoreboardModel(nil, 100, 30)
	if !strings.Contains(m.View(), "without a database") {
		t.Error("nil store should say scores are unavailable")
	}
	m, _ = sendScoreboard(t, m, keyRune('x'))
	if m.confirmClear {
		t.Error("clear prompt opened without a store")
	}
}

func TestScoreboardClear(t *testing.T) {
	store := newScoreStore(t, 5, 15)
	m := NewScoreboardModel(store, 100, 30)

	m, _ = sendScoreboard(t, m, keyRune('x'))
	if !m.confirmClear {
		t.Fatal("x should ask for confirmation")
	}
	if !strings.Contains(m.View(), "Clear every stored score") {
		t.Error("prompt not shown")
	}

	// Anything but y cancels.
	m, _ = sendScoreboard(t, m, keyRune('n'))
	if m.confirmClear || len(m.scores) != 2 {
		t.Fatalf("cancel: confirm=%v scores=%d", m.confirmClear, len(m.scores))
	}

	m, _ = sendScoreboard(t, m, keyRune('x'))
	m, _ = sendScoreboard(t, m, keyRune('y'))
	if len(m.scores) != 0 || len(m.table.Rows()) != 0 {
		t.Fatalf("scores after clear = %d", len(m.scores))
	}
	if best, _ := store.HighScore("snake"); best != 0 {
		t.Errorf("stored best after clear = %d, want 0", best)
	}
}

func TestScoreboardBack(t *testing.T) {
	m := NewScoreboardModel(nil, 80, 24)
	m, cmd := sendScoreboard(t, m, keyRune('b'))
	if !m.IsGoingBack() || cmd == nil {
		t.Fatalf("standalone back: goingBack=%v cmd=%v", m.IsGoingBack(), cmd)
	}

	m = NewScoreboardModel(nil, 80, 24)
	m.embedded = true
	m, cmd = sendScoreboard(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.IsGoingBack() || cmd != nil {
		t.Fatalf("embedded back: goingBack=%v cmd=%v", m.IsGoingBack(), cmd)
	}
	if m.View() != "" {
		t.Error("view should be empty once leaving")
	}
}

func TestScoreboardResize(t *testing.T) {
	m := NewScoreboardModel(nil, 80, 24)
	m, _ = sendScoreboard(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.width != 120 || m.height != 40 {
		t.Fatalf("size = %dx%d", m.width, m.height)
	}
	if got := m.tableHeight(); got != 40-scoreboardChrome {
		t.Errorf("table height = %d, want %d", got, 40-scoreboardChrome)
	}

	m, _ = sendScoreboard(t, m, tea.WindowSizeMsg{Width: 40, Height: 5})
	if got := m.tableHeight(); got != minScoreboardRows {
		t.Errorf("tiny table height = %d, want %d", got, minScoreboardRows)
	}
}
