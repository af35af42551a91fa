package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/neon-arcade/internal/core"
	"github.com/vovakirdan/neon-arcade/internal/storage"
)

// scriptedGame gains perStep points a step and ends after endAfter steps,
// with score as the final score when it is set.
type scriptedGame struct {
	state    core.GameState
	steps    int
	endAfter int
	perStep  int
	score    int
	best     int
}

func (g *scriptedGame) ID() string    { return "scripted" }
func (g *scriptedGame) Title() string { return "Scripted" }

func (g *scriptedGame) Reset(core.RuntimeConfig) {
	g.state = core.GameState{}
	g.steps = 0
}

func (g *scriptedGame) Start()  { g.state.Started = true }
func (g *scriptedGame) Pause()  { g.state.Paused = g.state.Started && !g.state.GameOver }
func (g *scriptedGame) Resume() { g.state.Paused = false }

func (g *scriptedGame) Input(a core.Action) {
	switch a {
	case core.ActionConfirm:
		switch {
		case g.state.GameOver:
			g.Reset(core.RuntimeConfig{})
		case !g.state.Started:
			g.Start()
		case g.state.Paused:
			g.Resume()
		default:
			g.Pause()
		}
	case core.ActionPause:
		if g.state.Paused {
			g.Resume()
		} else {
			g.Pause()
		}
	case core.ActionRestart:
		g.Reset(core.RuntimeConfig{})
	}
}

func (g *scriptedGame) Step() core.StepResult {
	g.steps++
	g.state.Score += g.perStep
	if g.steps >= g.endAfter {
		g.state.GameOver = true
		if g.score > 0 {
			g.state.Score = g.score
		}
		g.state.Reason = "boundary_collision"
	}
	return core.StepResult{State: g.state}
}

func (g *scriptedGame) TickInterval() time.Duration { return 10 * time.Millisecond }
func (g *scriptedGame) Render(dst *core.Screen)     { dst.DrawText(0, 0, "scripted") }
func (g *scriptedGame) State() core.GameState       { return g.state }
func (g *scriptedGame) SetBest(best int)            { g.best = best }

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1}
}

func TestModelStartArmsTick(t *testing.T) {
	g := &scriptedGame{endAfter: 100}
	m := NewModel(g, testConfig(), Options{})

	if cmd := m.Init(); cmd != nil {
		t.Error("Init should not arm a tick before play")
	}

	m, cmd := update(t, m, keySpace)
	if cmd == nil {
		t.Fatal("starting the game did not arm a tick")
	}
	if !m.GameState().Started {
		t.Error("game not started")
	}
}

func TestModelTickAdvancesAndRearms(t *testing.T) {
	g := &scriptedGame{endAfter: 100}
	m := NewModel(g, testConfig(), Options{})
	m, _ = update(t, m, keySpace)

	m, cmd := update(t, m, TickMsg{Gen: m.gen})
	if g.steps != 1 {
		t.Errorf("steps = %d, want 1", g.steps)
	}
	if cmd == nil {
		t.Error("tick was not re-armed")
	}
}

func TestModelDropsStaleTick(t *testing.T) {
	g := &scriptedGame{endAfter: 100}
	m := NewModel(g, testConfig(), Options{})
	m, _ = update(t, m, keySpace)
	stale := m.gen

	m, _ = update(t, m, keyRune('p'))
	if !m.GameState().Paused {
		t.Fatal("expected paused")
	}

	m, cmd := update(t, m, TickMsg{Gen: stale})
	if g.steps != 0 || cmd != nil {
		t.Errorf("stale tick advanced the game: steps=%d cmd=%v", g.steps, cmd != nil)
	}

	// Resuming arms a fresh generation; the old tick still does nothing.
	m, _ = update(t, m, keyRune('p'))
	if m.gen == stale {
		t.Fatal("resume reused the old generation")
	}
	update(t, m, TickMsg{Gen: stale})
	if g.steps != 0 {
		t.Errorf("stale tick advanced the game after resume")
	}
}

func TestModelResetDisarms(t *testing.T) {
	g := &scriptedGame{endAfter: 100}
	m := NewModel(g, testConfig(), Options{})
	m, _ = update(t, m, keySpace)
	armed := m.gen

	m, _ = update(t, m, keyRune('r'))
	if m.GameState().Started {
		t.Fatal("reset did not return to ready")
	}
	update(t, m, TickMsg{Gen: armed})
	if g.steps != 0 {
		t.Error("tick armed before reset advanced the game")
	}
}

func TestModelRecordsResultOnce(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	g := &scriptedGame{endAfter: 1, score: 50}
	m := NewModel(g, testConfig(), Options{Store: store})
	m, _ = update(t, m, keySpace)

	m, cmd := update(t, m, TickMsg{Gen: m.gen})
	if !m.GameState().GameOver {
		t.Fatal("expected game over")
	}
	if cmd != nil {
		t.Error("tick re-armed after game over")
	}
	if !m.NewBest() || g.best != 50 {
		t.Errorf("NewBest=%v best=%d, want new best 50", m.NewBest(), g.best)
	}
	if !strings.Contains(m.View(), "NEW HIGH SCORE") {
		t.Error("new high score banner missing")
	}

	m, _ = update(t, m, TickMsg{Gen: m.gen})
	scores, err := store.AllScores("scripted")
	if err != nil {
		t.Fatalf("AllScores: %v", err)
	}
	if len(scores) != 1 || scores[0].Score != 50 {
		t.Errorf("stored scores = %+v, want one 50", scores)
	}

	// Try again clears the banner.
	m, _ = update(t, m, keySpace)
	if m.NewBest() || m.GameState().GameOver {
		t.Errorf("try again kept the finished game: %+v", m.GameState())
	}
}

func TestModelBannerWhenRunningScorePassesBest(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()
	if _, err := store.SaveScore("scripted", 20); err != nil {
		t.Fatalf("SaveScore: %v", err)
	}

	g := &scriptedGame{endAfter: 100, perStep: 15}
	m := NewModel(g, testConfig(), Options{Store: store})
	m, _ = update(t, m, keySpace)

	m, _ = update(t, m, TickMsg{Gen: m.gen})
	if m.NewBest() || strings.Contains(m.View(), "NEW HIGH SCORE") {
		t.Fatalf("banner raised at score %d below best 20", m.GameState().Score)
	}

	m, _ = update(t, m, TickMsg{Gen: m.gen})
	if !m.NewBest() {
		t.Fatalf("score %d passed best 20 without a banner", m.GameState().Score)
	}
	if !strings.Contains(m.View(), "NEW HIGH SCORE: 30") {
		t.Error("banner missing the running score")
	}
	if m.GameState().GameOver {
		t.Fatal("game should still be running")
	}

	// Passing the best is not a result; nothing is stored yet.
	if scores, _ := store.AllScores("scripted"); len(scores) != 1 {
		t.Errorf("stored %d scores during play, want only the seeded one", len(scores))
	}

	// Reset mid-game clears it.
	m, _ = update(t, m, keyRune('r'))
	if m.NewBest() || strings.Contains(m.View(), "NEW HIGH SCORE") {
		t.Error("reset kept the banner")
	}
}

func TestModelBackAndQuit(t *testing.T) {
	g := &scriptedGame{endAfter: 100}
	m := NewModel(g, testConfig(), Options{})
	m, _ = update(t, m, keySpace)
	armed := m.gen

	m, cmd := update(t, m, keyRune('b'))
	if !m.BackToMenu() || cmd != nil {
		t.Errorf("back: BackToMenu=%v cmd=%v", m.BackToMenu(), cmd != nil)
	}
	update(t, m, TickMsg{Gen: armed})
	if g.steps != 0 {
		t.Error("tick advanced a game that was left")
	}

	m = NewModel(g, testConfig(), Options{})
	m, cmd = update(t, m, keyRune('q'))
	if !m.IsQuitting() || cmd == nil {
		t.Error("q did not quit")
	}
	if m.View() != "" {
		t.Error("view not empty after quit")
	}
}

func TestModelHelpResizesScreen(t *testing.T) {
	m := NewModel(&scriptedGame{endAfter: 100}, testConfig(), Options{})
	if m.screen.Height() != 23 {
		t.Fatalf("screen height = %d, want 23", m.screen.Height())
	}

	m, _ = update(t, m, keyRune('?'))
	if m.screen.Height() != 20 {
		t.Errorf("screen height with full help = %d, want 20", m.screen.Height())
	}
}

func TestSessionFlow(t *testing.T) {
	s := NewSessionModel(testConfig(), Options{})

	next, _ := s.Update(keyEnter)
	s = next.(SessionModel)
	if s.screen != screenDifficulty {
		t.Fatalf("screen = %v, want difficulty", s.screen)
	}

	next, _ = s.Update(keyEnter)
	s = next.(SessionModel)
	if s.screen != screenGame {
		t.Fatalf("screen = %v, want game", s.screen)
	}

	next, _ = s.Update(keyRune('b'))
	s = next.(SessionModel)
	if s.screen != screenMenu {
		t.Fatalf("screen = %v, want menu", s.screen)
	}

	next, cmd := s.Update(tea.KeyMsg{Type: tea.KeyTab})
	s = next.(SessionModel)
	if s.screen != screenScoreboard || cmd != nil {
		t.Fatalf("screen = %v, want scoreboard without quitting", s.screen)
	}

	next, cmd = s.Update(keyRune('b'))
	s = next.(SessionModel)
	if s.screen != screenMenu || cmd != nil {
		t.Errorf("scoreboard back: screen = %v", s.screen)
	}
}
