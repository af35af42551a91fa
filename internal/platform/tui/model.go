package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/neon-arcade/internal/core"
	"github.com/vovakirdan/neon-arcade/internal/logging"
	"github.com/vovakirdan/neon-arcade/internal/metrics"
	"github.com/vovakirdan/neon-arcade/internal/registry"
	"github.com/vovakirdan/neon-arcade/internal/storage"
)

var bannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("13"))

var footerStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("241"))

// liveBannerFor is how long the high score banner replaces the help footer
// once the running score passes the stored best.
const liveBannerFor = 3 * time.Second

// Options carries the collaborators a Model reports to. All are optional.
type Options struct {
	Store   *storage.Store
	Logger  *log.Logger
	Metrics *metrics.Metrics

	// ExitOnBack makes the back key quit the program (standalone play).
	ExitOnBack bool
}

// Model is the Bubble Tea model that drives one game.
//
// The model owns the tick timer. Each armed tick carries the generation it
// was armed under; pausing, resetting or leaving the game bumps the
// generation, so a tick already in flight is dropped. A new tick is armed
// only after the previous one has been fully processed.
type Model struct {
	game      registry.Game
	screen    *core.Screen
	config    core.RuntimeConfig
	opts      Options
	keys      GameKeyMap
	help      help.Model
	gameState core.GameState

	gen      int64
	best     int
	recorded bool      // result stored for the current game
	newBest  bool
	bestAt   time.Time // when the running score passed best

	quitting   bool
	backToMenu bool
}

// NewModel creates a model for game and resets the game.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts Options) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	m := Model{
		game:   game,
		config: cfg,
		opts:   opts,
		keys:   DefaultGameKeyMap(),
		help:   help.New(),
	}
	m.help.Width = cfg.ScreenW
	m.screen = core.NewScreen(cfg.ScreenW, m.screenHeight())

	game.Reset(cfg)
	m.gameState = game.State()
	m.loadBest()

	return m
}

// Init starts nothing; the game waits in its ready state for the play key.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		m.screen.Resize(msg.Width, m.screenHeight())
		return m, nil

	case TickMsg:
		return m.handleTick(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.gen = nextGen()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.screen.Resize(m.config.ScreenW, m.screenHeight())
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.gen = nextGen()
		m.backToMenu = true
		if m.opts.ExitOnBack {
			return m, tea.Quit
		}
		return m, nil
	}

	action := m.keys.Action(msg)
	if action == core.ActionNone {
		return m, nil
	}

	prev := m.gameState
	m.game.Input(action)
	m.gameState = m.game.State()

	if (prev.GameOver && !m.gameState.GameOver) || (prev.Started && !m.gameState.Started) {
		m.recorded = false
		m.newBest = false
		m.bestAt = time.Time{}
	}
	if !prev.Started && m.gameState.Started {
		m.opts.Metrics.GameStarted(m.game.ID())
		m.opts.Logger.Debug("game started", "game", m.game.ID())
	}

	return m, m.syncTimer(prev)
}

// syncTimer arms or disarms the tick timer after a state change.
func (m *Model) syncTimer(prev core.GameState) tea.Cmd {
	was, now := running(prev), running(m.gameState)
	switch {
	case now && !was:
		m.gen = nextGen()
		return tickCmd(m.gen, m.game.TickInterval())
	case was && !now:
		m.gen = nextGen()
	}
	return nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.gen || !running(m.gameState) {
		return m, nil
	}

	result := m.game.Step()
	m.gameState = result.State
	if result.Ate {
		m.opts.Metrics.ItemConsumed(m.game.ID())
	}
	m.checkLiveBest()

	if m.gameState.GameOver {
		m.finish()
		return m, nil
	}
	return m, tickCmd(m.gen, m.game.TickInterval())
}

// checkLiveBest raises the banner the first time this game's score passes
// the stored best.
func (m *Model) checkLiveBest() {
	if m.newBest || m.gameState.Score <= m.best {
		return
	}
	m.newBest = true
	m.bestAt = time.Now()
	m.opts.Logger.Debug("best passed", "game", m.game.ID(), "score", m.gameState.Score, "best", m.best)
}

// finish records the terminal result once per game. The store has the final
// say on whether it was a new best.
func (m *Model) finish() {
	if m.recorded {
		return
	}
	m.recorded = true

	id, score := m.game.ID(), m.gameState.Score
	m.opts.Metrics.GameEnded(id, m.gameState.Reason)
	m.opts.Logger.Info("game over", "game", id, "score", score, "reason", m.gameState.Reason)

	if m.opts.Store == nil {
		return
	}
	newBest, err := m.opts.Store.RecordResult(id, score)
	if err != nil {
		// Best-effort save, game continues regardless
		m.opts.Logger.Warn("could not record score", "game", id, "error", err)
		return
	}
	m.newBest = newBest
	if newBest {
		m.best = score
		if bs, ok := m.game.(registry.BestScoreSetter); ok {
			bs.SetBest(score)
		}
	}
}

func (m *Model) loadBest() {
	if m.opts.Store == nil {
		return
	}
	best, err := m.opts.Store.HighScore(m.game.ID())
	if err != nil {
		m.opts.Logger.Warn("could not load high score", "game", m.game.ID(), "error", err)
		return
	}
	m.best = best
	if bs, ok := m.game.(registry.BestScoreSetter); ok {
		bs.SetBest(best)
	}
}

func running(st core.GameState) bool {
	return st.Started && !st.Paused && !st.GameOver
}

// footerLines is the height of the help footer below the game screen.
func (m Model) footerLines() int {
	if m.help.ShowAll {
		n := 0
		for _, col := range m.keys.FullHelp() {
			n = max(n, len(col))
		}
		return n
	}
	return 1
}

func (m Model) screenHeight() int {
	return max(m.config.ScreenH-m.footerLines(), 0)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.opts.Logger.Warn("screenshot failed", "error", err)
		return
	}
	dir := filepath.Join(home, ".arcade", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.opts.Logger.Warn("screenshot failed", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.opts.Logger.Warn("screenshot failed", "error", err)
		return
	}
	m.opts.Logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	footer := footerStyle.Render(m.help.View(m.keys))
	if m.showBanner() {
		best := max(m.best, m.gameState.Score)
		footer = bannerStyle.Render(centerText(fmt.Sprintf("★ NEW HIGH SCORE: %d ★", best), m.config.ScreenW))
	}

	return RenderScreen(m.screen) + "\n" + footer
}

// showBanner keeps the banner up for the rest of a finished game, and
// briefly when a running game passes the best.
func (m Model) showBanner() bool {
	if !m.newBest || m.help.ShowAll {
		return false
	}
	return m.gameState.GameOver || time.Since(m.bestAt) < liveBannerFor
}

// GameState returns the last state reported by the game.
func (m Model) GameState() core.GameState {
	return m.gameState
}

// NewBest reports whether the current game has beaten the stored high
// score; once the game is over it reflects what the store recorded.
func (m Model) NewBest() bool {
	return m.newBest
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run plays game in the terminal until the user quits or goes back.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) error {
	opts.ExitOnBack = true
	opts.Metrics.SessionOpened(metrics.FrontendTerminal)
	defer opts.Metrics.SessionClosed(metrics.FrontendTerminal)

	p := tea.NewProgram(
		NewModel(game, cfg, opts),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
