package snake

import (
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/neon-arcade/internal/config"
	"github.com/vovakirdan/neon-arcade/internal/core"
	"github.com/vovakirdan/neon-arcade/internal/registry"
)

// GameID is the registry and score-table identifier.
const GameID = "snake"

const hudHeight = 2

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading. The file must
// load and produce valid rules; on error the previous path stays in use.
// An empty path restores the default search order.
func SetConfigPath(path string) error {
	if path != "" {
		cfg, err := config.LoadSnake(path)
		if err != nil {
			return err
		}
		if err := RulesFromConfig(cfg).Validate(); err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
	}
	configPath = path
	return nil
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	p, ok := config.ParsePreset(preset)
	if !ok {
		p = ""
	}
	difficultyPreset = p
}

// LoadRules loads the snake configuration (custom path, user dir, embedded
// defaults) and applies the preset selected with SetDifficultyPreset.
func LoadRules() (Rules, error) {
	return RulesForPreset(difficultyPreset)
}

// RulesForPreset loads the configuration and applies preset. Servers use it
// to pick a difficulty per session without touching the package defaults.
func RulesForPreset(preset config.DifficultyPreset) (Rules, error) {
	cfg, err := config.LoadSnake(configPath)
	if err != nil {
		return Rules{}, err
	}
	if preset != "" {
		config.ApplySnakePreset(&cfg, preset)
	}
	rules := RulesFromConfig(cfg)
	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

// Game adapts the Engine to the platform's registry.Game interface.
// The platform owns the tick timer and calls Step once per TickInterval.
type Game struct {
	rules  Rules
	engine *Engine
	state  State
	best   int
}

func init() {
	registry.Register(registry.GameInfo{
		ID:          GameID,
		Title:       "Snake",
		Description: "Eat, grow, speed up. Don't bite the wall or yourself.",
	}, func() registry.Game {
		return New()
	})
}

// New creates a Snake game using the loaded configuration. SetConfigPath
// rejects bad custom files up front; anything that still fails to load
// here falls back to the defaults.
func New() *Game {
	rules, err := LoadRules()
	if err != nil {
		rules = DefaultRules()
	}
	return NewWithRules(rules)
}

// NewWithRules creates a Snake game with explicit rules.
func NewWithRules(rules Rules) *Game {
	return &Game{rules: rules}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Snake"
}

// Reset builds a fresh engine seeded from cfg. The screen size is not
// stored; Render lays the board out for whatever buffer it is given.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e, err := NewEngine(g.rules, seed)
	if err != nil {
		g.rules = DefaultRules()
		e, _ = NewEngine(g.rules, seed)
	}
	g.engine = e
	g.state = e.State()
}

// Start begins play from the Ready state.
func (g *Game) Start() {
	g.ensure()
	g.state = g.engine.Start()
}

// Pause suspends a running game.
func (g *Game) Pause() {
	g.ensure()
	g.state = g.engine.Pause()
}

// Resume continues a paused game.
func (g *Game) Resume() {
	g.ensure()
	g.state = g.engine.Resume()
}

// Input applies one platform action between ticks.
//
// Directions are buffered for the next tick. Confirm is the play/pause
// button: it starts a ready game, toggles pause, and starts over after the
// game has ended. Pause toggles pause. Restart discards the game.
func (g *Game) Input(a core.Action) {
	g.ensure()

	switch a {
	case core.ActionUp:
		g.engine.SetPendingDirection(DirUp)
	case core.ActionDown:
		g.engine.SetPendingDirection(DirDown)
	case core.ActionLeft:
		g.engine.SetPendingDirection(DirLeft)
	case core.ActionRight:
		g.engine.SetPendingDirection(DirRight)

	case core.ActionConfirm:
		switch g.state.Status {
		case StatusReady:
			g.state = g.engine.Start()
		case StatusRunning:
			g.state = g.engine.Pause()
		case StatusPaused:
			g.state = g.engine.Resume()
		case StatusTerminated:
			g.state = g.engine.Reset()
		}
		return

	case core.ActionPause:
		if g.state.Status == StatusPaused {
			g.state = g.engine.Resume()
		} else {
			g.state = g.engine.Pause()
		}
		return

	case core.ActionRestart:
		g.state = g.engine.Reset()
		return
	}

	g.state = g.engine.State()
}

// Step advances the engine by one tick.
func (g *Game) Step() core.StepResult {
	g.ensure()

	before := g.state.Consumed
	g.state = g.engine.Advance()

	return core.StepResult{
		State: g.State(),
		Ate:   g.state.Consumed > before,
	}
}

// TickInterval returns the period until the next Step.
func (g *Game) TickInterval() time.Duration {
	g.ensure()
	return g.state.Interval()
}

// SetBest tells the game the stored high score for the HUD.
func (g *Game) SetBest(best int) {
	g.best = best
}

// Snapshot returns a copy of the engine state.
func (g *Game) Snapshot() State {
	g.ensure()
	return g.engine.State()
}

// State returns the platform view of the game.
func (g *Game) State() core.GameState {
	st := g.state
	return core.GameState{
		Score:    st.Score,
		Started:  st.Status != StatusReady && st.Status != "",
		Paused:   st.Status == StatusPaused,
		GameOver: st.Status == StatusTerminated,
		Won:      st.Won(),
		Reason:   string(st.Reason),
	}
}

func (g *Game) ensure() {
	if g.engine == nil {
		g.Reset(core.RuntimeConfig{})
	}
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	g.ensure()
	dst.Clear()

	g.renderHUD(dst)

	board, cellW, ok := g.layout(dst)
	if !ok {
		n := g.rules.GridSize
		renderOverlay(dst, "Window too small", fmt.Sprintf("Need %dx%d", n+2, n+2+hudHeight))
		return
	}

	dst.DrawBox(board, core.ColorCyan)
	g.renderItem(dst, board, cellW)
	g.renderSnake(dst, board, cellW)

	st := g.state
	switch {
	case st.Won():
		renderOverlay(dst, "You Win!", fmt.Sprintf("Final Score: %d", st.Score), "SPACE to play again")
	case st.Status == StatusTerminated:
		renderOverlay(dst, "Game Over", reasonText(st.Reason), "SPACE to try again")
	case st.Status == StatusPaused:
		renderOverlay(dst, "Paused", "SPACE to resume")
	case st.Status == StatusReady:
		renderOverlay(dst, "Snake", "SPACE to play")
	}
}

// layout returns the board rectangle (border included) and the width of
// one grid cell in columns. Cells are two columns wide when the screen
// allows it, which keeps the board roughly square in a terminal.
func (g *Game) layout(dst *core.Screen) (core.Rect, int, bool) {
	n := g.rules.GridSize
	availH := dst.Height() - hudHeight
	if dst.Width() < n+2 || availH < n+2 {
		return core.Rect{}, 0, false
	}

	cellW := 1
	if dst.Width() >= 2*n+2 {
		cellW = 2
	}

	w, h := n*cellW+2, n+2
	x := (dst.Width() - w) / 2
	y := hudHeight + (availH-h)/2
	return core.NewRect(x, y, w, h), cellW, true
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *core.Screen) {
	best := max(g.best, g.state.Score)
	hud := fmt.Sprintf(" SNAKE  Score: %d  Best: %d  Speed: %dms", g.state.Score, best, g.state.TickIntervalMs)
	dst.DrawTextColor(0, 0, hud, core.ColorBrightCyan)

	for x := range dst.Width() {
		dst.SetColor(x, 1, '─', core.ColorGray)
	}
}

func (g *Game) renderItem(dst *core.Screen, board core.Rect, cellW int) {
	if !g.state.HasItem {
		return
	}
	x, y := cellOrigin(board, cellW, g.state.Item)
	dst.SetColor(x, y, '●', core.ColorBrightMagenta)
}

func (g *Game) renderSnake(dst *core.Screen, board core.Rect, cellW int) {
	// Draw tail first so the head stays on top.
	for i := len(g.state.Body) - 1; i >= 0; i-- {
		r, c := '█', core.ColorGreen
		if i == 0 {
			c = core.ColorBrightGreen
		}
		x, y := cellOrigin(board, cellW, g.state.Body[i])
		for dx := range cellW {
			dst.SetColor(x+dx, y, r, c)
		}
	}
}

func cellOrigin(board core.Rect, cellW int, c Cell) (int, int) {
	return board.X + 1 + c.X*cellW, board.Y + 1 + c.Y
}

func reasonText(r Reason) string {
	switch r {
	case ReasonBoundaryCollision:
		return "You hit the wall"
	case ReasonSelfCollision:
		return "You ran into yourself"
	default:
		return ""
	}
}

// renderOverlay draws a boxed, centered message.
func renderOverlay(dst *core.Screen, lines ...string) {
	var body []string
	width := 0
	for _, l := range lines {
		if l == "" {
			continue
		}
		body = append(body, l)
		width = max(width, len([]rune(l)))
	}

	box := dst.Bounds().Centered(width+4, len(body)+2)
	dst.FillRect(box, ' ')
	dst.DrawBox(box, core.ColorYellow)
	for i, l := range body {
		dst.DrawTextCentered(box.Y+1+i, l, core.ColorBrightYellow)
	}
}

// DebugState returns a string representation of the game state.
func (g *Game) DebugState() string {
	g.ensure()
	st := g.state

	var b strings.Builder
	fmt.Fprintf(&b, "Tick: %d, Score: %d, Status: %s\n", st.Tick, st.Score, st.Status)
	fmt.Fprintf(&b, "Snake len: %d, Direction: %s, Pending: %s\n", len(st.Body), st.Direction, st.Pending)
	fmt.Fprintf(&b, "Head: (%d, %d), Item: (%d, %d)\n", st.Head().X, st.Head().Y, st.Item.X, st.Item.Y)
	fmt.Fprintf(&b, "Interval: %dms, Reason: %q\n", st.TickIntervalMs, st.Reason)
	return b.String()
}
