package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/neon-arcade/internal/registry"
	"github.com/vovakirdan/neon-arcade/internal/storage"
)

const (
	maxScores         = 100 // rows loaded per game
	minWidthForPanel  = 70  // below this the stats panel moves above the table
	statsPanelWidth   = 24
	scoreboardChrome  = 7 // title, stats/prompt, help and margins
	minScoreboardRows = 3
)

var (
	scoreTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9"))
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextGame key.Binding
	PrevGame key.Binding
	Clear    key.Binding
	Confirm  key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextGame, k.Clear, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextGame, k.PrevGame},
		{k.Clear, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		NextGame: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next game"),
		),
		PrevGame: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev game"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel shows the stored scores and statistics for one game at
// a time, with the registered games reachable by tab.
type ScoreboardModel struct {
	games      []registry.GameInfo
	gameCursor int
	store      *storage.Store
	scores     []storage.ScoreEntry
	stats      *storage.GameStats
	loadErr    error

	table  table.Model
	help   help.Model
	keys   ScoreboardKeyMap
	width  int
	height int

	confirmClear bool
	quitting     bool
	goingBack    bool
	embedded     bool // inside a session model: leave without tea.Quit
}

// NewScoreboardModel creates a scoreboard showing the first registered game.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		games:  registry.List(),
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.help.Width = width
	m.table = table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(m.tableHeight()),
	)
	m.table.SetStyles(scoreTableStyles())
	m.reload()
	return m
}

func scoreTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	return s
}

// columns sizes the date column to whatever width is left.
func (m ScoreboardModel) columns() []table.Column {
	avail := m.width - 6
	if m.width >= minWidthForPanel {
		avail -= statsPanelWidth + 4
	}
	date := min(max(avail-6-10, 12), 20)
	return []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Score", Width: 10},
		{Title: "Date", Width: date},
	}
}

func (m ScoreboardModel) tableHeight() int {
	return max(m.height-scoreboardChrome, minScoreboardRows)
}

// currentGame returns the game being shown, if any are registered.
func (m ScoreboardModel) currentGame() (registry.GameInfo, bool) {
	if len(m.games) == 0 {
		return registry.GameInfo{}, false
	}
	return m.games[m.gameCursor], true
}

// reload fetches scores and stats for the current game.
func (m *ScoreboardModel) reload() {
	m.scores, m.stats, m.loadErr = nil, nil, nil

	g, ok := m.currentGame()
	if ok && m.store != nil {
		m.scores, m.loadErr = m.store.TopScores(g.ID, maxScores)
		if m.loadErr == nil {
			m.stats, m.loadErr = m.store.GetGameStats(g.ID)
		}
	}

	rows := make([]table.Row, len(m.scores))
	for i, s := range m.scores {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprint(s.Score),
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table.SetColumns(m.columns())
		m.table.SetHeight(m.tableHeight())
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ScoreboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmClear {
		m.confirmClear = false
		if key.Matches(msg, m.keys.Confirm) {
			m.clear()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.goingBack = true
		if m.embedded {
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.NextGame):
		m.cycle(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevGame):
		m.cycle(-1)
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.confirmClear = m.store != nil && len(m.scores) > 0
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *ScoreboardModel) cycle(delta int) {
	if len(m.games) < 2 {
		return
	}
	m.gameCursor = (m.gameCursor + delta + len(m.games)) % len(m.games)
	m.reload()
}

func (m *ScoreboardModel) clear() {
	g, ok := m.currentGame()
	if !ok || m.store == nil {
		return
	}
	if err := m.store.ClearScores(g.ID); err != nil {
		m.loadErr = err
		return
	}
	m.reload()
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	title := "HIGH SCORES"
	if g, ok := m.currentGame(); ok {
		title += "  ·  " + g.Title
		if len(m.games) > 1 {
			title = "‹ " + title + " ›"
		}
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(scoreTitleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")
	b.WriteString(m.body())
	b.WriteString("\n")

	switch {
	case m.confirmClear:
		b.WriteString(promptStyle.Render(" Clear every stored score for this game? (y/N)"))
	case m.loadErr != nil:
		b.WriteString(promptStyle.Render(" " + m.loadErr.Error()))
	default:
		b.WriteString(footerStyle.Render(m.help.View(m.keys)))
	}
	return b.String()
}

// body lays the table and stats side by side, or stacked on narrow screens.
func (m ScoreboardModel) body() string {
	var tbl string
	switch {
	case m.store == nil:
		tbl = "Scores are unavailable without a database."
	case len(m.scores) == 0:
		tbl = "No scores recorded yet."
	default:
		tbl = m.table.View()
	}
	tbl = panelStyle.Render(tbl)

	if m.width < minWidthForPanel {
		if line := m.statsLine(); line != "" {
			return centerText(line, m.width) + "\n" + tbl
		}
		return tbl
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tbl, "  ", m.statsPanel())
}

func (m ScoreboardModel) statsPanel() string {
	var lines []string
	if m.stats == nil || m.stats.GamesCount == 0 {
		lines = []string{"Stats", "", "No games yet."}
	} else {
		lines = []string{
			"Stats",
			"",
			fmt.Sprintf("Games   %d", m.stats.GamesCount),
			fmt.Sprintf("Best    %d", m.stats.HighScore),
			fmt.Sprintf("Average %.0f", m.stats.AvgScore),
			fmt.Sprintf("Total   %d", m.stats.TotalScore),
			"",
			"Last played",
			m.stats.LastPlayed.Format("Jan 02 15:04"),
		}
	}
	return panelStyle.Width(statsPanelWidth).Render(strings.Join(lines, "\n"))
}

// statsLine summarizes the current game's history in one row.
func (m ScoreboardModel) statsLine() string {
	if m.stats == nil || m.stats.GamesCount == 0 {
		return ""
	}
	return fmt.Sprintf("%d games  |  best %d  |  avg %.0f", m.stats.GamesCount, m.stats.HighScore, m.stats.AvgScore)
}

// IsQuitting returns true if user requested to quit.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// IsGoingBack returns true if user requested to go back.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// RunScoreboard shows the scoreboard until the user leaves. goBack is true
// when the user asked for the menu rather than to quit.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	final, err := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ScoreboardModel)
	return ok && m.IsGoingBack(), nil
}
