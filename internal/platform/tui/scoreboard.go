package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/shapesort/internal/registry"
	"github.com/vovakirdan/shapesort/internal/storage"
)

// boardLimit caps how many runs a mode's table loads.
const boardLimit = 100

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardTabStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	boardActiveTab  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).Padding(0, 1)
	boardFrameStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	boardEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(1, 2)
)

// boardKeys are the scoreboard bindings, shown by the help bar.
type boardKeys struct {
	Scroll key.Binding
	Mode   key.Binding
	Wins   key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp implements help.KeyMap.
func (k boardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Scroll, k.Mode, k.Wins, k.Back, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k boardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var (
	keyPrevMode = key.NewBinding(key.WithKeys("left", "h", "shift+tab"))
	keyNextMode = key.NewBinding(key.WithKeys("right", "l", "tab"))
)

func newBoardKeys() boardKeys {
	return boardKeys{
		Scroll: key.NewBinding(key.WithKeys("up", "down", "k", "j"), key.WithHelp("↑/↓", "scroll")),
		Mode:   key.NewBinding(key.WithKeys("left", "right", "tab"), key.WithHelp("←/→", "mode")),
		Wins:   key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "wins only")),
		Back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel lists recorded runs per game mode.
type ScoreboardModel struct {
	store *storage.Store
	modes []registry.GameInfo
	mode  int

	runs     []storage.ScoreEntry
	stats    *storage.GameStats
	winsOnly bool

	table table.Model
	help  help.Model
	keys  boardKeys

	width, height int
	quitting      bool
	goingBack     bool
	embedded      bool // hosted by a session; leaving does not quit the program
}

// NewScoreboardModel creates a scoreboard showing the first registered mode.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		store:  store,
		modes:  registry.List(),
		help:   help.New(),
		keys:   newBoardKeys(),
		width:  width,
		height: height,
	}
	m.table = newBoardTable(width, height)
	m.reload()
	return m
}

func newBoardTable(width, height int) table.Model {
	dateW := 14
	if width > 70 {
		dateW = 20
	}
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 5},
			{Title: "Score", Width: 8},
			{Title: "Result", Width: 8},
			{Title: "Played", Width: dateW},
		}),
		table.WithFocused(true),
		table.WithHeight(max(height-10, 3)),
	)

	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	st.Selected = st.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(st)
	return t
}

// reload fetches runs and stats for the current mode.
func (m *ScoreboardModel) reload() {
	m.runs, m.stats = nil, nil
	if m.store != nil && len(m.modes) > 0 {
		id := m.modes[m.mode].ID
		if runs, err := m.store.TopScores(id, boardLimit); err == nil {
			m.runs = runs
		}
		if stats, err := m.store.GetGameStats(id); err == nil {
			m.stats = stats
		}
	}
	m.fillTable()
}

func (m *ScoreboardModel) fillTable() {
	rows := make([]table.Row, 0, len(m.runs))
	for _, r := range m.runs {
		won := r.Outcome == "win"
		if m.winsOnly && !won {
			continue
		}
		result := "lost"
		if won {
			result = "won"
		}
		rows = append(rows, table.Row{
			strconv.Itoa(len(rows) + 1),
			strconv.Itoa(r.Score),
			result,
			r.CreatedAt.Format("Jan 02 15:04"),
		})
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init implements tea.Model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, m.exit()
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, m.exit()
		case key.Matches(msg, keyNextMode):
			m.cycle(1)
			return m, nil
		case key.Matches(msg, keyPrevMode):
			m.cycle(-1)
			return m, nil
		case key.Matches(msg, m.keys.Wins):
			m.winsOnly = !m.winsOnly
			m.fillTable()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table = newBoardTable(m.width, m.height)
		m.fillTable()
		m.help.Width = msg.Width
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// cycle moves to the next or previous mode, wrapping around.
func (m *ScoreboardModel) cycle(step int) {
	if len(m.modes) == 0 {
		return
	}
	m.mode = (m.mode + step + len(m.modes)) % len(m.modes)
	m.reload()
}

func (m ScoreboardModel) exit() tea.Cmd {
	if m.embedded {
		return nil
	}
	return tea.Quit
}

// View implements tea.Model.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	title := "HIGH SCORES"
	if m.winsOnly {
		title += " (wins)"
	}

	body := boardEmptyStyle.Render("No runs recorded yet.\nSort some shapes to set a high score!")
	if len(m.table.Rows()) > 0 {
		body = m.table.View()
	}

	sections := []string{
		"",
		centerText(boardTitleStyle.Render(title), m.width),
		centerText(m.tabs(), m.width),
		centerText(m.summary(), m.width),
		centerText(boardFrameStyle.Render(body), m.width),
		m.help.View(m.keys),
	}
	return strings.Join(sections, "\n")
}

// tabs renders the mode switcher, collapsing to the current mode when the
// row does not fit.
func (m ScoreboardModel) tabs() string {
	if len(m.modes) == 0 {
		return ""
	}
	parts := make([]string, len(m.modes))
	for i, g := range m.modes {
		if i == m.mode {
			parts[i] = boardActiveTab.Render(g.Title)
		} else {
			parts[i] = boardTabStyle.Render(g.Title)
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if lipgloss.Width(row) > m.width-2 {
		return boardActiveTab.Render("< " + m.modes[m.mode].Title + " >")
	}
	return row
}

// summary describes every recorded run of the current mode.
func (m ScoreboardModel) summary() string {
	st := m.stats
	if st == nil || st.GamesCount == 0 {
		return ""
	}
	return fmt.Sprintf("Runs %d   Wins %d (%.0f%%)   Best %d   Avg %.1f",
		st.GamesCount, st.Wins, st.WinRate()*100, st.HighScore, st.AvgScore)
}

// Mode returns the ID of the mode on display.
func (m ScoreboardModel) Mode() string {
	if len(m.modes) == 0 {
		return ""
	}
	return m.modes[m.mode].ID
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
