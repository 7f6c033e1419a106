package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/shapesort/internal/config"
	"github.com/vovakirdan/shapesort/internal/core"
	"github.com/vovakirdan/shapesort/internal/registry"
	"github.com/vovakirdan/shapesort/internal/storage"
)

// PointerGame is implemented by games that take mouse input.
type PointerGame interface {
	ScreenToWorld(x, y, screenW, screenH int) core.Vec2
}

// ConfigChangedMsg reports that the watched config file was rewritten.
type ConfigChangedMsg struct {
	Path string
}

// noticeTTL is how long a status notice stays on the bottom row.
const noticeTTL = 4 * time.Second

// Model is the Bubble Tea model for running one game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	renderer   *Renderer
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	watch      <-chan string
	loop       uint64

	notice      string
	noticeUntil time.Time

	embedded   bool // hosted by a session; back does not quit the program
	quitting   bool
	backToMenu bool
	scoreSaved bool // Whether the finished run has been recorded
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		renderer:   NewRenderer(nil),
		store:      store,
		logger:     log.New(io.Discard),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		loop:       nextLoopID(),
	}
}

// WithLogger sets the logger for run and storage messages.
func (m Model) WithLogger(l *log.Logger) Model {
	if l != nil {
		m.logger = l
	}
	return m
}

// WithRenderer sets the renderer used by View.
func (m Model) WithRenderer(r *Renderer) Model {
	if r != nil {
		m.renderer = r
	}
	return m
}

// WithConfigWatch shows a notice whenever a path arrives on ch.
func (m Model) WithConfigWatch(ch <-chan string) Model {
	m.watch = ch
	return m
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	// Note: gameState will be set on first tick (value receiver limitation)

	cmds := []tea.Cmd{tickCmd(m.config.TickRate, m.loop)}
	if m.watch != nil {
		cmds = append(cmds, waitForConfig(m.watch))
	}
	return tea.Batch(cmds...)
}

// waitForConfig blocks until the watcher reports a change.
func waitForConfig(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		path, ok := <-ch
		if !ok {
			return nil
		}
		return ConfigChangedMsg{Path: path}
	}
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		// The world is scaled to the screen, so a resize keeps the run going
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case ConfigChangedMsg:
		m.logger.Info("config changed", "path", msg.Path)
		m.setNotice("config changed, press R to restart with it")
		return m, waitForConfig(m.watch)

	case TickMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionBack:
		// Back leaves a finished or paused run; otherwise it pauses
		if m.gameState.GameOver || m.gameState.Paused {
			m.backToMenu = true
			if !m.embedded {
				return m, tea.Quit
			}
			return m, nil
		}
		m.inputFrame.Set(core.ActionPause)
	case core.ActionPause, core.ActionRestart:
		m.inputFrame.Set(action)
	}

	return m, nil
}

// handleMouse converts terminal cells to world coordinates for pointer games.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	kind, ok := m.keyMapper.MapMouse(msg)
	if !ok {
		return m, nil
	}
	pg, ok := m.game.(PointerGame)
	if !ok {
		return m, nil
	}
	pos := pg.ScreenToWorld(msg.X, msg.Y, m.screen.Width(), m.screen.Height())
	m.inputFrame.AddPointer(kind, pos)
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate, m.loop)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.GameOver && !m.scoreSaved {
		m.saveScore()
		m.scoreSaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate, m.loop)
}

// saveScore records the finished run. Storage is best-effort.
func (m *Model) saveScore() {
	outcome := "lose"
	if m.gameState.Won {
		outcome = "win"
	}
	m.logger.Info("run finished", "game", m.game.ID(), "score", m.gameState.Score, "outcome", outcome)

	if m.store == nil {
		return
	}
	if _, err := m.store.SaveScore(m.game.ID(), m.gameState.Score, outcome); err != nil {
		m.logger.Warn("could not save score", "error", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(config.UserDir(), "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not create screenshot dir", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
		return
	}
	m.setNotice("screenshot saved to " + path)
}

func (m *Model) setNotice(text string) {
	m.notice = text
	m.noticeUntil = time.Now().Add(noticeTTL)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if m.notice != "" && time.Now().Before(m.noticeUntil) {
		y := m.screen.Height() - 1
		m.screen.DrawHLine(0, y, m.screen.Width(), ' ', core.ColorDefault)
		m.screen.DrawTextColor(1, y, m.notice, core.ColorYellow)
	}
	return m.renderer.Render(m.screen)
}

// State returns the game state as of the last tick.
func (m Model) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// RunOptions holds the optional collaborators of Run.
type RunOptions struct {
	Logger *log.Logger
	Watch  <-chan string // config change notifications
}

// Run starts the Bubble Tea program with the given game.
// It reports whether the player asked to go back to the menu.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts RunOptions) (bool, error) {
	model := NewModel(game, store, cfg).
		WithLogger(opts.Logger).
		WithConfigWatch(opts.Watch)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(), // Drag needs motion while the button is held
	)

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	if fm, ok := final.(Model); ok {
		return fm.BackToMenu(), nil
	}
	return false, nil
}
