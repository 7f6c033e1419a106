// Package desktop runs the sorter in an Ebitengine window. The game core is
// shared with the terminal frontend; only input and drawing live here.
package desktop

import (
	"errors"
	"image/color"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/vovakirdan/shapesort/internal/core"
	"github.com/vovakirdan/shapesort/internal/games/sorter"
	"github.com/vovakirdan/shapesort/internal/storage"
)

// DefaultScale is pixels per world unit.
const DefaultScale = 12.0

// errQuit ends RunGame without reporting a failure.
var errQuit = errors.New("desktop: quit")

// Options configures an App.
type Options struct {
	Scale    float64
	TickRate int
	Seed     int64
	Store    *storage.Store
	Logger   *log.Logger
}

// App adapts a sorter game to ebiten.Game.
type App struct {
	game   *sorter.Game
	opts   Options
	logger *log.Logger

	runtime core.RuntimeConfig
	input   core.InputFrame
	state   core.GameState
	saved   bool

	// pixels for one world unit, fixed for the window's lifetime
	scale         float64
	width, height int

	white *ebiten.Image
}

// New creates an App and starts the first run.
func New(game *sorter.Game, opts Options) *App {
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}
	if opts.TickRate <= 0 {
		opts.TickRate = ebiten.DefaultTPS
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	a := &App{
		game:   game,
		opts:   opts,
		logger: logger,
		input:  core.NewInputFrame(),
		scale:  opts.Scale,
	}
	a.restart(opts.Seed)
	return a
}

// restart begins a new run. A zero seed uses the clock.
func (a *App) restart(seed int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	a.runtime = core.RuntimeConfig{TickRate: a.opts.TickRate, Seed: seed}

	// The terminal screen size only sizes the HUD; the window uses world units
	a.runtime.ScreenW, a.runtime.ScreenH = 80, 24
	a.game.Reset(a.runtime)
	a.state = a.game.State()
	a.saved = false

	w, h := a.game.WorldSize()
	a.width, a.height = int(w*a.scale), int(h*a.scale)
	a.logger.Info("run started", "game", a.game.ID(), "seed", seed, "config", a.game.ConfigSource())
}

// Size returns the window size in pixels.
func (a *App) Size() (int, int) {
	return a.width, a.height
}

// Update implements ebiten.Game. It runs one simulation tick.
func (a *App) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ):
		return errQuit
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		a.restart(0)
		return nil
	case inpututil.IsKeyJustPressed(ebiten.KeyP), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		a.input.Set(core.ActionPause)
	}

	a.readPointer()

	a.state = a.game.Step(a.input).State
	a.input.Clear()

	if a.state.GameOver && !a.saved {
		a.saveScore()
		a.saved = true
	}
	return nil
}

// readPointer queues left-button events in world units.
func (a *App) readPointer() {
	x, y := ebiten.CursorPosition()
	a.input.AddButton(
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		core.V(float64(x)/a.scale, float64(y)/a.scale),
	)
}

func (a *App) saveScore() {
	outcome := "lose"
	if a.state.Won {
		outcome = "win"
	}
	a.logger.Info("run finished", "game", a.game.ID(), "score", a.state.Score, "outcome", outcome)

	if a.opts.Store == nil {
		return
	}
	if _, err := a.opts.Store.SaveScore(a.game.ID(), a.state.Score, outcome); err != nil {
		a.logger.Warn("could not save score", "error", err)
	}
}

// Layout implements ebiten.Game. The logical screen is the world at a fixed
// scale; ebiten stretches it to the window.
func (a *App) Layout(_, _ int) (int, int) {
	return a.width, a.height
}

// Draw implements ebiten.Game.
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	a.drawLanes(screen)
	a.drawSlots(screen)
	a.drawEntities(screen)
	a.drawEffects(screen)
	a.drawHUD(screen)

	switch {
	case a.state.GameOver:
		a.drawFinalPanel(screen)
	case a.state.Paused:
		a.drawPanel(screen, palette(core.ColorYellow), "PAUSED", "P to resume")
	}
}

// Run opens the window and blocks until it is closed or Q is pressed.
func Run(app *App, title string) error {
	w, h := app.Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(app.opts.TickRate)

	err := ebiten.RunGame(app)
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

var background = color.RGBA{R: 0x14, G: 0x16, B: 0x1c, A: 0xff}
