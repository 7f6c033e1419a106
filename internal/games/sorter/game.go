// Package sorter implements the shape sorting game.
// Shapes drift along lanes; the player drags each one into the slot that
// accepts its kind before it escapes off the far end.
package sorter

import (
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/shapesort/internal/config"
	"github.com/vovakirdan/shapesort/internal/core"
	"github.com/vovakirdan/shapesort/internal/events"
	"github.com/vovakirdan/shapesort/internal/physics"
	"github.com/vovakirdan/shapesort/internal/registry"
)

// Variant selects the ruleset.
type Variant int

const (
	VariantClassic Variant = iota
	VariantRush            // faster shapes, shorter spawn waits
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// logger is the default for game instances without their own.
var logger = log.New(io.Discard)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names select normal.
func SetDifficultyPreset(preset string) {
	p, ok := config.ParsePreset(preset)
	if !ok {
		p = config.DifficultyNormal
	}
	difficultyPreset = p
}

// SetLogger sets the default logger for games reset afterwards.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

// Game implements the shape sorting game logic.
type Game struct {
	variant  Variant
	override *config.SorterConfig // fixed config, skips loading
	preset   config.DifficultyPreset

	runtime core.RuntimeConfig
	cfg     config.SorterConfig
	source  string
	base    *log.Logger // per-instance override of the package logger
	logger  *log.Logger

	bus     *Bus
	tracker *Tracker
	index   *physics.Index[Handle]
	pool    *Pool
	spawner *Spawner
	drag    *DragController
	hud     *HUD
	effects *Effects

	shapes   []*ShapeDescriptor
	lanes    []Lane
	slots    []Slot
	slotDesc map[ShapeKind]*ShapeDescriptor
	problems []error

	paused    bool
	tickCount int
}

// New creates a classic game instance.
func New() *Game {
	return &Game{variant: VariantClassic}
}

// NewRush creates a rush game instance.
func NewRush() *Game {
	return &Game{variant: VariantRush}
}

// NewWithConfig creates a game that always uses cfg instead of loading one.
// Presets and variants are not applied to it.
func NewWithConfig(cfg config.SorterConfig) *Game {
	return &Game{variant: VariantClassic, override: &cfg}
}

// SetDifficulty picks the preset for this instance, overriding the
// package default. Sessions sharing a process use it instead of
// SetDifficultyPreset. An empty name restores the package default and
// unknown names are ignored.
func (g *Game) SetDifficulty(name string) {
	if name == "" {
		g.preset = ""
		return
	}
	if p, ok := config.ParsePreset(name); ok {
		g.preset = p
	}
}

// UseLogger gives this instance its own logger, taking effect on the next
// Reset. Nil restores the package default.
func (g *Game) UseLogger(l *log.Logger) {
	g.base = l
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	if g.variant == VariantRush {
		return "sorter_rush"
	}
	return "sorter"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.variant == VariantRush {
		return "Shape Sorter Rush"
	}
	return "Shape Sorter"
}

// Reset loads configuration and rebuilds every component for a new run.
func (g *Game) Reset(rc core.RuntimeConfig) {
	base := g.base
	if base == nil {
		base = logger
	}
	g.logger = base.With("game", g.ID())

	if g.override != nil {
		g.cfg, g.source = *g.override, "override"
	} else {
		cfg, source, err := config.Load(configPath)
		if err != nil {
			g.logger.Error("config load failed, using defaults", "error", err)
			cfg, source = config.DefaultSorterConfig(), "defaults"
		}
		preset := g.preset
		if preset == "" {
			preset = difficultyPreset
		}
		if preset == "" {
			preset = config.DifficultyNormal
		}
		config.ApplyPreset(&cfg, preset)
		if g.variant == VariantRush {
			config.ApplyRush(&cfg)
		}
		g.cfg, g.source = cfg, source
	}

	g.runtime = rc
	g.paused = false
	g.tickCount = 0
	g.build()
}

// build wires the components from g.cfg. Configuration problems are logged
// and disable only the component they concern.
func (g *Game) build() {
	cfg := g.cfg
	g.problems = config.Validate(cfg)
	for _, p := range g.problems {
		g.logger.Warn("config problem", "source", g.source, "error", p)
	}

	var errs []error
	g.shapes, errs = buildShapes(cfg.Shapes)
	g.problems = append(g.problems, errs...)
	g.lanes = buildLanes(cfg.Lanes)
	g.slots, errs = buildSlots(cfg.Slots)
	g.problems = append(g.problems, errs...)

	g.slotDesc = make(map[ShapeKind]*ShapeDescriptor)
	for _, d := range g.shapes {
		if _, ok := g.slotDesc[d.Kind]; !ok {
			g.slotDesc[d.Kind] = d
		}
	}

	rng := rand.New(rand.NewSource(g.runtime.Seed)) //#nosec G404 -- gameplay randomness
	provider := config.NewProvider(cfg.Settings, rng)
	threshold := provider.FiguresToWin()
	lives := provider.Lives()

	g.bus = events.NewBus[Handle](g.logger)
	g.tracker = NewTracker(g.bus, lives, threshold, g.logger)
	g.hud = NewHUD(g.bus, lives, threshold)
	g.effects = NewEffects(cfg.Motion.EffectTTL)

	g.index = physics.New[Handle]()
	for _, s := range g.slots {
		g.index.AddSlot(s.ID, s.Bounds)
	}

	w := &world{
		bus:       g.bus,
		tracker:   g.tracker,
		colliders: g.index,
		slots:     g.slots,
		motion:    cfg.Motion,
		effects:   g.effects,
		logger:    g.logger,
	}
	g.pool = newPool(w, max(cfg.Pool.WarmSize, 0))

	g.spawner = NewSpawner(g.bus, g.pool, g.tracker, SpawnerConfig{
		Lanes:       g.lanes,
		Shapes:      g.shapes,
		Provider:    provider,
		Difficulty:  config.NewDifficultyManager(cfg.Difficulty),
		SingleSpawn: cfg.Debug.SingleSpawn,
	}, g.logger)

	g.drag = NewDragController(g.bus, g.pool, g.index, g.runtime.TickSeconds(), g.logger)

	g.logger.Info("run started",
		"seed", g.runtime.Seed,
		"config", g.source,
		"target", threshold,
		"lives", lives,
		"shapes", len(g.shapes),
		"lanes", len(g.lanes),
		"slots", len(g.slots),
	)
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	terminal := g.tracker.Terminal()

	if in.Has(core.ActionPause) && !terminal {
		g.paused = !g.paused
	}
	if g.paused {
		g.releasePaused(in.Pointer)
		return core.StepResult{State: g.State()}
	}

	dt := g.runtime.TickSeconds()
	g.effects.Tick(dt)
	if terminal {
		return core.StepResult{State: g.State()}
	}

	g.tickCount++
	g.pool.applyDeferred()

	for _, ev := range in.Pointer {
		g.drag.Handle(ev)
		if g.tracker.Terminal() {
			break
		}
	}

	g.pool.update(dt)
	g.spawner.Tick(dt)

	return core.StepResult{State: g.State()}
}

// releasePaused lands a drag whose button was let go during a pause.
// Everything else the pointer does while paused is ignored.
func (g *Game) releasePaused(evs []core.PointerEvent) {
	if g.tracker.Terminal() {
		return
	}
	for _, ev := range evs {
		if ev.Kind != core.PointerUp {
			continue
		}
		g.drag.Handle(ev)
		if g.tracker.Terminal() {
			// nothing left to resume
			g.paused = false
			return
		}
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.tracker == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.tracker.Score(),
		Lives:    g.tracker.Lives(),
		Target:   g.tracker.Threshold(),
		GameOver: g.tracker.Terminal(),
		Won:      g.tracker.Outcome() == OutcomeWin,
		Paused:   g.paused,
	}
}

// WorldSize returns the playfield size in world units.
func (g *Game) WorldSize() (float64, float64) {
	return g.cfg.World.Width, g.cfg.World.Height
}

// Entities returns live entities in pool order.
func (g *Game) Entities() []*Entity { return g.pool.Active() }

// Slots returns the drop targets.
func (g *Game) Slots() []Slot { return g.slots }

// Lanes returns the travel paths.
func (g *Game) Lanes() []Lane { return g.lanes }

// Effects returns live feedback effects.
func (g *Game) Effects() []Effect { return g.effects.List() }

// HUD returns the UI subscriber.
func (g *Game) HUD() *HUD { return g.hud }

// Outcome returns how the run ended, if it has.
func (g *Game) Outcome() Outcome { return g.tracker.Outcome() }

// Dragging returns the dragged entity, if any.
func (g *Game) Dragging() (Handle, bool) { return g.drag.Dragging() }

// PoolStats returns entity pool counters.
func (g *Game) PoolStats() PoolStats { return g.pool.Stats() }

// Problems returns configuration problems found at the last Reset.
func (g *Game) Problems() []error { return g.problems }

// ConfigSource returns where the active configuration came from.
func (g *Game) ConfigSource() string { return g.source }

// SlotDescriptor returns a descriptor whose kind the slot accepts, for drawing.
func (g *Game) SlotDescriptor(s Slot) (*ShapeDescriptor, bool) {
	d, ok := g.slotDesc[s.Accepts]
	return d, ok
}

// Register the games with the registry
func init() {
	registry.Register("sorter", func() registry.Game {
		return New()
	})
	registry.Register("sorter_rush", func() registry.Game {
		return NewRush()
	})
}
