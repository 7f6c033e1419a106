package sorter

import (
	"testing"

	"github.com/vovakirdan/shapesort/internal/config"
	"github.com/vovakirdan/shapesort/internal/core"
	"github.com/vovakirdan/shapesort/internal/events"
	"github.com/vovakirdan/shapesort/internal/logging"
	"github.com/vovakirdan/shapesort/internal/physics"
)

const tick = 1.0 / 60.0

var (
	squareDesc = &ShapeDescriptor{Kind: Square, Glyph: '■', Color: core.ColorBlue}
	circleDesc = &ShapeDescriptor{Kind: Circle, Glyph: '●', Color: core.ColorGreen}
)

// rig wires the core components the way Game.build does, without config loading.
type rig struct {
	bus     *Bus
	tracker *Tracker
	index   *physics.Index[Handle]
	pool    *Pool
	effects *Effects
	slots   []Slot
}

func newRig(t *testing.T, lives, threshold int) *rig {
	t.Helper()

	bus := events.NewBus[Handle](nil)
	tracker := NewTracker(bus, lives, threshold, logging.Discard())
	index := physics.New[Handle]()
	slots := []Slot{
		{ID: 0, Accepts: Square, Bounds: core.RectF{X: 0, Y: 15, W: 10, H: 5}},
		{ID: 1, Accepts: Circle, Bounds: core.RectF{X: 20, Y: 15, W: 10, H: 5}},
	}
	for _, s := range slots {
		index.AddSlot(s.ID, s.Bounds)
	}
	effects := NewEffects(0.4)

	w := &world{
		bus:       bus,
		tracker:   tracker,
		colliders: index,
		slots:     slots,
		motion:    config.DefaultSorterConfig().Motion,
		effects:   effects,
		logger:    logging.Discard(),
	}

	return &rig{
		bus:     bus,
		tracker: tracker,
		index:   index,
		pool:    newPool(w, 2),
		effects: effects,
		slots:   slots,
	}
}

// record collects every event of the given kinds.
func (r *rig) record(kinds ...events.Kind) *[]Event {
	var got []Event
	for _, k := range kinds {
		r.bus.Subscribe(k, func(ev Event) { got = append(got, ev) })
	}
	return &got
}

func countKind(evs []Event, kind events.Kind) int {
	n := 0
	for _, ev := range evs {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// testConfig returns defaults with fixed, easily predicted settings.
func testConfig() config.SorterConfig {
	cfg := config.DefaultSorterConfig()
	cfg.Settings = config.GameSettings{
		MinFiguresToWin: 2,
		MaxFiguresToWin: 2,
		MinSpawnTimeout: 1,
		MaxSpawnTimeout: 1,
		MinSpeed:        4,
		MaxSpeed:        4,
		Lives:           3,
	}
	cfg.Difficulty.Enabled = false
	return cfg
}

func testRuntime(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: seed}
}
