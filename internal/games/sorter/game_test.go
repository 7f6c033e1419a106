package sorter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/shapesort/internal/config"
	"github.com/vovakirdan/shapesort/internal/core"
	"github.com/vovakirdan/shapesort/internal/registry"
)

func runTicks(g *Game, n int) {
	in := core.NewInputFrame()
	for i := 0; i < n; i++ {
		g.Step(in)
	}
}

func TestRegistered(t *testing.T) {
	tests := []struct {
		id    string
		title string
	}{
		{"sorter", "Shape Sorter"},
		{"sorter_rush", "Shape Sorter Rush"},
	}
	for _, tc := range tests {
		if !registry.Exists(tc.id) {
			t.Fatalf("registry.Exists(%q) = false", tc.id)
		}
		g, err := registry.Create(tc.id)
		if err != nil {
			t.Fatalf("registry.Create(%q) error = %v", tc.id, err)
		}
		if g.ID() != tc.id || g.Title() != tc.title {
			t.Errorf("Create(%q) = %q/%q, expected %q", tc.id, g.ID(), g.Title(), tc.title)
		}
	}
}

func TestResetLoadsEmbeddedConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	SetConfigPath("")
	SetDifficultyPreset("fixed")
	defer SetDifficultyPreset("")

	g := NewRush()
	g.Reset(testRuntime(1))

	if g.ConfigSource() != config.SourceEmbedded {
		t.Errorf("ConfigSource() = %q, expected %q", g.ConfigSource(), config.SourceEmbedded)
	}
	if len(g.Problems()) != 0 {
		t.Errorf("Problems() = %v, expected none for embedded defaults", g.Problems())
	}
	st := g.State()
	if st.Lives != 3 || st.Target < 10 || st.Target > 20 {
		t.Errorf("State() = %+v, expected default lives and target", st)
	}
	if len(g.Slots()) != 4 || len(g.Lanes()) != 3 {
		t.Errorf("got %d slots and %d lanes, expected 4 and 3", len(g.Slots()), len(g.Lanes()))
	}
}

func TestDeterminism(t *testing.T) {
	cfg := config.DefaultSorterConfig()
	const ticks = 900

	hashes := func(seed int64) []uint64 {
		g := NewWithConfig(cfg)
		g.Reset(testRuntime(seed))
		var out []uint64
		in := core.NewInputFrame()
		for i := 0; i < ticks; i++ {
			g.Step(in)
			if i%60 == 0 {
				snap := g.Snapshot()
				out = append(out, snap.Hash())
			}
		}
		return out
	}

	a, b := hashes(42), hashes(42)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("hash mismatch at sample %d: %d != %d", i, a[i], b[i])
		}
	}

	c := hashes(7)
	if a[len(a)-1] == c[len(c)-1] {
		t.Error("different seeds produced identical runs")
	}
}

func TestEscapesEndTheRun(t *testing.T) {
	cfg := testConfig()
	cfg.Lanes = []config.LaneConfig{{Start: config.Point{X: 2, Y: 5}, End: config.Point{X: 6, Y: 5}}}

	g := NewWithConfig(cfg)
	g.Reset(testRuntime(1))
	runTicks(g, 20*60)

	st := g.State()
	if !st.GameOver || st.Won || st.Lives != 0 {
		t.Fatalf("State() = %+v, expected game over with no lives", st)
	}
	if g.Outcome() != OutcomeLose || g.HUD().Outcome != OutcomeLose {
		t.Errorf("Outcome() = %v, HUD = %v, expected lose", g.Outcome(), g.HUD().Outcome)
	}

	// The simulation freezes once the run is over
	before := g.Snapshot()
	runTicks(g, 120)
	after := g.Snapshot()
	if before.Hash() != after.Hash() {
		t.Error("world kept changing after game over")
	}
}

func TestDragToMatchingSlotWins(t *testing.T) {
	cfg := testConfig()
	cfg.Settings.MinFiguresToWin = 1
	cfg.Settings.MaxFiguresToWin = 1
	cfg.Settings.MinSpeed = 1
	cfg.Settings.MaxSpeed = 1
	cfg.Shapes = []config.ShapeConfig{{Kind: "square", Glyph: "■", Color: "blue"}}
	cfg.Lanes = cfg.Lanes[:1]
	cfg.Debug.SingleSpawn = true

	g := NewWithConfig(cfg)
	g.Reset(testRuntime(1))

	for i := 0; i < 300 && len(g.Entities()) == 0; i++ {
		runTicks(g, 1)
	}
	if len(g.Entities()) != 1 {
		t.Fatal("expected a spawned shape")
	}
	e := g.Entities()[0]
	start := e.Pos()

	slot := g.Slots()[0]
	if slot.Accepts != Square {
		t.Fatalf("first slot accepts %v, expected square", slot.Accepts)
	}
	target := slot.Bounds.Center()

	in := core.NewInputFrame()
	in.AddPointer(core.PointerDown, start)
	in.AddPointer(core.PointerMove, target)
	in.AddPointer(core.PointerUp, target)
	g.Step(in)

	st := g.State()
	if st.Score != 1 || !st.Won || !st.GameOver {
		t.Errorf("State() = %+v, expected a won run with score 1", st)
	}
	if len(g.Entities()) != 0 {
		t.Error("sorted shape should leave the field")
	}
	if _, ok := g.Dragging(); ok {
		t.Error("no shape should be dragged after the drop")
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "YOU WIN!") {
		t.Error("win panel not rendered")
	}
}

func TestPauseFreezesTicks(t *testing.T) {
	g := NewWithConfig(testConfig())
	g.Reset(testRuntime(1))
	runTicks(g, 10)

	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	g.Step(pause)
	if !g.State().Paused {
		t.Fatal("Pause should pause the game")
	}

	before := g.Snapshot()
	runTicks(g, 100)
	if after := g.Snapshot(); after.Tick != before.Tick {
		t.Errorf("ticks advanced while paused: %d -> %d", before.Tick, after.Tick)
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "PAUSED") {
		t.Error("pause panel not rendered")
	}

	g.Step(pause)
	if g.State().Paused {
		t.Error("second Pause should resume")
	}
}

func TestReleaseDuringPauseEndsDrag(t *testing.T) {
	tests := []struct {
		name       string
		lives      int
		wantLives  int
		wantPaused bool
		wantOver   bool
	}{
		{"life to spare", 3, 2, true, false},
		{"last life", 1, 0, false, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Settings.Lives = tc.lives
			cfg.Lanes = cfg.Lanes[:1]
			cfg.Debug.SingleSpawn = true

			g := NewWithConfig(cfg)
			g.Reset(testRuntime(1))
			for i := 0; i < 300 && len(g.Entities()) == 0; i++ {
				runTicks(g, 1)
			}
			if len(g.Entities()) != 1 {
				t.Fatal("expected a spawned shape")
			}
			e := g.Entities()[0]
			grab := e.Pos()

			down := core.NewInputFrame()
			down.AddPointer(core.PointerDown, grab)
			g.Step(down)
			if _, ok := g.Dragging(); !ok {
				t.Fatal("PointerDown on the shape should start a drag")
			}

			up := core.NewInputFrame()
			up.Set(core.ActionPause)
			up.AddPointer(core.PointerUp, grab)
			g.Step(up)

			if _, ok := g.Dragging(); ok {
				t.Error("release while paused should end the drag")
			}
			if e.State() == Dragging {
				t.Errorf("entity state = %v after release, expected it dropped", e.State())
			}
			st := g.State()
			if st.Lives != tc.wantLives || st.Paused != tc.wantPaused || st.GameOver != tc.wantOver {
				t.Errorf("State() = %+v, expected lives=%d paused=%v over=%v",
					st, tc.wantLives, tc.wantPaused, tc.wantOver)
			}
			if tc.wantOver {
				return
			}

			resume := core.NewInputFrame()
			resume.Set(core.ActionPause)
			g.Step(resume)

			away := grab.Add(core.V(10, 0))
			hover := core.NewInputFrame()
			hover.AddPointer(core.PointerMove, away)
			g.Step(hover)
			if e.Pos() == away {
				t.Error("shape followed the pointer after the button was released")
			}
		})
	}
}

func TestUseLoggerIsPerInstance(t *testing.T) {
	var own, shared bytes.Buffer
	SetLogger(log.New(&shared))
	t.Cleanup(func() { SetLogger(nil) })

	a := NewWithConfig(testConfig())
	a.UseLogger(log.New(&own))
	a.Reset(testRuntime(1))

	b := NewWithConfig(testConfig())
	b.Reset(testRuntime(2))

	if got := strings.Count(own.String(), "run started"); got != 1 {
		t.Errorf("own logger saw %d run starts, expected 1", got)
	}
	if got := strings.Count(shared.String(), "run started"); got != 1 {
		t.Errorf("package logger saw %d run starts, expected 1", got)
	}

	a.UseLogger(nil)
	a.Reset(testRuntime(3))
	if got := strings.Count(shared.String(), "run started"); got != 2 {
		t.Errorf("UseLogger(nil) should restore the package logger, saw %d run starts", got)
	}
}

func TestRenderHUD(t *testing.T) {
	g := NewWithConfig(testConfig())
	g.Reset(testRuntime(1))

	screen := core.NewScreen(80, 24)
	g.Render(screen)

	row := screen.Row(0)
	for _, want := range []string{"Score: 0/2", "Lives: ♥♥♥", "Shape Sorter"} {
		if !strings.Contains(row, want) {
			t.Errorf("HUD row %q missing %q", row, want)
		}
	}
	if !strings.Contains(screen.Row(23), "Drag shapes") {
		t.Error("help line missing")
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := NewWithConfig(testConfig())
	g.Reset(testRuntime(1))

	screen := core.NewScreen(30, 8)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Screen too small") {
		t.Errorf("expected a size warning, got:\n%s", screen.String())
	}
}

func TestViewportRoundTrip(t *testing.T) {
	vp := NewViewport(80, 24, 160, 48)

	p := vp.ToWorld(10, 10)
	if p != core.V(5.25, 5.25) {
		t.Errorf("ToWorld(10, 10) = %+v, expected (5.25, 5.25)", p)
	}
	if x, y := vp.ToScreen(p); x != 10 || y != 10 {
		t.Errorf("ToScreen(%+v) = (%d, %d), expected (10, 10)", p, x, y)
	}

	r := vp.RectToScreen(core.RectF{X: 4, Y: 17, W: 0.1, H: 0.1})
	if r.W != 1 || r.H != 1 {
		t.Errorf("RectToScreen of a tiny rect = %+v, expected at least 1x1", r)
	}

	fallback := NewViewport(0, 0, 80, 24)
	if fallback.WorldW != 80 || fallback.WorldH != 24 {
		t.Errorf("NewViewport(0, 0) world = %vx%v, expected 80x24", fallback.WorldW, fallback.WorldH)
	}
}

func TestMissingLanesDisablesSpawner(t *testing.T) {
	cfg := testConfig()
	cfg.Lanes = nil

	g := NewWithConfig(cfg)
	g.Reset(testRuntime(1))

	if len(g.Problems()) == 0 {
		t.Error("Problems() should report the missing lanes")
	}
	runTicks(g, 300)
	if g.PoolStats().Activations != 0 {
		t.Error("nothing should spawn without lanes")
	}
	if g.State().GameOver {
		t.Error("a run without lanes should idle, not end")
	}
}

func TestStateBeforeReset(t *testing.T) {
	g := New()
	if st := g.State(); st != (core.GameState{}) {
		t.Errorf("State() before Reset = %+v, expected zero", st)
	}
	screen := core.NewScreen(80, 24)
	g.Render(screen)
}
