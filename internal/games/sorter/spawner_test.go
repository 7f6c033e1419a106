package sorter

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/shapesort/internal/config"
	"github.com/vovakirdan/shapesort/internal/core"
	"github.com/vovakirdan/shapesort/internal/logging"
)

func fixedProvider(timeout, speed float64) *config.Provider {
	return config.NewProvider(config.GameSettings{
		MinFiguresToWin: 5,
		MaxFiguresToWin: 5,
		MinSpawnTimeout: timeout,
		MaxSpawnTimeout: timeout,
		MinSpeed:        speed,
		MaxSpeed:        speed,
		Lives:           3,
	}, rand.New(rand.NewSource(1)))
}

func testLanes() []Lane {
	return []Lane{
		{Start: core.V(2, 5), End: core.V(78, 5)},
		{Start: core.V(2, 9), End: core.V(78, 9)},
	}
}

func TestSpawnerWaitsForTimeout(t *testing.T) {
	r := newRig(t, 3, 5)
	s := NewSpawner(r.bus, r.pool, r.tracker, SpawnerConfig{
		Lanes:    testLanes(),
		Shapes:   []*ShapeDescriptor{squareDesc},
		Provider: fixedProvider(1, 4),
	}, logging.Discard())

	s.Tick(0.5)
	if s.Spawned() != 0 {
		t.Fatal("spawned before the timeout elapsed")
	}
	s.Tick(0.5)
	if s.Spawned() != 1 {
		t.Fatalf("Spawned() = %d after 1s, expected 1", s.Spawned())
	}

	active := r.pool.Active()
	if len(active) != 1 {
		t.Fatalf("pool has %d active entities, expected 1", len(active))
	}
	e := active[0]
	if e.Descriptor() != squareDesc || e.Speed() != 4 {
		t.Errorf("spawned desc=%v speed=%f, expected square at 4", e.Descriptor(), e.Speed())
	}
	if e.Pos().X != 2 || e.Target().X != 78 {
		t.Errorf("spawned at %+v toward %+v, expected a lane start and end", e.Pos(), e.Target())
	}

	// Timer restarts after a spawn
	s.Tick(0.5)
	if s.Spawned() != 1 {
		t.Error("timer should restart after spawning")
	}
	s.Tick(0.5)
	if s.Spawned() != 2 {
		t.Errorf("Spawned() = %d after 2s, expected 2", s.Spawned())
	}
}

func TestSpawnerUsesEveryLaneAndShape(t *testing.T) {
	r := newRig(t, 3, 5)
	shapes := []*ShapeDescriptor{squareDesc, circleDesc}
	s := NewSpawner(r.bus, r.pool, r.tracker, SpawnerConfig{
		Lanes:    testLanes(),
		Shapes:   shapes,
		Provider: fixedProvider(0.1, 4),
	}, logging.Discard())

	for i := 0; i < 200; i++ {
		s.Tick(0.1)
	}

	lanes := map[float64]bool{}
	kinds := map[ShapeKind]bool{}
	for _, e := range r.pool.Active() {
		lanes[e.Target().Y] = true
		kinds[e.Descriptor().Kind] = true
	}
	if len(lanes) != 2 || len(kinds) != 2 {
		t.Errorf("spawns used lanes %v and kinds %v, expected both of each", lanes, kinds)
	}
}

func TestSpawnerStopsOnTerminal(t *testing.T) {
	tests := []struct {
		name string
		end  func(r *rig)
	}{
		{"game over", func(r *rig) {
			for i := 0; i < 3; i++ {
				r.tracker.LoseLife()
			}
		}},
		{"game win", func(r *rig) {
			for i := 0; i < 5; i++ {
				r.tracker.AddScore()
			}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newRig(t, 3, 5)
			s := NewSpawner(r.bus, r.pool, r.tracker, SpawnerConfig{
				Lanes:    testLanes(),
				Shapes:   []*ShapeDescriptor{squareDesc},
				Provider: fixedProvider(1, 4),
			}, logging.Discard())

			tc.end(r)
			if !s.Stopped() {
				t.Fatal("spawner should latch on a terminal event")
			}
			for i := 0; i < 10; i++ {
				s.Tick(1)
			}
			if s.Spawned() != 0 {
				t.Errorf("Spawned() = %d after terminal, expected 0", s.Spawned())
			}
		})
	}
}

func TestSpawnerSingleSpawn(t *testing.T) {
	r := newRig(t, 3, 5)
	s := NewSpawner(r.bus, r.pool, r.tracker, SpawnerConfig{
		Lanes:       testLanes(),
		Shapes:      []*ShapeDescriptor{squareDesc},
		Provider:    fixedProvider(1, 4),
		SingleSpawn: true,
	}, logging.Discard())

	for i := 0; i < 10; i++ {
		s.Tick(1)
	}
	if s.Spawned() != 1 {
		t.Errorf("Spawned() = %d with single spawn, expected 1", s.Spawned())
	}
}

func TestSpawnerDisabledWhenMisconfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  SpawnerConfig
	}{
		{"no lanes", SpawnerConfig{Shapes: []*ShapeDescriptor{squareDesc}, Provider: fixedProvider(1, 4)}},
		{"no shapes", SpawnerConfig{Lanes: testLanes(), Provider: fixedProvider(1, 4)}},
		{"no provider", SpawnerConfig{Lanes: testLanes(), Shapes: []*ShapeDescriptor{squareDesc}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newRig(t, 3, 5)
			s := NewSpawner(r.bus, r.pool, r.tracker, tc.cfg, logging.Discard())
			if !s.Disabled() {
				t.Fatal("Disabled() = false, expected true")
			}
			for i := 0; i < 10; i++ {
				s.Tick(1)
			}
			if s.Spawned() != 0 || r.pool.Stats().Active != 0 {
				t.Error("disabled spawner should never spawn")
			}
		})
	}
}

func TestSpawnerDifficultySpeedsUp(t *testing.T) {
	r := newRig(t, 3, 50)
	dm := config.NewDifficultyManager(config.DifficultyConfig{
		Enabled:     true,
		Progression: config.ProgressionConfig{Type: "score", MaxAt: 10},
		Scaling:     config.ScalingConfig{SpeedMultiplier: 1, SpawnReduction: 0},
	})
	s := NewSpawner(r.bus, r.pool, r.tracker, SpawnerConfig{
		Lanes:      testLanes(),
		Shapes:     []*ShapeDescriptor{squareDesc},
		Provider:   fixedProvider(1, 4),
		Difficulty: dm,
	}, logging.Discard())

	for i := 0; i < 10; i++ {
		r.tracker.AddScore()
	}
	s.Tick(1)

	active := r.pool.Active()
	if len(active) != 1 || active[0].Speed() != 8 {
		t.Errorf("spawn at max difficulty should double speed, got %d entities", len(active))
	}
}

func TestSpawnerSpeedRange(t *testing.T) {
	scaled := config.DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.3,
		Progression:  config.ProgressionConfig{Type: "time", MaxAt: 1},
		Scaling:      config.ScalingConfig{SpeedMultiplier: 0.5},
	}
	tests := []struct {
		name       string
		difficulty *config.DifficultyManager
		max        float64
	}{
		{"drawn range", nil, 10},
		{"difficulty scaled", config.NewDifficultyManager(scaled), 15},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newRig(t, 3, 5)
			s := NewSpawner(r.bus, r.pool, r.tracker, SpawnerConfig{
				Lanes:  testLanes(),
				Shapes: []*ShapeDescriptor{squareDesc},
				Provider: config.NewProvider(config.GameSettings{
					MinFiguresToWin: 5,
					MaxFiguresToWin: 5,
					MinSpawnTimeout: 0.1,
					MaxSpawnTimeout: 0.1,
					MinSpeed:        4,
					MaxSpeed:        10,
					Lives:           3,
				}, rand.New(rand.NewSource(7))),
				Difficulty: tc.difficulty,
			}, logging.Discard())

			for i := 0; i < 100; i++ {
				s.Tick(0.1)
			}
			if s.Spawned() == 0 {
				t.Fatal("nothing spawned")
			}
			for _, e := range r.pool.Active() {
				if e.Speed() < 4 || e.Speed() > tc.max+1e-9 {
					t.Errorf("speed %f outside [4, %v]", e.Speed(), tc.max)
				}
			}
		})
	}
}
