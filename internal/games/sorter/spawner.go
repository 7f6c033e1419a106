package sorter

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/shapesort/internal/config"
	"github.com/vovakirdan/shapesort/internal/events"
)

// Spawner activates shapes at random intervals on random lanes.
// It latches to stopped on game-over or game-win and never spawns again;
// shapes already on the field are left alone.
type Spawner struct {
	pool       *Pool
	tracker    *Tracker
	provider   *config.Provider
	difficulty *config.DifficultyManager
	lanes      []Lane
	shapes     []*ShapeDescriptor
	logger     *log.Logger

	timer     float64
	threshold float64
	elapsed   float64
	spawned   int
	single    bool
	stopped   bool
	disabled  bool
}

// SpawnerConfig groups what a spawner draws from.
type SpawnerConfig struct {
	Lanes       []Lane
	Shapes      []*ShapeDescriptor
	Provider    *config.Provider
	Difficulty  *config.DifficultyManager
	SingleSpawn bool
}

// NewSpawner creates a spawner and subscribes it to the terminal events.
// A spawner without lanes or shapes logs a warning and stays disabled.
func NewSpawner(bus *Bus, pool *Pool, tracker *Tracker, cfg SpawnerConfig, logger *log.Logger) *Spawner {
	s := &Spawner{
		pool:       pool,
		tracker:    tracker,
		provider:   cfg.Provider,
		difficulty: cfg.Difficulty,
		lanes:      cfg.Lanes,
		shapes:     cfg.Shapes,
		single:     cfg.SingleSpawn,
		logger:     logger,
	}

	switch {
	case len(s.lanes) == 0:
		logger.Warn("spawner disabled", "reason", "no lanes configured")
		s.disabled = true
	case len(s.shapes) == 0:
		logger.Warn("spawner disabled", "reason", "no shapes configured")
		s.disabled = true
	case s.provider == nil:
		logger.Warn("spawner disabled", "reason", "no settings provider")
		s.disabled = true
	}

	stop := func(ev Event) {
		if !s.stopped {
			s.logger.Debug("spawner stopped", "event", ev.Kind, "spawned", s.spawned)
		}
		s.stopped = true
	}
	bus.Subscribe(events.GameOver, stop)
	bus.Subscribe(events.GameWin, stop)

	if !s.disabled {
		s.threshold = s.nextTimeout()
	}
	return s
}

// Tick accumulates dt and spawns when the drawn timeout elapses.
func (s *Spawner) Tick(dt float64) {
	if s.disabled || s.stopped {
		return
	}
	if s.single && s.spawned > 0 {
		return
	}

	s.elapsed += dt
	s.timer += dt
	if s.timer < s.threshold {
		return
	}

	s.spawn()
	s.timer = 0
	s.threshold = s.nextTimeout()
}

func (s *Spawner) spawn() {
	lane := s.lanes[s.provider.Intn(len(s.lanes))]
	desc := s.shapes[s.provider.Intn(len(s.shapes))]
	speed := s.provider.Speed()
	if s.difficulty != nil {
		speed = s.difficulty.Speed(speed, s.tracker.Score(), s.elapsed)
	}

	e := s.pool.Activate(desc, lane.Start, lane.End, speed)
	s.spawned++
	s.logger.Debug("spawned", "entity", e.Handle(), "shape", desc.Name, "speed", speed)
}

func (s *Spawner) nextTimeout() float64 {
	t := s.provider.SpawnTimeout()
	if s.difficulty != nil {
		t = s.difficulty.SpawnTimeout(t, s.tracker.Score(), s.elapsed)
	}
	return t
}

// Stopped reports whether a terminal event has latched the spawner.
func (s *Spawner) Stopped() bool { return s.stopped }

// Disabled reports whether the spawner was misconfigured.
func (s *Spawner) Disabled() bool { return s.disabled }

// Spawned returns the number of spawns so far.
func (s *Spawner) Spawned() int { return s.spawned }
