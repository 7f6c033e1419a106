package sorter

import "math"

// Snapshot contains the observable game state for determinism checks.
// Positions are stored in thousandths of a world unit.
type Snapshot struct {
	Tick      uint64
	Score     int
	Lives     int
	Threshold int
	Outcome   int
	Spawned   int

	// Entity state (each entity is 6 ints: Index, Gen, X, Y, State, Kind)
	EntityCount int
	EntityData  []int

	PoolCapacity int
}

// Snapshot returns the current game state as a Snapshot.
func (g *Game) Snapshot() Snapshot {
	active := g.pool.Active()
	data := make([]int, 0, len(active)*6)
	for _, e := range active {
		p := e.Pos()
		data = append(data,
			e.index,
			int(e.gen),
			int(math.Round(p.X*1000)),
			int(math.Round(p.Y*1000)),
			int(e.State()),
			int(e.Descriptor().Kind),
		)
	}

	return Snapshot{
		Tick:         uint64(g.tickCount), //#nosec G115 -- tick count is always positive
		Score:        g.tracker.Score(),
		Lives:        g.tracker.Lives(),
		Threshold:    g.tracker.Threshold(),
		Outcome:      int(g.tracker.Outcome()),
		Spawned:      g.spawner.Spawned(),
		EntityCount:  len(active),
		EntityData:   data,
		PoolCapacity: g.pool.Stats().Capacity,
	}
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Tick
	h = h*31 + uint64(snap.Score)        //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Lives)        //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Threshold)    //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Outcome)      //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Spawned)      //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.EntityCount)  //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.PoolCapacity) //#nosec G115 -- hash computation

	for _, v := range snap.EntityData {
		h = h*31 + uint64(v) //#nosec G115 -- hash computation
	}
	return h
}
