package sorter

import (
	"github.com/vovakirdan/shapesort/internal/core"
)

// PoolStats summarizes pool usage.
type PoolStats struct {
	Capacity    int // slots allocated so far
	Active      int // slots currently in use
	Activations int // total Activate calls
}

// Pool recycles entities. Slots are never freed, only marked reusable;
// the backing slice grows when every slot is busy.
type Pool struct {
	world       *world
	entities    []*Entity
	free        []int // stack, lowest index on top
	activations int
}

func newPool(w *world, warm int) *Pool {
	p := &Pool{world: w}
	for i := 0; i < warm; i++ {
		p.entities = append(p.entities, &Entity{pool: p, index: i, state: Consumed})
	}
	for i := warm - 1; i >= 0; i-- {
		p.free = append(p.free, i)
	}
	return p
}

// Activate takes a free slot (growing if none is free), resets it and
// subscribes it to the bus.
func (p *Pool) Activate(desc *ShapeDescriptor, start, end core.Vec2, speed float64) *Entity {
	var e *Entity
	if n := len(p.free); n > 0 {
		e = p.entities[p.free[n-1]]
		p.free = p.free[:n-1]
	} else {
		e = &Entity{pool: p, index: len(p.entities), state: Consumed}
		p.entities = append(p.entities, e)
		p.world.logger.Debug("pool grew", "capacity", len(p.entities))
	}

	e.activate(desc, start, end, speed)
	p.activations++
	return e
}

// Release returns the entity behind h to the pool. Stale or already released
// handles are ignored; the result reports whether anything was released.
func (p *Pool) Release(h Handle) bool {
	e, ok := p.Resolve(h)
	if !ok {
		p.world.logger.Debug("release ignored", "entity", h)
		return false
	}
	e.deactivate()
	p.free = append(p.free, e.index)
	return true
}

// Resolve returns the live entity behind h.
func (p *Pool) Resolve(h Handle) (*Entity, bool) {
	if h.Index < 0 || h.Index >= len(p.entities) {
		return nil, false
	}
	e := p.entities[h.Index]
	if !e.active || e.gen != h.Gen {
		return nil, false
	}
	return e, true
}

// Active returns live entities in slot order.
func (p *Pool) Active() []*Entity {
	out := make([]*Entity, 0, len(p.entities)-len(p.free))
	for _, e := range p.entities {
		if e.active {
			out = append(out, e)
		}
	}
	return out
}

// Stats returns usage counters.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		Capacity:    len(p.entities),
		Active:      len(p.entities) - len(p.free),
		Activations: p.activations,
	}
}

// applyDeferred runs every entity's next-tick checks.
func (p *Pool) applyDeferred() {
	for _, e := range p.entities {
		if e.active {
			e.applyDeferred()
		}
	}
}

// update advances every live entity. It stops early once the run ends so a
// terminal tick leaves the remaining entities where they are.
func (p *Pool) update(dt float64) {
	for _, e := range p.entities {
		if p.world.tracker.Terminal() {
			return
		}
		if e.active {
			e.update(dt)
		}
	}
}
