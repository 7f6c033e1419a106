package sorter

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/shapesort/internal/config"
	"github.com/vovakirdan/shapesort/internal/core"
	"github.com/vovakirdan/shapesort/internal/events"
)

// Handle refers to one activation of a pool slot. It goes stale when the
// slot is released, so events carrying an old Handle never reach a reused entity.
// The zero Handle is never valid.
type Handle struct {
	Index int
	Gen   uint32
}

// String formats the handle for logs.
func (h Handle) String() string {
	return fmt.Sprintf("#%d.%d", h.Index, h.Gen)
}

// Bus and Event are the event types used by the game.
type (
	Bus   = events.Bus[Handle]
	Event = events.Event[Handle]
)

// Colliders is the collider side of the spatial index.
type Colliders interface {
	Attach(key Handle, center core.Vec2, w, h float64)
	Move(key Handle, center core.Vec2)
	SetEnabled(key Handle, on bool)
	Detach(key Handle)
}

// State is an entity's behavioral state.
type State int

const (
	Traveling State = iota
	Dragging
	Returning
	Consumed
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case Traveling:
		return "Traveling"
	case Dragging:
		return "Dragging"
	case Returning:
		return "Returning"
	case Consumed:
		return "Consumed"
	default:
		return "Unknown"
	}
}

// world is what entities need from the rest of the game.
type world struct {
	bus       *Bus
	tracker   *Tracker
	colliders Colliders
	slots     []Slot
	motion    config.MotionConfig
	effects   *Effects
	logger    *log.Logger
}

// Entity is a pooled shape.
type Entity struct {
	pool  *Pool
	index int
	gen   uint32

	active   bool
	pos      core.Vec2
	target   core.Vec2
	velocity core.Vec2
	speed    float64
	state    State
	desc     *ShapeDescriptor

	anchor          core.Vec2 // position at drag start
	subs            []events.Subscription
	pendingCollider bool // re-enable collider on the next tick
}

// Handle returns the handle of the current activation.
func (e *Entity) Handle() Handle { return Handle{Index: e.index, Gen: e.gen} }

// Pos returns the current center position.
func (e *Entity) Pos() core.Vec2 { return e.pos }

// Target returns the lane end the entity travels to.
func (e *Entity) Target() core.Vec2 { return e.target }

// Velocity returns the displacement per second over the last tick.
func (e *Entity) Velocity() core.Vec2 { return e.velocity }

// Speed returns the travel speed in world units per second.
func (e *Entity) Speed() float64 { return e.speed }

// State returns the behavioral state.
func (e *Entity) State() State { return e.state }

// Descriptor returns the shape descriptor.
func (e *Entity) Descriptor() *ShapeDescriptor { return e.desc }

// Anchor returns the position recorded at drag start.
func (e *Entity) Anchor() core.Vec2 { return e.anchor }

// Active reports whether the entity is live in the pool.
func (e *Entity) Active() bool { return e.active }

// Bounds returns the entity's box in world units.
func (e *Entity) Bounds() core.RectF {
	m := e.world().motion
	return core.RectAround(e.pos, m.ShapeWidth, m.ShapeHeight)
}

func (e *Entity) world() *world { return e.pool.world }

// activate resets per-activation state and wires the entity to the bus.
func (e *Entity) activate(desc *ShapeDescriptor, start, end core.Vec2, speed float64) {
	w := e.world()
	e.gen++
	e.active = true
	e.pos = start
	e.target = end
	e.velocity = core.Vec2{}
	e.speed = speed
	e.state = Traveling
	e.desc = desc
	e.anchor = start
	e.pendingCollider = false

	e.subs = append(e.subs[:0],
		w.bus.Subscribe(events.DragStart, e.onDragStart),
		w.bus.Subscribe(events.DragEnd, e.onDragEnd),
		w.bus.Subscribe(events.DragCollectEnd, e.onDragCollectEnd),
	)
	w.colliders.Attach(e.Handle(), start, w.motion.ShapeWidth, w.motion.ShapeHeight)
}

// deactivate unsubscribes and clears transient state. The generation is kept
// so the next activation issues a new Handle.
func (e *Entity) deactivate() {
	w := e.world()
	for _, sub := range e.subs {
		w.bus.Unsubscribe(sub)
	}
	e.subs = e.subs[:0]
	w.colliders.Detach(e.Handle())

	e.active = false
	e.state = Consumed
	e.velocity = core.Vec2{}
	e.pendingCollider = false
	e.desc = nil
}

func (e *Entity) onDragStart(ev Event) {
	if ev.Entity != e.Handle() || e.state == Dragging {
		return
	}
	w := e.world()
	e.anchor = e.pos
	e.state = Dragging
	e.velocity = core.Vec2{}
	e.pendingCollider = false
	w.colliders.SetEnabled(e.Handle(), false)
}

// onDragEnd handles a drop with no slot underneath.
func (e *Entity) onDragEnd(ev Event) {
	if ev.Entity != e.Handle() || e.state != Dragging {
		return
	}
	e.world().logger.Debug("dropped outside slots", "entity", e.Handle())
	e.reject()
}

func (e *Entity) onDragCollectEnd(ev Event) {
	if ev.Entity != e.Handle() || e.state != Dragging {
		return
	}
	w := e.world()
	if ev.Slot < 0 || ev.Slot >= len(w.slots) {
		w.logger.Warn("drop on unknown slot", "entity", e.Handle(), "slot", ev.Slot)
		e.reject()
		return
	}

	slot := w.slots[ev.Slot]
	if slot.Accepts != e.desc.Kind {
		w.logger.Debug("wrong slot", "entity", e.Handle(), "kind", e.desc.Kind, "slot", slot.ID, "accepts", slot.Accepts)
		e.reject()
		return
	}

	w.logger.Debug("sorted", "entity", e.Handle(), "kind", e.desc.Kind, "slot", slot.ID)
	w.effects.Add(Effect{Kind: EffectPop, Pos: e.pos, Desc: e.desc})
	w.effects.Add(Effect{Kind: EffectFlash, Pos: slot.Bounds.Center(), Desc: e.desc, Slot: slot.ID})
	h := e.Handle()
	w.tracker.AddScore()
	e.pool.Release(h)
}

// reject costs a life and sends the entity back to its drag anchor.
func (e *Entity) reject() {
	w := e.world()
	w.effects.Add(Effect{Kind: EffectMiss, Pos: e.pos, Desc: e.desc})
	e.state = Returning
	e.pendingCollider = true
	w.tracker.LoseLife()
}

// dragTo moves a dragged entity to p.
func (e *Entity) dragTo(p core.Vec2, dt float64) {
	if dt > 0 {
		e.velocity = p.Sub(e.pos).Scale(1 / dt)
	}
	e.pos = p
	e.world().colliders.Move(e.Handle(), p)
}

// applyDeferred runs checks scheduled on the previous tick.
func (e *Entity) applyDeferred() {
	if !e.pendingCollider {
		return
	}
	e.pendingCollider = false
	if e.active && e.state != Dragging {
		e.world().colliders.SetEnabled(e.Handle(), true)
	}
}

// update advances motion by dt seconds.
func (e *Entity) update(dt float64) {
	w := e.world()
	prev := e.pos

	switch e.state {
	case Traveling:
		e.pos = e.pos.MoveTowards(e.target, e.speed*dt)
		if e.pos.Dist(e.target) < w.motion.ArriveEpsilon {
			w.logger.Debug("escaped", "entity", e.Handle(), "kind", e.desc.Kind)
			w.effects.Add(Effect{Kind: EffectMiss, Pos: e.pos, Desc: e.desc})
			h := e.Handle()
			w.tracker.LoseLife()
			e.pool.Release(h)
			return
		}
	case Returning:
		e.pos = e.pos.Lerp(e.anchor, w.motion.ReturnRate*dt)
		if e.pos.Dist(e.anchor) < w.motion.ReturnEpsilon {
			e.pos = e.anchor
			e.state = Traveling
		}
	default:
		return
	}

	if dt > 0 {
		e.velocity = e.pos.Sub(prev).Scale(1 / dt)
	}
	w.colliders.Move(e.Handle(), e.pos)
}
