package sorter

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/shapesort/internal/core"
	"github.com/vovakirdan/shapesort/internal/events"
)

// SpatialIndex resolves what lies under a world point.
type SpatialIndex interface {
	HitEntity(p core.Vec2) (Handle, bool)
	HitSlot(p core.Vec2) (int, bool)
}

// DragController turns pointer events into drag events. It is idle or
// dragging exactly one entity, so at most one entity is ever dragged.
type DragController struct {
	bus    *Bus
	pool   *Pool
	index  SpatialIndex
	logger *log.Logger

	dragging bool
	current  Handle
	offset   core.Vec2 // entity center minus pointer at grab time
	dt       float64
}

// NewDragController creates a controller. Without an index it logs a
// warning and ignores all pointer input.
func NewDragController(bus *Bus, pool *Pool, index SpatialIndex, tickSeconds float64, logger *log.Logger) *DragController {
	if index == nil {
		logger.Warn("drag disabled", "reason", "no spatial index")
	}
	return &DragController{
		bus:    bus,
		pool:   pool,
		index:  index,
		logger: logger,
		dt:     tickSeconds,
	}
}

// Dragging returns the dragged entity's handle, if any.
func (d *DragController) Dragging() (Handle, bool) {
	return d.current, d.dragging
}

// Handle processes one pointer event.
func (d *DragController) Handle(ev core.PointerEvent) {
	if d.index == nil {
		return
	}
	switch ev.Kind {
	case core.PointerDown:
		d.down(ev.Pos)
	case core.PointerMove:
		d.move(ev.Pos)
	case core.PointerUp:
		d.up(ev.Pos)
	}
}

func (d *DragController) down(p core.Vec2) {
	if d.dragging {
		return
	}
	h, ok := d.index.HitEntity(p)
	if !ok {
		return
	}
	e, ok := d.pool.Resolve(h)
	if !ok {
		d.logger.Debug("hit stale entity", "entity", h)
		return
	}

	d.dragging = true
	d.current = h
	d.offset = e.Pos().Sub(p)
	d.bus.Publish(Event{Kind: events.DragStart, Entity: h})
}

func (d *DragController) move(p core.Vec2) {
	if !d.dragging {
		return
	}
	e, ok := d.live()
	if !ok {
		return
	}
	e.dragTo(p.Add(d.offset), d.dt)
	d.bus.Publish(Event{Kind: events.DragMove, Entity: d.current})
}

func (d *DragController) up(p core.Vec2) {
	if !d.dragging {
		return
	}
	h := d.current
	e, ok := d.live()
	d.dragging = false
	d.current = Handle{}
	if !ok {
		return
	}

	e.dragTo(p.Add(d.offset), d.dt)
	if slot, hit := d.index.HitSlot(p); hit {
		d.bus.Publish(Event{Kind: events.DragCollectEnd, Entity: h, Slot: slot})
		return
	}
	d.bus.Publish(Event{Kind: events.DragEnd, Entity: h})
}

// live resolves the dragged entity. A stale handle ends the drag silently.
func (d *DragController) live() (*Entity, bool) {
	e, ok := d.pool.Resolve(d.current)
	if !ok || e.State() != Dragging {
		d.logger.Debug("drag target gone", "entity", d.current)
		d.dragging = false
		d.current = Handle{}
		return nil, false
	}
	return e, true
}
