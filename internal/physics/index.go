// Package physics answers "what is under this point" for the playfield.
// It wraps a Chipmunk space holding static slot shapes and kinematic entity
// boxes; nothing is ever stepped, the space is only used for point queries.
package physics

import (
	"github.com/jakecoffman/cp"

	"github.com/vovakirdan/shapesort/internal/core"
)

const (
	categoryEntity uint = 1 << iota
	categorySlot
)

// hitSlop pads the broad-phase box around a queried point.
const hitSlop = 1e-6

var (
	entityFilter      = cp.NewShapeFilter(cp.NO_GROUP, categoryEntity, cp.ALL_CATEGORIES)
	slotFilter        = cp.NewShapeFilter(cp.NO_GROUP, categorySlot, cp.ALL_CATEGORIES)
	entityQueryFilter = cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, categoryEntity)
	slotQueryFilter   = cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, categorySlot)
)

// collider is a kinematic box owned by one key at a time.
type collider struct {
	body    *cp.Body
	shape   *cp.Shape
	w, h    float64
	enabled bool
	seq     uint64 // attach order, later wins on overlap
}

// Index maps entity keys and slot ids to Chipmunk shapes.
type Index[K comparable] struct {
	space *cp.Space

	colliders map[K]*collider
	owners    map[*cp.Shape]K
	slots     map[*cp.Shape]int
	spare     []*collider
	seq       uint64
}

// New creates an empty index.
func New[K comparable]() *Index[K] {
	return &Index[K]{
		space:     cp.NewSpace(),
		colliders: make(map[K]*collider),
		owners:    make(map[*cp.Shape]K),
		slots:     make(map[*cp.Shape]int),
	}
}

// AddSlot registers a static drop target.
func (ix *Index[K]) AddSlot(id int, r core.RectF) {
	bb := cp.BB{L: r.X, B: r.Y, R: r.X + r.W, T: r.Y + r.H}
	shape := cp.NewBox2(ix.space.StaticBody, bb, 0)
	shape.SetFilter(slotFilter)
	ix.space.AddShape(shape)
	ix.slots[shape] = id
}

// Attach gives key an enabled w x h collider centered on center.
// Attaching an already attached key resizes and moves it.
func (ix *Index[K]) Attach(key K, center core.Vec2, w, h float64) {
	if c, ok := ix.colliders[key]; ok {
		ix.remove(c)
		delete(ix.owners, c.shape)
		ix.spare = append(ix.spare, c)
		delete(ix.colliders, key)
	}

	c := ix.take(w, h)
	ix.seq++
	c.seq = ix.seq
	c.body.SetPosition(toCP(center))
	ix.colliders[key] = c
	ix.owners[c.shape] = key
	ix.add(c)
}

// Move repositions key's collider. Unknown keys are ignored.
func (ix *Index[K]) Move(key K, center core.Vec2) {
	c, ok := ix.colliders[key]
	if !ok {
		return
	}
	c.body.SetPosition(toCP(center))
	if c.enabled {
		// the space caches shape bounds until the shape is re-inserted
		ix.space.RemoveShape(c.shape)
		ix.space.AddShape(c.shape)
	}
}

// SetEnabled toggles whether key's collider answers queries.
func (ix *Index[K]) SetEnabled(key K, on bool) {
	c, ok := ix.colliders[key]
	if !ok || c.enabled == on {
		return
	}
	if on {
		ix.add(c)
	} else {
		ix.remove(c)
	}
}

// Enabled reports whether key has an enabled collider.
func (ix *Index[K]) Enabled(key K) bool {
	c, ok := ix.colliders[key]
	return ok && c.enabled
}

// Detach drops key's collider and keeps it for reuse.
func (ix *Index[K]) Detach(key K) {
	c, ok := ix.colliders[key]
	if !ok {
		return
	}
	ix.remove(c)
	delete(ix.owners, c.shape)
	delete(ix.colliders, key)
	ix.spare = append(ix.spare, c)
}

// Len returns the number of attached colliders.
func (ix *Index[K]) Len() int {
	return len(ix.colliders)
}

// HitEntity returns the most recently attached enabled collider containing p.
func (ix *Index[K]) HitEntity(p core.Vec2) (K, bool) {
	var (
		best    K
		bestSeq uint64
		found   bool
	)
	pt := toCP(p)
	ix.space.BBQuery(cp.NewBBForCircle(pt, hitSlop), entityQueryFilter, func(shape *cp.Shape, _ interface{}) {
		key, ok := ix.owners[shape]
		if !ok || shape.PointQuery(pt).Distance > 0 {
			return
		}
		c := ix.colliders[key]
		if !found || c.seq > bestSeq {
			best, bestSeq, found = key, c.seq, true
		}
	}, nil)
	return best, found
}

// HitSlot returns the slot containing p.
func (ix *Index[K]) HitSlot(p core.Vec2) (int, bool) {
	info := ix.space.PointQueryNearest(toCP(p), 0, slotQueryFilter)
	if info.Shape == nil {
		return 0, false
	}
	id, ok := ix.slots[info.Shape]
	return id, ok
}

func (ix *Index[K]) take(w, h float64) *collider {
	for i := len(ix.spare) - 1; i >= 0; i-- {
		c := ix.spare[i]
		if c.w == w && c.h == h {
			ix.spare = append(ix.spare[:i], ix.spare[i+1:]...)
			return c
		}
	}

	body := cp.NewKinematicBody()
	shape := cp.NewBox(body, w, h, 0)
	shape.SetFilter(entityFilter)
	ix.space.AddBody(body)
	return &collider{body: body, shape: shape, w: w, h: h}
}

func (ix *Index[K]) add(c *collider) {
	if c.enabled {
		return
	}
	ix.space.AddShape(c.shape)
	c.enabled = true
}

func (ix *Index[K]) remove(c *collider) {
	if !c.enabled {
		return
	}
	ix.space.RemoveShape(c.shape)
	c.enabled = false
}

func toCP(v core.Vec2) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}
