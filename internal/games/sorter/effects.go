package sorter

import "github.com/vovakirdan/shapesort/internal/core"

// EffectKind is the type of short-lived feedback.
type EffectKind int

const (
	EffectPop   EffectKind = iota // shape sorted, shrinks away
	EffectMiss                    // life lost
	EffectFlash                   // slot accepted a shape
)

// Effect is transient feedback drawn by frontends. It carries no game state.
type Effect struct {
	Kind EffectKind
	Pos  core.Vec2
	Desc *ShapeDescriptor
	Slot int
	TTL  float64 // seconds left
	Life float64 // seconds at creation
}

// Progress returns how far the effect has run, from 0 to 1.
func (e Effect) Progress() float64 {
	if e.Life <= 0 {
		return 1
	}
	return core.ClampF(1-e.TTL/e.Life, 0, 1)
}

// Effects holds live feedback effects.
type Effects struct {
	ttl  float64
	list []Effect
}

// NewEffects creates an effect list where each effect lasts ttl seconds.
func NewEffects(ttl float64) *Effects {
	return &Effects{ttl: ttl}
}

// Add starts an effect.
func (fx *Effects) Add(e Effect) {
	if fx.ttl <= 0 {
		return
	}
	e.TTL, e.Life = fx.ttl, fx.ttl
	fx.list = append(fx.list, e)
}

// Tick ages effects and drops finished ones.
func (fx *Effects) Tick(dt float64) {
	kept := fx.list[:0]
	for _, e := range fx.list {
		e.TTL -= dt
		if e.TTL > 0 {
			kept = append(kept, e)
		}
	}
	fx.list = kept
}

// List returns the live effects.
func (fx *Effects) List() []Effect {
	return fx.list
}
