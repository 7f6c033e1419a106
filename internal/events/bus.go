// Package events provides the synchronous publish/subscribe hub that decouples
// input, spawning, scoring and UI.
//
// Architecture:
//   - Single-threaded dispatch, driven by the game tick
//   - Listeners for a kind are invoked in registration order
//   - Publish iterates a snapshot, so listeners may subscribe, unsubscribe
//     or publish re-entrantly
//   - A listener removed during a pass is not called later in that pass
package events

import (
	"io"

	"github.com/charmbracelet/log"
)

// Kind identifies an event type.
type Kind int

const (
	ScoreChanged Kind = iota
	LivesChanged
	GameOver
	GameWin
	DragStart
	DragEnd
	DragCollectEnd
	DragMove

	kindCount
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case ScoreChanged:
		return "score-changed"
	case LivesChanged:
		return "lives-changed"
	case GameOver:
		return "game-over"
	case GameWin:
		return "game-win"
	case DragStart:
		return "drag-start"
	case DragEnd:
		return "drag-end"
	case DragCollectEnd:
		return "drag-collect-end"
	case DragMove:
		return "drag-move"
	default:
		return "unknown"
	}
}

// Kinds returns every event kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Event is the payload delivered to listeners.
// Value carries score, lives or final score; Entity and Slot are set by drag events.
type Event[E comparable] struct {
	Kind   Kind
	Value  int
	Entity E
	Slot   int
}

// Listener handles one event.
type Listener[E comparable] func(Event[E])

// Subscription identifies a registered listener. The zero value is never issued.
type Subscription struct {
	Kind Kind
	ID   uint64
}

// Valid reports whether s was returned by Subscribe.
func (s Subscription) Valid() bool {
	return s.ID != 0
}

type entry[E comparable] struct {
	id uint64
	fn Listener[E]
}

// Bus routes events of one entity reference type to listeners.
type Bus[E comparable] struct {
	listeners map[Kind][]entry[E]
	live      map[uint64]struct{}
	nextID    uint64
	logger    *log.Logger
}

// NewBus creates an empty bus. A nil logger discards diagnostics.
func NewBus[E comparable](logger *log.Logger) *Bus[E] {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Bus[E]{
		listeners: make(map[Kind][]entry[E]),
		live:      make(map[uint64]struct{}),
		logger:    logger,
	}
}

// Subscribe registers fn for kind and returns a handle for Unsubscribe.
func (b *Bus[E]) Subscribe(kind Kind, fn Listener[E]) Subscription {
	b.nextID++
	id := b.nextID
	b.listeners[kind] = append(b.listeners[kind], entry[E]{id: id, fn: fn})
	b.live[id] = struct{}{}
	return Subscription{Kind: kind, ID: id}
}

// Unsubscribe removes the listener. It reports whether anything was removed;
// unsubscribing twice is a no-op.
func (b *Bus[E]) Unsubscribe(sub Subscription) bool {
	if _, ok := b.live[sub.ID]; !ok {
		return false
	}
	delete(b.live, sub.ID)

	list := b.listeners[sub.Kind]
	for i, e := range list {
		if e.id == sub.ID {
			// Copy instead of in-place removal so snapshots held by an
			// in-flight Publish stay intact.
			next := make([]entry[E], 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			b.listeners[sub.Kind] = next
			break
		}
	}
	return true
}

// Publish delivers ev synchronously to every listener registered for ev.Kind.
func (b *Bus[E]) Publish(ev Event[E]) {
	snapshot := b.listeners[ev.Kind]
	if len(snapshot) == 0 {
		b.logger.Debug("no listeners", "event", ev.Kind)
		return
	}
	for _, e := range snapshot {
		if _, ok := b.live[e.id]; !ok {
			continue
		}
		e.fn(ev)
	}
}

// Count returns the number of listeners registered for kind.
func (b *Bus[E]) Count(kind Kind) int {
	return len(b.listeners[kind])
}

// Total returns the number of live subscriptions across all kinds.
func (b *Bus[E]) Total() int {
	return len(b.live)
}
