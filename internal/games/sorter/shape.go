package sorter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vovakirdan/shapesort/internal/config"
	"github.com/vovakirdan/shapesort/internal/core"
)

// ShapeKind is the category a slot accepts.
type ShapeKind int

const (
	Square ShapeKind = iota
	Circle
	Triangle
	Star
)

// String returns the config name of the kind.
func (k ShapeKind) String() string {
	switch k {
	case Square:
		return "square"
	case Circle:
		return "circle"
	case Triangle:
		return "triangle"
	case Star:
		return "star"
	default:
		return "unknown"
	}
}

// ParseShapeKind resolves a config name.
func ParseShapeKind(name string) (ShapeKind, error) {
	switch strings.ToLower(name) {
	case "square":
		return Square, nil
	case "circle":
		return Circle, nil
	case "triangle":
		return Triangle, nil
	case "star":
		return Star, nil
	default:
		return 0, fmt.Errorf("sorter: unknown shape kind %q", name)
	}
}

// defaultGlyphs are used when a shape config omits its glyph.
var defaultGlyphs = map[ShapeKind]rune{
	Square:   '■',
	Circle:   '●',
	Triangle: '▲',
	Star:     '★',
}

// ShapeDescriptor is the immutable visual/category pair shared by every
// entity spawned with it.
type ShapeDescriptor struct {
	Kind  ShapeKind
	Name  string
	Glyph rune
	Color core.Color
}

// Lane is a fixed travel path.
type Lane struct {
	Start core.Vec2
	End   core.Vec2
}

// Slot is a static drop target.
type Slot struct {
	ID      int
	Accepts ShapeKind
	Bounds  core.RectF
}

// buildShapes converts config entries, skipping invalid ones.
func buildShapes(cfgs []config.ShapeConfig) ([]*ShapeDescriptor, []error) {
	var (
		out  []*ShapeDescriptor
		errs []error
	)
	for i, sc := range cfgs {
		kind, err := ParseShapeKind(sc.Kind)
		if err != nil {
			errs = append(errs, fmt.Errorf("shapes[%d]: %w", i, err))
			continue
		}
		glyph := defaultGlyphs[kind]
		if r, _ := utf8.DecodeRuneInString(sc.Glyph); r != utf8.RuneError {
			glyph = r
		}
		name := sc.Name
		if name == "" {
			name = kind.String()
		}
		color, _ := core.ParseColor(strings.ToLower(sc.Color))
		out = append(out, &ShapeDescriptor{Kind: kind, Name: name, Glyph: glyph, Color: color})
	}
	return out, errs
}

func buildLanes(cfgs []config.LaneConfig) []Lane {
	out := make([]Lane, 0, len(cfgs))
	for _, lc := range cfgs {
		out = append(out, Lane{
			Start: core.V(lc.Start.X, lc.Start.Y),
			End:   core.V(lc.End.X, lc.End.Y),
		})
	}
	return out
}

func buildSlots(cfgs []config.SlotConfig) ([]Slot, []error) {
	var (
		out  []Slot
		errs []error
	)
	for i, sc := range cfgs {
		kind, err := ParseShapeKind(sc.Accepts)
		if err != nil {
			errs = append(errs, fmt.Errorf("slots[%d]: %w", i, err))
			continue
		}
		out = append(out, Slot{
			ID:      len(out),
			Accepts: kind,
			Bounds:  core.RectF{X: sc.X, Y: sc.Y, W: sc.W, H: sc.H},
		})
	}
	return out, errs
}
