package sorter

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/shapesort/internal/core"
)

// Visual characters for rendering
const (
	LaneChar  = '·'
	FlashChar = '░'
	MissChar  = '✗'
	LifeChar  = '♥'
	EmptyLife = '♡'
)

// Minimum screen size for a readable playfield.
const (
	MinScreenW = 40
	MinScreenH = 12
)

// Viewport maps world units to screen cells.
type Viewport struct {
	WorldW, WorldH   float64
	ScreenW, ScreenH int
}

// NewViewport builds a viewport. Non-positive world sizes fall back to 80x24.
func NewViewport(worldW, worldH float64, screenW, screenH int) Viewport {
	if worldW <= 0 || worldH <= 0 {
		worldW, worldH = 80, 24
	}
	return Viewport{WorldW: worldW, WorldH: worldH, ScreenW: screenW, ScreenH: screenH}
}

func (v Viewport) sx() float64 { return float64(v.ScreenW) / v.WorldW }
func (v Viewport) sy() float64 { return float64(v.ScreenH) / v.WorldH }

// ToScreen returns the cell containing world point p.
func (v Viewport) ToScreen(p core.Vec2) (int, int) {
	return int(p.X * v.sx()), int(p.Y * v.sy())
}

// ToWorld returns the world point at the center of cell (x, y).
func (v Viewport) ToWorld(x, y int) core.Vec2 {
	return core.V((float64(x)+0.5)/v.sx(), (float64(y)+0.5)/v.sy())
}

// RectToScreen returns the cells covered by r, at least 1x1.
func (v Viewport) RectToScreen(r core.RectF) core.Rect {
	x0, y0 := int(r.X*v.sx()), int(r.Y*v.sy())
	x1, y1 := int((r.X+r.W)*v.sx()), int((r.Y+r.H)*v.sy())
	return core.NewRect(x0, y0, max(x1-x0, 1), max(y1-y0, 1))
}

// Viewport returns the mapping for a screen of the given size.
func (g *Game) Viewport(screenW, screenH int) Viewport {
	return NewViewport(g.cfg.World.Width, g.cfg.World.Height, screenW, screenH)
}

// ScreenToWorld maps a cell on a screenW x screenH terminal to world units.
func (g *Game) ScreenToWorld(x, y, screenW, screenH int) core.Vec2 {
	return g.Viewport(screenW, screenH).ToWorld(x, y)
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.tracker == nil {
		return
	}

	if dst.Width() < MinScreenW || dst.Height() < MinScreenH {
		dst.DrawTextCentered(dst.Height()/2, fmt.Sprintf("Screen too small (min %dx%d)", MinScreenW, MinScreenH), core.ColorRed)
		return
	}

	vp := g.Viewport(dst.Width(), dst.Height())

	g.renderLanes(dst, vp)
	g.renderSlots(dst, vp)
	g.renderEntities(dst, vp)
	g.renderEffects(dst, vp)
	g.renderHUD(dst)

	switch {
	case g.tracker.Terminal():
		g.renderFinalPanel(dst)
	case g.paused:
		g.renderPanel(dst, core.ColorYellow, "PAUSED", "P to resume", "B menu  Q quit")
	}
}

func (g *Game) renderLanes(dst *core.Screen, vp Viewport) {
	for _, l := range g.lanes {
		x0, y := vp.ToScreen(l.Start)
		x1, _ := vp.ToScreen(l.End)
		if x1 < x0 {
			x0, x1 = x1, x0
		}
		for x := x0; x <= x1; x += 2 {
			dst.SetColor(x, y, LaneChar, core.ColorGray)
		}
	}
}

func (g *Game) renderSlots(dst *core.Screen, vp Viewport) {
	flashing := make(map[int]bool)
	for _, fx := range g.effects.List() {
		if fx.Kind == EffectFlash {
			flashing[fx.Slot] = true
		}
	}

	for _, s := range g.slots {
		r := vp.RectToScreen(s.Bounds)
		color, glyph := core.ColorWhite, '?'
		if d, ok := g.SlotDescriptor(s); ok {
			color, glyph = d.Color, d.Glyph
		}
		if flashing[s.ID] {
			dst.DrawRect(r, FlashChar, color)
		}
		dst.DrawBox(r, color)
		cx := r.X + r.W/2
		cy := r.Y + r.H/2
		dst.SetColor(cx, cy, glyph, color)
	}
}

func (g *Game) renderEntities(dst *core.Screen, vp Viewport) {
	dragged, isDragging := g.drag.Dragging()
	var top *Entity

	for _, e := range g.pool.Active() {
		if isDragging && e.Handle() == dragged {
			top = e
			continue
		}
		drawEntity(dst, vp, e)
	}
	if top != nil {
		drawEntity(dst, vp, top)
	}
}

func drawEntity(dst *core.Screen, vp Viewport, e *Entity) {
	d := e.Descriptor()
	r := vp.RectToScreen(e.Bounds())
	dst.DrawRect(r, d.Glyph, d.Color)
}

func (g *Game) renderEffects(dst *core.Screen, vp Viewport) {
	for _, fx := range g.effects.List() {
		x, y := vp.ToScreen(fx.Pos)
		switch fx.Kind {
		case EffectPop:
			// Shrinks from the full glyph to a dot
			if fx.Desc == nil {
				continue
			}
			ch := fx.Desc.Glyph
			if fx.Progress() > 0.5 {
				ch = '·'
			}
			dst.SetColor(x, y, ch, fx.Desc.Color)
		case EffectMiss:
			dst.SetColor(x, y, MissChar, core.ColorRed)
		}
	}
}

func (g *Game) renderHUD(dst *core.Screen) {
	hud := g.hud
	score := fmt.Sprintf("Score: %d/%d", hud.Score, hud.Target)
	dst.DrawTextColor(1, 0, score, core.ColorWhite)

	lives := "Lives: " + strings.Repeat(string(LifeChar), max(hud.Lives, 0))
	dst.DrawTextColor(len(score)+4, 0, lives, core.ColorRed)

	title := g.Title()
	dst.DrawTextColor(dst.Width()-len(title)-1, 0, title, core.ColorCyan)

	dst.DrawTextColor(1, dst.Height()-1, "Drag shapes into matching slots   P pause  R restart  Q quit", core.ColorGray)
}

func (g *Game) renderFinalPanel(dst *core.Screen) {
	final := fmt.Sprintf("Final Score: %d", g.hud.FinalScore)
	if g.hud.Outcome == OutcomeWin {
		g.renderPanel(dst, core.ColorGreen, "YOU WIN!", final, "R restart  B menu  Q quit")
		return
	}
	g.renderPanel(dst, core.ColorRed, "GAME OVER", final, "R restart  B menu  Q quit")
}

// renderPanel draws a centered box with a title and two lines.
func (g *Game) renderPanel(dst *core.Screen, color core.Color, title, line1, line2 string) {
	boxW := max(len(line2), len(line1), len(title)) + 6
	boxH := 7
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	box := core.NewRect(boxX, boxY, boxW, boxH)
	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, color)

	dst.DrawTextColor(boxX+(boxW-len(title))/2, boxY+1, title, color)
	dst.DrawTextColor(boxX+(boxW-len(line1))/2, boxY+3, line1, core.ColorWhite)
	dst.DrawTextColor(boxX+(boxW-len(line2))/2, boxY+5, line2, core.ColorGray)
}
