package desktop

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/vovakirdan/shapesort/internal/core"
	"github.com/vovakirdan/shapesort/internal/games/sorter"
)

// debugGlyphW and debugGlyphH are the cell size of ebitenutil's debug font.
const (
	debugGlyphW = 6
	debugGlyphH = 16
)

var colors = map[core.Color]color.RGBA{
	core.ColorDefault: colornames.Lightgray,
	core.ColorRed:     colornames.Crimson,
	core.ColorGreen:   colornames.Limegreen,
	core.ColorYellow:  colornames.Gold,
	core.ColorBlue:    colornames.Dodgerblue,
	core.ColorMagenta: colornames.Orchid,
	core.ColorCyan:    colornames.Darkturquoise,
	core.ColorWhite:   colornames.White,
	core.ColorOrange:  colornames.Darkorange,
	core.ColorGray:    colornames.Slategray,
}

func palette(c core.Color) color.RGBA {
	if rgba, ok := colors[c]; ok {
		return rgba
	}
	return colors[core.ColorDefault]
}

// fade scales the alpha of c by f in [0, 1].
func fade(c color.RGBA, f float64) color.RGBA {
	f = core.ClampF(f, 0, 1)
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: uint8(float64(c.A) * f),
	}
}

func (a *App) px(v float64) float32 { return float32(v * a.scale) }

func (a *App) drawLanes(screen *ebiten.Image) {
	laneColor := fade(colornames.Slategray, 0.5)
	for _, l := range a.game.Lanes() {
		vector.StrokeLine(screen, a.px(l.Start.X), a.px(l.Start.Y), a.px(l.End.X), a.px(l.End.Y), 2, laneColor, true)
	}
}

func (a *App) drawSlots(screen *ebiten.Image) {
	flashing := make(map[int]float64)
	for _, fx := range a.game.Effects() {
		if fx.Kind == sorter.EffectFlash {
			flashing[fx.Slot] = 1 - fx.Progress()
		}
	}

	for _, s := range a.game.Slots() {
		b := s.Bounds
		x, y, w, h := a.px(b.X), a.px(b.Y), a.px(b.W), a.px(b.H)

		outline := palette(core.ColorGray)
		desc, ok := a.game.SlotDescriptor(s)
		if ok {
			outline = palette(desc.Color)
		}
		if f, ok := flashing[s.ID]; ok {
			vector.DrawFilledRect(screen, x, y, w, h, fade(outline, 0.4*f), true)
		}
		vector.StrokeRect(screen, x, y, w, h, 2, outline, true)

		if ok {
			// Faint outline of the accepted shape
			c := b.Center()
			a.drawShape(screen, desc.Kind, c, math.Min(b.W, b.H)*0.3, fade(outline, 0.35))
		}
	}
}

func (a *App) drawEntities(screen *ebiten.Image) {
	for _, e := range a.game.Entities() {
		d := e.Descriptor()
		b := e.Bounds()
		size := math.Min(b.W, b.H) / 2
		fill := palette(d.Color)
		if e.State() == sorter.Dragging {
			size *= 1.15
			cx, cy := a.px(e.Pos().X), a.px(e.Pos().Y)
			vector.StrokeCircle(screen, cx, cy, a.px(size*1.4), 1.5, colornames.White, true)
		}
		a.drawShape(screen, d.Kind, e.Pos(), size, fill)
	}
}

func (a *App) drawEffects(screen *ebiten.Image) {
	for _, fx := range a.game.Effects() {
		t := fx.Progress()
		switch fx.Kind {
		case sorter.EffectPop:
			if fx.Desc == nil {
				continue
			}
			a.drawShape(screen, fx.Desc.Kind, fx.Pos, (1-t)*1.2, fade(palette(fx.Desc.Color), 1-t))
		case sorter.EffectMiss:
			cx, cy := a.px(fx.Pos.X), a.px(fx.Pos.Y)
			r := a.px(0.6 + t)
			red := fade(colornames.Red, 1-t)
			vector.StrokeLine(screen, cx-r, cy-r, cx+r, cy+r, 3, red, true)
			vector.StrokeLine(screen, cx-r, cy+r, cx+r, cy-r, 3, red, true)
		}
	}
}

// drawShape fills a shape of the given kind centered at c with a
// half-size of r world units.
func (a *App) drawShape(screen *ebiten.Image, kind sorter.ShapeKind, c core.Vec2, r float64, clr color.RGBA) {
	if r <= 0 {
		return
	}
	cx, cy, pr := a.px(c.X), a.px(c.Y), a.px(r)
	switch kind {
	case sorter.Square:
		vector.DrawFilledRect(screen, cx-pr, cy-pr, 2*pr, 2*pr, clr, true)
	case sorter.Circle:
		vector.DrawFilledCircle(screen, cx, cy, pr, clr, true)
	case sorter.Triangle:
		a.fillPolygon(screen, polygon(cx, cy, pr, 3, 1), clr)
	case sorter.Star:
		a.fillPolygon(screen, polygon(cx, cy, pr, 5, 0.45), clr)
	}
}

// polygon returns the corners of a regular polygon pointing up. An inner
// ratio below 1 alternates outer and inner corners, giving a star.
func polygon(cx, cy, r float32, points int, inner float64) [][2]float32 {
	n := points
	if inner < 1 {
		n *= 2
	}
	out := make([][2]float32, 0, n)
	for i := range n {
		rr := float64(r)
		if inner < 1 && i%2 == 1 {
			rr *= inner
		}
		angle := -math.Pi/2 + float64(i)*2*math.Pi/float64(n)
		out = append(out, [2]float32{
			cx + float32(rr*math.Cos(angle)),
			cy + float32(rr*math.Sin(angle)),
		})
	}
	return out
}

func (a *App) fillPolygon(screen *ebiten.Image, pts [][2]float32, clr color.RGBA) {
	if len(pts) < 3 {
		return
	}
	var path vector.Path
	path.MoveTo(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		path.LineTo(p[0], p[1])
	}
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	r, g, b, al := float32(clr.R)/255, float32(clr.G)/255, float32(clr.B)/255, float32(clr.A)/255
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR, vs[i].ColorG, vs[i].ColorB, vs[i].ColorA = r, g, b, al
	}

	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	screen.DrawTriangles(vs, is, a.whiteImage(), op)
}

// whiteImage is the source for DrawTriangles; sampling its center keeps
// edges from bleeding.
func (a *App) whiteImage() *ebiten.Image {
	if a.white == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		a.white = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return a.white
}

func (a *App) drawHUD(screen *ebiten.Image) {
	hud := a.game.HUD()
	if hud == nil {
		return
	}
	lives := strings.Repeat("*", max(hud.Lives, 0))
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Score: %d/%d   Lives: %s", hud.Score, hud.Target, lives), 8, 4)

	title := a.game.Title()
	ebitenutil.DebugPrintAt(screen, title, a.width-len(title)*debugGlyphW-8, 4)
	ebitenutil.DebugPrintAt(screen, "Drag shapes into matching slots   P pause  R restart  Q quit", 8, a.height-debugGlyphH-4)
}

func (a *App) drawFinalPanel(screen *ebiten.Image) {
	hud := a.game.HUD()
	final := fmt.Sprintf("Final Score: %d", hud.FinalScore)
	if hud.Outcome == sorter.OutcomeWin {
		a.drawPanel(screen, colornames.Limegreen, "YOU WIN!", final, "R restart  Q quit")
		return
	}
	a.drawPanel(screen, colornames.Crimson, "GAME OVER", final, "R restart  Q quit")
}

// drawPanel draws a centered box with one text line per entry.
func (a *App) drawPanel(screen *ebiten.Image, border color.RGBA, lines ...string) {
	longest := 0
	for _, l := range lines {
		longest = max(longest, len(l))
	}
	w := float32(longest*debugGlyphW + 48)
	h := float32(len(lines)*(debugGlyphH+8) + 24)
	x := (float32(a.width) - w) / 2
	y := (float32(a.height) - h) / 2

	vector.DrawFilledRect(screen, x, y, w, h, fade(background, 0.92), false)
	vector.StrokeRect(screen, x, y, w, h, 3, border, false)

	for i, l := range lines {
		lx := int(x) + (int(w)-len(l)*debugGlyphW)/2
		ly := int(y) + 12 + i*(debugGlyphH+8)
		ebitenutil.DebugPrintAt(screen, l, lx, ly)
	}
}
