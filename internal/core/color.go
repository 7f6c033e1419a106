package core

// Color represents a foreground color for a screen cell.
// Frontends map it to ANSI 256-color codes or RGBA.
type Color uint8

// Palette used by shapes, slots and HUD.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorGray
)

var colorNames = map[string]Color{
	"default": ColorDefault,
	"red":     ColorRed,
	"green":   ColorGreen,
	"yellow":  ColorYellow,
	"blue":    ColorBlue,
	"magenta": ColorMagenta,
	"cyan":    ColorCyan,
	"white":   ColorWhite,
	"orange":  ColorOrange,
	"gray":    ColorGray,
}

// ParseColor resolves a palette name; unknown names map to ColorDefault.
func ParseColor(name string) (Color, bool) {
	c, ok := colorNames[name]
	return c, ok
}
