package core

// Color is a terminal color for a screen cell.
// Non-zero values are ANSI 256-color codes; ColorDefault leaves the
// terminal's own foreground or background in place.
type Color uint8

// Named colors used by the renderer. Values are ANSI 256-color codes.
const (
	ColorDefault     Color = 0
	ColorRed         Color = 1
	ColorGreen       Color = 2
	ColorYellow      Color = 3
	ColorBlue        Color = 4
	ColorMagenta     Color = 5
	ColorCyan        Color = 6
	ColorWhite       Color = 7
	ColorBrightWhite Color = 15
	ColorBlack       Color = 16
	ColorForest      Color = 28  // #228B22 tree canopy
	ColorSeaGreen    Color = 108 // #8FBC8F ground strip
	ColorLightGreen  Color = 120 // #90EE90 distant hills
	ColorSkyBlue     Color = 117 // #87CEEB top of the sky
	ColorPaleGreen   Color = 157 // #98FB98 bottom of the sky
	ColorBark        Color = 94  // #8B4513 tree trunks
	ColorSalmon      Color = 203 // #FF6B6B character body
	ColorMoccasin    Color = 223 // #FFE4B5 character head
	ColorGold        Color = 220
	ColorWater       Color = 39
	ColorOrange      Color = 208
	ColorGray        Color = 245
	ColorPanel       Color = 235 // HUD and advisory panel background
)

// SkyRamp is the vertical sky gradient from top to bottom.
var SkyRamp = []Color{ColorSkyBlue, 117, 116, 152, 151, 158, ColorPaleGreen}

// Ramp picks the color at fraction t (0..1) along a ramp.
func Ramp(ramp []Color, t float64) Color {
	if len(ramp) == 0 {
		return ColorDefault
	}
	i := int(ClampF(t, 0, 1) * float64(len(ramp)-1))
	return ramp[i]
}
