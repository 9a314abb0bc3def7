package ecoquest

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/vovakirdan/ecoquest/internal/advisor"
	"github.com/vovakirdan/ecoquest/internal/core"
)

// Scenery layout in canvas pixels.
const (
	terrainBand   = 100
	treeSpacing   = 80
	treeTop       = 80 // Distance from the canvas bottom to a tree's crown
	groundHeight  = 40
	advisoryWidth = 64
)

// Glyphs and colors per collectible kind.
var kindGlyphs = map[Kind]struct {
	glyph rune
	fg    core.Color
}{
	KindTree:    {'♣', core.ColorForest},
	KindWater:   {'♦', core.ColorWater},
	KindRecycle: {'▲', core.ColorSeaGreen},
	KindEnergy:  {'☼', core.ColorGold},
}

// Renderer draws snapshots onto a screen. The canvas is scaled to fill
// the screen, so one cell covers several canvas pixels.
type Renderer struct{}

// viewport converts canvas pixels to screen cells.
type viewport struct {
	sx, sy float64
}

// rect maps a canvas rectangle to the cells it touches, at least one cell.
func (v viewport) rect(x, y, w, h float64) core.Rect {
	x0 := int(math.Floor(x * v.sx))
	y0 := int(math.Floor(y * v.sy))
	x1 := int(math.Ceil((x + w) * v.sx))
	y1 := int(math.Ceil((y + h) * v.sy))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return core.NewRect(x0, y0, x1-x0, y1-y0)
}

func (v viewport) point(x, y float64) (int, int) {
	return int(math.Floor(x * v.sx)), int(math.Floor(y * v.sy))
}

// Render draws the frame back to front: sky, hills, trees, ground,
// collectibles, character, HUD and advisory panel.
func (r Renderer) Render(dst *core.Screen, snap Snapshot) {
	dst.Clear()
	if dst.Width() == 0 || dst.Height() == 0 || snap.Width <= 0 || snap.Height <= 0 {
		return
	}
	v := viewport{
		sx: float64(dst.Width()) / snap.Width,
		sy: float64(dst.Height()) / snap.Height,
	}

	drawSky(dst)
	drawScenery(dst, v, snap.Width, snap.Height)
	drawCollectibles(dst, v, snap.Collectibles)
	drawCharacter(dst, v, snap.Character)
	drawHUD(dst, snap)

	switch {
	case snap.Paused:
		drawBanner(dst, "PAUSED", "Press P to resume")
	case snap.Complete:
		drawBanner(dst, "ALL ITEMS COLLECTED", fmt.Sprintf("Score: %d  |  Press R to play again", snap.Score))
	}

	if snap.HasAdvisory {
		drawAdvisory(dst, snap.Advisory)
	}
}

func fill(dst *core.Screen, r core.Rect, bg core.Color) {
	dst.FillRect(r, core.Cell{Rune: ' ', Bg: bg})
}

func drawSky(dst *core.Screen) {
	h := dst.Height()
	for y := 0; y < h; y++ {
		t := 0.0
		if h > 1 {
			t = float64(y) / float64(h-1)
		}
		fill(dst, core.NewRect(0, y, dst.Width(), 1), core.Ramp(core.SkyRamp, t))
	}
}

func drawScenery(dst *core.Screen, v viewport, width, height float64) {
	// Distant hills
	for i := 0.0; i < width; i += terrainBand {
		h := math.Sin(i*0.01)*50 + 100
		fill(dst, v.rect(i, height-h, terrainBand, h), core.ColorLightGreen)
	}

	// Trees
	for i := 0.0; i < width; i += treeSpacing {
		x := i + math.Sin(i*0.02)*20
		y := height - treeTop
		fill(dst, v.rect(x+15, y+20, 10, 20), core.ColorBark)
		fill(dst, v.rect(x, y, 40, 30), core.ColorForest)
	}

	fill(dst, v.rect(0, height-groundHeight, width, groundHeight), core.ColorSeaGreen)
}

func drawCollectibles(dst *core.Screen, v viewport, items []Collectible) {
	for _, item := range items {
		if item.Collected {
			continue
		}
		look := kindGlyphs[item.Kind]
		r := v.rect(item.X, item.Y, item.Size, item.Size)
		for y := r.Y; y < r.Bottom(); y++ {
			for x := r.X; x < r.Right(); x++ {
				cell := dst.GetCell(x, y)
				dst.Paint(x, y, look.glyph, look.fg, cell.Bg)
			}
		}
	}
}

func drawCharacter(dst *core.Screen, v viewport, c Character) {
	offset := 0.0
	if c.Moving {
		offset = math.Sin(c.Frame*2) * 2
	}

	fill(dst, v.rect(c.X+8, c.Y+8, 16, 20), core.ColorSalmon)

	// Arms and legs swing in opposite phase while walking
	fill(dst, v.rect(c.X+4, c.Y+12+offset, 4, 8), core.ColorSalmon)
	fill(dst, v.rect(c.X+24, c.Y+12-offset, 4, 8), core.ColorSalmon)
	fill(dst, v.rect(c.X+10, c.Y+24+offset, 4, 8), core.ColorSalmon)
	fill(dst, v.rect(c.X+18, c.Y+24-offset, 4, 8), core.ColorSalmon)

	fill(dst, v.rect(c.X+10, c.Y+2, 12, 12), core.ColorMoccasin)

	var eyes []float64
	switch c.Facing {
	case FacingDown:
		eyes = []float64{12, 18}
	case FacingLeft:
		eyes = []float64{11}
	case FacingRight:
		eyes = []float64{19}
	}
	for _, ex := range eyes {
		x, y := v.point(c.X+ex, c.Y+5)
		dst.Paint(x, y, '•', core.ColorBlack, core.ColorMoccasin)
	}
}

func drawHUD(dst *core.Screen, snap Snapshot) {
	text := fmt.Sprintf(" Score: %d  Level: %d  Collected: %d/%d ", snap.Score, snap.Level, snap.Collected, snap.Total)
	fill(dst, core.NewRect(1, 0, len(text), 1), core.ColorPanel)
	dst.DrawText(1, 0, text, core.ColorBrightWhite)
}

// drawBanner draws a message box in the center of the screen.
func drawBanner(dst *core.Screen, title, subtitle string) {
	boxW := core.Max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	r := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	fill(dst, r, core.ColorPanel)
	dst.DrawBox(r, core.ColorGold)
	dst.DrawText(r.X+(boxW-len([]rune(title)))/2, r.Y+1, title, core.ColorBrightWhite)
	dst.DrawText(r.X+(boxW-len([]rune(subtitle)))/2, r.Y+3, subtitle, core.ColorGray)
}

// drawAdvisory draws the eco-teacher panel along the bottom of the screen.
func drawAdvisory(dst *core.Screen, p advisor.Posted) {
	w := core.Min(advisoryWidth, dst.Width()-2)
	if w < 12 {
		return
	}

	lines := wrapText(p.Text, w-4)
	if limit := core.Max(1, dst.Height()/3); len(lines) > limit {
		lines = lines[:limit]
	}

	h := len(lines) + 3
	r := core.NewRect((dst.Width()-w)/2, core.Max(0, dst.Height()-h-1), w, h)

	border := core.ColorGreen
	if p.Fallback {
		border = core.ColorOrange
	}
	fill(dst, r, core.ColorPanel)
	dst.DrawBox(r, border)

	for i, line := range lines {
		dst.DrawText(r.X+2, r.Y+1+i, line, core.ColorBrightWhite)
	}

	tag := "~ " + p.Character
	if p.Timestamp > 0 {
		tag += " " + p.Time().Format("15:04")
	}
	dst.DrawText(r.Right()-2-len(tag), r.Bottom()-2, tag, core.ColorGray)
}

// wrapText wraps text to width cells, breaking long words.
func wrapText(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	wrapped := ansi.Wrap(strings.TrimSpace(text), width, "")
	return strings.Split(wrapped, "\n")
}
