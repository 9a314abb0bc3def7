package ecoquest

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/ecoquest/internal/advisor"
	"github.com/vovakirdan/ecoquest/internal/core"
)

func testSnapshot() Snapshot {
	return Snapshot{
		Width:  800,
		Height: 600,
		Character: Character{
			X: 400, Y: 300, W: 32, H: 32,
			Facing: FacingDown,
		},
		Collectibles: []Collectible{
			{X: 100, Y: 100, Size: 20, Kind: KindTree},
			{X: 600, Y: 100, Size: 20, Kind: KindEnergy, Collected: true},
		},
		Score:     15,
		Level:     1,
		Collected: 1,
		Total:     2,
	}
}

func render(snap Snapshot) *core.Screen {
	dst := core.NewScreen(80, 24)
	Renderer{}.Render(dst, snap)
	return dst
}

func TestRenderHUD(t *testing.T) {
	dst := render(testSnapshot())
	if row := dst.Row(0); !strings.Contains(row, "Score: 15  Level: 1  Collected: 1/2") {
		t.Errorf("HUD row = %q", row)
	}
}

func TestRenderCollectibles(t *testing.T) {
	dst := render(testSnapshot())

	if got := dst.Get(10, 4); got != '♣' {
		t.Errorf("cell (10,4) = %q, want tree glyph", got)
	}
	if strings.ContainsRune(dst.String(), '☼') {
		t.Error("collected items must not be drawn")
	}
}

func TestRenderCharacter(t *testing.T) {
	snap := testSnapshot()
	dst := render(snap)

	if c := dst.GetCell(42, 13); c.Bg != core.ColorSalmon {
		t.Errorf("body cell bg = %d, want salmon", c.Bg)
	}
	if c := dst.GetCell(41, 12); c.Rune != '•' || c.Bg != core.ColorMoccasin {
		t.Errorf("eye cell = %+v", c)
	}

	snap.Character.Facing = FacingUp
	if strings.ContainsRune(render(snap).String(), '•') {
		t.Error("no eyes should show when facing away")
	}
}

func TestRenderSky(t *testing.T) {
	dst := render(testSnapshot())
	if c := dst.GetCell(70, 1); c.Bg != core.SkyRamp[0] {
		t.Errorf("top sky bg = %d, want %d", c.Bg, core.SkyRamp[0])
	}
	if c := dst.GetCell(79, 23); c.Bg != core.ColorSeaGreen {
		t.Errorf("ground bg = %d, want sea green", c.Bg)
	}
}

func TestRenderBanners(t *testing.T) {
	snap := testSnapshot()
	snap.Paused = true
	if !strings.Contains(render(snap).String(), "PAUSED") {
		t.Error("missing pause banner")
	}

	snap.Paused = false
	snap.Complete = true
	if !strings.Contains(render(snap).String(), "ALL ITEMS COLLECTED") {
		t.Error("missing completion banner")
	}
}

func TestRenderAdvisory(t *testing.T) {
	snap := testSnapshot()
	snap.HasAdvisory = true
	snap.Advisory = advisor.Posted{
		Message: advisor.Message{
			Text:      "Recycling one aluminum can saves enough energy to run a TV for three hours. Keep collecting!",
			Character: advisor.Character,
			Timestamp: time.Date(2024, 6, 1, 9, 5, 0, 0, time.Local).UnixMilli(),
		},
		ShownAt:    time.Now(),
		VisibleFor: 8 * time.Second,
	}

	out := render(snap).String()
	if !strings.Contains(out, "Recycling one aluminum can") {
		t.Error("advisory text not drawn")
	}
	if !strings.Contains(out, "~ eco-teacher 09:05") {
		t.Error("advisory source tag with send time not drawn")
	}

	snap.HasAdvisory = false
	if strings.Contains(render(snap).String(), "eco-teacher") {
		t.Error("hidden advisory must not be drawn")
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("every small action counts for our planet", 12)
	for _, line := range lines {
		if len(line) > 12 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if len(lines) < 3 {
		t.Errorf("lines = %q, want at least 3", lines)
	}
}

func TestRenderTinyScreen(t *testing.T) {
	dst := core.NewScreen(0, 0)
	Renderer{}.Render(dst, testSnapshot())
}
