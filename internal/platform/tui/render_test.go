package tui

import (
	"testing"

	"github.com/vovakirdan/ecoquest/internal/core"
)

func TestRenderScreenText(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawText(0, 0, "Eco", core.ColorGreen)
	s.Paint(3, 0, '♣', core.ColorForest, core.ColorSkyBlue)
	s.Paint(0, 1, '•', core.ColorBlack, core.ColorMoccasin)

	got := RenderScreen(s)
	// Tests run without a terminal, so lipgloss renders no escape codes.
	want := "Eco♣  \n•     "
	if got != want {
		t.Errorf("RenderScreen() = %q, want %q", got, want)
	}
}

func TestRenderScreenEmpty(t *testing.T) {
	if got := RenderScreen(core.NewScreen(0, 0)); got != "" {
		t.Errorf("RenderScreen() = %q, want empty", got)
	}
}

func TestStyleCacheReuse(t *testing.T) {
	styles := make(styleCache)
	styles.style(core.ColorRed, core.ColorPanel)
	styles.style(core.ColorRed, core.ColorPanel)
	styles.style(core.ColorRed, core.ColorDefault)

	if len(styles) != 2 {
		t.Errorf("cache holds %d styles, want 2", len(styles))
	}
}
