package tui

import (
	"testing"

	"github.com/vovakirdan/ecoquest/internal/core"
)

func TestKeyMapBindings(t *testing.T) {
	b := DefaultKeyMap().Bindings()

	tests := []struct {
		key  string
		want core.Action
	}{
		{"up", core.ActionUp},
		{"w", core.ActionUp},
		{"down", core.ActionDown},
		{"s", core.ActionDown},
		{"left", core.ActionLeft},
		{"A", core.ActionLeft},
		{"right", core.ActionRight},
		{"d", core.ActionRight},
		{"p", core.ActionNone},
		{"space", core.ActionNone},
	}

	for _, tt := range tests {
		if got := b.Action(tt.key); got != tt.want {
			t.Errorf("Action(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestOpposite(t *testing.T) {
	for _, a := range []core.Action{core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight} {
		o := opposite(a)
		if o == core.ActionNone || opposite(o) != a {
			t.Errorf("opposite(%v) = %v", a, o)
		}
	}
	if opposite(core.ActionPause) != core.ActionNone {
		t.Error("pause has no opposite")
	}
}

func TestKeyMapHelp(t *testing.T) {
	km := DefaultKeyMap()
	for _, b := range km.ShortHelp() {
		if b.Help().Key == "" || b.Help().Desc == "" {
			t.Errorf("binding %v has no help text", b.Keys())
		}
	}
}
