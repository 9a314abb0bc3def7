package core

import "testing"

func TestKeySetNormalizesCase(t *testing.T) {
	keys := NewKeySet()
	keys.Press("W")

	if !keys.IsHeld("w") {
		t.Error("W press should be visible as w")
	}
	if !keys.IsHeld("W") {
		t.Error("IsHeld should normalize its argument too")
	}

	keys.Release("w")
	if keys.IsHeld("W") {
		t.Error("release of w should release W")
	}
}

func TestKeySetUnknownKeysHaveNoEffect(t *testing.T) {
	keys := NewKeySet()
	keys.Press("f5")
	keys.Press("x")

	frame := NewInputFrame()
	DefaultBindings().Sample(keys, &frame)

	for _, a := range []Action{ActionUp, ActionDown, ActionLeft, ActionRight} {
		if frame.Has(a) {
			t.Errorf("unbound keys should not trigger %v", a)
		}
	}
	if !keys.IsHeld("f5") {
		t.Error("unknown keys are still stored")
	}
}

func TestBindingsSampleBothKeysPerDirection(t *testing.T) {
	tests := []struct {
		key    string
		action Action
	}{
		{"up", ActionUp},
		{"w", ActionUp},
		{"down", ActionDown},
		{"s", ActionDown},
		{"left", ActionLeft},
		{"a", ActionLeft},
		{"right", ActionRight},
		{"D", ActionRight},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			keys := NewKeySet()
			keys.Press(tc.key)

			frame := NewInputFrame()
			DefaultBindings().Sample(keys, &frame)
			if !frame.Has(tc.action) {
				t.Errorf("key %q should trigger %v", tc.key, tc.action)
			}
			if got := DefaultBindings().Action(tc.key); got != tc.action {
				t.Errorf("Action(%q) = %v, expected %v", tc.key, got, tc.action)
			}
		})
	}
}

func TestKeySetReset(t *testing.T) {
	keys := NewKeySet()
	keys.Press("up")
	keys.Press("left")
	keys.Reset()

	if keys.IsHeld("up") || keys.IsHeld("left") {
		t.Error("Reset should release all keys")
	}
}

func TestInputFrameClear(t *testing.T) {
	frame := NewInputFrame()
	frame.Set(ActionUp)
	frame.Set(ActionPause)
	frame.Clear()

	if frame.Has(ActionUp) || frame.Has(ActionPause) {
		t.Error("Clear should remove all actions")
	}

	var zero InputFrame
	if zero.Has(ActionUp) {
		t.Error("zero frame should have no actions")
	}
	zero.Set(ActionDown)
	if !zero.Has(ActionDown) {
		t.Error("Set on zero frame should allocate")
	}
}
