package core

import "strings"

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, Up arrow
	ActionDown           // S, Down arrow
	ActionLeft           // A, Left arrow
	ActionRight          // D, Right arrow
	ActionPause          // P, Escape - pause/unpause game
	ActionRestart        // R key - restart after the run is complete
	ActionQuit           // Q, Ctrl+C - exit game/session
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame represents the input state during one simulation tick.
// Directional actions are set for every tick their key is held;
// Pause and Restart are set only on the tick after the key press.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// KeySet tracks which physical keys are currently held.
// Keys are normalized to lower case. Keys that no binding refers to are
// stored like any other but never consulted.
type KeySet struct {
	held map[string]bool
}

// NewKeySet creates an empty key set.
func NewKeySet() *KeySet {
	return &KeySet{held: make(map[string]bool)}
}

// Press marks a key as held.
func (k *KeySet) Press(key string) {
	k.held[strings.ToLower(key)] = true
}

// Release marks a key as no longer held.
func (k *KeySet) Release(key string) {
	delete(k.held, strings.ToLower(key))
}

// IsHeld reports whether the key is currently held.
func (k *KeySet) IsHeld(key string) bool {
	return k.held[strings.ToLower(key)]
}

// Reset releases every key.
func (k *KeySet) Reset() {
	clear(k.held)
}

// Bindings maps directional actions to the physical keys that trigger them.
type Bindings map[Action][]string

// DefaultBindings binds each direction to its arrow key and WASD letter,
// using Bubble Tea key names.
func DefaultBindings() Bindings {
	return Bindings{
		ActionUp:    {"up", "w"},
		ActionDown:  {"down", "s"},
		ActionLeft:  {"left", "a"},
		ActionRight: {"right", "d"},
	}
}

// Action returns the action bound to a key, or ActionNone.
func (b Bindings) Action(key string) Action {
	key = strings.ToLower(key)
	for action, keys := range b {
		for _, k := range keys {
			if k == key {
				return action
			}
		}
	}
	return ActionNone
}

// Sample sets every bound action whose key is held into the frame.
func (b Bindings) Sample(keys *KeySet, frame *InputFrame) {
	for action, bound := range b {
		for _, k := range bound {
			if keys.IsHeld(k) {
				frame.Set(action)
				break
			}
		}
	}
}
