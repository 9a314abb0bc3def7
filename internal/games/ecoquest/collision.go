package ecoquest

import "slices"

// Collect marks every uncollected item overlapping the character as
// collected, adding reward per item, and reports one EventCollected per
// hit in slice order. The input slice is never modified; a new one is
// allocated only when something was collected.
func Collect(w World, score, reward int) (World, int, []Event) {
	box := w.Character.Box()

	var events []Event
	copied := false
	for i, item := range w.Collectibles {
		if item.Collected || !box.Intersects(item.Box()) {
			continue
		}
		if !copied {
			w.Collectibles = slices.Clone(w.Collectibles)
			copied = true
		}
		w.Collectibles[i].Collected = true
		score += reward
		events = append(events, Event{
			Type:  EventCollected,
			Kind:  item.Kind,
			Index: i,
			Score: score,
		})
	}
	return w, score, events
}
