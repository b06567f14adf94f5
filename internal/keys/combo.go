// Package keys models keystroke combinations as ordered press/release
// sequences over X keysym names.
package keys

import (
	"fmt"
	"strings"
)

// Event is a single key transition within a combo.
type Event struct {
	Key   string `yaml:"key"`
	Press bool   `yaml:"press"`
}

// Combo is an ordered sequence of key transitions delivered as one unit.
type Combo struct {
	Name   string
	Events []Event
}

// DefaultName identifies the built-in refresh combo.
const DefaultName = "refresh"

// Refresh returns the built-in Ctrl+F5 combination.
func Refresh() Combo {
	return Combo{
		Name: DefaultName,
		Events: []Event{
			{Key: "Control_L", Press: true},
			{Key: "F5", Press: true},
			{Key: "F5", Press: false},
			{Key: "Control_L", Press: false},
		},
	}
}

// modifierPrefixes covers the keysym families that act as modifiers. A
// combo's modifiers drive the held-key conflict check in the dispatcher.
var modifierPrefixes = []string{"Control", "Shift", "Alt", "Meta", "Super", "Hyper"}

// IsModifier reports whether the keysym name is a modifier key.
func IsModifier(key string) bool {
	for _, p := range modifierPrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

// Modifiers returns the distinct modifier keys the combo uses, in order
// of first appearance.
func (c Combo) Modifiers() []string {
	var mods []string
	seen := make(map[string]bool)
	for _, ev := range c.Events {
		if IsModifier(ev.Key) && !seen[ev.Key] {
			seen[ev.Key] = true
			mods = append(mods, ev.Key)
		}
	}
	return mods
}

// Validate checks that the sequence is well formed: non-empty, every
// release preceded by a matching press, and every press released by the
// end of the sequence.
func (c Combo) Validate() error {
	if len(c.Events) == 0 {
		return fmt.Errorf("combo %q has no events", c.Name)
	}
	down := make(map[string]int)
	for i, ev := range c.Events {
		if ev.Key == "" {
			return fmt.Errorf("combo %q: event %d has no key", c.Name, i)
		}
		if ev.Press {
			down[ev.Key]++
		} else {
			if down[ev.Key] == 0 {
				return fmt.Errorf("combo %q: release of %s at event %d without a prior press", c.Name, ev.Key, i)
			}
			down[ev.Key]--
		}
	}
	for key, n := range down {
		if n != 0 {
			return fmt.Errorf("combo %q: %s is pressed but never released", c.Name, key)
		}
	}
	return nil
}
