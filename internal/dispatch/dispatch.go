// Package dispatch runs the main delivery loop.
package dispatch

import (
	"fmt"
	"io"
	"time"

	"winfresh/internal/focus"
	"winfresh/internal/interval"
	"winfresh/internal/keys"
	"winfresh/internal/logging"
	"winfresh/internal/platform"
)

const (
	// ModifierPenalty is the fixed pause after finding a conflicting
	// modifier held. The scheduled interval is deliberately not
	// re-sampled: a held modifier costs a short penalty, not a whole
	// new wait.
	ModifierPenalty = 500 * time.Millisecond
	// PostDeliveryDelay separates a delivery from the next cycle's
	// liveness check.
	PostDeliveryDelay = 100 * time.Millisecond
)

// Dispatcher composes the interval source, focus arbiter, and injector
// into the unbounded cycle loop. It owns no window state beyond the
// target handed to Run.
type Dispatcher struct {
	Backend  platform.Backend
	Arbiter  *focus.Arbiter
	Injector focus.Injector
	Source   *interval.Source
	Bounds   interval.Bounds
	Combo    keys.Combo
	Log      *logging.Logger
	Console  io.Writer

	// Sleep is swappable for tests; nil means time.Sleep.
	Sleep func(time.Duration)
}

// Run drives delivery cycles until the target window is confirmed gone.
// Liveness is checked twice per cycle, before the wait is committed and
// again immediately before delivery, to shrink the window between check
// and use.
func (d *Dispatcher) Run(target platform.WindowID) {
	sleep := d.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	modifiers := d.Combo.Modifiers()

	count := 0
	for {
		if !d.Backend.IsLive(target) {
			fmt.Fprintf(d.Console, "Target window (%d) no longer exists. Stopping.\n", target)
			d.Log.Warningf("Run: target window %d no longer exists. Exiting loop.", target)
			return
		}

		wait := d.Source.Sample(d.Bounds)
		title := d.Backend.Title(target)
		if title == "" {
			title = "No Title"
		}
		fmt.Fprintf(d.Console, "Waiting %.2fs before sending %s to %q...\n",
			wait, d.Combo.Name, title)
		d.Log.Debugf("Run: waiting %.3f seconds.", wait)
		sleep(interval.Duration(wait))

		held, err := d.Backend.ModifierHeld(modifiers)
		if err != nil {
			d.Log.Warningf("Run: modifier check failed: %v", err)
		}
		if held {
			fmt.Fprintf(d.Console, "A combo modifier key is held. Skipping this keystroke.\n")
			d.Log.Debugf("Run: conflicting modifier held, deferring delivery.")
			sleep(ModifierPenalty)
			continue
		}

		// Re-check after the wait: the target had plenty of time to
		// vanish.
		if !d.Backend.IsLive(target) {
			fmt.Fprintf(d.Console, "Target window (%d) disappeared before sending. Stopping.\n", target)
			d.Log.Warningf("Run: target window %d disappeared during wait. Exiting loop.", target)
			return
		}

		count++
		fmt.Fprintf(d.Console, "Sending %s (count: %d) to %q...\n", d.Combo.Name, count, title)
		if !d.Arbiter.Deliver(target, d.Injector) {
			fmt.Fprintf(d.Console, "Could not reliably switch to the target window. Keystroke skipped this cycle.\n")
		}

		sleep(PostDeliveryDelay)
	}
}
