// Package inject builds and submits the synthetic key event sequence.
package inject

import (
	"time"

	"github.com/pkg/errors"

	"winfresh/internal/focus"
	"winfresh/internal/keys"
	"winfresh/internal/logging"
	"winfresh/internal/platform"
)

// restoreDelay matches the focus arbiter's retry pacing: after a
// last-moment unminimize the window system needs a beat before the
// foreground check is meaningful.
const restoreDelay = 100 * time.Millisecond

// Injector delivers one keystroke combination per call. It does not
// arbitrate focus; the caller must have secured the foreground for the
// target before invoking Inject.
type Injector struct {
	backend platform.Backend
	combo   keys.Combo
	log     *logging.Logger
	sleep   func(time.Duration)
}

var _ focus.Injector = (*Injector)(nil)

// New creates an Injector for a fixed combo.
func New(backend platform.Backend, combo keys.Combo, log *logging.Logger) *Injector {
	return &Injector{backend: backend, combo: combo, log: log, sleep: time.Sleep}
}

// Inject submits the combo as one batch and returns the number of
// events the server accepted. The target is re-validated immediately
// before submission: liveness first, then a last-moment unminimize with
// a foreground re-check, since both can change at any scheduler
// quantum. Partial delivery is logged but not retried; the next
// scheduled cycle simply tries again.
func (i *Injector) Inject(target platform.WindowID) (int, error) {
	if !i.backend.IsLive(target) {
		return 0, errors.Errorf("target window %d is gone", target)
	}

	if minimized, err := i.backend.IsMinimized(target); err == nil && minimized {
		i.log.Debugf("Inject: target %d became minimized, restoring.", target)
		if rerr := i.backend.Restore(target); rerr != nil {
			return 0, errors.Wrapf(rerr, "cannot restore minimized window %d", target)
		}
		i.sleep(restoreDelay)
		current, cerr := i.backend.ActiveWindow()
		if cerr != nil || current != target {
			return 0, errors.Errorf("window %d lost foreground after restore", target)
		}
	}

	events := make([]platform.KeyEvent, 0, len(i.combo.Events))
	for _, ev := range i.combo.Events {
		events = append(events, platform.KeyEvent{Key: ev.Key, Press: ev.Press})
	}

	delivered, err := i.backend.SendKeys(events)
	if err != nil {
		i.log.Errorf("Inject: submission failed after %d of %d events: %v",
			delivered, len(events), err)
		return delivered, err
	}
	if delivered != len(events) {
		i.log.Errorf("Inject: delivered %d of %d events for combo %q.",
			delivered, len(events), i.combo.Name)
		return delivered, nil
	}
	i.log.Debugf("Inject: delivered combo %q (%d events) to window %d.",
		i.combo.Name, delivered, target)
	return delivered, nil
}
