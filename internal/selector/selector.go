// Package selector implements the interactive pick of the target window
// via a pointer click.
package selector

import (
	"time"

	"winfresh/internal/logging"
	"winfresh/internal/platform"
)

// PollTick is how often the pointer state is sampled while waiting for
// the click. Polling is used because X offers no wait-for-button
// primitive without grabbing the pointer away from the user.
const PollTick = 50 * time.Millisecond

// Selector blocks until the user clicks a window and resolves the click
// to that window's top-level owner.
type Selector struct {
	backend platform.Backend
	log     *logging.Logger
	sleep   func(time.Duration)
}

// New creates a Selector.
func New(backend platform.Backend, log *logging.Logger) *Selector {
	return &Selector{backend: backend, log: log, sleep: time.Sleep}
}

// SelectByClick waits for the primary button to go down and back up,
// then hit-tests the release position. Returns ok=false when the
// pointer cannot be read or nothing is under the click; that is a
// user-visible failure the caller must re-prompt or abort on, not a
// retryable condition.
func (s *Selector) SelectByClick() (platform.WindowID, bool) {
	s.log.Debugf("SelectByClick: waiting for primary button click.")

	state, ok := s.waitButton(true)
	if !ok {
		return platform.None, false
	}
	s.log.Debugf("SelectByClick: primary button pressed.")

	// Wait for the release so a drag or double click does not leave a
	// stale press behind.
	state, ok = s.waitButton(false)
	if !ok {
		return platform.None, false
	}
	s.log.Debugf("SelectByClick: primary button released at (%d, %d).", state.X, state.Y)

	hit, err := s.backend.WindowAt(state.X, state.Y)
	if err != nil {
		s.log.Warningf("SelectByClick: no window at click position: %v", err)
		return platform.None, false
	}

	top := s.backend.TopLevel(hit)
	s.log.Infof("SelectByClick: click at (%d, %d), hit window %d, top-level %d, title %q.",
		state.X, state.Y, hit, top, s.backend.Title(top))
	return top, true
}

// waitButton polls until the primary button reaches the wanted state and
// returns the pointer snapshot that crossed the edge.
func (s *Selector) waitButton(down bool) (platform.PointerState, bool) {
	for {
		state, err := s.backend.Pointer()
		if err != nil {
			s.log.Errorf("SelectByClick: failed to read pointer state: %v", err)
			return platform.PointerState{}, false
		}
		if state.ButtonDown == down {
			return state, true
		}
		s.sleep(PollTick)
	}
}
