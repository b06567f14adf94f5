// Package focus implements the focus-arbitration protocol: temporarily
// steal the active-window role for the target, hand it to the injector,
// and put the previous owner back.
package focus

import (
	"time"

	"winfresh/internal/logging"
	"winfresh/internal/platform"
)

// Timing of the acquisition protocol. Activation is granted
// provisionally by the window manager and can be revoked right after,
// so a single instantaneous success check is not trusted: the settle
// delay and re-check catch focus that was granted and stolen back.
const (
	ActivationAttempts   = 3
	ActivationRetryDelay = 100 * time.Millisecond
	SettleDelay          = 350 * time.Millisecond
	RestorePause         = 100 * time.Millisecond
)

// Injector delivers the keystroke combination once focus is secured.
type Injector interface {
	Inject(target platform.WindowID) (int, error)
}

// Session describes one focus-steal attempt. It lives for exactly one
// delivery cycle and is never persisted.
type Session struct {
	Target   platform.WindowID
	Original platform.WindowID

	alreadyActive bool
	secured       bool
}

// Secured reports whether the acquisition phase ended with the target
// holding focus durably.
func (s *Session) Secured() bool { return s.secured }

// AlreadyActive reports whether the target held focus at session start,
// in which case nothing was disturbed and nothing will be restored.
func (s *Session) AlreadyActive() bool { return s.alreadyActive }

// Arbiter drives focus sessions over a Backend.
type Arbiter struct {
	backend platform.Backend
	log     *logging.Logger
	sleep   func(time.Duration)
}

// New creates an Arbiter.
func New(backend platform.Backend, log *logging.Logger) *Arbiter {
	return &Arbiter{backend: backend, log: log, sleep: time.Sleep}
}

// Deliver runs one full cycle: acquire focus for target, inject the
// combo if and only if acquisition succeeded, then restore the previous
// owner. Returns whether focus was secured this cycle.
func (a *Arbiter) Deliver(target platform.WindowID, inj Injector) bool {
	session := a.Acquire(target)
	if session.secured {
		if _, err := inj.Inject(target); err != nil {
			a.log.Errorf("Deliver: injection to window %d failed: %v", target, err)
		}
	}
	if !session.alreadyActive {
		a.Restore(session)
	}
	return session.secured
}

// Acquire attempts to make target the focus owner. The returned session
// is always usable; its Secured flag carries the outcome. Every input
// attachment made here is detached before Acquire returns, in reverse
// order of establishment, regardless of outcome.
func (a *Arbiter) Acquire(target platform.WindowID) *Session {
	session := &Session{Target: target}

	original, err := a.backend.ActiveWindow()
	if err != nil {
		a.log.Warningf("Acquire: cannot read current focus owner: %v", err)
		original = platform.None
	}
	session.Original = original

	if original == target {
		a.log.Debugf("Acquire: target window %d is already active.", target)
		session.alreadyActive = true
		session.secured = true
		return session
	}

	a.log.Debugf("Acquire: target %d is not active (current %d), attempting activation.",
		target, original)

	attachments := a.attach(target, original)
	defer a.detach(attachments)

	session.secured = a.activate(target)
	return session
}

// attachment pairs an established attachment with the window it is on,
// for logging.
type attachment struct {
	win platform.WindowID
	att platform.Attachment
}

// attach joins input to the target and, when different, to the previous
// focus owner. Each join is attempted independently: a failure is
// degraded-but-continuing, since the activation attempt may still
// succeed without it.
func (a *Arbiter) attach(target, original platform.WindowID) []attachment {
	var attachments []attachment
	join := func(win platform.WindowID) {
		att, err := a.backend.AttachInput(win)
		if err != nil {
			a.log.Warningf("Acquire: failed to attach input to window %d: %v", win, err)
			return
		}
		attachments = append(attachments, attachment{win: win, att: att})
	}

	join(target)
	if original != platform.None && original != target {
		join(original)
	}
	return attachments
}

// detach undoes the joins in strict reverse order of establishment.
// This runs on every exit path of the acquisition; a leaked attachment
// would corrupt focus behavior for the rest of the process lifetime.
func (a *Arbiter) detach(attachments []attachment) {
	for i := len(attachments) - 1; i >= 0; i-- {
		if err := attachments[i].att.Detach(); err != nil {
			a.log.Warningf("Acquire: failed to detach input from window %d: %v",
				attachments[i].win, err)
		}
	}
}

// activate requests activation with a bounded retry loop, then verifies
// the grant held across the settle delay.
func (a *Arbiter) activate(target platform.WindowID) bool {
	if minimized, err := a.backend.IsMinimized(target); err == nil && minimized {
		a.log.Debugf("Acquire: target %d is minimized, restoring.", target)
		if err := a.backend.Restore(target); err != nil {
			a.log.Warningf("Acquire: failed to restore window %d: %v", target, err)
		}
		a.sleep(ActivationRetryDelay)
	}

	granted := false
	for attempt := 1; attempt <= ActivationAttempts; attempt++ {
		if err := a.backend.Activate(target); err != nil {
			a.log.Warningf("Acquire: activation request for window %d failed: %v", target, err)
		}
		a.sleep(ActivationRetryDelay)

		current, err := a.backend.ActiveWindow()
		if err == nil && current == target {
			a.log.Debugf("Acquire: window %d became active on attempt %d.", target, attempt)
			granted = true
			break
		}
		a.log.Debugf("Acquire: window %d not active after attempt %d (current %d).",
			target, attempt, current)
	}
	if !granted {
		a.log.Warningf("Acquire: failed to activate window %d after %d attempts.",
			target, ActivationAttempts)
		return false
	}

	a.sleep(SettleDelay)
	current, err := a.backend.ActiveWindow()
	if err != nil || current != target {
		a.log.Warningf("Acquire: focus lost from window %d after settle (current %d).",
			target, current)
		return false
	}
	a.log.Debugf("Acquire: window %d still active after settle.", target)
	return true
}

// Restore brings the original focus owner back, under the session's
// restore policy: nothing is done when the target was already active,
// when there is no live original owner to go back to, or when the
// acquisition failed (nothing was disturbed enough to justify forcing
// an unreliable restore). A user switch to the original owner during
// the cycle also needs no action.
func (a *Arbiter) Restore(session *Session) {
	original := session.Original
	if session.alreadyActive || original == platform.None || original == session.Target {
		return
	}
	if !a.backend.IsLive(original) {
		a.log.Debugf("Restore: original window %d is gone, nothing to restore.", original)
		return
	}
	if !session.secured {
		a.log.Debugf("Restore: focus was never secured, not forcing a restore.")
		return
	}

	current, err := a.backend.ActiveWindow()
	if err != nil {
		a.log.Warningf("Restore: cannot read current focus owner: %v", err)
		return
	}
	if current != session.Target && current == original {
		a.log.Debugf("Restore: original window %d is already active again.", original)
		return
	}

	a.log.Debugf("Restore: bringing original window %d back to front.", original)
	a.sleep(RestorePause)

	att, err := a.backend.AttachInput(original)
	if err != nil {
		a.log.Warningf("Restore: failed to attach input to window %d: %v", original, err)
	}

	if minimized, merr := a.backend.IsMinimized(original); merr == nil && minimized {
		if rerr := a.backend.Restore(original); rerr != nil {
			a.log.Warningf("Restore: failed to unminimize window %d: %v", original, rerr)
		}
	}
	// Single attempt, no retry loop: restoring is best effort.
	if aerr := a.backend.Activate(original); aerr != nil {
		a.log.Warningf("Restore: activation request for window %d failed: %v", original, aerr)
	}

	if att != nil {
		if derr := att.Detach(); derr != nil {
			a.log.Warningf("Restore: failed to detach input from window %d: %v", original, derr)
		}
	}

	if current, err = a.backend.ActiveWindow(); err == nil && current == original {
		a.log.Debugf("Restore: focus returned to window %d.", original)
	} else {
		a.log.Warningf("Restore: failed to return focus to window %d (current %d).",
			original, current)
	}
}
