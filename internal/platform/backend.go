// Package platform abstracts the window-system primitives the refresher
// core needs, so the focus, selection, injection, and dispatch logic
// stay independent of X11 specifics.
package platform

// WindowID is a platform-neutral identifier for a top-level window. The
// window is owned by a foreign process and may become invalid at any
// time; callers must re-check liveness immediately before use.
type WindowID uint32

// None is the zero WindowID, meaning "no window".
const None WindowID = 0

// PointerState is a snapshot of the pointer position and primary button.
type PointerState struct {
	X          int
	Y          int
	ButtonDown bool
}

// KeyEvent is one key transition ready for injection.
type KeyEvent struct {
	Key   string
	Press bool
}

// Attachment is one established input attachment. Detaching restores
// the state that existed before the attachment was made.
type Attachment interface {
	Detach() error
}

// Backend abstracts window-system operations. Implementations perturb
// global desktop state (the active window, per-window event interest)
// and must keep every operation individually reversible.
type Backend interface {
	// ActiveWindow returns the current foreground owner.
	ActiveWindow() (WindowID, error)
	// IsLive reports whether id still identifies an existing window.
	IsLive(id WindowID) bool
	// Title returns a human-readable window title, best effort.
	Title(id WindowID) string
	// IsMinimized reports whether the window is iconified or hidden.
	IsMinimized(id WindowID) (bool, error)
	// Restore de-iconifies the window.
	Restore(id WindowID) error
	// Activate asks the window manager to make id the foreground
	// owner. Success must be confirmed separately via ActiveWindow.
	Activate(id WindowID) error
	// SetAttention toggles the window's demands-attention state.
	SetAttention(id WindowID, on bool) error
	// AttachInput joins this process's input interest to the window
	// so focus transitions involving it can be influenced and
	// observed. Each attachment must be detached by the caller.
	AttachInput(id WindowID) (Attachment, error)
	// Pointer returns the current pointer state.
	Pointer() (PointerState, error)
	// WindowAt hit-tests the screen position.
	WindowAt(x, y int) (WindowID, error)
	// TopLevel resolves the application window that ultimately owns
	// id, falling back to id itself.
	TopLevel(id WindowID) WindowID
	// ModifierHeld reports whether any of the named modifier keys is
	// currently held by the user.
	ModifierHeld(keys []string) (bool, error)
	// SendKeys submits the whole event sequence as one batch and
	// returns how many events the server accepted.
	SendKeys(events []KeyEvent) (int, error)
}
