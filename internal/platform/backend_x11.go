package platform

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/pkg/errors"

	"winfresh/internal/x11"
)

// X11Backend wraps an existing X11 connection behind the Backend
// interface.
type X11Backend struct {
	conn *x11.Connection
}

var _ Backend = (*X11Backend)(nil)

// NewX11Backend creates a backend from an existing X11 connection.
func NewX11Backend(conn *x11.Connection) *X11Backend {
	return &X11Backend{conn: conn}
}

func (b *X11Backend) ActiveWindow() (WindowID, error) {
	win, err := b.conn.ActiveWindow()
	if err != nil {
		return None, err
	}
	return WindowID(win), nil
}

func (b *X11Backend) IsLive(id WindowID) bool {
	return b.conn.IsLive(xproto.Window(id))
}

func (b *X11Backend) Title(id WindowID) string {
	return b.conn.Title(xproto.Window(id))
}

func (b *X11Backend) IsMinimized(id WindowID) (bool, error) {
	return b.conn.IsMinimized(xproto.Window(id))
}

func (b *X11Backend) Restore(id WindowID) error {
	return b.conn.Restore(xproto.Window(id))
}

func (b *X11Backend) Activate(id WindowID) error {
	return b.conn.Activate(xproto.Window(id))
}

func (b *X11Backend) SetAttention(id WindowID, on bool) error {
	return b.conn.SetAttention(xproto.Window(id), on)
}

func (b *X11Backend) AttachInput(id WindowID) (Attachment, error) {
	att, err := b.conn.AttachInput(xproto.Window(id))
	if err != nil {
		return nil, err
	}
	return att, nil
}

func (b *X11Backend) Pointer() (PointerState, error) {
	state, err := b.conn.Pointer()
	if err != nil {
		return PointerState{}, err
	}
	return PointerState{X: state.X, Y: state.Y, ButtonDown: state.ButtonDown}, nil
}

func (b *X11Backend) WindowAt(x, y int) (WindowID, error) {
	win, err := b.conn.WindowAt(x, y)
	if err != nil {
		return None, err
	}
	return WindowID(win), nil
}

func (b *X11Backend) TopLevel(id WindowID) WindowID {
	return WindowID(b.conn.TopLevel(xproto.Window(id)))
}

func (b *X11Backend) ModifierHeld(keys []string) (bool, error) {
	return b.conn.ModifierHeld(keys)
}

// SendKeys resolves every keysym name up front so a bad combo fails
// before any event is injected, then submits the batch.
func (b *X11Backend) SendKeys(events []KeyEvent) (int, error) {
	resolved := make([]x11.KeyEvent, 0, len(events))
	for _, ev := range events {
		code, err := b.conn.Keycode(ev.Key)
		if err != nil {
			return 0, errors.Wrapf(err, "cannot resolve key %q", ev.Key)
		}
		resolved = append(resolved, x11.KeyEvent{Keycode: code, Press: ev.Press})
	}
	return b.conn.FakeKeyEvents(resolved)
}
