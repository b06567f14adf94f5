package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/pkg/errors"
)

// KeyEvent is one key transition resolved to a concrete keycode.
type KeyEvent struct {
	Keycode xproto.Keycode
	Press   bool
}

// Keycode resolves a keysym name ("Control_L", "F5") to a keycode on
// the current keyboard mapping.
func (c *Connection) Keycode(name string) (xproto.Keycode, error) {
	codes := keybind.StrToKeycodes(c.XUtil, name)
	if len(codes) == 0 {
		return 0, errors.Errorf("no keycode mapped for keysym %q", name)
	}
	return codes[0], nil
}

// FakeKeyEvents submits the whole sequence through XTEST as one
// pipelined batch: every request is issued before any reply is checked,
// so the events reach the server back to back rather than interleaved
// with other synthetic input. Returns how many events the server
// accepted and the first error encountered.
func (c *Connection) FakeKeyEvents(events []KeyEvent) (int, error) {
	cookies := make([]xtest.FakeInputCookie, 0, len(events))
	for _, ev := range events {
		typ := byte(xproto.KeyPress)
		if !ev.Press {
			typ = byte(xproto.KeyRelease)
		}
		cookies = append(cookies, xtest.FakeInputChecked(c.XUtil.Conn(),
			typ, byte(ev.Keycode), uint32(xproto.TimeCurrentTime), c.Root, 0, 0, 0))
	}

	delivered := 0
	var firstErr error
	for _, cookie := range cookies {
		if err := cookie.Check(); err != nil {
			if firstErr == nil {
				firstErr = errors.Wrap(err, "XTEST fake input rejected")
			}
			continue
		}
		delivered++
	}
	return delivered, firstErr
}
