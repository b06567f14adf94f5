package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/pkg/errors"
)

// attachMask is the event interest added to a peer window for the
// duration of an input attachment: focus transitions plus the property
// changes that accompany activation.
const attachMask = uint32(xproto.EventMaskFocusChange | xproto.EventMaskPropertyChange)

// InputAttachment records one established attachment so it can be
// detached by restoring the exact event mask that existed beforehand.
type InputAttachment struct {
	conn     *Connection
	win      xproto.Window
	prevMask uint32
}

// AttachInput joins this client's input interest to win by widening the
// window's event mask. The attachment lets focus transitions involving
// win be observed and influenced while it is held, and must be undone
// with Detach. Attachments to different windows are independent; a
// failure here does not affect any other attachment.
func (c *Connection) AttachInput(win xproto.Window) (*InputAttachment, error) {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), win).Reply()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read window attributes for attach")
	}
	prev := attrs.YourEventMask

	err = xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), win,
		xproto.CwEventMask, []uint32{prev | attachMask}).Check()
	if err != nil {
		return nil, errors.Wrap(err, "failed to attach input to window")
	}

	return &InputAttachment{conn: c, win: win, prevMask: prev}, nil
}

// Detach restores the event mask saved at attach time. Detaching a
// window that has since been destroyed fails; callers log and move on,
// since the mask died with the window.
func (a *InputAttachment) Detach() error {
	err := xproto.ChangeWindowAttributesChecked(a.conn.XUtil.Conn(), a.win,
		xproto.CwEventMask, []uint32{a.prevMask}).Check()
	if err != nil {
		return errors.Wrap(err, "failed to detach input from window")
	}
	return nil
}
