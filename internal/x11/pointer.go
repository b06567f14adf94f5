package x11

import (
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/pkg/errors"
)

// PointerState is a snapshot of the pointer returned by QueryPointer.
type PointerState struct {
	X          int
	Y          int
	ButtonDown bool
	mask       uint16
}

// Pointer queries the current pointer position and button/modifier mask.
func (c *Connection) Pointer() (PointerState, error) {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return PointerState{}, errors.Wrap(err, "failed to query pointer")
	}
	return PointerState{
		X:          int(reply.RootX),
		Y:          int(reply.RootY),
		ButtonDown: reply.Mask&uint16(xproto.KeyButMaskButton1) != 0,
		mask:       reply.Mask,
	}, nil
}

// modifierMask maps a keysym name to the corresponding KeyButMask bits.
// Alt and Meta conventionally sit on Mod1, Super and Hyper on Mod4.
func modifierMask(key string) uint16 {
	switch {
	case strings.HasPrefix(key, "Control"):
		return uint16(xproto.KeyButMaskControl)
	case strings.HasPrefix(key, "Shift"):
		return uint16(xproto.KeyButMaskShift)
	case strings.HasPrefix(key, "Alt"), strings.HasPrefix(key, "Meta"):
		return uint16(xproto.KeyButMaskMod1)
	case strings.HasPrefix(key, "Super"), strings.HasPrefix(key, "Hyper"):
		return uint16(xproto.KeyButMaskMod4)
	default:
		return 0
	}
}

// ModifierHeld reports whether any of the named modifier keys is part of
// the pointer's current modifier mask.
func (c *Connection) ModifierHeld(keys []string) (bool, error) {
	if len(keys) == 0 {
		return false, nil
	}
	var mask uint16
	for _, key := range keys {
		mask |= modifierMask(key)
	}
	if mask == 0 {
		return false, nil
	}
	state, err := c.Pointer()
	if err != nil {
		return false, err
	}
	return state.mask&mask != 0, nil
}

// WindowAt hit-tests the screen position by descending the window tree
// from the root, one child at a time.
func (c *Connection) WindowAt(x, y int) (xproto.Window, error) {
	win := c.Root
	for {
		reply, err := xproto.TranslateCoordinates(c.XUtil.Conn(),
			c.Root, win, int16(x), int16(y)).Reply()
		if err != nil {
			return 0, errors.Wrap(err, "failed to translate coordinates")
		}
		if reply.Child == 0 {
			break
		}
		win = reply.Child
	}
	if win == c.Root {
		return 0, errors.New("no window at position")
	}
	return win, nil
}

// TopLevel resolves the application window that ultimately owns hit. A
// click usually lands on a child widget; the user means the managed
// client above it, and for dialogs the WM_TRANSIENT_FOR owner above
// that. Fallback order: transient-for owner, managed client, topmost
// ancestor below the root, the raw hit window.
func (c *Connection) TopLevel(hit xproto.Window) xproto.Window {
	managed := c.managedClients()

	var client, topmost xproto.Window
	for win := hit; win != 0 && win != c.Root; {
		if _, ok := managed[win]; ok {
			client = win
			break
		}
		topmost = win
		reply, err := xproto.QueryTree(c.XUtil.Conn(), win).Reply()
		if err != nil {
			break
		}
		win = reply.Parent
	}

	if client != 0 {
		if owner := c.transientOwner(client, managed); owner != 0 {
			return owner
		}
		return client
	}
	if topmost != 0 {
		return topmost
	}
	return hit
}

// transientOwner follows the WM_TRANSIENT_FOR chain up to the owning
// managed client. Returns 0 when the window is not transient. The chain
// is bounded to guard against ownership cycles.
func (c *Connection) transientOwner(win xproto.Window, managed map[xproto.Window]struct{}) xproto.Window {
	var owner xproto.Window
	cur := win
	for depth := 0; depth < 8; depth++ {
		next, err := icccm.WmTransientForGet(c.XUtil, cur)
		if err != nil || next == 0 || next == cur {
			break
		}
		if _, ok := managed[next]; !ok {
			break
		}
		owner = next
		cur = next
	}
	return owner
}

// managedClients returns the EWMH client list as a set.
func (c *Connection) managedClients() map[xproto.Window]struct{} {
	set := make(map[xproto.Window]struct{})
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return set
	}
	for _, win := range clients {
		set[win] = struct{}{}
	}
	return set
}
