package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/pkg/errors"
)

// Connection manages the X11 connection and core X resources.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection establishes a connection to the X11 server and
// initializes the extensions the refresher needs.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to X server")
	}

	// Keybind gives us keysym -> keycode resolution.
	keybind.Initialize(xu)

	// XTEST is the input-injection entry point; without it the
	// program cannot do its job.
	if err := xtest.Init(xu.Conn()); err != nil {
		xu.Conn().Close()
		return nil, errors.Wrap(err, "XTEST extension unavailable")
	}

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// Close cleanly disconnects from the X11 server.
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
