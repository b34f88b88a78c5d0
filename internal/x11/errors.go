package x11

import (
	"errors"

	"github.com/BurntSushi/xgb/xproto"
)

// DrainErrors pulls every queued event off the connection without blocking
// and hands asynchronous X errors to the installed error handler. Events are
// discarded; gridflux polls state instead of subscribing to it.
func (c *Connection) DrainErrors() int {
	conn := c.XUtil.Conn()
	drained := 0
	for {
		ev, xerr := conn.PollForEvent()
		if ev == nil && xerr == nil {
			return drained
		}
		if xerr != nil {
			drained++
			if c.onError != nil {
				c.onError(xerr)
			}
		}
	}
}

// IsBadWindow reports whether err is an X BadWindow error, which is expected
// whenever a window closes between two requests.
func IsBadWindow(err error) bool {
	var windowErr xproto.WindowError
	return errors.As(err, &windowErr)
}
