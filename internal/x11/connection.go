package x11

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Connection manages the X11 connection and the atoms interned for it.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
	Atoms *Atoms

	onError xgbutil.ErrorHandlerFun
}

// NewConnection establishes a connection to the X11 server named by $DISPLAY
// and interns the atoms gridflux relies on.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	atoms, err := InternAtoms(xu.Conn())
	if err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("failed to intern atoms: %w", err)
	}

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
		Atoms: atoms,
	}, nil
}

// Connect retries NewConnection every backoff until it succeeds or ctx is
// cancelled.
func Connect(ctx context.Context, backoff time.Duration, logger *slog.Logger) (*Connection, error) {
	if backoff <= 0 {
		backoff = time.Second
	}

	for attempt := 1; ; attempt++ {
		conn, err := NewConnection()
		if err == nil {
			if attempt > 1 {
				logger.Info("connected to X display", "attempts", attempt)
			}
			return conn, nil
		}
		logger.Warn("cannot open X display, retrying", "error", err, "backoff", backoff)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// SetErrorHandler installs the handler for asynchronous X errors. It is used
// by xgbutil's own dispatch and by DrainErrors.
func (c *Connection) SetErrorHandler(handler func(err xgb.Error)) {
	c.onError = handler
	xevent.ErrorHandlerSet(c.XUtil, handler)
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
