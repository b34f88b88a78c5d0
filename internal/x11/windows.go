package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xrect"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Geometry is a window rectangle in root coordinates.
type Geometry struct {
	X, Y          int
	Width, Height int
}

// GeometryMask selects which fields of a Geometry a move/resize applies.
type GeometryMask struct {
	X, Y, Width, Height bool
}

// MoveResizeWindow applies the masked fields of g through
// _NET_MOVERESIZE_WINDOW, falling back to a plain ConfigureWindow when the
// window manager rejects the request.
func (c *Connection) MoveResizeWindow(windowID xproto.Window, g Geometry, mask GeometryMask) error {
	if err := c.useStaticGravity(windowID); err != nil {
		return err
	}

	// A zero width or height is left out of the request.
	width, height := g.Width, g.Height
	if !mask.Width {
		width = 0
	}
	if !mask.Height {
		height = 0
	}
	err := ewmh.MoveresizeWindowExtra(
		c.XUtil,
		windowID,
		g.X, g.Y, width, height,
		xproto.GravityStatic,
		sourceIndication,
		mask.X, mask.Y,
	)
	if err == nil {
		return nil
	}

	// Fallback to direct window manipulation
	var valueMask uint16
	var values []uint32
	if mask.X {
		valueMask |= xproto.ConfigWindowX
		values = append(values, uint32(int32(g.X)))
	}
	if mask.Y {
		valueMask |= xproto.ConfigWindowY
		values = append(values, uint32(int32(g.Y)))
	}
	if mask.Width {
		valueMask |= xproto.ConfigWindowWidth
		values = append(values, uint32(g.Width))
	}
	if mask.Height {
		valueMask |= xproto.ConfigWindowHeight
		values = append(values, uint32(g.Height))
	}
	if valueMask == 0 {
		return nil
	}
	if cerr := xproto.ConfigureWindowChecked(c.XUtil.Conn(), windowID, valueMask, values).Check(); cerr != nil {
		return fmt.Errorf("moveresize: %v; configure: %w", err, cerr)
	}
	return nil
}

// useStaticGravity sets WM_NORMAL_HINTS win_gravity so requested coordinates
// refer to the client window rather than its frame.
func (c *Connection) useStaticGravity(windowID xproto.Window) error {
	hints, err := icccm.WmNormalHintsGet(c.XUtil, windowID)
	if err != nil || hints == nil {
		hints = &icccm.NormalHints{}
	}
	if hints.Flags&icccm.SizeHintPWinGravity != 0 && hints.WinGravity == xproto.GravityStatic {
		return nil
	}
	hints.Flags |= icccm.SizeHintPWinGravity
	hints.WinGravity = xproto.GravityStatic
	if err := icccm.WmNormalHintsSet(c.XUtil, windowID, hints); err != nil {
		return fmt.Errorf("failed to set normal hints: %w", err)
	}
	return nil
}

// HideDecorations asks the window manager to drop the window frame.
func (c *Connection) HideDecorations(windowID xproto.Window) error {
	hints := &motif.Hints{
		Flags:      motif.HintDecorations,
		Decoration: 0,
	}
	if err := motif.WmHintsSet(c.XUtil, windowID, hints); err != nil {
		return fmt.Errorf("failed to set motif hints: %w", err)
	}
	return nil
}

// Unmaximize removes both maximized states from a window. The request is
// skipped when the window's state is readable and carries neither of them.
func (c *Connection) Unmaximize(windowID xproto.Window) error {
	if states, err := ewmh.WmStateGet(c.XUtil, windowID); err == nil && !hasMaximized(states) {
		return nil
	}

	return c.sendRootMessage(
		windowID,
		c.Atoms.WMState,
		ewmh.StateRemove,
		uint32(c.Atoms.MaximizedHorz),
		uint32(c.Atoms.MaximizedVert),
		sourceIndication,
	)
}

func hasMaximized(states []string) bool {
	for _, state := range states {
		if state == "_NET_WM_STATE_MAXIMIZED_HORZ" || state == "_NET_WM_STATE_MAXIMIZED_VERT" {
			return true
		}
	}
	return false
}

// WindowStates returns the _NET_WM_STATE atom names of a window.
func (c *Connection) WindowStates(windowID xproto.Window) ([]string, error) {
	return ewmh.WmStateGet(c.XUtil, windowID)
}

// WindowTypes returns the _NET_WM_WINDOW_TYPE atom names of a window.
func (c *Connection) WindowTypes(windowID xproto.Window) ([]string, error) {
	return ewmh.WmWindowTypeGet(c.XUtil, windowID)
}

// WindowGeometry returns the window rectangle translated to root coordinates.
func (c *Connection) WindowGeometry(windowID xproto.Window) (Geometry, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return Geometry{}, fmt.Errorf("failed to get geometry: %w", err)
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return Geometry{}, fmt.Errorf("failed to translate coordinates: %w", err)
	}

	return Geometry{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

// RootGeometry returns the size of the root window.
func (c *Connection) RootGeometry() (Geometry, error) {
	rect, err := xwindow.RawGeometry(c.XUtil, xproto.Drawable(c.Root))
	if err != nil {
		return Geometry{}, fmt.Errorf("failed to get root geometry: %w", err)
	}
	return geometryFromRect(rect), nil
}

func geometryFromRect(r xrect.Rect) Geometry {
	return Geometry{X: r.X(), Y: r.Y(), Width: r.Width(), Height: r.Height()}
}
