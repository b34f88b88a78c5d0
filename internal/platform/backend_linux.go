//go:build linux

package platform

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/gridflux/gridflux/internal/x11"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// ClientList returns the managed top-level windows. A window manager that
// never set _NET_CLIENT_LIST yields ErrUnsupported.
func (b *LinuxBackend) ClientList() ([]WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	if !x11.Supported(conn.Atoms.ClientList) {
		return nil, fmt.Errorf("_NET_CLIENT_LIST: %w", ErrUnsupported)
	}

	clients, err := conn.ClientList()
	if err != nil {
		return nil, err
	}
	return windowIDs(clients), nil
}

// ClientListStacking returns the managed windows in stacking order, bottom first.
func (b *LinuxBackend) ClientListStacking() ([]WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	if !x11.Supported(conn.Atoms.ClientListStacking) {
		return nil, fmt.Errorf("_NET_CLIENT_LIST_STACKING: %w", ErrUnsupported)
	}

	clients, err := conn.ClientListStacking()
	if err != nil {
		return nil, err
	}
	return windowIDs(clients), nil
}

func (b *LinuxBackend) WindowStates(windowID WindowID) ([]string, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	return conn.WindowStates(xproto.Window(windowID))
}

func (b *LinuxBackend) WindowTypes(windowID WindowID) ([]string, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	return conn.WindowTypes(xproto.Window(windowID))
}

// WindowDesktop returns the desktop of a window, -1 when it is sticky.
func (b *LinuxBackend) WindowDesktop(windowID WindowID) (int, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	if !x11.Supported(conn.Atoms.WMDesktop) {
		return 0, fmt.Errorf("_NET_WM_DESKTOP: %w", ErrUnsupported)
	}
	return conn.GetWindowDesktop(xproto.Window(windowID))
}

// Geometry returns the window rectangle in root coordinates.
func (b *LinuxBackend) Geometry(windowID WindowID) (Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, err
	}
	g, err := conn.WindowGeometry(xproto.Window(windowID))
	if err != nil {
		return Rect{}, err
	}
	return rectFromGeometry(g), nil
}

// SetGeometry applies the flagged parts of bounds to a window.
func (b *LinuxBackend) SetGeometry(windowID WindowID, bounds Rect, flags GeometryFlags) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	win := xproto.Window(windowID)
	if flags.Has(HideDecorations) {
		if err := conn.HideDecorations(win); err != nil {
			return err
		}
	}

	return conn.MoveResizeWindow(
		win,
		x11.Geometry{X: bounds.X, Y: bounds.Y, Width: bounds.Width, Height: bounds.Height},
		x11.GeometryMask{
			X:      flags.Has(ChangeX),
			Y:      flags.Has(ChangeY),
			Width:  flags.Has(ChangeWidth),
			Height: flags.Has(ChangeHeight),
		},
	)
}

func (b *LinuxBackend) Unmaximize(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.Unmaximize(xproto.Window(windowID))
}

// MoveToDesktop asks the window manager to move a window to desktop.
func (b *LinuxBackend) MoveToDesktop(windowID WindowID, desktop int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	if !x11.Supported(conn.Atoms.WMDesktop) {
		return fmt.Errorf("_NET_WM_DESKTOP: %w", ErrUnsupported)
	}
	return conn.SetWindowDesktop(xproto.Window(windowID), desktop)
}

func (b *LinuxBackend) CurrentDesktop() (int, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	if !x11.Supported(conn.Atoms.CurrentDesktop) {
		return 0, fmt.Errorf("_NET_CURRENT_DESKTOP: %w", ErrUnsupported)
	}
	return conn.GetCurrentDesktop()
}

func (b *LinuxBackend) DesktopCount() (int, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	if !x11.Supported(conn.Atoms.NumberOfDesktops) {
		return 0, fmt.Errorf("_NET_NUMBER_OF_DESKTOPS: %w", ErrUnsupported)
	}
	return conn.GetDesktopCount()
}

func (b *LinuxBackend) SetCurrentDesktop(desktop int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	if !x11.Supported(conn.Atoms.CurrentDesktop) {
		return fmt.Errorf("_NET_CURRENT_DESKTOP: %w", ErrUnsupported)
	}
	return conn.SetCurrentDesktop(desktop)
}

func (b *LinuxBackend) RequestDesktopCount(count int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	if !x11.Supported(conn.Atoms.NumberOfDesktops) {
		return fmt.Errorf("_NET_NUMBER_OF_DESKTOPS: %w", ErrUnsupported)
	}
	return conn.RequestDesktopCount(count)
}

// ScreenBounds returns the root window geometry.
func (b *LinuxBackend) ScreenBounds() (Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, err
	}
	g, err := conn.RootGeometry()
	if err != nil {
		return Rect{}, err
	}
	return rectFromGeometry(g), nil
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func windowIDs(windows []xproto.Window) []WindowID {
	if len(windows) == 0 {
		return nil
	}
	ids := make([]WindowID, len(windows))
	for i, w := range windows {
		ids[i] = WindowID(w)
	}
	return ids
}

func rectFromGeometry(g x11.Geometry) Rect {
	return Rect{
		X:      g.X,
		Y:      g.Y,
		Width:  g.Width,
		Height: g.Height,
	}
}
