package platform

import "errors"

// WindowID is an X11 window identifier. Zero is the null window.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// WindowInfo is a per-poll size snapshot of a window.
type WindowInfo struct {
	ID     WindowID
	Width  int
	Height int
}

// ErrUnsupported is returned when the window manager does not expose an EWMH
// property the caller depends on.
var ErrUnsupported = errors.New("window manager does not support the required EWMH property")

// GeometryFlags selects which parts of a geometry request are applied.
type GeometryFlags uint8

const (
	ChangeX GeometryFlags = 1 << iota
	ChangeY
	ChangeWidth
	ChangeHeight
	// HideDecorations asks the window manager to drop the frame through
	// _MOTIF_WM_HINTS before the window is moved.
	HideDecorations
)

// ChangeAll moves and resizes.
const ChangeAll = ChangeX | ChangeY | ChangeWidth | ChangeHeight

// Has reports whether every bit of other is set in f.
func (f GeometryFlags) Has(other GeometryFlags) bool {
	return f&other == other
}

// GeometryBackend applies window geometry. Implementations are selected once
// at startup and are not swapped while a split is in progress.
type GeometryBackend interface {
	SetGeometry(windowID WindowID, bounds Rect, flags GeometryFlags) error
}

// Backend abstracts the window-manager state the tiler reads and mutates.
// Slices returned by a Backend are owned by the caller.
type Backend interface {
	GeometryBackend

	ClientList() ([]WindowID, error)
	ClientListStacking() ([]WindowID, error)
	WindowStates(windowID WindowID) ([]string, error)
	WindowTypes(windowID WindowID) ([]string, error)
	// WindowDesktop returns -1 for windows shown on every desktop.
	WindowDesktop(windowID WindowID) (int, error)
	Geometry(windowID WindowID) (Rect, error)
	Unmaximize(windowID WindowID) error
	MoveToDesktop(windowID WindowID, desktop int) error

	CurrentDesktop() (int, error)
	DesktopCount() (int, error)
	SetCurrentDesktop(desktop int) error
	RequestDesktopCount(count int) error

	// ScreenBounds returns the root window geometry.
	ScreenBounds() (Rect, error)
}
