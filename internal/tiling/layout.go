package tiling

import (
	"errors"
	"fmt"

	"github.com/gridflux/gridflux/internal/platform"
)

// Placement is the rectangle assigned to one window by a split.
type Placement struct {
	Window platform.WindowID
	Bounds platform.Rect
}

// Plan computes the binary space partition of bounds among windows without
// touching any window. Placements are returned in application order: depth
// first, first half before second half. Null window IDs keep their share of
// the area but produce no placement.
//
// At even depths the area is cut vertically (widths split), at odd depths
// horizontally. The first half of the windows gets the floor of the halved
// dimension and the second half the remainder. padding insets each leaf on
// every axis long enough to give up 2*padding.
func Plan(windows []platform.WindowID, bounds platform.Rect, depth, padding int) []Placement {
	if len(windows) == 0 {
		return nil
	}
	bounds = clampRect(bounds)
	return plan(make([]Placement, 0, len(windows)), windows, bounds, depth, padding)
}

func plan(out []Placement, windows []platform.WindowID, bounds platform.Rect, depth, padding int) []Placement {
	switch len(windows) {
	case 0:
		return out
	case 1:
		if windows[0] == 0 {
			return out
		}
		return append(out, Placement{Window: windows[0], Bounds: inset(bounds, padding)})
	}

	half := len(windows) / 2
	first, second := splitRect(bounds, depth)
	out = plan(out, windows[:half], first, depth+1, padding)
	return plan(out, windows[half:], second, depth+1, padding)
}

// splitRect halves r across the axis selected by depth parity.
func splitRect(r platform.Rect, depth int) (platform.Rect, platform.Rect) {
	if depth%2 == 0 {
		w := r.Width / 2
		return platform.Rect{X: r.X, Y: r.Y, Width: w, Height: r.Height},
			platform.Rect{X: r.X + w, Y: r.Y, Width: r.Width - w, Height: r.Height}
	}
	h := r.Height / 2
	return platform.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: h},
		platform.Rect{X: r.X, Y: r.Y + h, Width: r.Width, Height: r.Height - h}
}

func inset(r platform.Rect, padding int) platform.Rect {
	if padding <= 0 {
		return r
	}
	if r.Width > 2*padding {
		r.X += padding
		r.Width -= 2 * padding
	}
	if r.Height > 2*padding {
		r.Y += padding
		r.Height -= 2 * padding
	}
	return r
}

func clampRect(r platform.Rect) platform.Rect {
	if r.Width < 0 {
		r.Width = 0
	}
	if r.Height < 0 {
		r.Height = 0
	}
	return r
}

// Splitter applies Plan results through a GeometryBackend.
type Splitter struct {
	backend platform.GeometryBackend
	padding int
	flags   platform.GeometryFlags
}

// NewSplitter creates a splitter. A nil backend turns Split into a no-op.
func NewSplitter(backend platform.GeometryBackend, padding int, flags platform.GeometryFlags) *Splitter {
	if flags&platform.ChangeAll == 0 {
		flags |= platform.ChangeAll
	}
	return &Splitter{backend: backend, padding: padding, flags: flags}
}

// Split lays windows out inside bounds starting at depth. Every placement is
// attempted; failures are joined into the returned error.
func (s *Splitter) Split(windows []platform.WindowID, bounds platform.Rect, depth int) error {
	if s == nil || s.backend == nil {
		return nil
	}

	var errs []error
	for _, p := range Plan(windows, bounds, depth, s.padding) {
		if err := s.backend.SetGeometry(p.Window, p.Bounds, s.flags); err != nil {
			errs = append(errs, fmt.Errorf("window 0x%x: %w", uint32(p.Window), err))
		}
	}
	return errors.Join(errs...)
}
