package tiling

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/gridflux/gridflux/internal/platform"
)

var (
	errBadWindow  = errors.New("bad window")
	errClientList = errors.New("client list unavailable")
)

type setCall struct {
	ID     platform.WindowID
	Bounds platform.Rect
	Flags  platform.GeometryFlags
}

// fakeBackend is an in-memory window manager. Geometry requests are applied
// immediately so a follow-up Geometry call sees them.
type fakeBackend struct {
	clients  []platform.WindowID
	states   map[platform.WindowID][]string
	types    map[platform.WindowID][]string
	desktops map[platform.WindowID]int
	geometry map[platform.WindowID]platform.Rect
	stacking []platform.WindowID

	current      int
	desktopCount int
	screen       platform.Rect

	clientErr     error
	noDesktopAtom bool
	moveFails     map[platform.WindowID]bool
	geometryFails map[platform.WindowID]bool

	sets        []setCall
	moves       []string
	unmaximized []platform.WindowID
}

func newFakeBackend(desktops int) *fakeBackend {
	return &fakeBackend{
		states:        map[platform.WindowID][]string{},
		types:         map[platform.WindowID][]string{},
		desktops:      map[platform.WindowID]int{},
		geometry:      map[platform.WindowID]platform.Rect{},
		moveFails:     map[platform.WindowID]bool{},
		geometryFails: map[platform.WindowID]bool{},
		desktopCount:  desktops,
		screen:        platform.Rect{Width: 1920, Height: 1080},
	}
}

// add places count new windows on desktop, numbering from the next free id.
func (f *fakeBackend) add(desktop, count int) []platform.WindowID {
	var ids []platform.WindowID
	for i := 0; i < count; i++ {
		id := platform.WindowID(len(f.clients) + 1)
		f.clients = append(f.clients, id)
		f.stacking = append(f.stacking, id)
		f.desktops[id] = desktop
		f.geometry[id] = platform.Rect{Width: 400, Height: 300}
		ids = append(ids, id)
	}
	return ids
}

func (f *fakeBackend) remove(id platform.WindowID) {
	for i, c := range f.clients {
		if c == id {
			f.clients = append(f.clients[:i], f.clients[i+1:]...)
			break
		}
	}
	delete(f.desktops, id)
	delete(f.geometry, id)
}

func (f *fakeBackend) ClientList() ([]platform.WindowID, error) {
	if f.clientErr != nil {
		return nil, f.clientErr
	}
	return append([]platform.WindowID(nil), f.clients...), nil
}

func (f *fakeBackend) ClientListStacking() ([]platform.WindowID, error) {
	return append([]platform.WindowID(nil), f.stacking...), nil
}

func (f *fakeBackend) WindowStates(id platform.WindowID) ([]string, error) {
	s, ok := f.states[id]
	if !ok {
		return nil, errors.New("no _NET_WM_STATE")
	}
	return s, nil
}

func (f *fakeBackend) WindowTypes(id platform.WindowID) ([]string, error) {
	t, ok := f.types[id]
	if !ok {
		return nil, errors.New("no _NET_WM_WINDOW_TYPE")
	}
	return t, nil
}

func (f *fakeBackend) WindowDesktop(id platform.WindowID) (int, error) {
	if f.noDesktopAtom {
		return 0, platform.ErrUnsupported
	}
	d, ok := f.desktops[id]
	if !ok {
		return 0, errBadWindow
	}
	return d, nil
}

func (f *fakeBackend) Geometry(id platform.WindowID) (platform.Rect, error) {
	g, ok := f.geometry[id]
	if !ok || f.geometryFails[id] {
		return platform.Rect{}, errBadWindow
	}
	return g, nil
}

func (f *fakeBackend) SetGeometry(id platform.WindowID, bounds platform.Rect, flags platform.GeometryFlags) error {
	f.sets = append(f.sets, setCall{ID: id, Bounds: bounds, Flags: flags})
	if _, ok := f.geometry[id]; !ok {
		return errBadWindow
	}
	f.geometry[id] = bounds
	return nil
}

func (f *fakeBackend) Unmaximize(id platform.WindowID) error {
	f.unmaximized = append(f.unmaximized, id)
	return nil
}

func (f *fakeBackend) MoveToDesktop(id platform.WindowID, desktop int) error {
	if f.moveFails[id] {
		return errBadWindow
	}
	f.moves = append(f.moves, fmt.Sprintf("%d:%d->%d", id, f.desktops[id], desktop))
	f.desktops[id] = desktop
	return nil
}

func (f *fakeBackend) CurrentDesktop() (int, error) { return f.current, nil }
func (f *fakeBackend) DesktopCount() (int, error) { return f.desktopCount, nil }

func (f *fakeBackend) SetCurrentDesktop(desktop int) error {
	f.current = desktop
	return nil
}

func (f *fakeBackend) RequestDesktopCount(count int) error {
	f.desktopCount = count
	return nil
}

func (f *fakeBackend) ScreenBounds() (platform.Rect, error) { return f.screen, nil }

// resetCalls forgets recorded requests but keeps window state.
func (f *fakeBackend) resetCalls() {
	f.sets = nil
	f.moves = nil
	f.unmaximized = nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
