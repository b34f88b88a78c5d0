package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// Atoms holds the atoms interned once per connection. A zero value means the
// window manager never created the atom, which is how missing EWMH support is
// detected.
type Atoms struct {
	WMDesktop          xproto.Atom
	ClientList         xproto.Atom
	ClientListStacking xproto.Atom
	NumberOfDesktops   xproto.Atom
	CurrentDesktop     xproto.Atom

	WMState       xproto.Atom
	MaximizedHorz xproto.Atom
	MaximizedVert xproto.Atom
}

type atomRequest struct {
	name         string
	onlyIfExists bool
	dst          *xproto.Atom
}

// InternAtoms interns every atom in one round of pipelined requests.
func InternAtoms(conn *xgb.Conn) (*Atoms, error) {
	a := &Atoms{}
	reqs := []atomRequest{
		{"_NET_WM_DESKTOP", true, &a.WMDesktop},
		{"_NET_CLIENT_LIST", true, &a.ClientList},
		{"_NET_CLIENT_LIST_STACKING", true, &a.ClientListStacking},
		{"_NET_NUMBER_OF_DESKTOPS", true, &a.NumberOfDesktops},
		{"_NET_CURRENT_DESKTOP", true, &a.CurrentDesktop},
		{"_NET_WM_STATE", false, &a.WMState},
		{"_NET_WM_STATE_MAXIMIZED_HORZ", false, &a.MaximizedHorz},
		{"_NET_WM_STATE_MAXIMIZED_VERT", false, &a.MaximizedVert},
	}

	cookies := make([]xproto.InternAtomCookie, len(reqs))
	for i, req := range reqs {
		cookies[i] = xproto.InternAtom(conn, req.onlyIfExists, uint16(len(req.name)), req.name)
	}
	for i, cookie := range cookies {
		reply, err := cookie.Reply()
		if err != nil {
			return nil, fmt.Errorf("intern %s: %w", reqs[i].name, err)
		}
		*reqs[i].dst = reply.Atom
	}
	return a, nil
}

// Supported reports whether the window manager created atom.
func Supported(atom xproto.Atom) bool {
	return atom != xproto.AtomNone
}
