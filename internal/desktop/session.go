// Package desktop identifies the running desktop environment and knows how
// to ask it for another virtual workspace.
package desktop

import "strings"

// Kind classifies a desktop session.
type Kind int

const (
	Unknown Kind = iota
	KDE
	GNOME
	// Other is a detected desktop without a built-in recipe.
	Other
)

func (k Kind) String() string {
	switch k {
	case KDE:
		return "KDE"
	case GNOME:
		return "GNOME"
	case Other:
		return "other"
	default:
		return "unknown"
	}
}

// Session is the detected desktop environment.
type Session struct {
	Kind Kind
	// Name is the raw session name, e.g. "XFCE" or "i3".
	Name string
}

// Detect inspects the session environment. KDE_FULL_SESSION wins over
// GNOME_DESKTOP_SESSION_ID, which wins over XDG_CURRENT_DESKTOP and then
// DESKTOP_SESSION.
func Detect(getenv func(string) string) Session {
	xdgCurrent := getenv("XDG_CURRENT_DESKTOP")

	switch {
	case getenv("KDE_FULL_SESSION") == "true":
		return Session{Kind: KDE, Name: "KDE"}
	case getenv("GNOME_DESKTOP_SESSION_ID") != "" || strings.Contains(xdgCurrent, "GNOME"):
		return Session{Kind: GNOME, Name: "GNOME"}
	case xdgCurrent != "":
		return named(xdgCurrent)
	case getenv("DESKTOP_SESSION") != "":
		return named(getenv("DESKTOP_SESSION"))
	default:
		return Session{Kind: Unknown, Name: "Unknown"}
	}
}

func named(name string) Session {
	if name == "KDE" {
		return Session{Kind: KDE, Name: name}
	}
	return Session{Kind: Other, Name: name}
}
