package tiling

import "github.com/gridflux/gridflux/internal/platform"

// excludedValues lists the _NET_WM_STATE and _NET_WM_WINDOW_TYPE values that
// make a window ineligible for tiling.
var excludedValues = map[string]struct{}{
	"_NET_WM_STATE_HIDDEN":             {},
	"_NET_WM_WINDOW_TYPE_NOTIFICATION": {},
	"_NET_WM_WINDOW_TYPE_POPUP_MENU":   {},
	"_NET_WM_WINDOW_TYPE_TOOLTIP":      {},
	"_NET_WM_WINDOW_TYPE_TOOLBAR":      {},
	"_NET_WM_STATE_MODAL":              {},
	"_NET_WM_STATE_SKIP_TASKBAR":       {},
	"_NET_WM_WINDOW_TYPE_UTILITY":      {},
}

// PropertyReader reads the window properties the filter inspects.
type PropertyReader interface {
	WindowStates(windowID platform.WindowID) ([]string, error)
	WindowTypes(windowID platform.WindowID) ([]string, error)
}

// IsExcluded reports whether a window must be left alone. A property that
// cannot be read counts as empty.
func IsExcluded(r PropertyReader, windowID platform.WindowID) bool {
	states, _ := r.WindowStates(windowID)
	types, _ := r.WindowTypes(windowID)
	return HasExcludedValue(states, types)
}

// HasExcludedValue reports whether any value in any of the given property
// lists is in the exclusion set.
func HasExcludedValue(lists ...[]string) bool {
	for _, list := range lists {
		for _, v := range list {
			if _, ok := excludedValues[v]; ok {
				return true
			}
		}
	}
	return false
}
