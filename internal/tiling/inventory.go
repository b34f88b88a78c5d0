package tiling

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/gridflux/gridflux/internal/platform"
)

// Inventory caches, for one poll cycle, which tileable windows live on which
// workspace. Reset must be called at the start of every cycle. Lists handed
// out are copies owned by the caller.
type Inventory struct {
	backend platform.Backend
	logger  *slog.Logger

	indexed    bool
	byDesktop  map[int][]platform.WindowID
	tileable   int
	desktops   int
	desktopErr error
	haveCount  bool
}

// NewInventory creates an empty inventory backed by backend.
func NewInventory(backend platform.Backend, logger *slog.Logger) *Inventory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Inventory{backend: backend, logger: logger}
}

// Reset drops everything cached during the previous cycle.
func (inv *Inventory) Reset() {
	inv.indexed = false
	inv.byDesktop = nil
	inv.tileable = 0
	inv.haveCount = false
	inv.desktops = 0
	inv.desktopErr = nil
}

// Invalidate forces the next lookup to re-read window placement, typically
// after windows were moved between workspaces.
func (inv *Inventory) Invalidate() {
	inv.indexed = false
	inv.byDesktop = nil
	inv.tileable = 0
}

// ListTileable returns the tileable windows on desktop in client-list order.
// An empty client list yields (nil, nil).
func (inv *Inventory) ListTileable(desktop int) ([]platform.WindowID, error) {
	if err := inv.index(); err != nil {
		return nil, err
	}
	return slices.Clone(inv.byDesktop[desktop]), nil
}

// TotalWindows returns the number of tileable windows across all desktops.
// Sticky windows are not counted.
func (inv *Inventory) TotalWindows() (int, error) {
	if err := inv.index(); err != nil {
		return 0, err
	}
	return inv.tileable, nil
}

// TotalWorkspaces returns _NET_NUMBER_OF_DESKTOPS.
func (inv *Inventory) TotalWorkspaces() (int, error) {
	if !inv.haveCount {
		inv.desktops, inv.desktopErr = inv.backend.DesktopCount()
		inv.haveCount = true
	}
	return inv.desktops, inv.desktopErr
}

// Counts returns the tileable window count of every workspace in
// [0, total). Workspaces whose windows cannot be listed report zero.
func (inv *Inventory) Counts(total int) []int {
	counts := make([]int, total)
	if err := inv.index(); err != nil {
		return counts
	}
	for desktop, windows := range inv.byDesktop {
		if desktop >= 0 && desktop < total {
			counts[desktop] = len(windows)
		}
	}
	return counts
}

// LastOpened returns the topmost window of windows according to
// _NET_CLIENT_LIST_STACKING.
func (inv *Inventory) LastOpened(windows []platform.WindowID) (platform.WindowID, bool) {
	stacking, err := inv.backend.ClientListStacking()
	if err != nil {
		return 0, false
	}
	for i := len(stacking) - 1; i >= 0; i-- {
		if slices.Contains(windows, stacking[i]) {
			return stacking[i], true
		}
	}
	return 0, false
}

func (inv *Inventory) index() error {
	if inv.indexed {
		return nil
	}

	clients, err := inv.backend.ClientList()
	if err != nil {
		return fmt.Errorf("list clients: %w", err)
	}

	byDesktop := make(map[int][]platform.WindowID)
	tileable := 0
	for _, id := range clients {
		if id == 0 || IsExcluded(inv.backend, id) {
			continue
		}
		desktop, err := inv.backend.WindowDesktop(id)
		if err != nil {
			if errors.Is(err, platform.ErrUnsupported) {
				return err
			}
			inv.logger.Debug("skipping window without desktop", "window", id, "error", err)
			continue
		}
		if desktop < 0 {
			continue
		}
		byDesktop[desktop] = append(byDesktop[desktop], id)
		tileable++
	}

	inv.byDesktop = byDesktop
	inv.tileable = tileable
	inv.indexed = true
	return nil
}
