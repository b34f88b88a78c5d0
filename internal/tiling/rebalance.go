package tiling

import (
	"log/slog"
	"slices"

	"github.com/gridflux/gridflux/internal/platform"
)

// WorkspaceSnapshot is the per-cycle view of one workspace's load.
type WorkspaceSnapshot struct {
	ID          int
	WindowCount int
	// Available is how many more windows the workspace may receive.
	Available int
}

// RebalanceResult summarises one rebalancing pass.
type RebalanceResult struct {
	Moved  int
	Failed int
	// Relaid lists the donor workspaces that were re-split.
	Relaid []int
}

// Arranger lays out the given windows of one workspace.
type Arranger interface {
	Arrange(windows []platform.WindowID) error
}

// Classify splits workspaces into those over limit and those with room.
// A workspace at limit or one below it is neither, so windows are never
// moved onto a workspace that would end up full.
func Classify(counts []int, limit int) (overflowing, free []WorkspaceSnapshot) {
	for id, count := range counts {
		switch {
		case count > limit:
			overflowing = append(overflowing, WorkspaceSnapshot{ID: id, WindowCount: count})
		case count+1 < limit:
			free = append(free, WorkspaceSnapshot{
				ID:          id,
				WindowCount: count,
				Available:   max(limit-count, 0),
			})
		}
	}
	return overflowing, free
}

// Rebalancer moves windows off overflowing workspaces onto workspaces with
// spare capacity.
type Rebalancer struct {
	backend   platform.Backend
	inventory *Inventory
	arranger  Arranger
	limit     int
	logger    *slog.Logger
}

// NewRebalancer creates a rebalancer enforcing limit windows per workspace.
func NewRebalancer(backend platform.Backend, inventory *Inventory, arranger Arranger, limit int, logger *slog.Logger) *Rebalancer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rebalancer{
		backend:   backend,
		inventory: inventory,
		arranger:  arranger,
		limit:     limit,
		logger:    logger,
	}
}

// SetLimit changes the per-workspace window limit.
func (r *Rebalancer) SetLimit(limit int) {
	r.limit = limit
}

// Rebalance runs one pass over workspaces [0, total). Overflowing workspaces
// are drained in discovery order, last window first, until they are back at
// the limit or no free workspace has room left. A window whose move fails
// stays where it is and is not retried during this pass.
func (r *Rebalancer) Rebalance(total int) RebalanceResult {
	var result RebalanceResult
	if total <= 0 || r.limit <= 0 {
		return result
	}

	overflowing, free := Classify(r.inventory.Counts(total), r.limit)
	if len(overflowing) == 0 || len(free) == 0 {
		return result
	}

	next := 0
	for _, src := range overflowing {
		windows, err := r.inventory.ListTileable(src.ID)
		if err != nil {
			r.logger.Warn("rebalance: cannot list workspace", "workspace", src.ID, "error", err)
			continue
		}

		count := len(windows)
		moved := make(map[platform.WindowID]struct{})
		for i := count - 1; i >= 0 && count > r.limit; i-- {
			for next < len(free) && free[next].Available <= 0 {
				next++
			}
			if next >= len(free) {
				break
			}
			dst := &free[next]

			win := windows[i]
			if err := r.backend.Unmaximize(win); err != nil {
				r.logger.Debug("rebalance: unmaximize failed", "window", win, "error", err)
			}
			if err := r.backend.MoveToDesktop(win, dst.ID); err != nil {
				r.logger.Warn("rebalance: move failed",
					"window", win,
					"from", src.ID,
					"to", dst.ID,
					"error", err)
				result.Failed++
				continue
			}

			r.logger.Info("moved window",
				"window", win,
				"from", src.ID,
				"to", dst.ID)
			moved[win] = struct{}{}
			count--
			dst.Available--
			dst.WindowCount++
			result.Moved++
		}

		if len(moved) == 0 {
			continue
		}

		remaining := slices.DeleteFunc(windows, func(w platform.WindowID) bool {
			_, ok := moved[w]
			return ok
		})
		if r.arranger != nil {
			if err := r.arranger.Arrange(remaining); err != nil {
				r.logger.Warn("rebalance: re-split failed", "workspace", src.ID, "error", err)
			}
		}
		result.Relaid = append(result.Relaid, src.ID)
	}

	if result.Moved > 0 {
		r.inventory.Invalidate()
	}
	return result
}
