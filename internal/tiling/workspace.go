package tiling

import (
	"fmt"
	"log/slog"

	"github.com/gridflux/gridflux/internal/config"
	"github.com/gridflux/gridflux/internal/platform"
)

// Tiler lays out the current workspace and keeps every workspace under the
// window limit. It is owned by a single goroutine.
type Tiler struct {
	backend    platform.Backend
	config     *config.Config
	logger     *slog.Logger
	inventory  *Inventory
	splitter   *Splitter
	rebalancer *Rebalancer
	detector   *ChangeDetector
}

// NewTiler creates a new tiler instance
func NewTiler(backend platform.Backend, cfg *config.Config, logger *slog.Logger) *Tiler {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Tiler{
		backend:   backend,
		logger:    logger,
		inventory: NewInventory(backend, logger),
		detector:  NewChangeDetector(),
	}
	t.rebalancer = NewRebalancer(backend, t.inventory, t, cfg.WindowLimit, logger)
	t.UpdateConfig(cfg)
	return t
}

// UpdateConfig applies a reloaded configuration. The next cycle picks it up.
func (t *Tiler) UpdateConfig(cfg *config.Config) {
	t.config = cfg
	t.splitter = NewSplitter(t.backend, cfg.EffectivePadding(), geometryFlags(cfg))
	t.rebalancer.SetLimit(cfg.WindowLimit)
}

func geometryFlags(cfg *config.Config) platform.GeometryFlags {
	flags := platform.ChangeAll
	if cfg.HideDecorations {
		flags |= platform.HideDecorations
	}
	return flags
}

// BeginCycle drops all state cached during the previous cycle.
func (t *Tiler) BeginCycle() {
	t.inventory.Reset()
}

// Totals returns the workspace count and the tileable window count across
// all workspaces.
func (t *Tiler) Totals() (workspaces, windows int, err error) {
	workspaces, err = t.inventory.TotalWorkspaces()
	if err != nil {
		return 0, 0, err
	}
	windows, err = t.inventory.TotalWindows()
	if err != nil {
		return 0, 0, err
	}
	return workspaces, windows, nil
}

// Rebalance moves windows off workspaces holding more than the limit.
func (t *Tiler) Rebalance() RebalanceResult {
	total, err := t.inventory.TotalWorkspaces()
	if err != nil {
		t.logger.Warn("rebalance: cannot read workspace count", "error", err)
		return RebalanceResult{}
	}
	return t.rebalancer.Rebalance(total)
}

// Prime lays out the current workspace unconditionally and records the
// baseline the change detector compares against.
func (t *Tiler) Prime() error {
	desktop, windows, err := t.currentWindows()
	if err != nil {
		return err
	}
	t.relayout(desktop, windows, windows)
	return nil
}

// RelayoutCurrent re-splits the current workspace when its window count
// changed, or when any window was resized since the last layout.
func (t *Tiler) RelayoutCurrent() error {
	desktop, windows, err := t.currentWindows()
	if err != nil {
		return err
	}

	previous := t.detector.PreviousCount(desktop)
	if ShouldRelayout(len(windows), previous) {
		if previous >= 0 && len(windows) > previous {
			if newest, ok := t.inventory.LastOpened(windows); ok {
				t.logger.Debug("window opened", "window", newest, "workspace", desktop)
			}
		}
		t.logger.Debug("window count changed",
			"workspace", desktop,
			"previous", previous,
			"current", len(windows))
		t.relayout(desktop, windows, windows)
		return nil
	}

	changed := t.detector.Changed(t.measure(windows))
	if len(changed) == 0 {
		return nil
	}
	t.logger.Debug("window resized", "workspace", desktop, "windows", len(changed))
	t.relayout(desktop, windows, changed)
	return nil
}

// Arrange splits windows across the usable screen area.
func (t *Tiler) Arrange(windows []platform.WindowID) error {
	bounds, err := t.screenRect()
	if err != nil {
		return err
	}
	return t.splitter.Split(windows, bounds, 0)
}

// relayout unmaximizes the given windows, re-splits the workspace and
// records the resulting sizes as the new baseline.
func (t *Tiler) relayout(desktop int, windows, unmaximize []platform.WindowID) {
	for _, id := range unmaximize {
		if err := t.backend.Unmaximize(id); err != nil {
			t.logger.Debug("unmaximize failed", "window", id, "error", err)
		}
	}
	if err := t.Arrange(windows); err != nil {
		t.logger.Warn("layout failed", "workspace", desktop, "error", err)
	}
	t.detector.Record(desktop, len(windows), t.measure(windows))
}

func (t *Tiler) currentWindows() (int, []platform.WindowID, error) {
	desktop, err := t.backend.CurrentDesktop()
	if err != nil {
		return 0, nil, fmt.Errorf("current desktop: %w", err)
	}
	windows, err := t.inventory.ListTileable(desktop)
	if err != nil {
		return 0, nil, err
	}
	return desktop, windows, nil
}

// measure reads the live size of every window, skipping windows that went
// away.
func (t *Tiler) measure(windows []platform.WindowID) []platform.WindowInfo {
	infos := make([]platform.WindowInfo, 0, len(windows))
	for _, id := range windows {
		r, err := t.backend.Geometry(id)
		if err != nil {
			t.logger.Debug("cannot read geometry", "window", id, "error", err)
			continue
		}
		infos = append(infos, platform.WindowInfo{ID: id, Width: r.Width, Height: r.Height})
	}
	return infos
}

// screenRect returns the root window area minus the configured screen margin.
func (t *Tiler) screenRect() (platform.Rect, error) {
	bounds, err := t.backend.ScreenBounds()
	if err != nil {
		return platform.Rect{}, fmt.Errorf("screen bounds: %w", err)
	}

	margin := t.config.ScreenMargin
	bounds.X += margin.Left
	bounds.Y += margin.Top
	bounds.Width -= margin.Left + margin.Right
	bounds.Height -= margin.Top + margin.Bottom

	if bounds.Width < 1 || bounds.Height < 1 {
		return platform.Rect{}, fmt.Errorf(
			"screen_margin leaves no usable space: %dx%d at %d,%d",
			bounds.Width, bounds.Height, bounds.X, bounds.Y,
		)
	}
	return bounds, nil
}
