package tiling

import "github.com/gridflux/gridflux/internal/platform"

// ChangeDetector remembers what the current workspace looked like after the
// last layout so the next cycle can tell whether to lay it out again.
type ChangeDetector struct {
	workspace int
	count     int
	known     bool
	baseline  map[platform.WindowID]platform.WindowInfo
}

// NewChangeDetector returns a detector with no baseline.
func NewChangeDetector() *ChangeDetector {
	return &ChangeDetector{baseline: make(map[platform.WindowID]platform.WindowInfo)}
}

// ShouldRelayout reports whether the tileable window count of a workspace
// moved since the previous cycle.
func ShouldRelayout(current, previous int) bool {
	return current != previous
}

// DimensionsChanged reports whether a window's live size differs from its
// baseline. A window without a baseline counts as changed.
func DimensionsChanged(live, previous platform.WindowInfo, known bool) bool {
	if !known {
		return true
	}
	return live.Width != previous.Width || live.Height != previous.Height
}

// PreviousCount returns the window count recorded for workspace, or -1 when
// the last recorded workspace was a different one.
func (d *ChangeDetector) PreviousCount(workspace int) int {
	if !d.known || d.workspace != workspace {
		return -1
	}
	return d.count
}

// Baseline returns the recorded size of a window.
func (d *ChangeDetector) Baseline(id platform.WindowID) (platform.WindowInfo, bool) {
	info, ok := d.baseline[id]
	return info, ok
}

// Changed returns the windows of live whose size no longer matches the baseline.
func (d *ChangeDetector) Changed(live []platform.WindowInfo) []platform.WindowID {
	var changed []platform.WindowID
	for _, info := range live {
		prev, ok := d.baseline[info.ID]
		if DimensionsChanged(info, prev, ok) {
			changed = append(changed, info.ID)
		}
	}
	return changed
}

// Record replaces the snapshot with count windows on workspace and the given
// sizes.
func (d *ChangeDetector) Record(workspace, count int, sizes []platform.WindowInfo) {
	d.workspace = workspace
	d.count = count
	d.known = true
	clear(d.baseline)
	for _, info := range sizes {
		d.baseline[info.ID] = info
	}
}
