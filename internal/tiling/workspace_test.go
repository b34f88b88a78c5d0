package tiling

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/gridflux/gridflux/internal/config"
	"github.com/gridflux/gridflux/internal/platform"
)

func expectedSets(windows []platform.WindowID, bounds platform.Rect, padding int, flags platform.GeometryFlags) []setCall {
	var out []setCall
	for _, p := range Plan(windows, bounds, 0, padding) {
		out = append(out, setCall{ID: p.Window, Bounds: p.Bounds, Flags: flags})
	}
	return out
}

func TestTiler_PrimeLaysOutCurrentWorkspace(t *testing.T) {
	fb := newFakeBackend(2)
	wins := fb.add(0, 3)
	fb.add(1, 2)

	tl := NewTiler(fb, config.DefaultConfig(), discardLogger())
	require.NoError(t, tl.Prime())

	// 1920 wide minus the default 5px right margin.
	usable := platform.Rect{Width: 1915, Height: 1080}
	want := []setCall{
		{ID: wins[0], Bounds: platform.Rect{X: 6, Y: 6, Width: 945, Height: 1068}, Flags: platform.ChangeAll},
		{ID: wins[1], Bounds: platform.Rect{X: 963, Y: 6, Width: 946, Height: 528}, Flags: platform.ChangeAll},
		{ID: wins[2], Bounds: platform.Rect{X: 963, Y: 546, Width: 946, Height: 528}, Flags: platform.ChangeAll},
	}
	if diff := cmp.Diff(want, fb.sets); diff != "" {
		t.Fatalf("unexpected layout (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(expectedSets(wins, usable, 6, platform.ChangeAll), fb.sets); diff != "" {
		t.Fatalf("layout disagrees with Plan (-want +got):\n%s", diff)
	}
	require.Equal(t, wins, fb.unmaximized)
}

func TestTiler_RelayoutOnlyOnChange(t *testing.T) {
	fb := newFakeBackend(1)
	wins := fb.add(0, 2)

	tl := NewTiler(fb, config.DefaultConfig(), discardLogger())
	require.NoError(t, tl.Prime())
	fb.resetCalls()

	tl.BeginCycle()
	require.NoError(t, tl.RelayoutCurrent())
	require.Empty(t, fb.sets, "steady state must not touch windows")

	newest := fb.add(0, 1)[0]
	tl.BeginCycle()
	require.NoError(t, tl.RelayoutCurrent())
	require.Len(t, fb.sets, 3)
	require.Equal(t, append(wins, newest), fb.unmaximized)
}

func TestTiler_ResizeTriggersRelayout(t *testing.T) {
	fb := newFakeBackend(1)
	wins := fb.add(0, 5)

	tl := NewTiler(fb, config.DefaultConfig(), discardLogger())
	require.NoError(t, tl.Prime())
	fb.resetCalls()

	g := fb.geometry[wins[2]]
	g.Width += 40
	fb.geometry[wins[2]] = g

	tl.BeginCycle()
	require.NoError(t, tl.RelayoutCurrent())
	require.Len(t, fb.sets, 5)
	require.Equal(t, []platform.WindowID{wins[2]}, fb.unmaximized)

	// Every baseline is refreshed, so the next cycle is quiet.
	for _, id := range wins {
		base, ok := tl.detector.Baseline(id)
		require.True(t, ok)
		require.Equal(t, fb.geometry[id].Width, base.Width)
	}
	fb.resetCalls()
	tl.BeginCycle()
	require.NoError(t, tl.RelayoutCurrent())
	require.Empty(t, fb.sets)
}

func TestTiler_WorkspaceSwitchRelaysOut(t *testing.T) {
	fb := newFakeBackend(2)
	fb.add(0, 2)
	other := fb.add(1, 2)

	tl := NewTiler(fb, config.DefaultConfig(), discardLogger())
	require.NoError(t, tl.Prime())
	fb.resetCalls()

	fb.current = 1
	tl.BeginCycle()
	require.NoError(t, tl.RelayoutCurrent())
	require.Len(t, fb.sets, 2)
	require.Equal(t, other[0], fb.sets[0].ID)
}

func TestTiler_UpdateConfig(t *testing.T) {
	fb := newFakeBackend(1)
	wins := fb.add(0, 1)

	cfg := config.DefaultConfig()
	cfg.ApplyPadding = false
	cfg.HideDecorations = true
	cfg.ScreenMargin = config.Margins{Top: 30}

	tl := NewTiler(fb, config.DefaultConfig(), discardLogger())
	tl.UpdateConfig(cfg)
	require.NoError(t, tl.Arrange(wins))

	want := []setCall{{
		ID:     wins[0],
		Bounds: platform.Rect{X: 0, Y: 30, Width: 1920, Height: 1050},
		Flags:  platform.ChangeAll | platform.HideDecorations,
	}}
	if diff := cmp.Diff(want, fb.sets); diff != "" {
		t.Fatalf("unexpected layout (-want +got):\n%s", diff)
	}
}

func TestTiler_MarginLeavingNoSpace(t *testing.T) {
	fb := newFakeBackend(1)
	wins := fb.add(0, 2)

	cfg := config.DefaultConfig()
	cfg.ScreenMargin = config.Margins{Left: 1000, Right: 920}

	tl := NewTiler(fb, cfg, discardLogger())
	require.Error(t, tl.Arrange(wins))
	require.NoError(t, tl.Prime())
	require.Empty(t, fb.sets)
}

func TestTiler_Totals(t *testing.T) {
	fb := newFakeBackend(3)
	fb.add(0, 4)
	fb.add(2, 5)

	tl := NewTiler(fb, config.DefaultConfig(), discardLogger())
	workspaces, windows, err := tl.Totals()
	require.NoError(t, err)
	require.Equal(t, 3, workspaces)
	require.Equal(t, 9, windows)

	fb.clientErr = errClientList
	tl.BeginCycle()
	_, _, err = tl.Totals()
	require.ErrorIs(t, err, errClientList)
}
