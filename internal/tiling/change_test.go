package tiling

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridflux/gridflux/internal/platform"
)

func TestShouldRelayout(t *testing.T) {
	require.False(t, ShouldRelayout(5, 5))
	require.True(t, ShouldRelayout(5, 4))
	require.True(t, ShouldRelayout(0, 1))
	require.True(t, ShouldRelayout(0, -1))
}

func TestDimensionsChanged(t *testing.T) {
	base := platform.WindowInfo{ID: 1, Width: 640, Height: 480}

	require.False(t, DimensionsChanged(base, base, true))
	require.True(t, DimensionsChanged(platform.WindowInfo{ID: 1, Width: 641, Height: 480}, base, true))
	require.True(t, DimensionsChanged(platform.WindowInfo{ID: 1, Width: 640, Height: 479}, base, true))
	require.True(t, DimensionsChanged(base, platform.WindowInfo{}, false))
}

func TestChangeDetector(t *testing.T) {
	d := NewChangeDetector()
	require.Equal(t, -1, d.PreviousCount(0))

	d.Record(0, 2, []platform.WindowInfo{
		{ID: 1, Width: 100, Height: 100},
		{ID: 2, Width: 100, Height: 100},
	})
	require.Equal(t, 2, d.PreviousCount(0))
	require.Equal(t, -1, d.PreviousCount(1))

	changed := d.Changed([]platform.WindowInfo{
		{ID: 1, Width: 100, Height: 100},
		{ID: 2, Width: 120, Height: 100},
		{ID: 3, Width: 10, Height: 10},
	})
	require.Equal(t, []platform.WindowID{2, 3}, changed)

	d.Record(1, 1, []platform.WindowInfo{{ID: 3, Width: 10, Height: 10}})
	_, ok := d.Baseline(1)
	require.False(t, ok)
	info, ok := d.Baseline(3)
	require.True(t, ok)
	require.Equal(t, 10, info.Width)
	require.Equal(t, -1, d.PreviousCount(0))
}
