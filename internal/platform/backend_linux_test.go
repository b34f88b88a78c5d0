package platform

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/gridflux/gridflux/internal/x11"
)

func TestGeometryFlagsHas(t *testing.T) {
	flags := ChangeX | ChangeWidth | HideDecorations
	if !flags.Has(ChangeX) || !flags.Has(ChangeX|ChangeWidth) {
		t.Fatal("expected set bits to be reported")
	}
	if flags.Has(ChangeY) || flags.Has(ChangeAll) {
		t.Fatal("expected missing bits to be reported")
	}
	if !ChangeAll.Has(ChangeX | ChangeY | ChangeWidth | ChangeHeight) {
		t.Fatal("ChangeAll must cover every axis")
	}
	if ChangeAll.Has(HideDecorations) {
		t.Fatal("ChangeAll must not imply HideDecorations")
	}
}

func TestWindowIDs(t *testing.T) {
	if got := windowIDs(nil); got != nil {
		t.Fatalf("windowIDs(nil) = %v, want nil", got)
	}
	got := windowIDs([]xproto.Window{0x1, 0x2a00003})
	if len(got) != 2 || got[0] != 1 || got[1] != 0x2a00003 {
		t.Fatalf("windowIDs() = %v", got)
	}
}

func TestRectFromGeometry(t *testing.T) {
	got := rectFromGeometry(x11.Geometry{X: -5, Y: 10, Width: 800, Height: 600})
	if got != (Rect{X: -5, Y: 10, Width: 800, Height: 600}) {
		t.Fatalf("rectFromGeometry() = %+v", got)
	}
}

func TestNilBackendReportsError(t *testing.T) {
	var b *LinuxBackend
	if _, err := b.ClientList(); err == nil {
		t.Fatal("expected error from nil backend")
	}
	if err := b.SetGeometry(1, Rect{Width: 10, Height: 10}, ChangeAll); err == nil {
		t.Fatal("expected error from nil backend")
	}
	b.Disconnect()
}
