package desktop

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want Session
	}{
		{
			name: "kde full session wins",
			env:  map[string]string{"KDE_FULL_SESSION": "true", "XDG_CURRENT_DESKTOP": "GNOME"},
			want: Session{Kind: KDE, Name: "KDE"},
		},
		{
			name: "gnome session id",
			env:  map[string]string{"GNOME_DESKTOP_SESSION_ID": "this-is-deprecated"},
			want: Session{Kind: GNOME, Name: "GNOME"},
		},
		{
			name: "gnome in xdg list",
			env:  map[string]string{"XDG_CURRENT_DESKTOP": "ubuntu:GNOME"},
			want: Session{Kind: GNOME, Name: "GNOME"},
		},
		{
			name: "kde via xdg without full session",
			env:  map[string]string{"XDG_CURRENT_DESKTOP": "KDE"},
			want: Session{Kind: KDE, Name: "KDE"},
		},
		{
			name: "xdg current desktop before desktop session",
			env:  map[string]string{"XDG_CURRENT_DESKTOP": "XFCE", "DESKTOP_SESSION": "xubuntu"},
			want: Session{Kind: Other, Name: "XFCE"},
		},
		{
			name: "desktop session fallback",
			env:  map[string]string{"DESKTOP_SESSION": "i3"},
			want: Session{Kind: Other, Name: "i3"},
		},
		{
			name: "nothing set",
			env:  map[string]string{},
			want: Session{Kind: Unknown, Name: "Unknown"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Detect(envMap(tt.env)))
		})
	}
}

type call struct {
	name string
	args []string
	wait bool
}

type fakeRunner struct {
	calls    []call
	status   int
	startErr error
}

func (f *fakeRunner) Start(name string, args ...string) error {
	f.calls = append(f.calls, call{name: name, args: args})
	return f.startErr
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (int, error) {
	f.calls = append(f.calls, call{name: name, args: args, wait: true})
	return f.status, nil
}

type fakeController struct {
	current   []int
	requested []int
}

func (f *fakeController) SetCurrentDesktop(desktop int) error {
	f.current = append(f.current, desktop)
	return nil
}

func (f *fakeController) RequestDesktopCount(count int) error {
	f.requested = append(f.requested, count)
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateWorkspace_KDE(t *testing.T) {
	runner := &fakeRunner{}
	ctrl := &fakeController{}
	c := NewCreator(Session{Kind: KDE, Name: "KDE"}, runner, ctrl, nil, discard())

	require.NoError(t, c.CreateWorkspace(context.Background(), 3))
	require.Len(t, runner.calls, 1)
	require.Equal(t, "qdbus", runner.calls[0].name)
	require.Equal(t, []string{"org.kde.KWin", "/VirtualDesktopManager", "createDesktop", "3", "gridflux"}, runner.calls[0].args)
	require.False(t, runner.calls[0].wait)
	require.Empty(t, ctrl.current)
}

func TestCreateWorkspace_GNOMESwitchesDesktop(t *testing.T) {
	runner := &fakeRunner{}
	ctrl := &fakeController{}
	c := NewCreator(Session{Kind: GNOME, Name: "GNOME"}, runner, ctrl, nil, discard())

	require.NoError(t, c.CreateWorkspace(context.Background(), 2))
	require.Len(t, runner.calls, 1)
	require.Equal(t, "gsettings", runner.calls[0].name)
	require.Equal(t, []string{"set", "org.gnome.mutter", "dynamic-workspaces", "true"}, runner.calls[0].args)
	require.Equal(t, []int{2}, ctrl.current)
}

func TestCreateWorkspace_GNOMEStartFailure(t *testing.T) {
	runner := &fakeRunner{startErr: errors.New("gsettings: not found")}
	ctrl := &fakeController{}
	c := NewCreator(Session{Kind: GNOME, Name: "GNOME"}, runner, ctrl, nil, discard())

	require.Error(t, c.CreateWorkspace(context.Background(), 2))
	require.Empty(t, ctrl.current)
}

func TestCreateWorkspace_OtherRunsConfiguredCommand(t *testing.T) {
	runner := &fakeRunner{status: 1}
	ctrl := &fakeController{}
	c := NewCreator(Session{Kind: Other, Name: "XFCE"}, runner, ctrl,
		[]string{"xfconf-query", "-c", "xfwm4", "-p", "/general/workspace_count", "-s", "{{count}}"}, discard())

	require.NoError(t, c.CreateWorkspace(context.Background(), 4))
	require.Len(t, runner.calls, 1)
	require.True(t, runner.calls[0].wait)
	require.Equal(t, "xfconf-query", runner.calls[0].name)
	require.Equal(t, "5", runner.calls[0].args[len(runner.calls[0].args)-1])
	require.Empty(t, ctrl.requested)
}

func TestCreateWorkspace_OtherFallsBackToEWMH(t *testing.T) {
	runner := &fakeRunner{}
	ctrl := &fakeController{}
	c := NewCreator(Session{Kind: Other, Name: "i3"}, runner, ctrl, nil, discard())

	require.NoError(t, c.CreateWorkspace(context.Background(), 1))
	require.Empty(t, runner.calls)
	require.Equal(t, []int{2}, ctrl.requested)

	c.SetCommand([]string{"echo", "{{id}}"})
	require.NoError(t, c.CreateWorkspace(context.Background(), 1))
	require.Len(t, runner.calls, 1)
	require.Equal(t, []string{"1"}, runner.calls[0].args)
}

func TestCreateWorkspace_UnknownIsNoop(t *testing.T) {
	runner := &fakeRunner{}
	ctrl := &fakeController{}
	c := NewCreator(Session{Kind: Unknown, Name: "Unknown"}, runner, ctrl, []string{"true"}, discard())

	require.NoError(t, c.CreateWorkspace(context.Background(), 1))
	require.Empty(t, runner.calls)
	require.Empty(t, ctrl.current)
	require.Empty(t, ctrl.requested)
}

func TestExecRunner_RunReportsExitStatus(t *testing.T) {
	r := ExecRunner{Logger: discard()}

	status, err := r.Run(context.Background(), "sh", "-c", "exit 3")
	require.NoError(t, err)
	require.Equal(t, 3, status)

	_, err = r.Run(context.Background(), "gridflux-no-such-program")
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "gridflux-no-such-program"))
}
