package desktop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Runner launches external programs.
type Runner interface {
	// Start launches a program without waiting for it.
	Start(name string, args ...string) error
	// Run waits for the program and returns its exit status.
	Run(ctx context.Context, name string, args ...string) (int, error)
}

// Controller is the EWMH side of workspace management.
type Controller interface {
	SetCurrentDesktop(desktop int) error
	RequestDesktopCount(count int) error
}

// Creator adds virtual workspaces using whatever the session supports.
type Creator struct {
	session  Session
	runner   Runner
	desktops Controller
	command  []string
	logger   *slog.Logger
}

// NewCreator builds a creator for session. command is only used by sessions
// without a built-in recipe; when empty those fall back to an EWMH
// _NET_NUMBER_OF_DESKTOPS request.
func NewCreator(session Session, runner Runner, desktops Controller, command []string, logger *slog.Logger) *Creator {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = ExecRunner{Logger: logger}
	}
	return &Creator{
		session:  session,
		runner:   runner,
		desktops: desktops,
		command:  command,
		logger:   logger,
	}
}

// SetCommand replaces the configured workspace command.
func (c *Creator) SetCommand(command []string) {
	c.command = command
}

// CreateWorkspace asks for workspace id (0-indexed) to exist.
func (c *Creator) CreateWorkspace(ctx context.Context, id int) error {
	switch c.session.Kind {
	case KDE:
		return c.runner.Start("qdbus", "org.kde.KWin", "/VirtualDesktopManager",
			"createDesktop", strconv.Itoa(id), "gridflux")
	case GNOME:
		if err := c.runner.Start("gsettings", "set", "org.gnome.mutter", "dynamic-workspaces", "true"); err != nil {
			return err
		}
		return c.desktops.SetCurrentDesktop(id)
	case Other:
		if len(c.command) == 0 {
			return c.desktops.RequestDesktopCount(id + 1)
		}
		args := expandCommand(c.command, id)
		status, err := c.runner.Run(ctx, args[0], args[1:]...)
		if err != nil {
			return fmt.Errorf("workspace command: %w", err)
		}
		c.logger.Debug("workspace command finished",
			"session", c.session.Name,
			"command", args[0],
			"status", status)
		return nil
	default:
		c.logger.Debug("no desktop session detected, not creating workspace", "workspace", id)
		return nil
	}
}

func expandCommand(command []string, id int) []string {
	r := strings.NewReplacer(
		"{{id}}", strconv.Itoa(id),
		"{{count}}", strconv.Itoa(id+1),
	)
	out := make([]string, len(command))
	for i, arg := range command {
		out[i] = r.Replace(arg)
	}
	return out
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct {
	Logger *slog.Logger
}

func (r ExecRunner) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}
	go func() {
		if err := cmd.Wait(); err != nil && r.Logger != nil {
			r.Logger.Warn("command failed", "command", name, "error", err)
		}
	}()
	return nil
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}
