package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/BurntSushi/xgb"

	"github.com/gridflux/gridflux/internal/config"
	"github.com/gridflux/gridflux/internal/daemon"
	"github.com/gridflux/gridflux/internal/desktop"
	"github.com/gridflux/gridflux/internal/logging"
	"github.com/gridflux/gridflux/internal/platform"
	"github.com/gridflux/gridflux/internal/runtimepath"
	"github.com/gridflux/gridflux/internal/tiling"
	"github.com/gridflux/gridflux/internal/x11"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "help", "-h", "--help":
			printUsage(os.Stdout)
			os.Exit(0)
		default:
			fmt.Fprintln(os.Stderr, "gridflux takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			printUsage(os.Stderr)
			os.Exit(2)
		}
	}
	os.Exit(run())
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gridflux")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Tile the windows of the current X11 workspace and keep every")
	fmt.Fprintln(w, "workspace under the configured window limit. Runs in the foreground.")
	fmt.Fprintln(w, "")
	if path, err := config.DefaultConfigPath(); err == nil {
		fmt.Fprintf(w, "Configuration: %s\n", path)
	}
	fmt.Fprintln(w, "Send SIGHUP or edit the file to reload it.")
}

func run() int {
	switch session := os.Getenv("XDG_SESSION_TYPE"); session {
	case "x11":
	case "":
		fmt.Fprintln(os.Stderr, "gridflux: XDG_SESSION_TYPE is not set, assuming x11")
	default:
		fmt.Fprintf(os.Stderr, "gridflux: unsupported session type %q, only x11 is supported\n", session)
		return 1
	}

	configPath, err := config.DefaultConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "gridflux: %v\n", err)
		return 1
	}
	loaded, err := config.LoadFromPath(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gridflux: failed to load configuration: %v\n", err)
		return 1
	}
	cfg := loaded.Config

	if cfg.Display != "" {
		os.Setenv("DISPLAY", cfg.Display)
	}
	if cfg.XAuthority != "" {
		os.Setenv("XAUTHORITY", cfg.XAuthority)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gridflux: %v\n", err)
		return 1
	}
	if loaded.File != "" {
		logger.Info("configuration loaded", "file", loaded.File)
	} else {
		logger.Info("no configuration file, using defaults", "path", configPath)
	}

	lock, err := runtimepath.AcquireLock(os.Getenv("DISPLAY"))
	if err != nil {
		if errors.Is(err, runtimepath.ErrAlreadyRunning) {
			logger.Error("another instance holds the lock", "display", os.Getenv("DISPLAY"))
		} else {
			logger.Error("failed to acquire instance lock", "error", err)
		}
		return 1
	}
	defer lock.Release()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := x11.Connect(ctx, cfg.ConnectBackoff, logger.Logger)
	if err != nil {
		if ctx.Err() != nil {
			logger.Info("interrupted before connecting")
			return 0
		}
		logger.Error("failed to connect to display", "error", err)
		return 1
	}
	conn.SetErrorHandler(func(xerr xgb.Error) {
		if x11.IsBadWindow(xerr) {
			logger.Warn("window vanished", "error", xerr)
			return
		}
		logger.Error("X error", "error", xerr)
	})

	backend := platform.NewLinuxBackend(conn)
	defer backend.Disconnect()

	session := desktop.Detect(os.Getenv)
	logger.Info("desktop detected", "desktop", session.Name, "kind", session.Kind)

	tiler := tiling.NewTiler(backend, cfg, logger.Logger)
	creator := desktop.NewCreator(session, nil, backend, cfg.WorkspaceCommand, logger.Logger)

	reload := make(chan struct{}, 1)
	go forwardReloads(ctx, configPath, reload, logger)

	var loop *daemon.PollLoop
	applyReload := func() {
		res, err := config.LoadFromPath(configPath)
		if err != nil {
			logger.Warn("config reload rejected, keeping previous configuration", "error", err)
			return
		}
		next := res.Config
		if err := logger.Apply(next.LogLevel, next.LogFormat); err != nil {
			logger.Warn("invalid logging settings", "error", err)
		}
		if next.Display != cfg.Display || next.XAuthority != cfg.XAuthority {
			logger.Warn("display settings change on restart only")
		}
		tiler.UpdateConfig(next)
		creator.SetCommand(next.WorkspaceCommand)
		loop.Configure(loopConfig(next))
		cfg = next
		logger.Info("configuration reloaded", "window_limit", next.WindowLimit)
	}

	lc := loopConfig(cfg)
	lc.DrainErrors = conn.DrainErrors
	lc.Reload = reload
	lc.OnReload = applyReload
	lc.Logger = logger.Logger
	loop = daemon.NewPollLoop(lc, tiler, creator)

	logger.Info("gridflux started", "display", os.Getenv("DISPLAY"))
	if err := loop.Run(ctx); err != nil {
		logger.Error("poll loop failed", "error", err)
		return 1
	}
	logger.Info("shutting down")
	return 0
}

func loopConfig(cfg *config.Config) daemon.LoopConfig {
	return daemon.LoopConfig{
		PollInterval: cfg.PollInterval,
		GrowPause:    cfg.GrowPause,
		GrowCooldown: cfg.GrowCooldown,
		WindowLimit:  cfg.WindowLimit,
	}
}

// forwardReloads merges SIGHUP and config file changes into reload. Sends
// never block; one pending reload is enough.
func forwardReloads(ctx context.Context, path string, reload chan<- struct{}, logger *logging.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	var changes <-chan struct{}
	watcher, err := config.Watch(path, logger.Logger)
	if err != nil {
		logger.Warn("config file watching disabled", "error", err)
	} else {
		defer watcher.Close()
		go watcher.Run(ctx)
		changes = watcher.Changes()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			logger.Info("received SIGHUP, reloading configuration")
		case <-changes:
			logger.Debug("configuration file changed", "path", path)
		}
		select {
		case reload <- struct{}{}:
		default:
		}
	}
}
