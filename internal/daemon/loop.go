package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/gridflux/gridflux/internal/tiling"
)

// Tiler is the per-cycle tiling work the loop drives.
type Tiler interface {
	BeginCycle()
	Prime() error
	Totals() (workspaces, windows int, err error)
	Rebalance() tiling.RebalanceResult
	RelayoutCurrent() error
}

// WorkspaceCreator asks the desktop environment for another workspace.
type WorkspaceCreator interface {
	CreateWorkspace(ctx context.Context, id int) error
}

// LoopConfig holds configuration for the poll loop.
type LoopConfig struct {
	PollInterval time.Duration
	GrowPause    time.Duration
	GrowCooldown time.Duration
	WindowLimit  int

	// DrainErrors delivers queued X errors to their handler. Optional.
	DrainErrors func() int
	// Reload signals a pending configuration reload; OnReload is then run
	// on the loop goroutine between cycles. Both optional.
	Reload   <-chan struct{}
	OnReload func()

	Logger *slog.Logger
}

// PollLoop tiles the current workspace and keeps every workspace under the
// window limit, one cycle per poll interval.
type PollLoop struct {
	tiler   Tiler
	creator WorkspaceCreator

	interval  time.Duration
	growPause time.Duration
	cooldown  time.Duration
	limit     int

	drain    func() int
	reload   <-chan struct{}
	onReload func()
	logger   *slog.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) bool

	lastTarget int
	lastGrow   time.Time
	lastErr    string
}

// NewPollLoop creates a new poll loop with the given configuration.
func NewPollLoop(cfg LoopConfig, tiler Tiler, creator WorkspaceCreator) *PollLoop {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	l := &PollLoop{
		tiler:      tiler,
		creator:    creator,
		drain:      cfg.DrainErrors,
		reload:     cfg.Reload,
		onReload:   cfg.OnReload,
		logger:     logger,
		now:        time.Now,
		sleep:      sleepContext,
		lastTarget: -1,
	}
	l.Configure(cfg)
	return l
}

// Configure applies new timings and limit. It must be called from the loop
// goroutine, normally inside OnReload.
func (l *PollLoop) Configure(cfg LoopConfig) {
	l.interval = cfg.PollInterval
	if l.interval <= 0 {
		l.interval = 20 * time.Millisecond
	}
	l.growPause = cfg.GrowPause
	l.cooldown = cfg.GrowCooldown
	l.limit = cfg.WindowLimit
}

// Run primes the current workspace and then polls until ctx is cancelled.
// Cancellation is a clean shutdown and returns nil.
func (l *PollLoop) Run(ctx context.Context) error {
	l.tiler.BeginCycle()
	if err := l.tiler.Prime(); err != nil {
		l.logger.Warn("initial layout failed", "error", err)
	}

	l.logger.Info("poll loop started", "interval", l.interval, "window_limit", l.limit)

	for {
		if ctx.Err() != nil {
			l.logger.Info("poll loop stopped")
			return nil
		}

		l.between()
		l.cycle(ctx)

		if !l.sleep(ctx, l.interval) {
			l.logger.Info("poll loop stopped")
			return nil
		}
	}
}

// between runs the housekeeping that must not overlap a cycle.
func (l *PollLoop) between() {
	if l.drain != nil {
		if n := l.drain(); n > 0 {
			l.logger.Debug("drained X errors", "count", n)
		}
	}

	select {
	case <-l.reload:
		if l.onReload != nil {
			l.onReload()
		}
	default:
	}
}

// cycle performs a single polling pass.
func (l *PollLoop) cycle(ctx context.Context) {
	// A bad reply from a dying window must not take the daemon down.
	defer func() {
		if err := recover(); err != nil {
			l.logger.Error("poll cycle panic recovered", "error", err)
		}
	}()

	l.tiler.BeginCycle()
	if l.grow(ctx) {
		l.tiler.BeginCycle()
	}

	result := l.tiler.Rebalance()
	if result.Moved > 0 || result.Failed > 0 {
		l.logger.Debug("rebalanced workspaces",
			"moved", result.Moved,
			"failed", result.Failed,
			"relaid", result.Relaid)
	}

	l.report(l.tiler.RelayoutCurrent())
}

// grow requests a new workspace when the existing ones cannot hold every
// window at the limit. It reports whether a request was made.
func (l *PollLoop) grow(ctx context.Context) bool {
	if l.limit <= 0 || l.creator == nil {
		return false
	}

	workspaces, windows, err := l.tiler.Totals()
	if err != nil {
		l.logger.Debug("cannot count windows", "error", err)
		return false
	}
	if workspaces <= 0 || workspaces > windows/l.limit {
		return false
	}

	target := windows / l.limit
	now := l.now()
	if target == l.lastTarget && now.Sub(l.lastGrow) < l.cooldown {
		return false
	}
	l.lastTarget = target
	l.lastGrow = now

	l.logger.Info("requesting workspace",
		"workspace", target,
		"workspaces", workspaces,
		"windows", windows)
	if err := l.creator.CreateWorkspace(ctx, target); err != nil {
		l.logger.Warn("create workspace failed", "workspace", target, "error", err)
	}

	l.sleep(ctx, l.growPause)
	return true
}

// report logs cycle errors once per distinct message so a persistent failure
// does not flood the log at the poll rate.
func (l *PollLoop) report(err error) {
	if err == nil {
		if l.lastErr != "" {
			l.logger.Info("tiling recovered")
			l.lastErr = ""
		}
		return
	}
	if msg := err.Error(); msg != l.lastErr {
		l.logger.Warn("tiling cycle failed", "error", err)
		l.lastErr = msg
	}
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
