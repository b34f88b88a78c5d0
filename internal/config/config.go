package config

import (
	"fmt"
	"strings"
	"time"
)

// Margins is space kept free along each screen edge.
type Margins struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// Config holds the daemon configuration.
type Config struct {
	// Display and XAuthority override $DISPLAY and $XAUTHORITY when set.
	Display    string `yaml:"display"`
	XAuthority string `yaml:"xauthority"`

	WindowLimit     int     `yaml:"window_limit"`
	Padding         int     `yaml:"padding"`
	ApplyPadding    bool    `yaml:"apply_padding"`
	HideDecorations bool    `yaml:"hide_decorations"`
	ScreenMargin    Margins `yaml:"screen_margin"`

	PollInterval   time.Duration `yaml:"poll_interval"`
	GrowPause      time.Duration `yaml:"grow_pause"`
	GrowCooldown   time.Duration `yaml:"grow_cooldown"`
	ConnectBackoff time.Duration `yaml:"connect_backoff"`

	// WorkspaceCommand creates a workspace on desktops without a built-in
	// recipe. {{id}} and {{count}} are replaced before it runs.
	WorkspaceCommand []string `yaml:"workspace_command"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		WindowLimit:    8,
		Padding:        6,
		ApplyPadding:   true,
		ScreenMargin:   Margins{Right: 5},
		PollInterval:   20 * time.Millisecond,
		GrowPause:      20 * time.Millisecond,
		GrowCooldown:   2 * time.Second,
		ConnectBackoff: time.Second,
		LogLevel:       "info",
		LogFormat:      "auto",
	}
}

// EffectivePadding returns the per-window padding, zero when padding is off.
func (c *Config) EffectivePadding() int {
	if !c.ApplyPadding {
		return 0
	}
	return c.Padding
}

func (c *Config) Validate() error {
	if c.WindowLimit < 1 {
		return &ValidationError{Path: "window_limit", Err: fmt.Errorf("window_limit must be >= 1")}
	}
	if c.Padding < 0 {
		return &ValidationError{Path: "padding", Err: fmt.Errorf("padding must be >= 0")}
	}
	if c.ScreenMargin.Top < 0 || c.ScreenMargin.Bottom < 0 || c.ScreenMargin.Left < 0 || c.ScreenMargin.Right < 0 {
		return &ValidationError{Path: "screen_margin", Err: fmt.Errorf("screen_margin values must be >= 0")}
	}
	if c.PollInterval <= 0 {
		return &ValidationError{Path: "poll_interval", Err: fmt.Errorf("poll_interval must be > 0")}
	}
	if c.GrowPause < 0 {
		return &ValidationError{Path: "grow_pause", Err: fmt.Errorf("grow_pause must be >= 0")}
	}
	if c.GrowCooldown < 0 {
		return &ValidationError{Path: "grow_cooldown", Err: fmt.Errorf("grow_cooldown must be >= 0")}
	}
	if c.ConnectBackoff <= 0 {
		return &ValidationError{Path: "connect_backoff", Err: fmt.Errorf("connect_backoff must be > 0")}
	}
	if len(c.WorkspaceCommand) > 0 && strings.TrimSpace(c.WorkspaceCommand[0]) == "" {
		return &ValidationError{Path: "workspace_command", Err: fmt.Errorf("workspace_command must start with a program name")}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	switch c.LogFormat {
	case "auto", "text", "logfmt", "json":
	default:
		return &ValidationError{Path: "log_format", Err: fmt.Errorf("log_format must be one of: auto, text, logfmt, json")}
	}
	return nil
}

// ValidationError ties a validation failure to the YAML key that caused it.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
