// Package controller merges host events into debounced, guarded
// input-mode switches.
//
// The controller is purely reactive: every host interaction is fire
// and forget, and each event is processed to completion before the
// next. One goroutine must own a Controller and deliver every event,
// control command and settings change; the core holds no locks.
package controller

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abdullathedruid/autolock/internal/ctl"
	"github.com/abdullathedruid/autolock/internal/debounce"
	"github.com/abdullathedruid/autolock/internal/focus"
	"github.com/abdullathedruid/autolock/internal/guard"
	"github.com/abdullathedruid/autolock/internal/host"
	"github.com/abdullathedruid/autolock/internal/trigger"
)

// Phase is the controller lifecycle. There is no terminal phase; the
// process runs until the host connection ends.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseAwaitingPermission
	PhaseActive
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseAwaitingPermission:
		return "awaiting-permission"
	case PhaseActive:
		return "active"
	default:
		return "unknown"
	}
}

// Settings are the live-tunable knobs. Reaction must be positive;
// configuration loading enforces that before a Controller exists.
type Settings struct {
	Enabled  bool
	Triggers trigger.Set
	Reaction time.Duration
}

// Options tune construction.
type Options struct {
	// DryRun computes and logs decisions without issuing mode
	// switches, so an observer never fights the daemon controlling
	// the same session.
	DryRun bool
	Logger *slog.Logger
}

// Controller owns the reactive state machine: the focus tracker, the
// debounce scheduler and the transition guard, wired to one host.
type Controller struct {
	host   host.Host
	log    *slog.Logger
	dryRun bool

	tracker   focus.Tracker
	scheduler *debounce.Scheduler
	triggers  trigger.Set

	phase       Phase
	mode        host.Mode
	lastCommand string
	hidden      bool
}

// New wires a controller to h with the given settings.
func New(h host.Host, cfg Settings, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		host:      h,
		log:       logger,
		dryRun:    opts.DryRun,
		scheduler: debounce.New(h, cfg.Reaction),
		triggers:  cfg.Triggers,
		mode:      host.ModeNormal,
	}
	c.scheduler.SetEnabled(cfg.Enabled)
	return c
}

// Start declares the capabilities and event subscriptions this
// controller needs. The permission verdict arrives later as an event.
func (c *Controller) Start() error {
	perms := []host.Permission{
		host.PermissionReadState,
		host.PermissionChangeState,
	}
	if err := c.host.RequestPermissions(perms); err != nil {
		return fmt.Errorf("failed to request permissions: %w", err)
	}

	kinds := []host.EventKind{
		host.EventModeUpdate,
		host.EventInput,
		host.EventTabUpdate,
		host.EventPaneUpdate,
		host.EventClientList,
		host.EventPermission,
		host.EventTimer,
	}
	if err := c.host.Subscribe(kinds); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	c.phase = PhaseAwaitingPermission
	return nil
}

// HandleEvent processes one host event to completion. The returned
// redraw flag is part of the host handler contract and is always
// false here: this controller has no visible surface.
func (c *Controller) HandleEvent(ev host.Event) bool {
	switch ev := ev.(type) {
	case host.PermissionResult:
		c.handlePermission(ev)

	case host.ModeUpdate:
		c.log.Debug("mode reported", "mode", ev.Mode.String())
		c.mode = ev.Mode
		c.scheduler.Arm()

	case host.InputReceived:
		c.scheduler.Arm()

	case host.TabUpdate:
		c.tracker.ObserveTabs(ev.Tabs)

	case host.PaneUpdate:
		if c.tracker.ObservePanes(ev.Panes) {
			c.scheduler.Arm()
		}

	case host.ClientList:
		c.inspect(ev.Clients)

	case host.TimerFired:
		c.scheduler.Fired()
		c.requestSnapshot()
	}
	return false
}

// HandleControl applies one decoded control command. Commands are
// idempotent; any command that leaves the controller enabled performs
// an immediate inspection pass and rearms. The redraw flag is always
// false.
func (c *Controller) HandleControl(cmd ctl.Command) bool {
	switch cmd {
	case ctl.Enable:
		c.scheduler.SetEnabled(true)
		c.log.Info("enabled")
	case ctl.Disable:
		c.scheduler.SetEnabled(false)
		c.log.Info("disabled")
	case ctl.Toggle:
		c.scheduler.SetEnabled(!c.scheduler.Enabled())
		c.log.Info("toggled", "enabled", c.scheduler.Enabled())
	default:
		return false
	}

	if c.scheduler.Enabled() {
		c.requestSnapshot()
		c.scheduler.Arm()
	}
	return false
}

// ApplyConfig installs new settings on a running controller. An
// enabled-state flip behaves like the matching control command,
// including the immediate inspection pass on enable.
func (c *Controller) ApplyConfig(cfg Settings) {
	c.triggers = cfg.Triggers
	c.scheduler.SetReaction(cfg.Reaction)
	c.log.Debug("settings applied",
		"enabled", cfg.Enabled,
		"triggers", cfg.Triggers.String(),
		"reaction", cfg.Reaction)

	if cfg.Enabled == c.scheduler.Enabled() {
		return
	}
	if cfg.Enabled {
		c.HandleControl(ctl.Enable)
	} else {
		c.HandleControl(ctl.Disable)
	}
}

func (c *Controller) handlePermission(res host.PermissionResult) {
	c.phase = PhaseActive
	if !res.Granted {
		c.log.Warn("permissions denied, running without UI suppression")
		return
	}
	if c.hidden {
		return
	}
	c.hidden = true
	if err := c.host.HideSelf(); err != nil {
		c.log.Warn("failed to hide", "err", err)
	}
}

// inspect runs the classify, decide, switch pipeline over a client
// snapshot. Transient oddities (no current client, empty command) are
// absorbed; the next snapshot corrects the view.
func (c *Controller) inspect(clients []host.Client) {
	if !c.scheduler.Enabled() {
		return
	}
	current, ok := currentClient(clients)
	if !ok {
		return
	}

	cmd := strings.TrimSpace(current.RunningCommand)
	isTrigger := c.triggers.Match(cmd)
	if cmd == host.CommandUnavailable {
		c.log.Debug("no command reported")
	} else {
		c.log.Debug("command inspected",
			"command", cmd,
			"executable", trigger.Basename(cmd),
			"trigger", isTrigger)
	}

	if target, ok := guard.Decide(isTrigger, c.mode); ok {
		c.switchMode(target)
	}

	// A changed command means the pane is mid-transition; look again
	// after one more reaction delay.
	if cmd != c.lastCommand {
		c.lastCommand = cmd
		c.scheduler.Arm()
	}
}

// requestSnapshot asks the host for a fresh client list. The host
// derives focus at answer time, so a stale timer fire still yields a
// current view.
func (c *Controller) requestSnapshot() {
	if !c.scheduler.Enabled() {
		return
	}
	if err := c.host.ListClients(); err != nil {
		c.log.Warn("failed to list clients", "err", err)
	}
}

func (c *Controller) switchMode(target host.Mode) {
	if c.dryRun {
		c.log.Info("would switch mode", "from", c.mode.String(), "to", target.String())
		return
	}
	c.log.Debug("switching mode", "from", c.mode.String(), "to", target.String())
	if err := c.host.SwitchMode(target); err != nil {
		c.log.Warn("failed to switch mode", "err", err)
	}
}

func currentClient(clients []host.Client) (host.Client, bool) {
	for _, client := range clients {
		if client.Current && client.RunningCommand != "" {
			return client, true
		}
	}
	return host.Client{}, false
}

// Phase returns the lifecycle phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Mode returns the last input mode the host reported.
func (c *Controller) Mode() host.Mode {
	return c.mode
}

// Enabled reports whether automatic locking is active.
func (c *Controller) Enabled() bool {
	return c.scheduler.Enabled()
}

// Focus returns the tracked focus location.
func (c *Controller) Focus() focus.Location {
	return c.tracker.Location()
}

// LastCommand returns the most recently inspected command.
func (c *Controller) LastCommand() string {
	return c.lastCommand
}

// Triggers returns the active trigger set.
func (c *Controller) Triggers() trigger.Set {
	return c.triggers
}

// Reaction returns the debounce delay.
func (c *Controller) Reaction() time.Duration {
	return c.scheduler.Reaction()
}
