// Package app provides the daemon orchestration: it owns the tmux
// connection, the control socket, the config watcher and the single
// event loop the controller runs on.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/abdullathedruid/autolock/internal/config"
	"github.com/abdullathedruid/autolock/internal/controller"
	"github.com/abdullathedruid/autolock/internal/ctl"
	"github.com/abdullathedruid/autolock/internal/tmuxhost"
	"github.com/abdullathedruid/autolock/internal/trigger"
)

// Options configure the daemon.
type Options struct {
	Config     *config.Config
	ConfigPath string
	// Overrides are -o key=value pairs, reapplied after every config
	// reload so the command line keeps precedence.
	Overrides map[string]string
	Version   string
}

// App is the daemon.
type App struct {
	cfg  *config.Config
	opts Options

	log       *slog.Logger
	level     *slog.LevelVar
	logCloser io.Closer
}

// New builds the daemon around the loaded configuration. Logging goes
// to stderr unless a log file is configured; print_to_log widens the
// level from warnings to the full debug trace.
func New(opts Options) (*App, error) {
	level := &slog.LevelVar{}
	a := &App{
		cfg:   opts.Config,
		opts:  opts,
		level: level,
	}
	a.setLevel(opts.Config.PrintToLog)

	out := io.Writer(os.Stderr)
	if opts.Config.LogFile != "" {
		f, err := os.OpenFile(opts.Config.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		a.logCloser = f
	}
	a.log = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

	return a, nil
}

// Logger returns the daemon logger.
func (a *App) Logger() *slog.Logger {
	return a.log
}

// Close releases the log file, if any.
func (a *App) Close() error {
	if a.logCloser != nil {
		return a.logCloser.Close()
	}
	return nil
}

// Run connects to tmux and drives the controller until the context is
// canceled or the connection ends. Host events, control commands and
// config reloads are all funneled through one loop; the controller is
// never touched from two goroutines.
func (a *App) Run(ctx context.Context) error {
	conn := tmuxhost.New(a.cfg.Session, a.log.With("component", "tmux"))
	if err := conn.Start(); err != nil {
		if names := tmuxhost.AvailableSessions(); names != "" {
			return fmt.Errorf("%w (server sessions: %s)", err, names)
		}
		return err
	}
	defer conn.Close()

	ctrl := controller.New(conn, controllerSettings(a.cfg), controller.Options{
		Logger: a.log,
	})

	ctlCh := make(chan ctl.Command, 8)
	srv, err := ctl.Listen(a.cfg.Socket, func(cmd ctl.Command) {
		select {
		case ctlCh <- cmd:
		default:
			a.log.Warn("control command dropped, loop busy", "command", cmd)
		}
	})
	if err != nil {
		return err
	}
	defer srv.Close()

	var updates <-chan *config.Config
	watcher, err := config.Watch(a.opts.ConfigPath, a.cfg, a.opts.Overrides, a.log.With("component", "config"))
	if err != nil {
		a.log.Warn("config reloading disabled", "error", err)
	} else {
		defer watcher.Close()
		updates = watcher.Updates()
	}

	if err := ctrl.Start(); err != nil {
		return err
	}

	a.log.Info("watching session",
		"session", conn.SessionName(),
		"socket", srv.Addr(),
		"triggers", a.cfg.Triggers,
		"version", a.opts.Version)

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutting down")
			return nil
		case ev, ok := <-conn.Events():
			if !ok {
				return fmt.Errorf("tmux connection closed")
			}
			ctrl.HandleEvent(ev)
		case cmd := <-ctlCh:
			ctrl.HandleControl(cmd)
		case cfg := <-updates:
			a.applyConfig(ctrl, cfg)
		}
	}
}

// applyConfig installs a reloaded configuration. Socket and session
// are fixed at startup; everything else takes effect immediately.
func (a *App) applyConfig(ctrl *controller.Controller, cfg *config.Config) {
	a.setLevel(cfg.PrintToLog)
	if cfg.Socket != a.cfg.Socket || cfg.Session != a.cfg.Session {
		a.log.Warn("socket and session changes take effect on restart")
	}
	ctrl.ApplyConfig(controllerSettings(cfg))
	a.cfg = cfg
}

func (a *App) setLevel(verbose bool) {
	if verbose {
		a.level.Set(slog.LevelDebug)
	} else {
		a.level.Set(slog.LevelWarn)
	}
}

func controllerSettings(cfg *config.Config) controller.Settings {
	return controller.Settings{
		Enabled:  cfg.Enabled,
		Triggers: trigger.New(cfg.Triggers...),
		Reaction: cfg.Reaction(),
	}
}
