package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abdullathedruid/autolock/internal/config"
	"github.com/abdullathedruid/autolock/internal/controller"
	"github.com/abdullathedruid/autolock/internal/host"
)

type stubHost struct{}

func (stubHost) RequestPermissions([]host.Permission) error { return nil }
func (stubHost) Subscribe([]host.EventKind) error           { return nil }
func (stubHost) ListClients() error                         { return nil }
func (stubHost) SwitchMode(host.Mode) error                 { return nil }
func (stubHost) HideSelf() error                            { return nil }
func (stubHost) SetTimeout(time.Duration) error             { return nil }

func TestControllerSettings(t *testing.T) {
	cfg := &config.Config{
		Enabled:         true,
		Triggers:        []string{"vim", "emacs"},
		ReactionSeconds: 0.5,
	}

	settings := controllerSettings(cfg)

	if !settings.Enabled {
		t.Error("Enabled = false, want true")
	}
	if got := settings.Reaction; got != 500*time.Millisecond {
		t.Errorf("Reaction = %v, want %v", got, 500*time.Millisecond)
	}
	if !settings.Triggers.Match("emacs") {
		t.Error("Triggers.Match(emacs) = false, want true")
	}
	if settings.Triggers.Match("nvim") {
		t.Error("Triggers.Match(nvim) = true, want false")
	}
}

func TestNewSelectsLevel(t *testing.T) {
	tests := []struct {
		name       string
		printToLog bool
		wantDebug  bool
	}{
		{"quiet by default", false, false},
		{"verbose with print_to_log", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.PrintToLog = tt.printToLog

			a, err := New(Options{Config: cfg})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			defer a.Close()

			if got := a.log.Enabled(context.Background(), slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if !a.log.Enabled(context.Background(), slog.LevelWarn) {
				t.Error("warnings disabled, want enabled")
			}
		})
	}
}

func TestNewOpensLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autolock.log")
	cfg := config.Default()
	cfg.LogFile = path

	a, err := New(Options{Config: cfg})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	a.log.Warn("hello from the daemon")
	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "hello from the daemon") {
		t.Errorf("log file missing message, got %q", data)
	}
}

func TestNewRejectsUnwritableLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.LogFile = filepath.Join(t.TempDir(), "missing", "nested", "autolock.log")

	if _, err := New(Options{Config: cfg}); err == nil {
		t.Error("New() error = nil, want error for unwritable log file")
	}
}

func TestApplyConfigUpdatesController(t *testing.T) {
	cfg := config.Default()
	a, err := New(Options{Config: cfg})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	ctrl := controller.New(stubHost{}, controllerSettings(cfg), controller.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	next := config.Default()
	next.Enabled = false
	next.Triggers = []string{"kakoune"}
	next.ReactionSeconds = 1.0
	next.PrintToLog = true
	a.applyConfig(ctrl, next)

	if ctrl.Enabled() {
		t.Error("Enabled() = true, want false after reload")
	}
	if !ctrl.Triggers().Match("kakoune") {
		t.Error("Triggers().Match(kakoune) = false, want true")
	}
	if got := ctrl.Reaction(); got != time.Second {
		t.Errorf("Reaction() = %v, want %v", got, time.Second)
	}
	if !a.log.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug disabled after print_to_log reload, want enabled")
	}
	if a.cfg != next {
		t.Error("config not installed after reload")
	}
}
