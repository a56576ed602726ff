package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if !cfg.Enabled {
		t.Error("default config should be enabled")
	}
	if len(cfg.Triggers) != 2 || cfg.Triggers[0] != "vim" || cfg.Triggers[1] != "nvim" {
		t.Errorf("Triggers = %v, want [vim nvim]", cfg.Triggers)
	}
	if cfg.ReactionSeconds != 0.3 {
		t.Errorf("ReactionSeconds = %v, want 0.3", cfg.ReactionSeconds)
	}
	if cfg.PrintToLog {
		t.Error("PrintToLog should default off")
	}
	if cfg.Socket == "" {
		t.Error("Socket should have a default path")
	}
}

func TestReactionDuration(t *testing.T) {
	cfg := &Config{ReactionSeconds: 0.3}
	if cfg.Reaction() != 300*time.Millisecond {
		t.Errorf("Reaction() = %v, want 300ms", cfg.Reaction())
	}

	cfg.ReactionSeconds = 2
	if cfg.Reaction() != 2*time.Second {
		t.Errorf("Reaction() = %v, want 2s", cfg.Reaction())
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if !cfg.Enabled || cfg.ReactionSeconds != 0.3 {
		t.Error("missing file should yield defaults")
	}
}

func TestLoadFromMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
triggers: [vim, nvim, fzf]
reaction_seconds: 0.5
session: work
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if len(cfg.Triggers) != 3 || cfg.Triggers[2] != "fzf" {
		t.Errorf("Triggers = %v, want three entries ending in fzf", cfg.Triggers)
	}
	if cfg.ReactionSeconds != 0.5 {
		t.Errorf("ReactionSeconds = %v, want 0.5", cfg.ReactionSeconds)
	}
	if cfg.Session != "work" {
		t.Errorf("Session = %q, want work", cfg.Session)
	}
	// Untouched keys keep their defaults
	if !cfg.Enabled {
		t.Error("Enabled should keep its default")
	}
}

func TestLoadFromExplicitFalse(t *testing.T) {
	// An explicit false must not be mistaken for an absent key
	path := writeConfig(t, "is_enabled: false\n")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Enabled {
		t.Error("explicit is_enabled: false should disable")
	}
}

func TestLoadFromBadYAML(t *testing.T) {
	path := writeConfig(t, "reaction_seconds: [not, a, number]\n")
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected an error for malformed yaml")
	}
}

func TestLoadFromRejectsNonPositiveReaction(t *testing.T) {
	for _, contents := range []string{
		"reaction_seconds: 0\n",
		"reaction_seconds: -0.5\n",
	} {
		path := writeConfig(t, contents)
		if _, err := LoadFrom(path); err == nil {
			t.Errorf("expected an error for %q", strings.TrimSpace(contents))
		}
	}
}

func TestApplyPairs(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyPairs(map[string]string{
		"is_enabled":       "false",
		"triggers":         "vim| emacs |less",
		"reaction_seconds": "0.25",
		"print_to_log":     "1",
		"session":          "main",
	})
	if err != nil {
		t.Fatalf("ApplyPairs failed: %v", err)
	}

	if cfg.Enabled {
		t.Error("is_enabled=false should disable")
	}
	if len(cfg.Triggers) != 3 || cfg.Triggers[1] != "emacs" {
		t.Errorf("Triggers = %v, want trimmed three entries", cfg.Triggers)
	}
	if cfg.ReactionSeconds != 0.25 {
		t.Errorf("ReactionSeconds = %v, want 0.25", cfg.ReactionSeconds)
	}
	if !cfg.PrintToLog {
		t.Error("print_to_log=1 should enable logging")
	}
	if cfg.Session != "main" {
		t.Errorf("Session = %q, want main", cfg.Session)
	}
}

func TestApplyPairsTruthy(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"t", true},
		{"y", true},
		{"1", true},
		{" 1 ", true},
		{"false", false},
		{"yes", false},
		{"TRUE", false},
		{"", false},
	}

	for _, tt := range tests {
		cfg := Default()
		if err := cfg.ApplyPairs(map[string]string{"is_enabled": tt.value}); err != nil {
			t.Fatalf("ApplyPairs(%q) failed: %v", tt.value, err)
		}
		if cfg.Enabled != tt.want {
			t.Errorf("is_enabled=%q -> %v, want %v", tt.value, cfg.Enabled, tt.want)
		}
	}
}

func TestApplyPairsBadReactionIsFatal(t *testing.T) {
	cfg := Default()
	if err := cfg.ApplyPairs(map[string]string{"reaction_seconds": "soon"}); err == nil {
		t.Error("expected an error for an unparsable reaction latency")
	}

	cfg = Default()
	if err := cfg.ApplyPairs(map[string]string{"reaction_seconds": "-1"}); err == nil {
		t.Error("expected an error for a negative reaction latency")
	}
}

func TestApplyPairsIgnoresUnknownKeys(t *testing.T) {
	cfg := Default()
	if err := cfg.ApplyPairs(map[string]string{"colour_scheme": "mauve"}); err != nil {
		t.Errorf("unknown keys should be ignored, got %v", err)
	}
}

func TestRenderRoundTrips(t *testing.T) {
	cfg := Default()
	rendered := cfg.Render()

	if !strings.Contains(rendered, "is_enabled: true") {
		t.Errorf("rendered config missing is_enabled:\n%s", rendered)
	}
	if !strings.Contains(rendered, "- vim") {
		t.Errorf("rendered config missing triggers:\n%s", rendered)
	}
}

func TestDiff(t *testing.T) {
	before := Default()
	after := Default()

	if d := Diff(before, after); d != "" {
		t.Errorf("identical configs should produce an empty diff, got:\n%s", d)
	}

	after.ReactionSeconds = 0.5
	d := Diff(before, after)
	if d == "" {
		t.Fatal("changed config should produce a diff")
	}
	if !strings.Contains(d, "reaction_seconds") {
		t.Errorf("diff should mention the changed key:\n%s", d)
	}
}

func TestDefaultSocketPath(t *testing.T) {
	oldRuntime := os.Getenv("XDG_RUNTIME_DIR")
	defer os.Setenv("XDG_RUNTIME_DIR", oldRuntime)

	os.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	if got := DefaultSocketPath(); got != "/run/user/1000/autolock.sock" {
		t.Errorf("DefaultSocketPath() = %q, want /run/user/1000/autolock.sock", got)
	}

	os.Unsetenv("XDG_RUNTIME_DIR")
	if got := DefaultSocketPath(); !strings.Contains(got, "autolock-") {
		t.Errorf("DefaultSocketPath() = %q, want a per-user temp socket", got)
	}
}

func TestDefaultConfigFile(t *testing.T) {
	oldXDG := os.Getenv("XDG_CONFIG_HOME")
	defer os.Setenv("XDG_CONFIG_HOME", oldXDG)

	os.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got := DefaultConfigFile(); got != "/custom/config/autolock/config.yaml" {
		t.Errorf("DefaultConfigFile() = %q, want /custom/config/autolock/config.yaml", got)
	}

	os.Unsetenv("XDG_CONFIG_HOME")
	if !strings.HasSuffix(DefaultConfigFile(), ".config/autolock/config.yaml") {
		t.Errorf("DefaultConfigFile() = %q, want a path under ~/.config", DefaultConfigFile())
	}
}
