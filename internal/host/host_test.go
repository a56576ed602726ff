package host

import "testing"

func TestFocusedTab(t *testing.T) {
	tabs := []Tab{
		{Position: 0, Name: "code"},
		{Position: 1, Name: "logs", Focused: true},
		{Position: 2, Name: "scratch"},
	}

	tab, ok := FocusedTab(tabs)
	if !ok {
		t.Fatal("expected a focused tab")
	}
	if tab.Position != 1 {
		t.Errorf("tab.Position = %d, want 1", tab.Position)
	}
}

func TestFocusedTabNone(t *testing.T) {
	tabs := []Tab{{Position: 0}, {Position: 1}}
	if _, ok := FocusedTab(tabs); ok {
		t.Error("expected no focused tab")
	}
	if _, ok := FocusedTab(nil); ok {
		t.Error("expected no focused tab for nil slice")
	}
}

func TestPaneManifestFocused(t *testing.T) {
	manifest := PaneManifest{
		0: {{ID: "%0"}, {ID: "%3", Focused: true}},
		1: {{ID: "%5"}},
	}

	pane, ok := manifest.Focused(0)
	if !ok {
		t.Fatal("expected a focused pane in tab 0")
	}
	if pane.ID != "%3" {
		t.Errorf("pane.ID = %q, want %q", pane.ID, "%3")
	}

	// Tab 1 has panes but none focused
	if _, ok := manifest.Focused(1); ok {
		t.Error("expected no focused pane in tab 1")
	}

	// Unknown tab position
	if _, ok := manifest.Focused(7); ok {
		t.Error("expected no focused pane for unknown tab")
	}
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeNormal, "normal"},
		{ModeLocked, "locked"},
		{Mode("resize"), "resize"},
		{Mode(""), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%q).String() = %q, want %q", string(tt.mode), got, tt.want)
		}
	}
}
