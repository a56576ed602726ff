// Package focus tracks which tab and pane currently hold keyboard
// focus, merged from the snapshots a host delivers.
package focus

import "github.com/abdullathedruid/autolock/internal/host"

// Location identifies the pane believed to hold focus. Either side may
// be unknown; an unknown side never compares equal to a reported value,
// so the first report after a reset always registers as a change.
type Location struct {
	tabPos    int
	tabKnown  bool
	paneID    string
	paneKnown bool
}

// Tab returns the tracked tab position.
func (l Location) Tab() (int, bool) {
	return l.tabPos, l.tabKnown
}

// Pane returns the tracked pane id.
func (l Location) Pane() (string, bool) {
	return l.paneID, l.paneKnown
}

// Tracker merges tab and pane snapshots into a Location. The zero
// value tracks nothing. It holds no timers and makes no host calls;
// the owning event loop serializes access.
type Tracker struct {
	loc Location
}

// Location returns the current focus.
func (t *Tracker) Location() Location {
	return t.loc
}

// ObserveTabs records a tab snapshot. When the focused tab moves, the
// tracked pane is discarded: pane ids are only comparable within one
// tab. A snapshot without a focused tab changes nothing.
func (t *Tracker) ObserveTabs(tabs []host.Tab) {
	tab, ok := host.FocusedTab(tabs)
	if !ok {
		return
	}
	if t.loc.tabKnown && t.loc.tabPos == tab.Position {
		return
	}
	t.loc = Location{tabPos: tab.Position, tabKnown: true}
}

// ObservePanes records a pane manifest and reports whether the focused
// pane within the tracked tab changed. Panes under other tabs are
// ignored; a manifest without a focused pane for the tracked tab
// changes nothing.
func (t *Tracker) ObservePanes(manifest host.PaneManifest) bool {
	if !t.loc.tabKnown {
		return false
	}
	pane, ok := manifest.Focused(t.loc.tabPos)
	if !ok {
		return false
	}
	if t.loc.paneKnown && t.loc.paneID == pane.ID {
		return false
	}
	t.loc.paneID = pane.ID
	t.loc.paneKnown = true
	return true
}
