// Package host defines the contract between the controller and a
// terminal multiplexer: the state the host reports, the events it
// delivers, and the commands it accepts.
package host

import "time"

// CommandUnavailable is the sentinel a host reports when a client has
// no observable running command.
const CommandUnavailable = "N/A"

// Tab is one tab (window) of the session.
type Tab struct {
	Position int
	Focused  bool
	Name     string
}

// FocusedTab returns the tab the host marks as focused.
func FocusedTab(tabs []Tab) (Tab, bool) {
	for _, tab := range tabs {
		if tab.Focused {
			return tab, true
		}
	}
	return Tab{}, false
}

// Pane is one pane within a tab.
type Pane struct {
	ID      string
	Focused bool
}

// PaneManifest maps tab positions to the panes they contain.
type PaneManifest map[int][]Pane

// Focused returns the focused pane under the given tab position.
func (m PaneManifest) Focused(tabPos int) (Pane, bool) {
	for _, pane := range m[tabPos] {
		if pane.Focused {
			return pane, true
		}
	}
	return Pane{}, false
}

// Client is one client attached to the host. RunningCommand holds the
// command line of the client's focused pane, or CommandUnavailable.
type Client struct {
	Current        bool
	RunningCommand string
}

// Permission names a capability the controller asks the host for.
type Permission string

const (
	PermissionReadState   Permission = "read-state"
	PermissionChangeState Permission = "change-state"
)

// EventKind names a subscribable event stream.
type EventKind string

const (
	EventModeUpdate EventKind = "mode-update"
	EventInput      EventKind = "input"
	EventTabUpdate  EventKind = "tab-update"
	EventPaneUpdate EventKind = "pane-update"
	EventClientList EventKind = "client-list"
	EventPermission EventKind = "permission"
	EventTimer      EventKind = "timer"
)

// Host is the command side of the contract. Every method is fire and
// forget: it returns once the request is on the wire, and the result
// arrives later as an event. An error reports a delivery failure only.
type Host interface {
	// RequestPermissions asks for the named capabilities. The verdict
	// arrives as a PermissionResult event.
	RequestPermissions(perms []Permission) error
	// Subscribe registers interest in the named event kinds.
	Subscribe(kinds []EventKind) error
	// ListClients requests a client snapshot, answered by a ClientList
	// event.
	ListClients() error
	// SwitchMode asks the host to change the active input mode.
	SwitchMode(mode Mode) error
	// HideSelf suppresses any UI surface the controller owns.
	HideSelf() error
	// SetTimeout schedules a single TimerFired event after d.
	SetTimeout(d time.Duration) error
}

// Conn is a live host connection: the command surface plus the event
// stream it feeds.
type Conn interface {
	Host

	// Events delivers host events in arrival order. The channel closes
	// when the connection ends.
	Events() <-chan Event
	Close() error
}
