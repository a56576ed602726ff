package host

// Event is a notification delivered by the host. The set of payload
// types is closed: every event is declared in this package, and
// consumers switch over the concrete types.
type Event interface {
	isEvent()
}

// ModeUpdate reports the active input mode.
type ModeUpdate struct {
	Mode Mode
}

// InputReceived reports keyboard activity somewhere in the session.
type InputReceived struct{}

// TabUpdate reports the current tab list.
type TabUpdate struct {
	Tabs []Tab
}

// PaneUpdate reports the current pane manifest.
type PaneUpdate struct {
	Panes PaneManifest
}

// ClientList answers a ListClients request.
type ClientList struct {
	Clients []Client
}

// PermissionResult answers a RequestPermissions request.
type PermissionResult struct {
	Granted bool
}

// TimerFired answers a SetTimeout request.
type TimerFired struct{}

func (ModeUpdate) isEvent()       {}
func (InputReceived) isEvent()    {}
func (TabUpdate) isEvent()        {}
func (PaneUpdate) isEvent()       {}
func (ClientList) isEvent()       {}
func (PermissionResult) isEvent() {}
func (TimerFired) isEvent()       {}
