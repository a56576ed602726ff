package host

// Mode identifies an input mode reported by the host. The controller
// manages transitions between ModeNormal and ModeLocked only; any other
// value is carried through verbatim so host-defined modes survive
// untouched.
type Mode string

const (
	// ModeNormal is the host's default input handling.
	ModeNormal Mode = "normal"
	// ModeLocked routes all input to the focused pane, bypassing the
	// host's keybindings.
	ModeLocked Mode = "locked"
)

// String returns the mode name, or a placeholder for the zero value.
func (m Mode) String() string {
	if m == "" {
		return "unknown"
	}
	return string(m)
}
