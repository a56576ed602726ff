// Package ctl carries enable, disable and toggle commands to a running
// daemon over a unix socket. The protocol is one word per line with no
// acknowledgements; unrecognized lines are dropped at the boundary.
package ctl

import "strings"

// Command is a decoded control word.
type Command int

const (
	// None is an unrecognized payload. It produces no side effects.
	None Command = iota
	Enable
	Disable
	Toggle
)

// Parse decodes one control line. Matching is case-insensitive and
// ignores surrounding whitespace; unknown input maps to None.
func Parse(line string) Command {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "enable":
		return Enable
	case "disable":
		return Disable
	case "toggle":
		return Toggle
	}
	return None
}

// Words lists the control words a daemon accepts, in display order.
func Words() []string {
	return []string{"enable", "disable", "toggle"}
}

// String returns the wire form of the command.
func (c Command) String() string {
	switch c {
	case Enable:
		return "enable"
	case Disable:
		return "disable"
	case Toggle:
		return "toggle"
	default:
		return "none"
	}
}
