// Package guard decides whether a trigger verdict warrants an
// input-mode switch without fighting modes the user chose manually.
package guard

import "github.com/abdullathedruid/autolock/internal/host"

// Managed reports whether m is one of the two modes this tool owns
// transitions between.
func Managed(m host.Mode) bool {
	return m == host.ModeNormal || m == host.ModeLocked
}

// Decide returns the mode to switch to, if any. A trigger command
// locks; the end of a trigger command unlocks only a locked mode. A
// switch is only ever issued from inside the managed pair: any other
// last-known mode was put there by the user and is left alone, even
// when a trigger is running.
func Decide(isTrigger bool, last host.Mode) (host.Mode, bool) {
	target := last
	switch {
	case isTrigger:
		target = host.ModeLocked
	case last == host.ModeLocked:
		target = host.ModeNormal
	}
	if target == last || !Managed(last) {
		return "", false
	}
	return target, true
}
