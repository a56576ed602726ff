// Package trigger classifies running commands against the configured
// set of programs that should force the locked input mode.
package trigger

import (
	"strings"

	"github.com/abdullathedruid/autolock/internal/host"
)

// Set is an ordered collection of command names considered lock-worthy.
// Membership is exact string equality against either the full trimmed
// invocation or its executable basename. A Set is immutable; replace it
// wholesale to reconfigure.
type Set struct {
	names []string
}

// New returns a Set containing the given names verbatim.
func New(names ...string) Set {
	return Set{names: append([]string(nil), names...)}
}

// Parse builds a Set from a pipe-delimited spec such as "vim|nvim|fzf".
// Entries are trimmed and empty entries dropped.
func Parse(spec string) Set {
	var names []string
	for _, entry := range strings.Split(spec, "|") {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			names = append(names, entry)
		}
	}
	return Set{names: names}
}

// Default returns the stock trigger set.
func Default() Set {
	return New("vim", "nvim")
}

// Match reports whether command should cause a lock. The host's
// "no command" sentinel and blank input never match.
func (s Set) Match(command string) bool {
	cmd := strings.TrimSpace(command)
	if cmd == "" || cmd == host.CommandUnavailable {
		return false
	}
	return s.contains(cmd) || s.contains(Basename(cmd))
}

// Empty reports whether the set has no entries.
func (s Set) Empty() bool {
	return len(s.names) == 0
}

// Strings returns the entries in order.
func (s Set) Strings() []string {
	return append([]string(nil), s.names...)
}

// String renders the set in its pipe-delimited configuration form.
func (s Set) String() string {
	return strings.Join(s.names, "|")
}

func (s Set) contains(name string) bool {
	for _, n := range s.names {
		if n == name {
			return true
		}
	}
	return false
}

// Basename extracts the executable name from a command line: the text
// after the last path separator of the first whitespace-delimited
// token. An empty command yields an empty string.
func Basename(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	exe := fields[0]
	if i := strings.LastIndex(exe, "/"); i >= 0 {
		exe = exe[i+1:]
	}
	return exe
}
