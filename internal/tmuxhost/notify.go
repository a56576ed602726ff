package tmuxhost

import (
	"regexp"
	"strconv"
	"strings"
)

// Control mode prefixes every asynchronous notification with a %word.
// Reply blocks are bracketed by %begin and %end (or %error) and are
// handled separately in the read loop.

var outputPattern = regexp.MustCompile(`^%output (%\d+) (.*)$`)

// notificationWord returns the leading %word of a control line.
func notificationWord(line string) string {
	if i := strings.IndexByte(line, ' '); i >= 0 {
		return line[:i]
	}
	return line
}

// parseOutput splits an %output notification into the pane id and the
// decoded payload. tmux escapes non-printable bytes as \nnn octal.
func parseOutput(line string) (paneID, payload string, ok bool) {
	m := outputPattern.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], decodeOctal(m[2]), true
}

// parseSubscription splits a %subscription-changed notification into
// the subscription name and the expanded format value. The value
// follows a " : " separator and may itself contain colons.
func parseSubscription(line string) (name, value string, ok bool) {
	rest, found := strings.CutPrefix(line, "%subscription-changed ")
	if !found {
		return "", "", false
	}
	head, value, found := strings.Cut(rest, " : ")
	if !found {
		return "", "", false
	}
	fields := strings.Fields(head)
	if len(fields) == 0 {
		return "", "", false
	}
	return fields[0], value, true
}

// parseSessionChanged extracts the session id and name from a
// %session-changed notification.
func parseSessionChanged(line string) (id, name string, ok bool) {
	rest, found := strings.CutPrefix(line, "%session-changed ")
	if !found {
		return "", "", false
	}
	id, name, found = strings.Cut(rest, " ")
	if !found {
		return rest, "", true
	}
	return id, name, true
}

// decodeOctal reverses the \nnn escaping tmux applies to pane output.
// Literal backslashes arrive doubled.
func decodeOctal(s string) string {
	var out strings.Builder
	i := 0
	for i < len(s) {
		if s[i] == '\\' && i+3 < len(s) {
			if n, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				out.WriteByte(byte(n))
				i += 4
				continue
			}
		}
		if s[i] == '\\' && i+1 < len(s) && s[i+1] == '\\' {
			out.WriteByte('\\')
			i += 2
			continue
		}
		out.WriteByte(s[i])
		i++
	}
	return out.String()
}
