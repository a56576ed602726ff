package tmuxhost

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

const listFormat = "#{session_name}\t#{session_attached}\t#{session_windows}"

// Session is one entry from a server session listing.
type Session struct {
	Name     string
	Attached bool
	Windows  int
}

// ListSessions queries the tmux server with a one-shot command, outside
// any control connection. Attach errors are easier to act on when the
// caller can say which sessions do exist. A missing server yields an
// empty listing, not an error.
func ListSessions() ([]Session, error) {
	cmd := exec.Command("tmux", "list-sessions", "-F", listFormat)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if strings.Contains(stderr.String(), "no server running") ||
			strings.Contains(stderr.String(), "no sessions") {
			return nil, nil
		}
		return nil, fmt.Errorf("tmux list-sessions: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return parseSessionList(stdout.String()), nil
}

// AvailableSessions returns a comma-separated listing of the server's
// sessions, or "" when none can be found.
func AvailableSessions() string {
	sessions, err := ListSessions()
	if err != nil || len(sessions) == 0 {
		return ""
	}
	names := make([]string, len(sessions))
	for i, s := range sessions {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}

func parseSessionList(output string) []Session {
	var sessions []Session
	for _, line := range splitLines(output) {
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) < 3 {
			continue
		}
		attached, _ := strconv.Atoi(fields[1])
		windows, err := strconv.Atoi(fields[2])
		if err != nil {
			windows = 1
		}
		sessions = append(sessions, Session{
			Name:     fields[0],
			Attached: attached > 0,
			Windows:  windows,
		})
	}
	return sessions
}
