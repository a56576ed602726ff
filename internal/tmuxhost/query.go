package tmuxhost

import (
	"strconv"
	"strings"

	"github.com/abdullathedruid/autolock/internal/host"
)

// Query output is requested as tab-separated format lines so fields
// with spaces (window names, commands) survive splitting.

const (
	windowFormat  = "#{window_index}\t#{window_active}\t#{window_name}"
	paneFormat    = "#{window_index}\t#{pane_id}\t#{pane_active}"
	clientFormat  = "#{client_control_mode}\t#{client_flags}\t#{client_activity}\t#{pane_current_command}"
	sessionFormat = "#{session_id}\t#{session_name}"
)

func parseWindows(output string) []host.Tab {
	var tabs []host.Tab
	for _, line := range splitLines(output) {
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) < 3 {
			continue
		}
		pos, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		tabs = append(tabs, host.Tab{
			Position: pos,
			Focused:  fields[1] == "1",
			Name:     fields[2],
		})
	}
	return tabs
}

func parsePanes(output string) host.PaneManifest {
	manifest := make(host.PaneManifest)
	for _, line := range splitLines(output) {
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) < 3 {
			continue
		}
		pos, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		manifest[pos] = append(manifest[pos], host.Pane{
			ID:      fields[1],
			Focused: fields[2] == "1",
		})
	}
	return manifest
}

// parseClients maps list-clients output to client descriptors.
// Control mode clients have no keyboard and are skipped, our own
// connection among them. The client holding terminal focus carries
// the "focused" flag; terminals without focus reporting never set it,
// so the most recently active client stands in when it is absent. A
// pane with no foreground process reports the unavailable sentinel.
func parseClients(output string) []host.Client {
	var clients []host.Client
	focusSeen := false
	latest := -1
	var latestActivity int64
	for _, line := range splitLines(output) {
		fields := strings.SplitN(line, "\t", 4)
		if len(fields) < 4 {
			continue
		}
		if fields[0] == "1" {
			continue
		}
		cmd := fields[3]
		if cmd == "" {
			cmd = host.CommandUnavailable
		}
		current := hasFlag(fields[1], "focused")
		focusSeen = focusSeen || current
		activity, _ := strconv.ParseInt(fields[2], 10, 64)
		if latest < 0 || activity > latestActivity {
			latest = len(clients)
			latestActivity = activity
		}
		clients = append(clients, host.Client{
			Current:        current,
			RunningCommand: cmd,
		})
	}
	if !focusSeen && latest >= 0 {
		clients[latest].Current = true
	}
	return clients
}

func parseSessionInfo(output string) (id, name string, ok bool) {
	lines := splitLines(output)
	if len(lines) == 0 {
		return "", "", false
	}
	id, name, found := strings.Cut(lines[0], "\t")
	if !found {
		return "", "", false
	}
	return id, name, true
}

func hasFlag(flags, want string) bool {
	for _, f := range strings.Split(flags, ",") {
		if f == want {
			return true
		}
	}
	return false
}

func splitLines(output string) []string {
	output = strings.TrimRight(output, "\n")
	if output == "" {
		return nil
	}
	return strings.Split(output, "\n")
}
