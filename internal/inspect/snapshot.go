package inspect

import (
	"fmt"
	"sync"
	"time"

	"github.com/abdullathedruid/autolock/internal/controller"
	"github.com/abdullathedruid/autolock/internal/focus"
	"github.com/abdullathedruid/autolock/internal/host"
)

const (
	feedCap       = 200
	transitionCap = 5
)

type viewName int

const (
	viewFeed viewName = iota
	viewConfig
	viewPreview
)

// snapshot mirrors controller state for the render goroutine. The
// event loop writes it after every handled event; the layout reads it.
// Nothing else may touch the controller from the gocui side.
type snapshot struct {
	mu sync.Mutex

	phase    controller.Phase
	mode     host.Mode
	enabled  bool
	focus    string
	pane     string
	command  string
	triggers string
	reaction time.Duration
	lastPass time.Time

	transitions []string
	feed        []string

	view     viewName
	helpOpen bool
}

func newSnapshot() *snapshot {
	return &snapshot{mode: host.ModeNormal}
}

// observe pulls the controller state after one event or command. The
// event is the one just handled, or nil for a control command.
func (s *snapshot) observe(c *controller.Controller, ev host.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mode := c.Mode()
	if mode != s.mode {
		line := fmt.Sprintf("%s  %s → %s", time.Now().Format("15:04:05"), s.mode, mode)
		s.transitions = append([]string{line}, s.transitions...)
		if len(s.transitions) > transitionCap {
			s.transitions = s.transitions[:transitionCap]
		}
	}
	s.mode = mode
	s.phase = c.Phase()
	s.enabled = c.Enabled()
	s.command = c.LastCommand()
	s.triggers = c.Triggers().String()
	s.reaction = c.Reaction()

	loc := c.Focus()
	s.focus = renderFocus(loc)
	if pane, ok := loc.Pane(); ok {
		s.pane = pane
	} else {
		s.pane = ""
	}

	if _, ok := ev.(host.ClientList); ok {
		s.lastPass = time.Now()
	}
}

func renderFocus(loc focus.Location) string {
	tab, ok := loc.Tab()
	if !ok {
		return "focus unknown"
	}
	pane, ok := loc.Pane()
	if !ok {
		return fmt.Sprintf("tab %d", tab)
	}
	return fmt.Sprintf("tab %d, pane %s", tab, pane)
}

func (s *snapshot) appendFeed(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feed = append(s.feed, line)
	if len(s.feed) > feedCap {
		s.feed = append([]string(nil), s.feed[len(s.feed)-feedCap:]...)
	}
}

// feedTail returns the newest n feed lines, oldest first.
func (s *snapshot) feedTail(n int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 || len(s.feed) == 0 {
		return nil
	}
	if n > len(s.feed) {
		n = len(s.feed)
	}
	return append([]string(nil), s.feed[len(s.feed)-n:]...)
}

func (s *snapshot) setView(v viewName) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view == v {
		s.view = viewFeed
		return
	}
	s.view = v
}

func (s *snapshot) currentView() viewName {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *snapshot) toggleHelp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.helpOpen = !s.helpOpen
}

func (s *snapshot) closeOverlays() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.helpOpen = false
	s.view = viewFeed
}

func (s *snapshot) helpVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.helpOpen
}

func (s *snapshot) focusedPane() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pane
}

// state returns the fields the layout renders, in one locked read.
func (s *snapshot) state() (phase controller.Phase, mode host.Mode, enabled bool, focusLine, command, triggers string, reaction time.Duration, lastPass time.Time, transitions []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase, s.mode, s.enabled, s.focus, s.command, s.triggers, s.reaction, s.lastPass, append([]string(nil), s.transitions...)
}
