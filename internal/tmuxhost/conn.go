// Package tmuxhost adapts tmux control mode to the host interface the
// controller runs against. Notifications become events, state queries
// run as fire-and-forget commands whose replies are parsed off the
// control stream, and the input mode is carried on the session's
// key-table option.
package tmuxhost

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
	"github.com/go-errors/errors"

	"github.com/abdullathedruid/autolock/internal/host"
)

// ErrClosed is returned when a command is issued after Close.
var ErrClosed = errors.New("control connection closed")

// ErrNotAttached is returned when a command is issued before Start.
var ErrNotAttached = errors.New("control connection not attached")

const (
	modeSubscription = "autolock_mode"
	startTimeout     = 5 * time.Second
)

// OutputChunk is a fragment of pane output captured for preview.
type OutputChunk struct {
	PaneID string
	Data   []byte
}

// Conn is a control mode connection to a tmux server. Replies to
// written commands arrive in order on the same stream, so each write
// queues a handler and the read loop resolves them first in, first
// out. All event delivery funnels through a single dispatch goroutine.
type Conn struct {
	session string
	log     *slog.Logger

	cmd   *exec.Cmd
	pty   *os.File
	stdin io.Writer

	writeMu sync.Mutex
	pending pendingQueue

	stateMu     sync.RWMutex
	sessionID   string
	sessionName string
	subscribed  map[host.EventKind]bool

	events chan host.Event
	inbox  chan host.Event
	output chan OutputChunk

	stopCh    chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once
}

// New prepares a connection to the given session. An empty session
// attaches to the server's most recently used one.
func New(session string, logger *slog.Logger) *Conn {
	if logger == nil {
		logger = slog.Default()
	}
	return &Conn{
		session:    session,
		log:        logger,
		subscribed: make(map[host.EventKind]bool),
		events:     make(chan host.Event, 64),
		inbox:      make(chan host.Event, 256),
		output:     make(chan OutputChunk, 256),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Start attaches to the tmux server and blocks until the target
// session is identified, so later commands can address it explicitly.
func (c *Conn) Start() error {
	args := []string{"-C", "attach-session"}
	if c.session != "" {
		args = append(args, "-t", c.session)
	}
	c.cmd = exec.Command("tmux", args...)

	ptmx, err := pty.Start(c.cmd)
	if err != nil {
		return fmt.Errorf("failed to start tmux control mode: %w", err)
	}
	c.pty = ptmx
	c.stdin = ptmx

	// The attach greeting is an unsolicited reply block; queue a
	// handler for it before any command is written so replies stay
	// aligned with their commands.
	c.pending.push(func(string, error) {})

	go c.dispatch()
	go c.readLoop()

	ready := make(chan error, 1)
	err = c.exec("display-message -p "+quoteFormat(sessionFormat), func(out string, err error) {
		if err != nil {
			ready <- err
			return
		}
		id, name, ok := parseSessionInfo(out)
		if !ok {
			ready <- fmt.Errorf("unexpected session info %q", out)
			return
		}
		c.setSession(id, name)
		ready <- nil
	})
	if err != nil {
		c.Close()
		return err
	}

	select {
	case err := <-ready:
		if err != nil {
			c.Close()
			return fmt.Errorf("failed to identify tmux session: %w", err)
		}
	case <-c.doneCh:
		c.Close()
		return fmt.Errorf("tmux exited during attach")
	case <-time.After(startTimeout):
		c.Close()
		return fmt.Errorf("timed out waiting for tmux session info")
	}

	c.log.Debug("attached to tmux", "session", c.SessionName(), "id", c.target())
	return nil
}

// Events returns the stream of host events. The channel closes when
// the connection shuts down, including when tmux itself exits.
func (c *Conn) Events() <-chan host.Event {
	return c.events
}

// Output returns decoded pane output for preview display. Chunks are
// dropped when the consumer lags; the stream is cosmetic.
func (c *Conn) Output() <-chan OutputChunk {
	return c.output
}

// SessionName reports the name of the attached session.
func (c *Conn) SessionName() string {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.sessionName
}

// RequestPermissions records the desired capabilities. tmux has no
// permission gate, so a grant is reported immediately.
func (c *Conn) RequestPermissions(perms []host.Permission) error {
	c.deliver(host.PermissionResult{Granted: true})
	return nil
}

// Subscribe registers interest in event kinds, installs the key-table
// subscription when mode updates are wanted, and seeds subscribers
// with the current state.
func (c *Conn) Subscribe(kinds []host.EventKind) error {
	c.stateMu.Lock()
	for _, k := range kinds {
		c.subscribed[k] = true
	}
	c.stateMu.Unlock()

	if c.wants(host.EventModeUpdate) {
		spec := fmt.Sprintf("%s:%s:%s", modeSubscription, c.target(), quoteFormat("#{key-table}"))
		if err := c.exec("refresh-client -B "+spec, nil); err != nil {
			return fmt.Errorf("failed to subscribe to key table changes: %w", err)
		}
	}

	c.refreshWindows()
	c.refreshPanes()
	c.refreshMode()
	return nil
}

// ListClients asks the server for the clients attached to the session.
// The answer arrives later as a client list event.
func (c *Conn) ListClients() error {
	return c.exec("list-clients -t "+c.target()+" -F "+quoteFormat(clientFormat), func(out string, err error) {
		if err != nil {
			c.log.Warn("client listing failed", "error", err)
			return
		}
		c.deliver(host.ClientList{Clients: parseClients(out)})
	})
}

// SwitchMode installs the key table for the given mode on the session.
// The resulting mode change is reported back through the subscription.
func (c *Conn) SwitchMode(mode host.Mode) error {
	table := modeTable(mode)
	if err := c.exec(fmt.Sprintf("set-option -t %s key-table %s", c.target(), table), nil); err != nil {
		return fmt.Errorf("failed to set key table %q: %w", table, err)
	}
	return nil
}

// HideSelf is a no-op. The controller runs headless beside tmux and
// has no surface to hide.
func (c *Conn) HideSelf() error {
	return nil
}

// SetTimeout schedules a timer event after the given duration.
func (c *Conn) SetTimeout(d time.Duration) error {
	select {
	case <-c.stopCh:
		return ErrClosed
	default:
	}
	time.AfterFunc(d, func() {
		c.deliver(host.TimerFired{})
	})
	return nil
}

// Close tears down the tmux process and stops event delivery. It is
// safe to call more than once.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopCh)
		if c.pty != nil {
			c.pty.Close()
		}
		if c.cmd != nil && c.cmd.Process != nil {
			c.cmd.Process.Kill()
			c.cmd.Wait()
		}
		c.pending.fail(ErrClosed)
	})
	return nil
}

// exec writes one command line and queues its reply handler. Replies
// are correlated purely by order, so the push and the write happen
// under the same lock.
func (c *Conn) exec(command string, onDone replyFunc) error {
	select {
	case <-c.stopCh:
		return ErrClosed
	default:
	}
	if c.stdin == nil {
		return ErrNotAttached
	}
	if onDone == nil {
		onDone = func(string, error) {}
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.pending.push(onDone)
	if _, err := c.stdin.Write([]byte(command + "\n")); err != nil {
		c.pending.dropNewest()
		return fmt.Errorf("failed to write control command: %w", err)
	}
	return nil
}

func (c *Conn) readLoop() {
	defer func() {
		close(c.doneCh)
		c.Close()
	}()

	scanner := bufio.NewScanner(c.pty)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var reply *replyState
	for scanner.Scan() {
		reply = c.handleLine(scanner.Text(), reply)
	}
	if err := scanner.Err(); err != nil {
		c.log.Debug("control stream closed", "error", err)
	}
}

type replyState struct {
	lines []string
}

// handleLine routes one control line. Lines between %begin and %end
// (or %error) belong to the oldest pending command; everything else is
// a notification.
func (c *Conn) handleLine(line string, reply *replyState) *replyState {
	switch {
	case strings.HasPrefix(line, "%begin"):
		return &replyState{}
	case strings.HasPrefix(line, "%end"):
		if reply != nil {
			c.resolveReply(strings.Join(reply.lines, "\n"), nil)
		}
		return nil
	case strings.HasPrefix(line, "%error"):
		if reply != nil {
			c.resolveReply("", fmt.Errorf("tmux: %s", strings.Join(reply.lines, "\n")))
		}
		return nil
	default:
		if reply != nil {
			reply.lines = append(reply.lines, line)
			return reply
		}
		c.handleNotification(line)
		return nil
	}
}

func (c *Conn) resolveReply(output string, err error) {
	fn, ok := c.pending.pop()
	if !ok {
		c.log.Debug("unsolicited reply", "output", output)
		return
	}
	fn(output, err)
}

func (c *Conn) handleNotification(line string) {
	switch notificationWord(line) {
	case "%output":
		paneID, payload, ok := parseOutput(line)
		if !ok {
			return
		}
		c.preview(paneID, payload)
		if c.wants(host.EventInput) {
			c.deliver(host.InputReceived{})
		}
	case "%subscription-changed":
		name, value, ok := parseSubscription(line)
		if !ok || name != modeSubscription {
			return
		}
		if c.wants(host.EventModeUpdate) {
			c.deliver(host.ModeUpdate{Mode: tableMode(value)})
		}
	case "%session-window-changed":
		c.refreshWindows()
		c.refreshPanes()
	case "%window-add", "%window-close", "%window-renamed",
		"%unlinked-window-add", "%unlinked-window-close":
		c.refreshWindows()
	case "%window-pane-changed", "%layout-change":
		c.refreshPanes()
	case "%session-changed":
		if id, name, ok := parseSessionChanged(line); ok {
			c.setSession(id, name)
		}
	}
}

func (c *Conn) refreshWindows() {
	if !c.wants(host.EventTabUpdate) {
		return
	}
	err := c.exec("list-windows -t "+c.target()+" -F "+quoteFormat(windowFormat), func(out string, err error) {
		if err != nil {
			c.log.Warn("window listing failed", "error", err)
			return
		}
		c.deliver(host.TabUpdate{Tabs: parseWindows(out)})
	})
	if err != nil {
		c.log.Warn("failed to request window listing", "error", err)
	}
}

func (c *Conn) refreshPanes() {
	if !c.wants(host.EventPaneUpdate) {
		return
	}
	err := c.exec("list-panes -s -t "+c.target()+" -F "+quoteFormat(paneFormat), func(out string, err error) {
		if err != nil {
			c.log.Warn("pane listing failed", "error", err)
			return
		}
		c.deliver(host.PaneUpdate{Panes: parsePanes(out)})
	})
	if err != nil {
		c.log.Warn("failed to request pane listing", "error", err)
	}
}

func (c *Conn) refreshMode() {
	if !c.wants(host.EventModeUpdate) {
		return
	}
	err := c.exec("show-options -qv -t "+c.target()+" key-table", func(out string, err error) {
		if err != nil {
			c.log.Warn("key table lookup failed", "error", err)
			return
		}
		c.deliver(host.ModeUpdate{Mode: tableMode(strings.TrimSpace(out))})
	})
	if err != nil {
		c.log.Warn("failed to request key table", "error", err)
	}
}

// deliver hands an event to the dispatch goroutine. The reader must
// never block on a slow consumer, so a full queue drops the event.
func (c *Conn) deliver(ev host.Event) {
	select {
	case c.inbox <- ev:
	default:
		c.log.Debug("event dropped, consumer behind", "event", fmt.Sprintf("%T", ev))
	}
}

func (c *Conn) dispatch() {
	defer close(c.events)
	for {
		select {
		case <-c.stopCh:
			return
		case ev := <-c.inbox:
			select {
			case c.events <- ev:
			case <-c.stopCh:
				return
			}
		}
	}
}

func (c *Conn) preview(paneID, payload string) {
	chunk := OutputChunk{PaneID: paneID, Data: []byte(payload)}
	select {
	case c.output <- chunk:
	default:
		// Preview is cosmetic; drop rather than block the reader.
	}
}

func (c *Conn) setSession(id, name string) {
	c.stateMu.Lock()
	c.sessionID = id
	c.sessionName = name
	c.stateMu.Unlock()
}

func (c *Conn) target() string {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.sessionID
}

func (c *Conn) wants(kind host.EventKind) bool {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.subscribed[kind]
}

func quoteFormat(f string) string {
	return `"` + f + `"`
}

type replyFunc func(output string, err error)

// pendingQueue holds reply handlers for commands in flight.
type pendingQueue struct {
	mu      sync.Mutex
	waiters []replyFunc
}

func (q *pendingQueue) push(fn replyFunc) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.waiters = append(q.waiters, fn)
}

func (q *pendingQueue) pop() (replyFunc, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.waiters) == 0 {
		return nil, false
	}
	fn := q.waiters[0]
	q.waiters = q.waiters[1:]
	return fn, true
}

// dropNewest rolls back a push whose command never reached the server.
func (q *pendingQueue) dropNewest() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.waiters) > 0 {
		q.waiters = q.waiters[:len(q.waiters)-1]
	}
}

// fail resolves every outstanding handler with the given error.
func (q *pendingQueue) fail(err error) {
	q.mu.Lock()
	waiters := q.waiters
	q.waiters = nil
	q.mu.Unlock()
	for _, fn := range waiters {
		fn("", err)
	}
}
