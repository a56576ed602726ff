// Package inspect provides a live TUI over a running controller: an
// event feed, the session state card, the loaded configuration and a
// preview of the watched pane. The embedded controller runs in dry
// run, so inspecting a session never fights the daemon managing it.
package inspect

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"

	"github.com/abdullathedruid/autolock/internal/config"
	"github.com/abdullathedruid/autolock/internal/controller"
	"github.com/abdullathedruid/autolock/internal/ctl"
	"github.com/abdullathedruid/autolock/internal/host"
	"github.com/abdullathedruid/autolock/internal/tmuxhost"
	"github.com/abdullathedruid/autolock/internal/trigger"
	"github.com/abdullathedruid/autolock/internal/ui"
)

const (
	bannerView = "banner"
	stateView  = "state"
	mainView   = "main"
	statusView = "status"
	helpView   = "help"
)

// Session is the connection surface the inspector consumes.
type Session interface {
	host.Conn
	Output() <-chan tmuxhost.OutputChunk
	SessionName() string
}

// Inspector drives the TUI. One goroutine owns the controller and
// consumes host events; gocui renders from the snapshot it maintains.
type Inspector struct {
	conn    Session
	ctrl    *controller.Controller
	snap    *snapshot
	term    *Terminal
	cfgText string
	version string

	cmds   chan ctl.Command
	stopCh chan struct{}
	doneCh chan struct{}

	focusedOnce bool
}

// New wires an inspector around an attached session.
func New(conn Session, cfg *config.Config, version string) *Inspector {
	snap := newSnapshot()
	logger := slog.New(newFeedHandler(snap, slog.LevelDebug))
	ctrl := controller.New(conn, controller.Settings{
		Enabled:  cfg.Enabled,
		Triggers: trigger.New(cfg.Triggers...),
		Reaction: cfg.Reaction(),
	}, controller.Options{DryRun: true, Logger: logger})

	return &Inspector{
		conn:    conn,
		ctrl:    ctrl,
		snap:    snap,
		term:    NewTerminal(24, 80),
		cfgText: renderConfig(cfg),
		version: version,
		cmds:    make(chan ctl.Command, 4),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Run starts the controller and blocks in the gocui main loop until
// the user quits or the session ends.
func (i *Inspector) Run() error {
	g, err := gocui.NewGui(gocui.NewGuiOpts{
		OutputMode: gocui.OutputTrue,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize gui: %w", err)
	}
	defer g.Close()

	if err := i.ctrl.Start(); err != nil {
		return err
	}
	i.snap.observe(i.ctrl, nil)

	go i.loop(g)
	defer func() {
		close(i.stopCh)
		<-i.doneCh
	}()

	g.SetManagerFunc(i.layout)
	if err := i.keybindings(g); err != nil {
		return err
	}

	if err := g.MainLoop(); err != nil && !errors.Is(err, gocui.ErrQuit) && err.Error() != "quit" {
		return err
	}
	return nil
}

// loop owns the controller. Host events, pane output and key-driven
// commands are serialized here; each one ends with a redraw request.
func (i *Inspector) loop(g *gocui.Gui) {
	defer close(i.doneCh)

	events := i.conn.Events()
	output := i.conn.Output()
	for {
		select {
		case <-i.stopCh:
			return
		default:
		}

		select {
		case <-i.stopCh:
			return
		case ev, ok := <-events:
			if !ok {
				// Session ended underneath us.
				g.Update(func(*gocui.Gui) error { return gocui.ErrQuit })
				return
			}
			i.ctrl.HandleEvent(ev)
			i.snap.observe(i.ctrl, ev)
			i.redraw(g)
		case cmd := <-i.cmds:
			i.ctrl.HandleControl(cmd)
			i.snap.observe(i.ctrl, nil)
			i.redraw(g)
		case chunk, ok := <-output:
			if !ok {
				output = nil
				continue
			}
			i.feedPreview(chunk)
			if i.snap.currentView() == viewPreview {
				i.redraw(g)
			}
		}
	}
}

func (i *Inspector) redraw(g *gocui.Gui) {
	select {
	case <-i.stopCh:
		return
	default:
	}
	g.Update(func(*gocui.Gui) error { return nil })
}

func (i *Inspector) feedPreview(chunk tmuxhost.OutputChunk) {
	pane := i.snap.focusedPane()
	if pane == "" || chunk.PaneID != pane {
		return
	}
	i.term.Follow(pane)
	i.term.Write(chunk.Data)
}

func (i *Inspector) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	if maxX < 24 || maxY < 10 {
		return nil
	}

	phase, mode, enabled, focusLine, command, triggers, reaction, lastPass, transitions := i.snap.state()

	bv, err := g.SetView(bannerView, 0, 0, maxX-1, 2, 0)
	if err != nil {
		// Check both errors.Is and string match (gocui may return wrapped errors)
		if !errors.Is(err, gocui.ErrUnknownView) && err.Error() != "unknown view" {
			return err
		}
	}
	ui.ConfigureModeView(bv, enabled, mode)
	bv.Clear()
	banner := fmt.Sprintf("%s session %q  %s  phase %s",
		ui.ModeIcon(enabled, mode), i.conn.SessionName(), focusLine, phase)
	fmt.Fprint(bv, ui.ModeColor(enabled, mode)+ui.Center(banner, maxX-2)+ui.ColorReset)

	cardW := 36
	if cardW > maxX/2 {
		cardW = maxX / 2
	}

	sv, err := g.SetView(stateView, 0, 3, cardW-1, maxY-3, 0)
	if err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) && err.Error() != "unknown view" {
			return err
		}
	}
	sv.Frame = false
	sv.Clear()
	card := ui.Card{
		Title:       i.conn.SessionName(),
		Status:      ui.ModeText(enabled, mode),
		Icon:        ui.ModeIcon(enabled, mode),
		LastSeen:    lastPassText(lastPass),
		Command:     command,
		Note:        "triggers: " + triggers,
		History:     transitions,
		Width:       cardW - 2,
		Selected:    enabled,
		BorderColor: ui.ModeColor(enabled, mode),
	}
	if maxY < 16 {
		card.Size = ui.CardSizeCompact
	}
	for _, line := range card.Render() {
		fmt.Fprintln(sv, line)
	}
	fmt.Fprintln(sv, "")
	fmt.Fprintln(sv, " "+focusLine)
	fmt.Fprintln(sv, " delay: "+reaction.String())

	mv, err := g.SetView(mainView, cardW, 3, maxX-1, maxY-3, 0)
	if err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) && err.Error() != "unknown view" {
			return err
		}
	}
	mv.Clear()
	innerW := maxX - cardW - 3
	innerH := maxY - 7
	switch i.snap.currentView() {
	case viewConfig:
		ui.ConfigureMainView(mv, " config ")
		fmt.Fprint(mv, i.cfgText)
	case viewPreview:
		ui.ConfigurePreviewView(mv, i.term.Pane())
		i.term.Fit(innerH, innerW)
		ui.RenderTerminal(mv, i.term)
	default:
		ui.ConfigureMainView(mv, " events ")
		for _, line := range i.snap.feedTail(innerH) {
			fmt.Fprintln(mv, ui.Truncate(line, innerW))
		}
	}

	sb, err := g.SetView(statusView, -1, maxY-2, maxX, maxY, 0)
	if err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) && err.Error() != "unknown view" {
			return err
		}
	}
	sb.Frame = false
	sb.Clear()
	fmt.Fprint(sb, ui.RenderStatusBar(i.conn.SessionName(), ui.ModeText(enabled, mode),
		triggers, reaction.String(), i.version))

	if i.snap.helpVisible() {
		x0, y0, x1, y1 := ui.ModalDimensions(maxX, maxY, 46, 20)
		hv, err := g.SetView(helpView, x0, y0, x1, y1, 0)
		if err != nil {
			if !errors.Is(err, gocui.ErrUnknownView) && err.Error() != "unknown view" {
				return err
			}
		}
		ui.ConfigureHelpModal(hv)
		hv.Clear()
		fmt.Fprint(hv, ui.HelpText())
		if _, err := g.SetViewOnTop(helpView); err != nil {
			return err
		}
	} else {
		if err := g.DeleteView(helpView); err != nil && !errors.Is(err, gocui.ErrUnknownView) && err.Error() != "unknown view" {
			return err
		}
	}

	if !i.focusedOnce {
		if _, err := g.SetCurrentView(mainView); err != nil {
			return err
		}
		i.focusedOnce = true
	}

	return nil
}

func (i *Inspector) keybindings(g *gocui.Gui) error {
	quit := func(*gocui.Gui, *gocui.View) error { return gocui.ErrQuit }

	bindings := []struct {
		key     interface{}
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{'q', quit},
		{gocui.KeyCtrlC, quit},
		{'e', i.controlKey(ctl.Enable)},
		{'d', i.controlKey(ctl.Disable)},
		{'t', i.controlKey(ctl.Toggle)},
		{'c', i.viewKey(viewConfig)},
		{'p', i.viewKey(viewPreview)},
		{'?', i.helpKey},
		{gocui.KeyEsc, i.escKey},
	}
	for _, b := range bindings {
		if err := g.SetKeybinding("", b.key, gocui.ModNone, b.handler); err != nil {
			return err
		}
	}
	return nil
}

// controlKey queues a state command for the event loop. Keys must not
// touch the controller directly; the loop goroutine owns it.
func (i *Inspector) controlKey(cmd ctl.Command) func(*gocui.Gui, *gocui.View) error {
	return func(*gocui.Gui, *gocui.View) error {
		select {
		case i.cmds <- cmd:
		default:
			// Queue full; the key can be pressed again.
		}
		return nil
	}
}

func (i *Inspector) viewKey(v viewName) func(*gocui.Gui, *gocui.View) error {
	return func(*gocui.Gui, *gocui.View) error {
		i.snap.setView(v)
		return nil
	}
}

func (i *Inspector) helpKey(*gocui.Gui, *gocui.View) error {
	i.snap.toggleHelp()
	return nil
}

func (i *Inspector) escKey(*gocui.Gui, *gocui.View) error {
	i.snap.closeOverlays()
	return nil
}

func lastPassText(lastPass time.Time) string {
	if lastPass.IsZero() {
		return "no inspection yet"
	}
	return ui.FormatDuration(int64(time.Since(lastPass).Seconds()))
}

// renderConfig highlights the configuration the way it would sit in
// the config file.
func renderConfig(cfg *config.Config) string {
	src := cfg.Render()
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, src, "yaml", "terminal256", "monokai"); err != nil {
		return src
	}
	return buf.String()
}
