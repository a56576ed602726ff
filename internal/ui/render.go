// Package ui provides gocui view management and rendering utilities.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/jesseduffield/gocui"

	"github.com/abdullathedruid/autolock/internal/host"
)

var (
	lightFrame = []rune{'─', '│', '┌', '┐', '└', '┘'}
	heavyFrame = []rune{'━', '┃', '┏', '┓', '┗', '┛'}
)

// Renderer draws captured terminal content into a writer.
type Renderer interface {
	Render(w io.Writer) error
}

// RenderTerminal renders a terminal snapshot into a gocui view.
// Recovers from panics that can occur during resize race conditions.
func RenderTerminal(v *gocui.View, term Renderer) {
	// Recover from panics during resize race conditions
	defer func() {
		if r := recover(); r != nil {
			// Silently ignore - will redraw on next update
		}
	}()

	var sb strings.Builder
	if err := term.Render(&sb); err != nil {
		return
	}
	fmt.Fprint(v, sb.String())
}

// ConfigureModeView styles the state panel after the controller state:
// a heavy magenta frame while locked, green while normal, plain while
// disabled.
func ConfigureModeView(v *gocui.View, enabled bool, mode host.Mode) {
	v.Title = fmt.Sprintf(" %s ", ModeText(enabled, mode))
	switch {
	case !enabled:
		v.FrameRunes = lightFrame
		v.FrameColor = gocui.ColorDefault
	case mode == host.ModeLocked:
		v.FrameRunes = heavyFrame
		v.FrameColor = gocui.ColorMagenta
	default:
		v.FrameRunes = lightFrame
		v.FrameColor = gocui.ColorGreen
	}
	v.Frame = true
	v.Wrap = false
}

// ConfigurePreviewView styles the pane preview after the pane it follows.
func ConfigurePreviewView(v *gocui.View, paneID string) {
	if paneID == "" {
		v.Title = " preview "
	} else {
		v.Title = fmt.Sprintf(" preview %s ", paneID)
	}
	v.Frame = true
	v.FrameRunes = lightFrame
	v.FrameColor = gocui.ColorCyan
	v.Wrap = false
}

// ConfigureMainView applies the plain frame used by the feed and
// config views, undoing any styling a previous occupant left behind.
func ConfigureMainView(v *gocui.View, title string) {
	v.Title = title
	v.Frame = true
	v.FrameRunes = lightFrame
	v.FrameColor = gocui.ColorDefault
	v.Wrap = false
}

// ConfigureHelpModal sets up the help overlay view.
func ConfigureHelpModal(v *gocui.View) {
	v.Title = " help "
	v.Frame = true
	v.FrameRunes = heavyFrame
	v.FrameColor = gocui.ColorYellow
	v.Wrap = true
}

// ModalDimensions calculates centered modal dimensions.
func ModalDimensions(maxX, maxY, width, height int) (x0, y0, x1, y1 int) {
	x0 = (maxX - width) / 2
	y0 = (maxY - height) / 2
	x1 = x0 + width
	y1 = y0 + height
	return
}
