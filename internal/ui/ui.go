// Package ui provides shared rendering helpers for the inspector.
package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/abdullathedruid/autolock/internal/host"
)

// Colors and styles for the TUI
const (
	ColorReset   = "\033[0m"
	ColorBold    = "\033[1m"
	ColorDim     = "\033[2m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorBlue    = "\033[34m"
	ColorMagenta = "\033[35m"
	ColorCyan    = "\033[36m"
	ColorWhite   = "\033[37m"
)

// ModeIcon returns the icon for the controller state.
func ModeIcon(enabled bool, mode host.Mode) string {
	if !enabled {
		return "○" // Empty circle while disabled
	}
	switch mode {
	case host.ModeLocked:
		return "●" // Filled circle for locked
	case host.ModeNormal:
		return "◐" // Half circle for normal
	default:
		return "◑" // Other half for foreign modes
	}
}

// ModeColor returns the color for the controller state.
func ModeColor(enabled bool, mode host.Mode) string {
	if !enabled {
		return ColorDim
	}
	switch mode {
	case host.ModeLocked:
		return ColorMagenta
	case host.ModeNormal:
		return ColorGreen
	default:
		return ColorYellow
	}
}

// ModeText returns the text for the controller state.
func ModeText(enabled bool, mode host.Mode) string {
	if !enabled {
		return "DISABLED"
	}
	switch mode {
	case host.ModeLocked:
		return "LOCKED"
	case host.ModeNormal:
		return "NORMAL"
	default:
		return strings.ToUpper(string(mode))
	}
}

// CardSize represents the size mode for rendering cards.
type CardSize int

const (
	CardSizeLarge   CardSize = iota // Full card with all details
	CardSizeCompact                 // Minimal card with essential info
)

// Card renders the session state card for the inspector.
type Card struct {
	Title       string
	Status      string
	Icon        string
	LastSeen    string   // Age of the last inspection pass
	Command     string   // Foreground command last reported
	Note        string   // Config summary line
	History     []string // Recent mode transitions, newest first
	Width       int
	Selected    bool
	BorderColor string   // ANSI color code for the border based on mode
	Size        CardSize // Card size mode (Large or Compact)
}

// Render renders the card as a string slice (one per line).
func (c *Card) Render() []string {
	if c.Size == CardSizeCompact {
		return c.renderCompact()
	}
	return c.renderLarge()
}

// renderLarge renders the full-size card with all details.
func (c *Card) renderLarge() []string {
	width := c.Width
	if width < 20 {
		width = 30
	}

	// Calculate inner width (accounting for borders and padding)
	innerWidth := width - 4 // 2 for borders, 2 for padding

	lines := make([]string, 0, 9)

	// Get border color (default to no color if not set)
	borderColor := c.BorderColor
	colorReset := ""
	if borderColor != "" {
		colorReset = ColorReset
	}

	// Top border
	borderChar := "─"
	corner := "┌"
	endCorner := "┐"
	if c.Selected {
		corner = "┏"
		endCorner = "┓"
		borderChar = "━"
	}
	topBorder := corner + c.Title + " " + strings.Repeat(borderChar, max(0, width-runewidth.StringWidth(c.Title)-3)) + endCorner
	lines = append(lines, borderColor+topBorder+colorReset)

	// Status line with the watched command if present
	statusLine := fmt.Sprintf("%s %s", c.Icon, c.Status)
	if c.Command != "" {
		statusLine = fmt.Sprintf("%s %s: %s", c.Icon, c.Status, c.Command)
	}
	lines = append(lines, c.borderLine(truncate(statusLine, innerWidth), innerWidth))

	// Last inspection line
	lines = append(lines, c.borderLine(c.LastSeen, innerWidth))

	// Transition history lines (show up to 5, one per line for large cards)
	historyCount := min(len(c.History), 5)
	for i := 0; i < historyCount; i++ {
		lines = append(lines, c.borderLine(truncate(c.History[i], innerWidth), innerWidth))
	}
	// Pad with empty lines if fewer than 5 transitions
	for i := historyCount; i < 5; i++ {
		lines = append(lines, c.borderLine("", innerWidth))
	}

	// Context line: config summary or empty
	lines = append(lines, c.borderLine(truncate(c.Note, innerWidth), innerWidth))

	// Bottom border
	bottomCorner := "└"
	bottomEndCorner := "┘"
	if c.Selected {
		bottomCorner = "┗"
		bottomEndCorner = "┛"
		borderChar = "━"
	}
	bottomBorder := bottomCorner + strings.Repeat(borderChar, width-2) + bottomEndCorner
	lines = append(lines, borderColor+bottomBorder+colorReset)

	return lines
}

// renderCompact renders a minimal card with just essential info.
func (c *Card) renderCompact() []string {
	width := c.Width
	if width < 20 {
		width = 30
	}

	// Calculate inner width (accounting for borders and padding)
	innerWidth := width - 4 // 2 for borders, 2 for padding

	lines := make([]string, 0, 3)

	// Get border color (default to no color if not set)
	borderColor := c.BorderColor
	colorReset := ""
	if borderColor != "" {
		colorReset = ColorReset
	}

	// Top border
	borderChar := "─"
	corner := "┌"
	endCorner := "┐"
	if c.Selected {
		corner = "┏"
		endCorner = "┓"
		borderChar = "━"
	}
	topBorder := corner + c.Title + " " + strings.Repeat(borderChar, max(0, width-runewidth.StringWidth(c.Title)-3)) + endCorner
	lines = append(lines, borderColor+topBorder+colorReset)

	// Combined status + last inspection line
	statusLine := fmt.Sprintf("%s %s", c.Icon, c.Status)
	if c.LastSeen != "" {
		statusLine = fmt.Sprintf("%s %s  %s", c.Icon, c.Status, c.LastSeen)
	}
	lines = append(lines, c.borderLine(truncate(statusLine, innerWidth), innerWidth))

	// Bottom border
	bottomCorner := "└"
	bottomEndCorner := "┘"
	if c.Selected {
		bottomCorner = "┗"
		bottomEndCorner = "┛"
		borderChar = "━"
	}
	bottomBorder := bottomCorner + strings.Repeat(borderChar, width-2) + bottomEndCorner
	lines = append(lines, borderColor+bottomBorder+colorReset)

	return lines
}

// borderLine creates a line with borders.
func (c *Card) borderLine(content string, innerWidth int) string {
	border := "│"
	if c.Selected {
		border = "┃"
	}
	contentWidth := runewidth.StringWidth(content)
	padding := innerWidth - contentWidth
	if padding < 0 {
		padding = 0
		content = runewidth.Truncate(content, innerWidth, "")
	}
	// Apply border color if set
	if c.BorderColor != "" {
		return c.BorderColor + border + ColorReset + " " + content + strings.Repeat(" ", padding) + " " + c.BorderColor + border + ColorReset
	}
	return border + " " + content + strings.Repeat(" ", padding) + " " + border
}

// Truncate shortens a string to fit in the given width.
func Truncate(s string, width int) string {
	return truncate(s, width)
}

// truncate is the internal version of Truncate.
func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

// PadRight pads a string to the right.
func PadRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return runewidth.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-sw)
}

// PadLeft pads a string to the left.
func PadLeft(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return runewidth.Truncate(s, width, "")
	}
	return strings.Repeat(" ", width-sw) + s
}

// Center centers a string in the given width.
func Center(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return runewidth.Truncate(s, width, "")
	}
	padding := (width - sw) / 2
	return strings.Repeat(" ", padding) + s + strings.Repeat(" ", width-sw-padding)
}

// RenderStatusBar creates the bottom status bar content.
func RenderStatusBar(session, state, triggers, delay, version string) string {
	stats := fmt.Sprintf("%s │ %s │ triggers: %s │ delay: %s", session, state, triggers, delay)
	help := "e:on d:off t:toggle c:config p:preview ?:help q:quit"

	return stats + "        " + help + "        " + version
}

// HelpText returns the help screen content.
func HelpText() string {
	return `autolock-inspect - live controller view

State
  e                  Enable automatic locking
  d                  Disable automatic locking
  t                  Toggle automatic locking

Views
  c                  Show the loaded configuration
  p                  Show focused pane output
  Esc                Return to the event feed

Other
  ?                  Show this help
  q                  Quit the inspector

Press ? or Esc to close this help...`
}

// WrapText wraps text to fit within the given width.
func WrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if runewidth.StringWidth(line) <= width {
			lines = append(lines, line)
			continue
		}

		// Wrap long lines
		for runewidth.StringWidth(line) > width {
			// Find a break point that fits within width
			breakIdx := 0
			currentWidth := 0
			lastSpace := -1
			for i, r := range line {
				rw := runewidth.RuneWidth(r)
				if currentWidth+rw > width {
					break
				}
				currentWidth += rw
				breakIdx = i + len(string(r))
				if r == ' ' {
					lastSpace = breakIdx
				}
			}
			if lastSpace > 0 {
				breakIdx = lastSpace
			}
			lines = append(lines, line[:breakIdx])
			line = strings.TrimSpace(line[breakIdx:])
		}
		if line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}

// FormatDuration formats a duration for display.
func FormatDuration(seconds int64) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds ago", seconds)
	}
	if seconds < 3600 {
		return fmt.Sprintf("%dm ago", seconds/60)
	}
	if seconds < 86400 {
		return fmt.Sprintf("%dh ago", seconds/3600)
	}
	return fmt.Sprintf("%dd ago", seconds/86400)
}
