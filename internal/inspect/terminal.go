package inspect

import (
	"io"
	"sync"

	"github.com/vito/midterm"
)

// Terminal wraps midterm.Terminal with a mutex for thread-safe access.
// Pane output arrives on the event loop while rendering happens on the
// gocui goroutine.
type Terminal struct {
	mu   sync.Mutex
	vt   *midterm.Terminal
	pane string
}

// NewTerminal creates a thread-safe preview terminal with the given
// dimensions.
func NewTerminal(rows, cols int) *Terminal {
	return &Terminal{
		vt: midterm.NewTerminal(rows, cols),
	}
}

// Follow points the preview at a pane. A pane change discards the
// buffer; replayed output from the old pane would be misleading.
func (t *Terminal) Follow(paneID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pane == paneID {
		return
	}
	t.pane = paneID
	t.vt = midterm.NewTerminal(t.vt.Height, t.vt.Width)
}

// Pane returns the pane the preview follows.
func (t *Terminal) Pane() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pane
}

// Write feeds pane output to the emulator. Thread-safe.
func (t *Terminal) Write(data []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.vt.Write(data)
}

// Fit resizes the emulator when the view size changed. Thread-safe.
func (t *Terminal) Fit(rows, cols int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if rows <= 0 || cols <= 0 {
		return
	}
	if t.vt.Height == rows && t.vt.Width == cols {
		return
	}
	t.vt.Resize(rows, cols)
}

// Render writes the emulated screen content. Thread-safe.
func (t *Terminal) Render(w io.Writer) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.vt.Height <= 0 || t.vt.Width <= 0 {
		return nil
	}
	return t.vt.Render(w)
}
