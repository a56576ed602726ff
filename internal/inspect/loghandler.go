package inspect

import (
	"context"
	"log/slog"
	"strings"
)

// feedHandler is a slog.Handler that renders records into the
// inspector feed instead of a log sink, so the controller's own
// logging becomes the event view.
type feedHandler struct {
	snap   *snapshot
	level  slog.Level
	prefix string
	group  string
}

func newFeedHandler(snap *snapshot, level slog.Level) *feedHandler {
	return &feedHandler{snap: snap, level: level}
}

func (h *feedHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level
}

func (h *feedHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Time.Format("15:04:05"))
	b.WriteByte(' ')
	b.WriteString(levelTag(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)
	b.WriteString(h.prefix)
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.group, a)
		return true
	})
	h.snap.appendFeed(b.String())
	return nil
}

func (h *feedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	var b strings.Builder
	b.WriteString(h.prefix)
	for _, a := range attrs {
		writeAttr(&b, h.group, a)
	}
	next.prefix = b.String()
	return &next
}

func (h *feedHandler) WithGroup(name string) slog.Handler {
	next := *h
	if next.group != "" {
		next.group += "."
	}
	next.group += name
	return &next
}

func writeAttr(b *strings.Builder, group string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	b.WriteByte(' ')
	if group != "" {
		b.WriteString(group)
		b.WriteByte('.')
	}
	b.WriteString(a.Key)
	b.WriteByte('=')
	b.WriteString(a.Value.String())
}

func levelTag(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "ERR"
	case l >= slog.LevelWarn:
		return "WRN"
	case l >= slog.LevelInfo:
		return "INF"
	default:
		return "DBG"
	}
}
