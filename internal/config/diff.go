package config

import (
	"fmt"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Diff renders a unified diff between two configurations, in their
// YAML form. An empty string means no observable change.
func Diff(before, after *Config) string {
	prev := before.Render()
	next := after.Render()
	if prev == next {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath("config.yaml"), prev, next)
	return fmt.Sprint(gotextdiff.ToUnified("previous", "current", prev, edits))
}
