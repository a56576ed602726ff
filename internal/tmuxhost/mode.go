package tmuxhost

import "github.com/abdullathedruid/autolock/internal/host"

// Input modes ride on the session key-table option: "root" is tmux's
// default table and maps to the normal mode, a "locked" table holds
// the locked mode, and any other table name passes through verbatim so
// user-defined tables are never disturbed.

const (
	rootTable   = "root"
	lockedTable = "locked"
)

// tableMode converts a key-table name to an input mode. An empty name
// means the option is unset, which tmux treats as the root table.
func tableMode(table string) host.Mode {
	switch table {
	case "", rootTable:
		return host.ModeNormal
	case lockedTable:
		return host.ModeLocked
	default:
		return host.Mode(table)
	}
}

// modeTable converts an input mode to the key-table name to install.
func modeTable(mode host.Mode) string {
	switch mode {
	case host.ModeNormal:
		return rootTable
	case host.ModeLocked:
		return lockedTable
	default:
		return string(mode)
	}
}
