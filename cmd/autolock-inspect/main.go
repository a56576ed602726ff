// Package main provides the entry point for the autolock inspector, a
// read-only TUI that mirrors what a daemon watching the same session
// would decide.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/abdullathedruid/autolock/internal/config"
	"github.com/abdullathedruid/autolock/internal/inspect"
	"github.com/abdullathedruid/autolock/internal/tmuxhost"
	"github.com/abdullathedruid/autolock/internal/version"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigFile(), "config file path")
	session := flag.String("session", "", "tmux session to inspect (default: most recent)")
	logFile := flag.String("log", "", "write connection logs to this file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Short())
		return
	}

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *session != "" {
		cfg.Session = *session
	}

	// The TUI owns the terminal, so connection logs are dropped unless
	// a file is given.
	logOut := io.Writer(io.Discard)
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		logOut = f
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelDebug}))

	conn := tmuxhost.New(cfg.Session, logger)
	if err := conn.Start(); err != nil {
		if names := tmuxhost.AvailableSessions(); names != "" {
			err = fmt.Errorf("%w (server sessions: %s)", err, names)
		}
		fmt.Fprintf(os.Stderr, "Error attaching to tmux: %v\n", err)
		os.Exit(1)
	}

	inspector := inspect.New(conn, cfg, version.Short())
	runErr := inspector.Run()
	conn.Close()
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}
