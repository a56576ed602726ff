// Package main provides the entry point for the autolock daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/abdullathedruid/autolock/internal/app"
	"github.com/abdullathedruid/autolock/internal/config"
	"github.com/abdullathedruid/autolock/internal/ctl"
	"github.com/abdullathedruid/autolock/internal/version"
)

// pairsFlag collects repeated -o key=value overrides.
type pairsFlag map[string]string

func (p pairsFlag) String() string {
	parts := make([]string, 0, len(p))
	for key, value := range p {
		parts = append(parts, key+"="+value)
	}
	return strings.Join(parts, ",")
}

func (p pairsFlag) Set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	p[strings.TrimSpace(key)] = value
	return nil
}

func main() {
	overrides := pairsFlag{}
	configPath := flag.String("config", config.DefaultConfigFile(), "config file path")
	socket := flag.String("socket", "", "control socket path")
	session := flag.String("session", "", "tmux session to watch (default: most recent)")
	logFile := flag.String("log", "", "write logs to this file instead of stderr")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Var(overrides, "o", "config override as key=value (repeatable)")
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Short())
		return
	}

	// Convenience flags are just named overrides, so they survive
	// config reloads the same way -o pairs do.
	if *socket != "" {
		overrides["socket"] = *socket
	}
	if *session != "" {
		overrides["session"] = *session
	}
	if *logFile != "" {
		overrides["log_file"] = *logFile
	}

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ApplyPairs(overrides); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// A control word as the only argument addresses a running daemon
	// instead of starting one.
	if flag.NArg() > 0 {
		if err := sendControl(cfg.Socket, flag.Arg(0)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	application, err := app.New(app.Options{
		Config:     cfg,
		ConfigPath: *configPath,
		Overrides:  overrides,
		Version:    version.Short(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting autolock: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := application.Run(ctx)
	application.Close()
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}

func sendControl(socket, word string) error {
	if ctl.Parse(word) == ctl.None {
		return fmt.Errorf("unknown command %q, expected one of %s", word, strings.Join(ctl.Words(), ", "))
	}
	return ctl.Send(socket, word)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: autolock [flags] [%s]\n\n", strings.Join(ctl.Words(), "|"))
	fmt.Fprintln(os.Stderr, "Without a command, watch the tmux session and lock the keyboard while")
	fmt.Fprintln(os.Stderr, "a trigger command runs in the focused pane. With a command, send it to")
	fmt.Fprintln(os.Stderr, "a running daemon over its control socket.")
	fmt.Fprintln(os.Stderr, "\nFlags:")
	flag.PrintDefaults()
}
