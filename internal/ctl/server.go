package ctl

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
)

// Server listens on a unix socket and forwards decoded commands to a
// handler. The handler runs on connection goroutines; callers that
// need serialization should bridge into their own loop.
type Server struct {
	listener net.Listener
	handler  func(Command)
	wg       sync.WaitGroup
}

// Listen binds the socket at path and serves in the background until
// Close. A stale socket file from a previous run is removed first.
func Listen(path string, handler func(Command)) (*Server, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create socket directory: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to remove stale socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", path, err)
	}

	s := &Server{listener: listener, handler: handler}
	s.wg.Add(1)
	go s.acceptLoop()
	return s, nil
}

// Addr returns the socket path.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Close stops listening and waits for in-flight connections to drain.
func (s *Server) Close() error {
	err := s.listener.Close()
	s.wg.Wait()
	return err
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Listener closed
			return
		}
		s.wg.Add(1)
		go s.serve(conn)
	}
}

func (s *Server) serve(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		if cmd := Parse(scanner.Text()); cmd != None {
			s.handler(cmd)
		}
	}
}

// Send writes one control word to the daemon listening at path. It is
// fire and forget: no reply is read.
func Send(path string, word string) error {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return fmt.Errorf("failed to reach daemon at %s: %w", path, err)
	}
	defer conn.Close()

	if _, err := fmt.Fprintln(conn, word); err != nil {
		return fmt.Errorf("failed to send %q: %w", word, err)
	}
	return nil
}
