package tcpserver

import (
	"fmt"
	"net"
	"strings"
	"testing"
	"time"
)

func startServer(t *testing.T, conf ...ServerConfig) *Server {
	t.Helper()
	s := NewServer("127.0.0.1:0", conf...)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

func dial(t *testing.T, s *Server) net.Conn {
	t.Helper()
	conn, err := net.DialTimeout("tcp", s.Addr(), 2*time.Second)
	if err != nil {
		t.Fatalf("dial %s: %v", s.Addr(), err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out: %s", msg)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestNewServer_Defaults(t *testing.T) {
	t.Parallel()

	s := NewServer("")
	if got := s.Addr(); got != DefaultAddr {
		t.Fatalf("Addr() = %q, want %q", got, DefaultAddr)
	}
	if got := cap(s.lines); got != DefaultLineChannelSize {
		t.Fatalf("line channel cap = %d, want %d", got, DefaultLineChannelSize)
	}
	if s.cfg.MaxLineSize != DefaultMaxLineSize || s.cfg.MaxConns != DefaultMaxConns {
		t.Fatalf("cfg = %+v, want defaults", s.cfg)
	}
}

func TestNewServer_Overrides(t *testing.T) {
	t.Parallel()

	s := NewServer("0.0.0.0:5000", ServerConfig{LineChannelSize: 64, MaxLineSize: 2048, MaxConns: 2})
	if got := s.Addr(); got != "0.0.0.0:5000" {
		t.Fatalf("Addr() = %q, want %q", got, "0.0.0.0:5000")
	}
	if got := cap(s.lines); got != 64 {
		t.Fatalf("line channel cap = %d, want 64", got)
	}
	if s.cfg.MaxLineSize != 2048 || s.cfg.MaxConns != 2 {
		t.Fatalf("cfg = %+v, want max line 2048 and 2 conns", s.cfg)
	}
}

func TestServer_ReceivesLinesSkippingBlanks(t *testing.T) {
	t.Parallel()

	s := startServer(t)
	conn := dial(t, s)
	if _, err := fmt.Fprint(conn, "first\n\nsecond\n"); err != nil {
		t.Fatalf("write: %v", err)
	}

	for _, want := range []string{"first", "second"} {
		select {
		case env := <-s.Lines():
			if env.Line != want || env.Source != "tcp" {
				t.Fatalf("line = %+v, want %q from tcp", env, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}
	if got := s.Accepted(); got != 1 {
		t.Fatalf("Accepted() = %d, want 1", got)
	}
}

func TestServer_TracksConnections(t *testing.T) {
	t.Parallel()

	s := startServer(t)
	a := dial(t, s)
	dial(t, s)
	waitFor(t, func() bool { return s.Connections() == 2 }, "two producers connected")

	a.Close()
	waitFor(t, func() bool { return s.Connections() == 1 }, "closed producer untracked")
}

func TestServer_RefusesBeyondMaxConns(t *testing.T) {
	t.Parallel()

	s := startServer(t, ServerConfig{MaxConns: 1})
	dial(t, s)
	waitFor(t, func() bool { return s.Connections() == 1 }, "first producer connected")

	extra := dial(t, s)
	_ = extra.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := extra.Read(make([]byte, 1)); err == nil {
		t.Fatal("expected refused connection to be closed")
	}
	if got := s.Accepted(); got != 1 {
		t.Fatalf("Accepted() = %d, want 1", got)
	}
}

func TestServer_DropsOversizedLine(t *testing.T) {
	t.Parallel()

	s := startServer(t, ServerConfig{MaxLineSize: 32})
	conn := dial(t, s)
	waitFor(t, func() bool { return s.Connections() == 1 }, "producer connected")

	if _, err := fmt.Fprintln(conn, strings.Repeat("x", 100)); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitFor(t, func() bool { return s.Connections() == 0 }, "oversized producer dropped")
}

func TestServer_StopWithOpenConnection(t *testing.T) {
	t.Parallel()

	s := NewServer("127.0.0.1:0", ServerConfig{LineChannelSize: 1})
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	conn := dial(t, s)
	// more lines than the channel holds, nobody reading
	if _, err := fmt.Fprint(conn, "a\nb\nc\n"); err != nil {
		t.Fatalf("write: %v", err)
	}

	stopped := make(chan struct{})
	go func() {
		_ = s.Stop()
		_ = s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked on an open connection")
	}
	for range s.Lines() {
	}
}
