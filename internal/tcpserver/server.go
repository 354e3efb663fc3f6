// Package tcpserver accepts newline-delimited snapshot lines from TCP clients.
package tcpserver

import (
	"bufio"
	"errors"
	"log"
	"net"
	"sync"
	"sync/atomic"

	"github.com/tinytelemetry/digits/internal/model"
)

const (
	// DefaultAddr is used when NewServer is given an empty address.
	DefaultAddr = "127.0.0.1:4100"

	// DefaultLineChannelSize is the default buffer size for received lines.
	DefaultLineChannelSize = 1024

	// DefaultMaxLineSize bounds one snapshot line. A client that sends a
	// longer line is disconnected.
	DefaultMaxLineSize = 64 * 1024

	// DefaultMaxConns bounds concurrently connected producers.
	DefaultMaxConns = 64
)

// ServerConfig holds tunable parameters for the TCP server.
type ServerConfig struct {
	LineChannelSize int
	MaxLineSize     int
	MaxConns        int
}

// Server listens for snapshot producers. Every non-empty line a client writes
// becomes one envelope on Lines.
type Server struct {
	addr     string
	cfg      ServerConfig
	listener net.Listener
	lines    chan model.IngestEnvelope

	mu       sync.Mutex
	conns    map[net.Conn]struct{}
	closing  bool
	accepted atomic.Int64
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewServer creates a server for addr, DefaultAddr when empty.
func NewServer(addr string, conf ...ServerConfig) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	cfg := ServerConfig{
		LineChannelSize: DefaultLineChannelSize,
		MaxLineSize:     DefaultMaxLineSize,
		MaxConns:        DefaultMaxConns,
	}
	if len(conf) > 0 {
		if conf[0].LineChannelSize > 0 {
			cfg.LineChannelSize = conf[0].LineChannelSize
		}
		if conf[0].MaxLineSize > 0 {
			cfg.MaxLineSize = conf[0].MaxLineSize
		}
		if conf[0].MaxConns > 0 {
			cfg.MaxConns = conf[0].MaxConns
		}
	}
	return &Server{
		addr:  addr,
		cfg:   cfg,
		lines: make(chan model.IngestEnvelope, cfg.LineChannelSize),
		conns: make(map[net.Conn]struct{}),
	}
}

// Start binds the listener and begins accepting producers.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = ln

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Printf("tcpserver: accept: %v", err)
			continue
		}
		if !s.track(conn) {
			continue
		}
		s.accepted.Add(1)
		s.wg.Add(1)
		go s.serve(conn)
	}
}

// track registers conn, refusing it when the server is closing or full.
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		conn.Close()
		return false
	}
	if len(s.conns) >= s.cfg.MaxConns {
		log.Printf("tcpserver: refusing %s, %d producers already connected", conn.RemoteAddr(), len(s.conns))
		conn.Close()
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	conn.Close()
}

func (s *Server) serve(conn net.Conn) {
	defer s.wg.Done()
	defer s.untrack(conn)

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), s.cfg.MaxLineSize)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		s.lines <- model.IngestEnvelope{Source: "tcp", Line: line}
	}

	switch err := scanner.Err(); {
	case err == nil, errors.Is(err, net.ErrClosed):
	case errors.Is(err, bufio.ErrTooLong):
		log.Printf("tcpserver: dropped %s, line exceeds %d bytes", conn.RemoteAddr(), s.cfg.MaxLineSize)
	default:
		log.Printf("tcpserver: read from %s: %v", conn.RemoteAddr(), err)
	}
}

// Stop closes the listener and every open connection, then closes Lines.
// It is safe to call more than once.
func (s *Server) Stop() error {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.closing = true
		for conn := range s.conns {
			conn.Close()
		}
		s.mu.Unlock()

		if s.listener != nil {
			s.listener.Close()
		}

		// unblock producers waiting on a full channel
		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()
		for {
			select {
			case <-done:
				close(s.lines)
				return
			case <-s.lines:
			}
		}
	})
	return nil
}

// Lines returns the channel of received snapshot lines.
func (s *Server) Lines() <-chan model.IngestEnvelope {
	return s.lines
}

// Connections returns the number of producers currently connected.
func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Accepted returns the number of producers accepted since Start.
func (s *Server) Accepted() int64 {
	return s.accepted.Load()
}

// Addr returns the bound address after Start, the configured one before.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}
