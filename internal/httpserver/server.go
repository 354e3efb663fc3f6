package httpserver

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tinytelemetry/digits/internal/digits"
	"github.com/tinytelemetry/digits/internal/model"
	"github.com/tinytelemetry/digits/internal/render"
	"github.com/tinytelemetry/digits/internal/snapshot"
)

// maxSnapshotBody bounds POST /api/snapshot payloads.
const maxSnapshotBody = 64 * 1024

// Board is the narrow board contract required by the HTTP API.
type Board interface {
	digits.SnapshotReader
	Publish(model.Snapshot) error
	Reject()
	Rejected() int64
}

// Server provides an HTTP API for the digit panel.
type Server struct {
	addr      string
	board     Board
	panel     *digits.Panel
	svg       *render.SVG
	sources   func() map[string]uint64
	server    *http.Server
	listener  net.Listener
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP API server.
func NewServer(addr string, board Board, palette digits.Palette) *Server {
	if addr == "" {
		addr = "127.0.0.1:3100"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:   addr,
		board:  board,
		panel:  digits.NewPanel(board),
		svg:    render.NewSVG(palette),
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetSourceStats reports per-feed line counts in /api/health. Call it
// before Start.
func (s *Server) SetSourceStats(fn func() map[string]uint64) {
	s.sources = fn
}

// Handler builds the gin engine with every route registered.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/health", s.handleHealth)
	r.GET("/api/panel", s.handlePanel)
	r.POST("/api/snapshot", s.handleSnapshot)
	r.GET("/panel.svg", s.handleSVG)
	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Addr returns the active listen address.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	_, version := s.board.Snapshot()
	resp := gin.H{
		"status":   "ok",
		"uptime":   time.Since(s.startTime).String(),
		"version":  version,
		"rejected": s.board.Rejected(),
	}
	if s.sources != nil {
		resp["sources"] = s.sources()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handlePanel(c *gin.Context) {
	c.JSON(http.StatusOK, s.panel.State())
}

func (s *Server) handleSVG(c *gin.Context) {
	var buf bytes.Buffer
	if err := s.svg.Render(&buf, s.panel.State()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render panel"})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

func (s *Server) handleSnapshot(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSnapshotBody+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}
	if len(body) > maxSnapshotBody {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "snapshot too large"})
		return
	}

	snap, err := snapshot.DecodeBytes(body)
	if err != nil {
		s.board.Reject()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.board.Publish(snap); err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, digits.ErrInvalidDigit) && !errors.Is(err, digits.ErrNonFinite) {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	_, version := s.board.Snapshot()
	c.JSON(http.StatusAccepted, gin.H{"version": version})
}
