package feed

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"strings"

	"github.com/tinytelemetry/digits/internal/model"
)

const (
	// DefaultStdinBuffer is the default channel buffer size for stdin lines.
	DefaultStdinBuffer = 1024

	// DefaultStdinMaxLineSize bounds a single piped snapshot line.
	DefaultStdinMaxLineSize = 64 * 1024
)

// StdinConfig holds tunable parameters for the stdin source. Zero fields
// fall back to the defaults above.
type StdinConfig struct {
	BufferSize  int
	MaxLineSize int
}

func (c StdinConfig) withDefaults() StdinConfig {
	if c.BufferSize <= 0 {
		c.BufferSize = DefaultStdinBuffer
	}
	if c.MaxLineSize <= 0 {
		c.MaxLineSize = DefaultStdinMaxLineSize
	}
	return c
}

// StdinSource forwards snapshot lines piped into the process.
type StdinSource struct {
	out  chan model.IngestEnvelope
	stop context.CancelFunc
}

// NewStdinSource starts reading os.Stdin in the background.
func NewStdinSource(ctx context.Context, conf ...StdinConfig) *StdinSource {
	return newStdinSourceWithReader(ctx, os.Stdin, conf...)
}

func newStdinSourceWithReader(ctx context.Context, r io.Reader, conf ...StdinConfig) *StdinSource {
	var cfg StdinConfig
	if len(conf) > 0 {
		cfg = conf[0]
	}
	cfg = cfg.withDefaults()

	ctx, stop := context.WithCancel(ctx)
	s := &StdinSource{
		out:  make(chan model.IngestEnvelope, cfg.BufferSize),
		stop: stop,
	}
	raw := make(chan string)
	go scanLines(ctx, r, cfg.MaxLineSize, raw)
	go s.forward(ctx, raw)
	return s
}

// scanLines may stay blocked in Read after cancellation; forward does not
// wait for it, so Stop still closes Lines promptly.
func scanLines(ctx context.Context, r io.Reader, maxLineSize int, raw chan<- string) {
	defer close(raw)

	initial := 4096
	if maxLineSize < initial {
		initial = maxLineSize
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, initial), maxLineSize)

	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		select {
		case raw <- line:
		case <-ctx.Done():
			return
		}
	}

	switch err := sc.Err(); {
	case errors.Is(err, bufio.ErrTooLong):
		log.Printf("feed: stdin line longer than %d bytes, stdin source stopped", maxLineSize)
	case err != nil:
		log.Printf("feed: stdin read: %v", err)
	}
}

func (s *StdinSource) forward(ctx context.Context, raw <-chan string) {
	defer close(s.out)
	for {
		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			return
		case line, ok = <-raw:
		}
		if !ok {
			return
		}
		select {
		case s.out <- model.IngestEnvelope{Source: s.Name(), Line: line}:
		case <-ctx.Done():
			return
		}
	}
}

// Lines is closed when stdin reaches EOF or the source is stopped.
func (s *StdinSource) Lines() <-chan model.IngestEnvelope { return s.out }

// Stop is safe to call more than once.
func (s *StdinSource) Stop() { s.stop() }

func (s *StdinSource) Name() string { return "stdin" }
