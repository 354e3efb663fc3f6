package feed

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/tinytelemetry/digits/internal/model"
)

// DefaultMuxBuffer is the default channel buffer size for the multiplexer.
const DefaultMuxBuffer = 1024

// Multiplexer fans every source into one read-only stream and counts the
// lines each source delivered.
type Multiplexer struct {
	ctx    context.Context
	cancel context.CancelFunc

	sources []Source
	counts  []atomic.Uint64
	out     chan model.IngestEnvelope

	start sync.Once
	stop  sync.Once
	done  chan struct{}
}

// NewMultiplexer prepares a multiplexer over sources. Nothing is read until
// Start.
func NewMultiplexer(parent context.Context, sources []Source, buffer int) *Multiplexer {
	if buffer <= 0 {
		buffer = DefaultMuxBuffer
	}
	ctx, cancel := context.WithCancel(parent)
	return &Multiplexer{
		ctx:     ctx,
		cancel:  cancel,
		sources: sources,
		counts:  make([]atomic.Uint64, len(sources)),
		out:     make(chan model.IngestEnvelope, buffer),
		done:    make(chan struct{}),
	}
}

// Start launches one forwarder per source. Lines closes once every source
// is exhausted or the multiplexer stops.
func (m *Multiplexer) Start() {
	m.start.Do(func() {
		g, ctx := errgroup.WithContext(m.ctx)
		for i, src := range m.sources {
			g.Go(func() error {
				m.forward(ctx, i, src)
				return nil
			})
		}
		go func() {
			_ = g.Wait()
			close(m.out)
			close(m.done)
		}()
	})
}

// Stop cancels forwarding, stops every source and waits for Lines to close.
// A multiplexer that was never started is started first so Lines still
// closes.
func (m *Multiplexer) Stop() {
	m.stop.Do(func() {
		m.Start()
		m.cancel()
		for _, src := range m.sources {
			src.Stop()
		}
		<-m.done
	})
}

// HasSources reports whether any source was registered.
func (m *Multiplexer) HasSources() bool {
	return len(m.sources) > 0
}

// SourceNames lists the multiplexed sources in registration order.
func (m *Multiplexer) SourceNames() []string {
	names := make([]string, 0, len(m.sources))
	for _, src := range m.sources {
		names = append(names, src.Name())
	}
	return names
}

// Received returns the number of lines forwarded per source name.
func (m *Multiplexer) Received() map[string]uint64 {
	out := make(map[string]uint64, len(m.sources))
	for i, src := range m.sources {
		out[src.Name()] += m.counts[i].Load()
	}
	return out
}

// Lines is the merged stream.
func (m *Multiplexer) Lines() <-chan model.IngestEnvelope {
	return m.out
}

func (m *Multiplexer) forward(ctx context.Context, idx int, src Source) {
	in := src.Lines()
	for {
		var env model.IngestEnvelope
		select {
		case <-ctx.Done():
			return
		case e, ok := <-in:
			if !ok {
				return
			}
			env = e
		}
		if env.Line == "" {
			continue
		}
		select {
		case m.out <- env:
			m.counts[idx].Add(1)
		case <-ctx.Done():
			return
		}
	}
}
