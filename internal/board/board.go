// Package board holds the latest snapshot of the tick-counter data source.
// Feeds publish into it; renderers read from it and never write back.
package board

import (
	"sync"
	"sync/atomic"

	"github.com/tinytelemetry/digits/internal/digits"
	"github.com/tinytelemetry/digits/internal/model"
)

// Board is the shared, read-mostly snapshot store.
type Board struct {
	mu       sync.RWMutex
	snap     model.Snapshot
	version  uint64
	rejected atomic.Int64

	subMu sync.Mutex
	subs  []chan uint64
}

// New creates an empty board. Readers see the loading state until the first
// Publish.
func New() *Board {
	return &Board{}
}

// Publish validates s and makes it the current snapshot.
func (b *Board) Publish(s model.Snapshot) error {
	if err := digits.Validate(s); err != nil {
		b.rejected.Add(1)
		return err
	}

	b.mu.Lock()
	b.snap = s.Clone()
	b.version++
	version := b.version
	b.mu.Unlock()

	b.notify(version)
	return nil
}

// Snapshot returns a copy of the current snapshot and its version.
func (b *Board) Snapshot() (model.Snapshot, uint64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snap.Clone(), b.version
}

// Version returns the number of snapshots published so far.
func (b *Board) Version() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// Reject records a line that never became a snapshot (for example a decode
// failure upstream of Publish).
func (b *Board) Reject() {
	b.rejected.Add(1)
}

// Rejected returns the count of rejected snapshots.
func (b *Board) Rejected() int64 {
	return b.rejected.Load()
}

// Subscribe returns a channel that receives the latest version after each
// publish. Slow subscribers only see the newest version; nothing blocks.
func (b *Board) Subscribe() <-chan uint64 {
	ch := make(chan uint64, 1)
	b.subMu.Lock()
	b.subs = append(b.subs, ch)
	b.subMu.Unlock()
	return ch
}

// Unsubscribe stops notifications on ch and closes it. Unknown channels are
// ignored, so calling it twice is safe.
func (b *Board) Unsubscribe(ch <-chan uint64) {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	for i, sub := range b.subs {
		if sub == ch {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			close(sub)
			return
		}
	}
}

func (b *Board) notify(version uint64) {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- version:
		default:
			// drop the stale pending version and replace it
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- version:
			default:
			}
		}
	}
}
