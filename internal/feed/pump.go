package feed

import (
	"context"
	"log"

	"github.com/tinytelemetry/digits/internal/model"
	"github.com/tinytelemetry/digits/internal/snapshot"
)

// Publisher accepts decoded snapshots.
type Publisher interface {
	Publish(model.Snapshot) error
	Reject()
}

// Pump decodes every line from lines and publishes it until lines closes or
// ctx is done. Bad lines are logged and counted, never fatal.
func Pump(ctx context.Context, lines <-chan model.IngestEnvelope, pub Publisher) {
	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-lines:
			if !ok {
				return
			}
			snap, err := snapshot.Decode(env.Line)
			if err != nil {
				pub.Reject()
				log.Printf("feed: dropped %s line: %v", env.Source, err)
				continue
			}
			if err := pub.Publish(snap); err != nil {
				log.Printf("feed: rejected %s snapshot: %v", env.Source, err)
			}
		}
	}
}
