// Package feed carries raw snapshot lines from the data-source collaborator
// (piped stdin, TCP clients, Redis pub/sub) into the board.
package feed

import "github.com/tinytelemetry/digits/internal/model"

// Source is a unified interface for all snapshot inputs (TCP, stdin, Redis).
type Source interface {
	Lines() <-chan model.IngestEnvelope // read-only channel of snapshot lines
	Stop()                              // graceful shutdown
	Name() string                       // "tcp", "stdin", "redis"
}
