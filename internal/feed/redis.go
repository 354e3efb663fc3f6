package feed

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/tinytelemetry/digits/internal/model"
)

const (
	// DefaultRedisChannel is the pub/sub channel snapshots are published on.
	DefaultRedisChannel = "digits:snapshots"

	// DefaultRedisBuffer is the default channel buffer size for Redis messages.
	DefaultRedisBuffer = 256

	redisConnectTimeout = 5 * time.Second
)

// RedisConfig configures the Redis pub/sub source.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	Channel    string
	BufferSize int
}

// RedisSource receives one snapshot per pub/sub message.
type RedisSource struct {
	ch       chan model.IngestEnvelope
	cancel   context.CancelFunc
	closeSub func() error
	stopOnce sync.Once
}

// NewRedisSource connects to Redis and subscribes to the snapshot channel.
// It fails when the server is unreachable or the subscription is refused.
func NewRedisSource(ctx context.Context, cfg RedisConfig) (*RedisSource, error) {
	if cfg.Channel == "" {
		cfg.Channel = DefaultRedisChannel
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: redisConnectTimeout,
	})

	connectCtx, cancel := context.WithTimeout(ctx, redisConnectTimeout)
	defer cancel()

	if err := client.Ping(connectCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	sub := client.Subscribe(ctx, cfg.Channel)
	if _, err := sub.Receive(connectCtx); err != nil {
		_ = sub.Close()
		_ = client.Close()
		return nil, fmt.Errorf("redis subscribe %s: %w", cfg.Channel, err)
	}
	log.Printf("feed: subscribed to redis channel %s on %s", cfg.Channel, cfg.Addr)

	closer := func() error {
		err := sub.Close()
		if cerr := client.Close(); err == nil {
			err = cerr
		}
		return err
	}
	return newRedisSourceFromMessages(ctx, sub.Channel(), closer, cfg.BufferSize), nil
}

func newRedisSourceFromMessages(ctx context.Context, msgs <-chan *redis.Message, closer func() error, bufferSize int) *RedisSource {
	if bufferSize <= 0 {
		bufferSize = DefaultRedisBuffer
	}
	ctx, cancel := context.WithCancel(ctx)
	s := &RedisSource{
		ch:       make(chan model.IngestEnvelope, bufferSize),
		cancel:   cancel,
		closeSub: closer,
	}
	go s.forward(ctx, msgs)
	return s
}

func (s *RedisSource) forward(ctx context.Context, msgs <-chan *redis.Message) {
	defer close(s.ch)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			if msg.Payload == "" {
				continue
			}
			select {
			case s.ch <- model.IngestEnvelope{Source: s.Name(), Line: msg.Payload}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *RedisSource) Lines() <-chan model.IngestEnvelope { return s.ch }
func (s *RedisSource) Name() string                       { return "redis" }

// Stop ends the subscription and closes the client. Safe to call twice.
func (s *RedisSource) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		if s.closeSub != nil {
			if err := s.closeSub(); err != nil {
				log.Printf("feed: closing redis subscription: %v", err)
			}
		}
	})
}
