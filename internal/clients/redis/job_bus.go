package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/chordist/chordist-backend/internal/platform/logger"
	"github.com/chordist/chordist-backend/internal/sse"
)

// JobBus mirrors SSE job events across instances through Redis pub/sub, so a
// client connected to one instance still sees progress persisted by another.
type JobBus interface {
	Publish(ctx context.Context, msg sse.Message) error
	StartForwarder(ctx context.Context, onMsg func(m sse.Message)) error
	Close() error
}

type jobBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewJobBus(log *logger.Logger, addr, channel string) (JobBus, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis addr required")
	}
	if channel == "" {
		channel = "transcription-events"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &jobBus{
		log:     log.With("client", "RedisJobBus"),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (b *jobBus) Publish(ctx context.Context, msg sse.Message) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal job event: %w", err)
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

// StartForwarder subscribes to the bus and feeds every received event to
// onMsg until ctx is cancelled.
func (b *jobBus) StartForwarder(ctx context.Context, onMsg func(m sse.Message)) error {
	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}
				var msg sse.Message
				if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
					b.log.Warn("Dropping malformed bus event", "error", err)
					continue
				}
				onMsg(msg)
			}
		}
	}()
	return nil
}

func (b *jobBus) Close() error {
	return b.rdb.Close()
}
