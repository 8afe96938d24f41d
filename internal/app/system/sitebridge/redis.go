package sitebridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisChannel carries envelopes over Redis pub/sub.
type RedisChannel struct {
	client  *redis.Client
	channel string
	log     *zap.Logger

	mu   sync.Mutex
	subs []*redis.PubSub
}

// NewRedisChannel connects to the Redis server at url (redis://host:port/db)
// and publishes on channel.
func NewRedisChannel(ctx context.Context, url, channel string, logger *zap.Logger) (*RedisChannel, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("sitebridge connected to Redis",
		zap.String("addr", opt.Addr),
		zap.String("channel", channel))
	return &RedisChannel{client: client, channel: channel, log: logger}, nil
}

func (c *RedisChannel) Publish(ctx context.Context, data []byte) error {
	return c.client.Publish(ctx, c.channel, data).Err()
}

func (c *RedisChannel) Subscribe(fn func([]byte)) (func(), error) {
	ctx := context.Background()
	ps := c.client.Subscribe(ctx, c.channel)
	// Wait for the subscription confirmation so no message published after
	// Subscribe returns is missed.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	c.mu.Lock()
	c.subs = append(c.subs, ps)
	c.mu.Unlock()

	msgs := ps.Channel()
	go func() {
		for msg := range msgs {
			fn([]byte(msg.Payload))
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			if err := ps.Close(); err != nil {
				c.log.Debug("redis unsubscribe", zap.Error(err))
			}
		})
	}, nil
}

func (c *RedisChannel) Close() error {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()
	for _, ps := range subs {
		_ = ps.Close()
	}
	return c.client.Close()
}
