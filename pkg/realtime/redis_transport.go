package realtime

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisTransport carries push frames over Redis Pub/Sub: the server publishes
// notification frames on the inbound channel and the client publishes its
// join handshake on the outbound channel.
type RedisTransport struct {
	client   *redis.Client
	inbound  string
	outbound string
}

// NewRedisTransport creates a transport over an existing Redis client.
func NewRedisTransport(client *redis.Client, cfg Config) *RedisTransport {
	return &RedisTransport{
		client:   client,
		inbound:  cfg.InboundChannel,
		outbound: cfg.OutboundChannel,
	}
}

// ConnectRedis parses cfg.RedisURL, connects a Redis client, and verifies it
// with a ping before returning a transport over it.
func ConnectRedis(ctx context.Context, cfg Config) (*RedisTransport, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, errors.Join(ErrBadRedisURL, err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Join(ErrRedisNotReady, err)
	}

	return NewRedisTransport(client, cfg), nil
}

// Dial subscribes to the inbound channel and waits for the subscription
// confirmation, so a returned Conn is known to receive frames.
func (t *RedisTransport) Dial(ctx context.Context) (Conn, error) {
	pubsub := t.client.Subscribe(ctx, t.inbound)

	// Receive blocks until Redis confirms the subscription or the context
	// is cancelled; without this a frame published immediately after Dial
	// could be lost.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	return &redisConn{
		client:   t.client,
		pubsub:   pubsub,
		outbound: t.outbound,
	}, nil
}

// Close closes the underlying Redis client.
func (t *RedisTransport) Close() error {
	return t.client.Close()
}

type redisConn struct {
	client   *redis.Client
	pubsub   *redis.PubSub
	outbound string
}

func (c *redisConn) ReadFrame(ctx context.Context) ([]byte, error) {
	msg, err := c.pubsub.ReceiveMessage(ctx)
	if err != nil {
		return nil, err
	}
	return []byte(msg.Payload), nil
}

func (c *redisConn) WriteFrame(ctx context.Context, data []byte) error {
	return c.client.Publish(ctx, c.outbound, data).Err()
}

func (c *redisConn) Close() error {
	return c.pubsub.Close()
}
