package realtime

import "time"

// Config holds the environment-backed settings for the realtime connection.
type Config struct {
	// RedisURL is the connection URL of the Redis instance carrying the
	// push channels, in the format "redis://:password@localhost:6379/0".
	RedisURL string `env:"NOTIFY_REDIS_URL" envDefault:"redis://localhost:6379/0"`

	// InboundChannel is the Pub/Sub channel the server publishes
	// notification frames on.
	InboundChannel string `env:"NOTIFY_INBOUND_CHANNEL" envDefault:"notifications"`

	// OutboundChannel is the Pub/Sub channel the client publishes the join
	// handshake on.
	OutboundChannel string `env:"NOTIFY_OUTBOUND_CHANNEL" envDefault:"notifications.join"`

	// ReconnectInterval is the fixed delay between reconnect attempts.
	ReconnectInterval time.Duration `env:"NOTIFY_RECONNECT_INTERVAL" envDefault:"3s"`

	// JoinDelay is the fixed delay between transport open and the join
	// handshake, giving the channel time to become ready.
	JoinDelay time.Duration `env:"NOTIFY_JOIN_DELAY" envDefault:"100ms"`
}
