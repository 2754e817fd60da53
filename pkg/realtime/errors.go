package realtime

import "errors"

var (
	// ErrNilTransport is returned when a Client is created without a transport.
	ErrNilTransport = errors.New("realtime: transport must not be nil")

	// ErrConnClosed is returned by transports when the connection is closed
	// while a read or write is in flight.
	ErrConnClosed = errors.New("realtime: connection closed")

	// ErrBadRedisURL is returned when the Redis connection URL cannot be parsed.
	ErrBadRedisURL = errors.New("realtime: failed to parse redis connection url")

	// ErrRedisNotReady is returned when the Redis server does not answer a ping.
	ErrRedisNotReady = errors.New("realtime: redis is not reachable")
)
