package realtime

import "context"

// Conn is a single open message-oriented connection.
type Conn interface {
	// ReadFrame blocks until the next inbound frame arrives or the
	// connection fails.
	ReadFrame(ctx context.Context) ([]byte, error)

	// WriteFrame sends a frame to the server.
	WriteFrame(ctx context.Context, data []byte) error

	// Close closes the connection. Blocked reads return an error.
	Close() error
}

// Transport dials connections to the push server. Implementations must be
// safe for repeated dials; the Client redials the same transport on every
// reconnect attempt.
type Transport interface {
	Dial(ctx context.Context) (Conn, error)
}
