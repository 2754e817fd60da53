package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/hostelhub/notifykit/pkg/logger"
	"github.com/hostelhub/notifykit/pkg/notify"
	"github.com/hostelhub/notifykit/pkg/session"
)

// State is the connection lifecycle state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateJoined       State = "joined"
)

const (
	// DefaultReconnectInterval is the fixed delay between reconnect attempts.
	// There is no backoff growth and no attempt cap.
	DefaultReconnectInterval = 3 * time.Second

	// DefaultJoinDelay defers the join handshake briefly after transport
	// open so the frame is not sent on a not-yet-ready channel.
	DefaultJoinDelay = 100 * time.Millisecond
)

// Handler receives the payload of every inbound notification frame.
type Handler func(payload notify.Payload)

type listener struct {
	id int
	fn Handler
}

// Client owns one logical connection to the push server. Connect is
// idempotent while a connection is being established or is open; only one
// transport connection exists at a time. All methods are safe for concurrent
// use and none of them block on network activity.
type Client struct {
	transport         Transport
	reconnectInterval time.Duration
	joinDelay         time.Duration
	logger            *slog.Logger

	mu             sync.Mutex
	state          State
	conn           Conn
	identity       session.Identity
	stopped        bool
	lifecycle      context.Context
	cancel         context.CancelFunc
	reconnectTimer *time.Timer
	joinTimer      *time.Timer

	listeners  []listener
	nextListID int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger for the Client.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithReconnectInterval overrides the fixed reconnect delay.
// Non-positive values are ignored.
func WithReconnectInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.reconnectInterval = d
		}
	}
}

// WithJoinDelay overrides the delay between transport open and the join
// handshake. Zero is allowed for tests; negative values are ignored.
func WithJoinDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		if d >= 0 {
			c.joinDelay = d
		}
	}
}

// NewClient creates a disconnected client over the given transport.
// Panics on a nil transport to fail fast at composition time.
func NewClient(transport Transport, opts ...ClientOption) *Client {
	if transport == nil {
		panic(ErrNilTransport)
	}

	c := &Client{
		transport:         transport,
		reconnectInterval: DefaultReconnectInterval,
		joinDelay:         DefaultJoinDelay,
		logger:            slog.Default(),
		state:             StateDisconnected,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers a listener for inbound notification payloads and
// returns its unsubscribe function. Listeners are invoked in registration
// order; registering never replaces an earlier listener.
func (c *Client) Subscribe(fn Handler) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextListID
	c.nextListID++
	c.listeners = append(c.listeners, listener{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, l := range c.listeners {
			if l.id == id {
				c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// Connect opens the transport and performs the join handshake for identity.
// It is a no-op when the client is already connecting or joined. Dialing
// happens asynchronously; Connect itself never blocks on the network.
func (c *Client) Connect(identity session.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateDisconnected {
		return
	}

	c.state = StateConnecting
	c.identity = identity
	c.stopped = false
	c.stopTimersLocked()
	c.lifecycle, c.cancel = context.WithCancel(context.Background())

	go c.dial(c.lifecycle)
}

// Disconnect closes the transport and cancels any scheduled reconnect or
// pending join. Safe to call when already disconnected.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
	c.stopTimersLocked()
	if c.cancel != nil {
		c.cancel()
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.state = StateDisconnected
}

func (c *Client) dial(ctx context.Context) {
	conn, err := c.transport.Dial(ctx)

	c.mu.Lock()
	if c.stopped || ctx.Err() != nil {
		c.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		return
	}

	if err != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "failed to open push connection",
			logger.Component("realtime"),
			logger.Error(err),
		)
		c.state = StateDisconnected
		c.scheduleReconnectLocked(ctx)
		c.mu.Unlock()
		return
	}

	c.conn = conn
	// The join is deferred rather than sent immediately: the transport
	// reports open before the channel is ready to carry frames.
	c.joinTimer = time.AfterFunc(c.joinDelay, func() { c.join(ctx, conn) })
	c.mu.Unlock()

	go c.readLoop(ctx, conn)
}

func (c *Client) join(ctx context.Context, conn Conn) {
	c.mu.Lock()
	if c.stopped || c.conn != conn {
		c.mu.Unlock()
		return
	}
	identity := c.identity
	c.mu.Unlock()

	frame, err := encodeJoinFrame(identity)
	if err != nil {
		c.logger.LogAttrs(ctx, slog.LevelError, "failed to encode join frame",
			logger.Component("realtime"),
			logger.Error(err),
		)
		return
	}

	if err := conn.WriteFrame(ctx, frame); err != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "failed to send join frame",
			logger.Component("realtime"),
			logger.Error(err),
		)
		c.handleFailure(ctx, conn, err)
		return
	}

	c.mu.Lock()
	if !c.stopped && c.conn == conn {
		c.state = StateJoined
	}
	c.mu.Unlock()

	c.logger.LogAttrs(ctx, slog.LevelInfo, "joined push server",
		logger.Component("realtime"),
		logger.Role(identity.Role),
		logger.HostelID(identity.HostelID),
	)
}

func (c *Client) readLoop(ctx context.Context, conn Conn) {
	for {
		data, err := conn.ReadFrame(ctx)
		if err != nil {
			c.handleFailure(ctx, conn, err)
			return
		}
		c.dispatch(ctx, data)
	}
}

// dispatch decodes one inbound frame and delivers the payload to every
// listener in registration order. Malformed frames are dropped per frame;
// the connection stays up and later frames are unaffected.
func (c *Client) dispatch(ctx context.Context, data []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "dropping malformed frame",
			logger.Component("realtime"),
			logger.Error(err),
		)
		return
	}

	if frame.Type != frameTypeNotification {
		if frame.Type == "" {
			c.logger.LogAttrs(ctx, slog.LevelWarn, "dropping frame without type",
				logger.Component("realtime"),
			)
		}
		return
	}

	var payload notify.Payload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "dropping notification with malformed payload",
			logger.Component("realtime"),
			logger.Error(err),
		)
		return
	}

	c.mu.Lock()
	listeners := make([]listener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, l := range listeners {
		l.fn(payload)
	}
}

// handleFailure tears down the failed connection and arms the fixed-delay
// reconnect, unless the caller already disconnected.
func (c *Client) handleFailure(ctx context.Context, conn Conn, cause error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != conn {
		// A newer connection already replaced this one.
		return
	}

	_ = conn.Close()
	c.conn = nil
	c.stopTimersLocked()
	c.state = StateDisconnected

	if c.stopped {
		return
	}

	c.logger.LogAttrs(ctx, slog.LevelWarn, "push connection lost, scheduling reconnect",
		logger.Component("realtime"),
		slog.Duration("retry_in", c.reconnectInterval),
		logger.Error(cause),
	)
	c.scheduleReconnectLocked(ctx)
}

// scheduleReconnectLocked arms exactly one reconnect attempt after the fixed
// interval. Repeated failures re-arm the same delay; there is no backoff
// growth and no attempt cap. Caller must hold c.mu.
func (c *Client) scheduleReconnectLocked(ctx context.Context) {
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
	}
	c.reconnectTimer = time.AfterFunc(c.reconnectInterval, func() {
		c.mu.Lock()
		if c.stopped || ctx.Err() != nil || c.state != StateDisconnected {
			c.mu.Unlock()
			return
		}
		c.state = StateConnecting
		c.mu.Unlock()

		c.dial(ctx)
	})
}

// stopTimersLocked cancels pending join and reconnect timers.
// Caller must hold c.mu.
func (c *Client) stopTimersLocked() {
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
	if c.joinTimer != nil {
		c.joinTimer.Stop()
		c.joinTimer = nil
	}
}
