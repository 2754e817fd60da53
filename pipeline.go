package notifykit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hostelhub/notifykit/pkg/escalate"
	"github.com/hostelhub/notifykit/pkg/fanout"
	"github.com/hostelhub/notifykit/pkg/logger"
	"github.com/hostelhub/notifykit/pkg/notify"
	"github.com/hostelhub/notifykit/pkg/push"
	"github.com/hostelhub/notifykit/pkg/realtime"
	"github.com/hostelhub/notifykit/pkg/session"
)

const (
	// DefaultBuffer is the per-subscriber channel buffer of the UI buses.
	DefaultBuffer = 16

	// DefaultFocusDebounce delays the refresh-suggested signal after the
	// window regains focus, coalescing rapid focus flapping.
	DefaultFocusDebounce = 250 * time.Millisecond
)

// Pipeline owns the notification delivery flow: inbound frames are ingested
// into the store, pushed to the background bridge, fanned out to UI
// subscribers, and escalated for interrupt-class types. The pipeline is an
// explicit owned object; the application's composition root creates one per
// authenticated session and injects it where needed.
type Pipeline struct {
	client   *realtime.Client
	store    *notify.Store
	sessions session.Provider
	bridge   push.Bridge
	logger   *slog.Logger

	events     *fanout.Bus[notify.Notification]
	refresh    *fanout.Bus[fanout.RefreshSignal]
	alerts     *fanout.Bus[escalate.Alert]
	escalation *escalate.Handler
	focus      *fanout.FocusTracker

	mu          sync.Mutex
	started     bool
	unsubscribe func()
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPipelineLogger sets the logger for the Pipeline.
func WithPipelineLogger(log *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = log
	}
}

// WithBridge sets the platform push bridge. Defaults to a no-op bridge.
func WithBridge(bridge push.Bridge) Option {
	return func(p *Pipeline) {
		if bridge != nil {
			p.bridge = bridge
		}
	}
}

// WithFocusDebounce overrides the refresh-signal debounce interval.
func WithFocusDebounce(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.focus = fanout.NewFocusTracker(p.refresh, d)
		}
	}
}

// New creates a stopped pipeline over the given connection client, store,
// and session provider.
func New(client *realtime.Client, store *notify.Store, sessions session.Provider, opts ...Option) *Pipeline {
	events := fanout.NewBus[notify.Notification](DefaultBuffer)
	refresh := fanout.NewBus[fanout.RefreshSignal](DefaultBuffer)
	alerts := fanout.NewBus[escalate.Alert](DefaultBuffer)

	p := &Pipeline{
		client:   client,
		store:    store,
		sessions: sessions,
		bridge:   push.NoopBridge{},
		logger:   slog.Default(),
		events:   events,
		refresh:  refresh,
		alerts:   alerts,
		focus:    fanout.NewFocusTracker(refresh, DefaultFocusDebounce),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.escalation = escalate.NewHandler(alerts, refresh, sessions,
		escalate.WithHandlerLogger(p.logger),
	)

	return p
}

// Start restores the store from durable storage, prepares the push bridge,
// and opens the push-server connection. Calling Start on a started pipeline
// is a no-op. Bridge failures are logged and never abort the start: in-app
// delivery works without background delivery.
func (p *Pipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	p.store.Load(ctx)

	identity := p.sessions.Identity()
	if err := p.bridge.Initialize(ctx, identity); err != nil {
		p.logger.LogAttrs(ctx, slog.LevelWarn, "push bridge initialization failed, background delivery disabled",
			logger.Component("pipeline"),
			logger.Error(err),
		)
	}
	if p.bridge.Supported() {
		if err := p.bridge.RequestPermission(ctx); err != nil {
			p.logger.LogAttrs(ctx, slog.LevelInfo, "push permission denied, in-app delivery only",
				logger.Component("pipeline"),
				logger.Error(err),
			)
		}
	}

	unsubscribe := p.client.Subscribe(func(payload notify.Payload) {
		p.handle(ctx, payload)
	})

	p.mu.Lock()
	p.unsubscribe = unsubscribe
	p.mu.Unlock()

	p.client.Connect(identity)
}

// Stop tears the pipeline down: the connection is closed, pending reconnects
// and focus timers are cancelled, and all subscriber buses are closed.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	unsubscribe := p.unsubscribe
	p.unsubscribe = nil
	p.started = false
	p.mu.Unlock()

	p.client.Disconnect()
	if unsubscribe != nil {
		unsubscribe()
	}
	p.focus.Stop()

	_ = p.events.Close()
	_ = p.alerts.Close()
	_ = p.refresh.Close()
}

// handle processes one inbound notification: ingest and persist, count it
// for the focus tracker, attempt background delivery, then either escalate
// or fan out to the UI subscribers.
func (p *Pipeline) handle(ctx context.Context, payload notify.Payload) {
	n := p.store.Ingest(ctx, payload, p.sessions.Identity())
	p.focus.NoteArrival()

	if p.bridge.Supported() {
		if err := p.bridge.Show(ctx, n.Title, n.Message); err != nil {
			p.logger.LogAttrs(ctx, slog.LevelWarn, "background delivery failed",
				logger.Component("pipeline"),
				logger.NotificationID(n.ID),
				logger.Error(err),
			)
		}
	}

	// Interrupt-class types bypass the regular fan-out; everything else
	// reaches the UI through it.
	if p.escalation.Handle(ctx, n) {
		return
	}

	if err := p.events.Publish(ctx, n); err != nil {
		p.logger.LogAttrs(ctx, slog.LevelWarn, "failed to fan out notification",
			logger.Component("pipeline"),
			logger.NotificationID(n.ID),
			logger.Error(err),
		)
	}
}

// SubscribeNotifications registers a UI subscriber for regular notifications.
func (p *Pipeline) SubscribeNotifications(ctx context.Context) *fanout.Subscription[notify.Notification] {
	return p.events.Subscribe(ctx)
}

// SubscribeAlerts registers the top-level modal host for blocking alerts.
func (p *Pipeline) SubscribeAlerts(ctx context.Context) *fanout.Subscription[escalate.Alert] {
	return p.alerts.Subscribe(ctx)
}

// SubscribeRefresh registers a subscriber for refresh-suggested signals.
func (p *Pipeline) SubscribeRefresh(ctx context.Context) *fanout.Subscription[fanout.RefreshSignal] {
	return p.refresh.Subscribe(ctx)
}

// Notifications returns the stored notifications, newest first.
func (p *Pipeline) Notifications() []notify.Notification {
	return p.store.Notifications()
}

// UnreadCount returns the number of unread notifications.
func (p *Pipeline) UnreadCount() int {
	return p.store.UnreadCount()
}

// MarkAsRead marks one notification read.
func (p *Pipeline) MarkAsRead(ctx context.Context, id string) {
	p.store.MarkAsRead(ctx, id)
}

// MarkAllRead marks every notification read.
func (p *Pipeline) MarkAllRead(ctx context.Context) {
	p.store.MarkAllRead(ctx)
}

// Acknowledge dismisses the raised escalation alert.
func (p *Pipeline) Acknowledge() {
	p.escalation.Acknowledge()
}

// SetFocused records a host-window focus change for the refresh tracker.
func (p *Pipeline) SetFocused(focused bool) {
	p.focus.SetFocused(focused)
}

// ConnectionState reports the push connection state.
func (p *Pipeline) ConnectionState() realtime.State {
	return p.client.State()
}
