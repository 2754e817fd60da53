package escalate

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/hostelhub/notifykit/pkg/fanout"
	"github.com/hostelhub/notifykit/pkg/logger"
	"github.com/hostelhub/notifykit/pkg/notify"
	"github.com/hostelhub/notifykit/pkg/session"
)

// State is the escalation lifecycle state.
type State string

const (
	StateIdle      State = "idle"
	StateEscalated State = "escalated"
)

// Branch distinguishes the two hostel status change modals.
type Branch string

const (
	BranchActivated   Branch = "activated"
	BranchDeactivated Branch = "deactivated"
)

// Alert is a blocking, dismiss-by-acknowledgement modal request emitted to
// the application's modal host.
type Alert struct {
	Branch         Branch
	Title          string
	Message        string
	NotificationID string
}

// Handler inspects notifications for interrupt-class types. It moves between
// Idle and Escalated: raising an alert escalates, Acknowledge returns to
// idle. Safe for concurrent use.
type Handler struct {
	alerts   *fanout.Bus[Alert]
	refresh  *fanout.Bus[fanout.RefreshSignal]
	sessions session.Provider
	logger   *slog.Logger

	mu    sync.Mutex
	state State
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithHandlerLogger sets the logger for the Handler.
func WithHandlerLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler creates an idle escalation handler. Alerts are published on
// alerts; hostel approvals update sessions and publish on refresh.
func NewHandler(alerts *fanout.Bus[Alert], refresh *fanout.Bus[fanout.RefreshSignal], sessions session.Provider, opts ...HandlerOption) *Handler {
	h := &Handler{
		alerts:   alerts,
		refresh:  refresh,
		sessions: sessions,
		logger:   slog.Default(),
		state:    StateIdle,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// State returns the current escalation state.
func (h *Handler) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Handle inspects n and reports whether it was consumed as an interruption.
// Only hostel status changes and hostel approvals interrupt; every other
// type returns false and flows through the regular fan-out.
func (h *Handler) Handle(ctx context.Context, n notify.Notification) bool {
	switch n.Type {
	case notify.TypeHostelStatusChange:
		h.raise(ctx, n)
		return true
	case notify.TypeHostelApproved:
		h.approve(ctx, n)
		return true
	default:
		return false
	}
}

// Acknowledge dismisses the raised alert and returns the handler to idle.
// Acknowledging while idle is a no-op.
func (h *Handler) Acknowledge() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = StateIdle
}

// raise synthesizes the blocking modal for a hostel status change. The
// branch is derived from the notification title: "Activated" present means
// the hostel came back, anything else means it was taken down.
func (h *Handler) raise(ctx context.Context, n notify.Notification) {
	alert := Alert{
		Branch:         BranchDeactivated,
		Title:          "Hostel Deactivated",
		Message:        "Your hostel has been deactivated. Contact support to restore access.",
		NotificationID: n.ID,
	}
	if strings.Contains(n.Title, "Activated") {
		alert = Alert{
			Branch:         BranchActivated,
			Title:          "Hostel Activated",
			Message:        "Your hostel has been activated. All features are available again.",
			NotificationID: n.ID,
		}
	}

	h.mu.Lock()
	h.state = StateEscalated
	h.mu.Unlock()

	if err := h.alerts.Publish(ctx, alert); err != nil {
		h.logger.LogAttrs(ctx, slog.LevelError, "failed to publish escalation alert",
			logger.Component("escalate"),
			logger.NotificationID(n.ID),
			logger.Error(err),
		)
	}

	h.logger.LogAttrs(ctx, slog.LevelInfo, "escalated hostel status change",
		logger.Component("escalate"),
		logger.NotificationID(n.ID),
		slog.String("branch", string(alert.Branch)),
	)
}

// approve records the hostel approval on the cached session and asks the
// application to refresh its state; no modal is raised.
func (h *Handler) approve(ctx context.Context, n notify.Notification) {
	h.sessions.SetHostelStatus(session.HostelStatusApproved)

	if err := h.refresh.Publish(ctx, fanout.RefreshSignal{}); err != nil {
		h.logger.LogAttrs(ctx, slog.LevelError, "failed to publish refresh signal",
			logger.Component("escalate"),
			logger.NotificationID(n.ID),
			logger.Error(err),
		)
	}
}
