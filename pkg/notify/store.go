package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hostelhub/notifykit/pkg/logger"
	"github.com/hostelhub/notifykit/pkg/session"
)

// DefaultCap is the maximum number of notifications the store retains.
const DefaultCap = 50

// Store is the bounded notification store. The list is ordered newest first
// and capped; inserting beyond the cap evicts the oldest entries. The unread
// counter is mutated in the same critical section as the list, so the two are
// always consistent.
//
// Mutations never return errors: persistence failures are logged and the
// in-memory state still advances, since the server can redeliver lost
// notifications.
type Store struct {
	slot   Slot
	cap    int
	logger *slog.Logger

	mu     sync.RWMutex
	list   []Notification
	unread int
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger for the Store.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithCap overrides the retention cap. Non-positive values are ignored.
func WithCap(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.cap = n
		}
	}
}

// NewStore creates a store persisting to slot. A nil slot falls back to an
// in-memory slot.
func NewStore(slot Slot, opts ...StoreOption) *Store {
	if slot == nil {
		slot = NewMemorySlot()
	}

	s := &Store{
		slot:   slot,
		cap:    DefaultCap,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Load reconstructs the list and unread counter from the durable slot.
// An absent or unreadable slot yields an empty store; startup never fails on
// bad local state.
func (s *Store) Load(ctx context.Context) {
	stored, err := s.slot.Load(ctx)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to load notification slot, starting empty",
			logger.Component("notify"),
			logger.Error(err),
		)
		return
	}

	if len(stored) > s.cap {
		stored = stored[:s.cap]
	}

	unread := 0
	for _, n := range stored {
		if !n.Read {
			unread++
		}
	}

	s.mu.Lock()
	s.list = stored
	s.unread = unread
	s.mu.Unlock()
}

// Ingest combines the server payload with the session's scoping attributes,
// prepends the result, evicts beyond the cap, recomputes the unread counter
// over the retained entries, and persists. The stored notification is returned.
//
// The server-assigned id is kept when present; otherwise a random one is
// generated so two same-type notifications arriving in the same instant can
// never collide.
func (s *Store) Ingest(ctx context.Context, payload Payload, identity session.Identity) Notification {
	n := Notification{
		ID:         payload.ID,
		Type:       payload.Type,
		Title:      payload.Title,
		Message:    payload.Message,
		Priority:   payload.Priority,
		CreatedAt:  payload.CreatedAt,
		TargetRole: identity.Role,
		HostelID:   identity.HostelID,
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	s.mu.Lock()
	s.list = append([]Notification{n}, s.list...)
	if len(s.list) > s.cap {
		s.list = s.list[:s.cap]
	}
	s.unread = 0
	for _, e := range s.list {
		if !e.Read {
			s.unread++
		}
	}
	snapshot := append([]Notification(nil), s.list...)
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	return n
}

// MarkAsRead flips the matching entry to read and decrements the unread
// counter. Unknown ids are a no-op; already-read entries do not decrement.
func (s *Store) MarkAsRead(ctx context.Context, id string) {
	s.mu.Lock()
	changed := false
	for i := range s.list {
		if s.list[i].ID == id && !s.list[i].Read {
			s.list[i].Read = true
			if s.unread > 0 {
				s.unread--
			}
			changed = true
			break
		}
	}
	var snapshot []Notification
	if changed {
		snapshot = append([]Notification(nil), s.list...)
	}
	s.mu.Unlock()

	if changed {
		s.persist(ctx, snapshot)
	}
}

// MarkAllRead marks every entry read and zeroes the unread counter.
func (s *Store) MarkAllRead(ctx context.Context) {
	s.mu.Lock()
	for i := range s.list {
		s.list[i].Read = true
	}
	s.unread = 0
	snapshot := append([]Notification(nil), s.list...)
	s.mu.Unlock()

	s.persist(ctx, snapshot)
}

// Clear removes every entry. This is an explicit data-management action, not
// part of normal ingestion flow.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.list = nil
	s.unread = 0
	s.mu.Unlock()

	s.persist(ctx, nil)
}

// Notifications returns a copy of the list, newest first.
func (s *Store) Notifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Notification(nil), s.list...)
}

// UnreadCount returns the number of unread entries.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}

// persist writes the snapshot to the durable slot. Write failures are logged
// and otherwise ignored: the in-memory state is authoritative for the live
// session and the server can redeliver.
func (s *Store) persist(ctx context.Context, snapshot []Notification) {
	if err := s.slot.Save(ctx, snapshot); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to persist notifications",
			logger.Component("notify"),
			slog.Int("count", len(snapshot)),
			logger.Error(err),
		)
	}
}
