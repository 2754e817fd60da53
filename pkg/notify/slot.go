package notify

import (
	"context"
	"sync"
)

// Slot is a single named durable storage location holding the serialized
// notification list. A missing slot loads as an empty list, not an error.
type Slot interface {
	// Save replaces the slot contents with the given list.
	Save(ctx context.Context, notifications []Notification) error

	// Load returns the stored list, or nil when the slot has never been
	// written.
	Load(ctx context.Context) ([]Notification, error)
}

// MemorySlot is an in-memory Slot for development and testing.
// Safe for concurrent use.
type MemorySlot struct {
	notifications []Notification
	written       bool
	mu            sync.RWMutex
}

// NewMemorySlot creates an empty in-memory slot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (s *MemorySlot) Save(ctx context.Context, notifications []Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy to keep the slot detached from the caller's backing array.
	s.notifications = append([]Notification(nil), notifications...)
	s.written = true
	return nil
}

func (s *MemorySlot) Load(ctx context.Context) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.written {
		return nil, nil
	}
	return append([]Notification(nil), s.notifications...), nil
}
