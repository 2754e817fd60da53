package notify_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelhub/notifykit/pkg/notify"
	"github.com/hostelhub/notifykit/pkg/session"
)

func ownerIdentity() session.Identity {
	hostelID := "hostel-1"
	return session.Identity{
		Role:     session.RoleOwner,
		Email:    "owner@example.com",
		Name:     "Asha",
		HostelID: &hostelID,
	}
}

// failingSlot fails every durable operation.
type failingSlot struct{}

func (failingSlot) Save(ctx context.Context, notifications []notify.Notification) error {
	return errors.New("disk full")
}

func (failingSlot) Load(ctx context.Context) ([]notify.Notification, error) {
	return nil, errors.New("corrupt slot")
}

func TestStore_IngestFirstNotification(t *testing.T) {
	t.Parallel()

	store := notify.NewStore(notify.NewMemorySlot())

	n := store.Ingest(context.Background(), notify.Payload{
		Type:     notify.TypePayment,
		Title:    "Rent due",
		Priority: notify.PriorityHigh,
	}, ownerIdentity())

	list := store.Notifications()
	require.Len(t, list, 1)
	assert.Equal(t, 1, store.UnreadCount())
	assert.Equal(t, "Rent due", list[0].Title)
	assert.Equal(t, notify.PriorityHigh, list[0].Priority)
	assert.False(t, list[0].Read)
	assert.NotEmpty(t, n.ID)
	assert.False(t, n.CreatedAt.IsZero())
}

func TestStore_IngestStampsSessionScoping(t *testing.T) {
	t.Parallel()

	store := notify.NewStore(notify.NewMemorySlot())

	n := store.Ingest(context.Background(), notify.Payload{
		Type:  notify.TypeComplaint,
		Title: "Leaking tap",
	}, ownerIdentity())

	assert.Equal(t, session.RoleOwner, n.TargetRole)
	require.NotNil(t, n.HostelID)
	assert.Equal(t, "hostel-1", *n.HostelID)
}

func TestStore_IngestKeepsServerAssignedID(t *testing.T) {
	t.Parallel()

	store := notify.NewStore(notify.NewMemorySlot())

	n := store.Ingest(context.Background(), notify.Payload{
		ID:    "srv-42",
		Type:  notify.TypeGeneral,
		Title: "Notice",
	}, ownerIdentity())

	assert.Equal(t, "srv-42", n.ID)
}

func TestStore_GeneratedIDsAreDistinct(t *testing.T) {
	t.Parallel()

	store := notify.NewStore(notify.NewMemorySlot())

	// Two same-type payloads in the same instant must never share an id.
	a := store.Ingest(context.Background(), notify.Payload{Type: notify.TypeTest}, ownerIdentity())
	b := store.Ingest(context.Background(), notify.Payload{Type: notify.TypeTest}, ownerIdentity())

	assert.NotEqual(t, a.ID, b.ID)
}

func TestStore_CapEvictsOldest(t *testing.T) {
	t.Parallel()

	store := notify.NewStore(notify.NewMemorySlot())

	for i := 1; i <= 52; i++ {
		store.Ingest(context.Background(), notify.Payload{
			ID:    fmt.Sprintf("n-%d", i),
			Type:  notify.TypeGeneral,
			Title: fmt.Sprintf("Notice %d", i),
		}, ownerIdentity())
	}

	list := store.Notifications()
	require.Len(t, list, 50)
	assert.Equal(t, "n-52", list[0].ID)
	assert.Equal(t, "n-3", list[49].ID)
	assert.Equal(t, 50, store.UnreadCount())

	for _, n := range list {
		assert.NotEqual(t, "n-1", n.ID)
		assert.NotEqual(t, "n-2", n.ID)
	}
}

func TestStore_EvictingUnreadKeepsCounterConsistent(t *testing.T) {
	t.Parallel()

	store := notify.NewStore(notify.NewMemorySlot(), notify.WithCap(2))

	store.Ingest(context.Background(), notify.Payload{ID: "a", Type: notify.TypeGeneral}, ownerIdentity())
	store.Ingest(context.Background(), notify.Payload{ID: "b", Type: notify.TypeGeneral}, ownerIdentity())
	store.Ingest(context.Background(), notify.Payload{ID: "c", Type: notify.TypeGeneral}, ownerIdentity())

	// "a" was evicted while unread; the counter must match the list.
	assert.Equal(t, 2, store.UnreadCount())
	assert.Len(t, store.Notifications(), 2)
}

func TestStore_MarkAsRead(t *testing.T) {
	t.Parallel()

	store := notify.NewStore(notify.NewMemorySlot())
	n := store.Ingest(context.Background(), notify.Payload{Type: notify.TypePayment}, ownerIdentity())
	require.Equal(t, 1, store.UnreadCount())

	store.MarkAsRead(context.Background(), n.ID)

	assert.Equal(t, 0, store.UnreadCount())
	assert.True(t, store.Notifications()[0].Read)

	// Marking the same entry twice never drives the counter negative.
	store.MarkAsRead(context.Background(), n.ID)
	assert.Equal(t, 0, store.UnreadCount())
}

func TestStore_MarkAsReadUnknownIDIsNoOp(t *testing.T) {
	t.Parallel()

	store := notify.NewStore(notify.NewMemorySlot())
	store.Ingest(context.Background(), notify.Payload{Type: notify.TypeGeneral}, ownerIdentity())

	store.MarkAsRead(context.Background(), "missing")

	assert.Equal(t, 1, store.UnreadCount())
	assert.Len(t, store.Notifications(), 1)
	assert.False(t, store.Notifications()[0].Read)
}

func TestStore_MarkAllRead(t *testing.T) {
	t.Parallel()

	store := notify.NewStore(notify.NewMemorySlot())
	for i := 0; i < 5; i++ {
		store.Ingest(context.Background(), notify.Payload{
			ID:   fmt.Sprintf("n-%d", i),
			Type: notify.TypeGeneral,
		}, ownerIdentity())
	}

	store.MarkAllRead(context.Background())

	assert.Equal(t, 0, store.UnreadCount())
	for _, n := range store.Notifications() {
		assert.True(t, n.Read)
	}
}

func TestStore_UnreadCountMatchesListAfterMixedOps(t *testing.T) {
	t.Parallel()

	store := notify.NewStore(notify.NewMemorySlot())

	a := store.Ingest(context.Background(), notify.Payload{ID: "a", Type: notify.TypeGeneral}, ownerIdentity())
	store.Ingest(context.Background(), notify.Payload{ID: "b", Type: notify.TypeGeneral}, ownerIdentity())
	store.MarkAsRead(context.Background(), a.ID)
	store.Ingest(context.Background(), notify.Payload{ID: "c", Type: notify.TypeGeneral}, ownerIdentity())
	store.MarkAsRead(context.Background(), "nope")

	unreadFromList := 0
	for _, n := range store.Notifications() {
		if !n.Read {
			unreadFromList++
		}
	}
	assert.Equal(t, unreadFromList, store.UnreadCount())
	assert.Equal(t, 2, store.UnreadCount())
}

func TestStore_PersistsAfterEveryMutation(t *testing.T) {
	t.Parallel()

	slot := notify.NewMemorySlot()
	store := notify.NewStore(slot)

	n := store.Ingest(context.Background(), notify.Payload{Type: notify.TypeGeneral}, ownerIdentity())

	stored, err := slot.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.False(t, stored[0].Read)

	store.MarkAsRead(context.Background(), n.ID)
	stored, err = slot.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, stored[0].Read)
}

func TestStore_LoadRestoresListAndCounter(t *testing.T) {
	t.Parallel()

	slot := notify.NewMemorySlot()
	require.NoError(t, slot.Save(context.Background(), []notify.Notification{
		{ID: "a", Type: notify.TypeGeneral, Read: true, CreatedAt: time.Now()},
		{ID: "b", Type: notify.TypePayment, Read: false, CreatedAt: time.Now()},
		{ID: "c", Type: notify.TypeComplaint, Read: false, CreatedAt: time.Now()},
	}))

	store := notify.NewStore(slot)
	store.Load(context.Background())

	assert.Len(t, store.Notifications(), 3)
	assert.Equal(t, 2, store.UnreadCount())
}

func TestStore_LoadFailsOpenOnSlotError(t *testing.T) {
	t.Parallel()

	store := notify.NewStore(failingSlot{})
	store.Load(context.Background())

	assert.Empty(t, store.Notifications())
	assert.Equal(t, 0, store.UnreadCount())
}

func TestStore_IngestSurvivesPersistenceFailure(t *testing.T) {
	t.Parallel()

	store := notify.NewStore(failingSlot{})

	store.Ingest(context.Background(), notify.Payload{Type: notify.TypeGeneral}, ownerIdentity())

	assert.Len(t, store.Notifications(), 1)
	assert.Equal(t, 1, store.UnreadCount())
}

func TestStore_Clear(t *testing.T) {
	t.Parallel()

	slot := notify.NewMemorySlot()
	store := notify.NewStore(slot)
	store.Ingest(context.Background(), notify.Payload{Type: notify.TypeGeneral}, ownerIdentity())

	store.Clear(context.Background())

	assert.Empty(t, store.Notifications())
	assert.Equal(t, 0, store.UnreadCount())

	stored, err := slot.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestType_Interrupting(t *testing.T) {
	t.Parallel()

	assert.True(t, notify.TypeHostelStatusChange.Interrupting())
	assert.True(t, notify.TypeHostelApproved.Interrupting())
	assert.False(t, notify.TypePayment.Interrupting())
	assert.False(t, notify.TypeComplaint.Interrupting())
	assert.False(t, notify.TypeGeneral.Interrupting())
}
