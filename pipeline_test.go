package notifykit_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelhub/notifykit"
	"github.com/hostelhub/notifykit/pkg/escalate"
	"github.com/hostelhub/notifykit/pkg/notify"
	"github.com/hostelhub/notifykit/pkg/push"
	"github.com/hostelhub/notifykit/pkg/realtime"
	"github.com/hostelhub/notifykit/pkg/session"
)

type scriptedConn struct {
	frames    chan []byte
	closed    chan struct{}
	closeOnce sync.Once

	mu     sync.Mutex
	writes int
}

func newScriptedConn() *scriptedConn {
	return &scriptedConn{
		frames: make(chan []byte, 16),
		closed: make(chan struct{}),
	}
}

func (c *scriptedConn) ReadFrame(ctx context.Context) ([]byte, error) {
	select {
	case data := <-c.frames:
		return data, nil
	case <-c.closed:
		return nil, realtime.ErrConnClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *scriptedConn) WriteFrame(ctx context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes++
	return nil
}

func (c *scriptedConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *scriptedConn) writeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

type scriptedTransport struct {
	mu    sync.Mutex
	conns []*scriptedConn
}

func (t *scriptedTransport) Dial(ctx context.Context) (realtime.Conn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	conn := newScriptedConn()
	t.conns = append(t.conns, conn)
	return conn, nil
}

func (t *scriptedTransport) lastConn() *scriptedConn {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.conns) == 0 {
		return nil
	}
	return t.conns[len(t.conns)-1]
}

type recordingBridge struct {
	mu    sync.Mutex
	shown []string
	err   error
}

func (b *recordingBridge) Initialize(ctx context.Context, identity session.Identity) error { return nil }

func (b *recordingBridge) Supported() bool { return true }

func (b *recordingBridge) RequestPermission(ctx context.Context) error { return push.ErrPermissionDenied }

func (b *recordingBridge) Show(ctx context.Context, title, body string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.shown = append(b.shown, title)
	return nil
}

func (b *recordingBridge) titles() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.shown...)
}

type harness struct {
	pipeline  *notifykit.Pipeline
	transport *scriptedTransport
	sessions  *session.StaticProvider
	bridge    *recordingBridge
}

func newHarness(t *testing.T, opts ...notifykit.Option) *harness {
	t.Helper()

	transport := &scriptedTransport{}
	client := realtime.NewClient(transport,
		realtime.WithJoinDelay(time.Millisecond),
		realtime.WithReconnectInterval(20*time.Millisecond),
	)

	hostelID := "hostel-1"
	sessions := session.NewStaticProvider(session.Identity{
		Role:         session.RoleOwner,
		Email:        "owner@example.com",
		Name:         "Asha",
		HostelID:     &hostelID,
		HostelStatus: session.HostelStatusPending,
	})

	bridge := &recordingBridge{}
	opts = append([]notifykit.Option{notifykit.WithBridge(bridge)}, opts...)

	pipeline := notifykit.New(client, notify.NewStore(notify.NewMemorySlot()), sessions, opts...)
	t.Cleanup(pipeline.Stop)

	return &harness{
		pipeline:  pipeline,
		transport: transport,
		sessions:  sessions,
		bridge:    bridge,
	}
}

func (h *harness) deliver(t *testing.T, payload notify.Payload) {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	frame, err := json.Marshal(map[string]json.RawMessage{
		"type":    json.RawMessage(`"notification"`),
		"payload": raw,
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return h.transport.lastConn() != nil
	}, time.Second, 5*time.Millisecond)
	h.transport.lastConn().frames <- frame
}

func TestPipeline_DeliversToStoreAndSubscribers(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	sub := h.pipeline.SubscribeNotifications(context.Background())
	defer sub.Close()

	h.pipeline.Start(context.Background())
	h.deliver(t, notify.Payload{Type: notify.TypePayment, Title: "Rent due", Priority: notify.PriorityHigh})

	select {
	case msg := <-sub.Receive():
		assert.Equal(t, "Rent due", msg.Data.Title)
		assert.Equal(t, session.RoleOwner, msg.Data.TargetRole)
	case <-time.After(time.Second):
		t.Fatal("expected notification on the fan-out")
	}

	assert.Equal(t, 1, h.pipeline.UnreadCount())
	require.Len(t, h.pipeline.Notifications(), 1)
	assert.Equal(t, []string{"Rent due"}, h.bridge.titles())
}

func TestPipeline_StartTwiceOpensOneConnection(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.pipeline.Start(context.Background())
	h.pipeline.Start(context.Background())

	require.Eventually(t, func() bool {
		return h.pipeline.ConnectionState() == realtime.StateJoined
	}, time.Second, 5*time.Millisecond)

	h.transport.mu.Lock()
	conns := len(h.transport.conns)
	h.transport.mu.Unlock()
	assert.Equal(t, 1, conns)
	assert.Equal(t, 1, h.transport.lastConn().writeCount())
}

func TestPipeline_StatusChangeEscalatesInsteadOfFanningOut(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	events := h.pipeline.SubscribeNotifications(context.Background())
	alerts := h.pipeline.SubscribeAlerts(context.Background())
	defer events.Close()
	defer alerts.Close()

	h.pipeline.Start(context.Background())
	h.deliver(t, notify.Payload{Type: notify.TypeHostelStatusChange, Title: "Hostel Activated"})

	select {
	case msg := <-alerts.Receive():
		assert.Equal(t, escalate.BranchActivated, msg.Data.Branch)
	case <-time.After(time.Second):
		t.Fatal("expected escalation alert")
	}

	// Escalated types are still ingested but bypass the regular fan-out.
	assert.Equal(t, 1, h.pipeline.UnreadCount())
	select {
	case <-events.Receive():
		t.Fatal("status change must not reach the regular fan-out")
	case <-time.After(20 * time.Millisecond):
	}

	h.pipeline.Acknowledge()
}

func TestPipeline_HostelApprovedUpdatesSessionAndRefreshes(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	refresh := h.pipeline.SubscribeRefresh(context.Background())
	defer refresh.Close()

	h.pipeline.Start(context.Background())
	h.deliver(t, notify.Payload{Type: notify.TypeHostelApproved, Title: "Hostel Approved"})

	select {
	case <-refresh.Receive():
	case <-time.After(time.Second):
		t.Fatal("expected refresh signal")
	}
	assert.Equal(t, session.HostelStatusApproved, h.sessions.Identity().HostelStatus)
}

func TestPipeline_FocusRegainEmitsRefresh(t *testing.T) {
	t.Parallel()

	h := newHarness(t, notifykit.WithFocusDebounce(5*time.Millisecond))
	refresh := h.pipeline.SubscribeRefresh(context.Background())
	defer refresh.Close()

	h.pipeline.Start(context.Background())
	h.pipeline.SetFocused(false)

	h.deliver(t, notify.Payload{Type: notify.TypeGeneral, Title: "While away"})
	require.Eventually(t, func() bool {
		return h.pipeline.UnreadCount() == 1
	}, time.Second, 5*time.Millisecond)

	h.pipeline.SetFocused(true)

	select {
	case msg := <-refresh.Receive():
		assert.Equal(t, 1, msg.Data.Pending)
	case <-time.After(time.Second):
		t.Fatal("expected refresh signal after focus regain")
	}
}

func TestPipeline_MarkAsReadSurface(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.pipeline.Start(context.Background())

	h.deliver(t, notify.Payload{ID: "srv-1", Type: notify.TypeComplaint, Title: "Leaking tap"})
	require.Eventually(t, func() bool {
		return h.pipeline.UnreadCount() == 1
	}, time.Second, 5*time.Millisecond)

	h.pipeline.MarkAsRead(context.Background(), "srv-1")
	assert.Equal(t, 0, h.pipeline.UnreadCount())

	h.deliver(t, notify.Payload{Type: notify.TypeGeneral})
	require.Eventually(t, func() bool {
		return h.pipeline.UnreadCount() == 1
	}, time.Second, 5*time.Millisecond)

	h.pipeline.MarkAllRead(context.Background())
	assert.Equal(t, 0, h.pipeline.UnreadCount())
}

func TestPipeline_BridgeFailureDoesNotBlockDelivery(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.bridge.mu.Lock()
	h.bridge.err = errors.New("fcm unreachable")
	h.bridge.mu.Unlock()

	sub := h.pipeline.SubscribeNotifications(context.Background())
	defer sub.Close()

	h.pipeline.Start(context.Background())
	h.deliver(t, notify.Payload{Type: notify.TypeGeneral, Title: "still delivered"})

	select {
	case msg := <-sub.Receive():
		assert.Equal(t, "still delivered", msg.Data.Title)
	case <-time.After(time.Second):
		t.Fatal("expected in-app delivery despite bridge failure")
	}
}

func TestPipeline_StopClosesConnectionAndBuses(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	sub := h.pipeline.SubscribeNotifications(context.Background())

	h.pipeline.Start(context.Background())
	require.Eventually(t, func() bool {
		return h.pipeline.ConnectionState() == realtime.StateJoined
	}, time.Second, 5*time.Millisecond)

	h.pipeline.Stop()

	assert.Equal(t, realtime.StateDisconnected, h.pipeline.ConnectionState())
	_, ok := <-sub.Receive()
	assert.False(t, ok)

	// No reconnect resurrects a stopped pipeline.
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, realtime.StateDisconnected, h.pipeline.ConnectionState())
}
