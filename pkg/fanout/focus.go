package fanout

import (
	"context"
	"sync"
	"time"
)

// RefreshSignal suggests that data-bound UI refetch its own data. It carries
// the number of notifications that arrived while the window was unfocused;
// consumers decide independently whether to act on it.
type RefreshSignal struct {
	Pending int
}

// FocusTracker watches host-window focus changes and emits one RefreshSignal
// when focus returns after at least one notification arrived while the window
// was unfocused. The signal is debounced so rapid focus flapping produces a
// single refresh suggestion.
type FocusTracker struct {
	bus      *Bus[RefreshSignal]
	debounce time.Duration

	mu      sync.Mutex
	focused bool
	pending int
	timer   *time.Timer
}

// NewFocusTracker creates a tracker emitting on bus after the given debounce
// interval. The window is assumed focused initially.
func NewFocusTracker(bus *Bus[RefreshSignal], debounce time.Duration) *FocusTracker {
	return &FocusTracker{
		bus:      bus,
		debounce: debounce,
		focused:  true,
	}
}

// NoteArrival records a delivered notification. Arrivals while the window is
// focused are not counted; the UI already saw them live.
func (t *FocusTracker) NoteArrival() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.focused {
		t.pending++
	}
}

// SetFocused records a focus change. Regaining focus with pending arrivals
// arms the debounce timer; losing focus again before it fires cancels it.
func (t *FocusTracker) SetFocused(focused bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if focused == t.focused {
		return
	}
	t.focused = focused

	if !focused {
		t.cancelTimerLocked()
		return
	}

	if t.pending == 0 {
		return
	}

	t.cancelTimerLocked()
	t.timer = time.AfterFunc(t.debounce, t.emit)
}

// Stop cancels any armed debounce timer. Pending arrival counts are kept so
// a later focus regain still produces a signal.
func (t *FocusTracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelTimerLocked()
}

func (t *FocusTracker) emit() {
	t.mu.Lock()
	pending := t.pending
	t.pending = 0
	t.timer = nil
	t.mu.Unlock()

	if pending == 0 {
		return
	}
	_ = t.bus.Publish(context.Background(), RefreshSignal{Pending: pending})
}

func (t *FocusTracker) cancelTimerLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
