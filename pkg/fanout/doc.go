// Package fanout delivers notification events to every registered UI
// subscriber.
//
// The push server connection exposes a single delivery path; fanout turns it
// into a proper publish/subscribe registry so multiple UI surfaces (dashboard
// badge, notification drawer, modal host) can observe the stream concurrently
// without one subscriber evicting another. Subscribers with full buffers have
// messages dropped rather than blocking the publisher.
//
// The package also tracks host-window focus: when the window regains focus
// after notifications arrived while unfocused, a single refresh signal is
// emitted so data-bound UI can decide whether to refetch.
//
// # Usage
//
//	bus := fanout.NewBus[notify.Notification](16)
//	defer bus.Close()
//
//	sub := bus.Subscribe(ctx)
//	go func() {
//	    for msg := range sub.Receive() {
//	        render(msg.Data)
//	    }
//	}()
//
//	_ = bus.Publish(ctx, n)
package fanout
