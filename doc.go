// Package notifykit is the real-time notification delivery pipeline for the
// hostel management application.
//
// It wires a persistent push-server connection (pkg/realtime), a bounded
// local notification store with read/unread tracking (pkg/notify), a
// multi-subscriber broadcast registry (pkg/fanout), interrupt handling for
// must-interrupt notification types (pkg/escalate), and the platform push
// bridge (pkg/push) into a single owned Pipeline managed by the
// application's composition root.
//
// # Usage
//
//	transport, err := realtime.ConnectRedis(ctx, cfg)
//	if err != nil {
//	    // handle error
//	}
//
//	pipeline := notifykit.New(
//	    realtime.NewClient(transport),
//	    notify.NewStore(slot),
//	    session.NewStaticProvider(identity),
//	)
//	defer pipeline.Stop()
//
//	sub := pipeline.SubscribeNotifications(ctx)
//	pipeline.Start(ctx)
package notifykit
