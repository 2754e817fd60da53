// Package realtime maintains the persistent client connection to the push
// server.
//
// A Client owns exactly one logical connection over a pluggable Transport.
// On open it sends a single join handshake identifying the session, then
// reads notification frames and dispatches them to every registered listener
// in arrival order. Transport failures are recovered with a fixed-delay
// reconnect that re-arms for as long as Disconnect has not been called;
// Disconnect cancels any pending reconnect so a torn-down client can never
// resurrect itself.
//
// Malformed frames are logged and dropped per frame; they never affect the
// open connection.
//
// The production transport rides on Redis Pub/Sub; tests use an in-memory
// fake.
//
// # Usage
//
//	client := realtime.NewClient(transport)
//	defer client.Disconnect()
//
//	unsubscribe := client.Subscribe(func(p notify.Payload) {
//	    // ingest, fan out, escalate
//	})
//	defer unsubscribe()
//
//	client.Connect(provider.Identity())
package realtime
