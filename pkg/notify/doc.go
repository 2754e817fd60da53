// Package notify implements the bounded in-app notification store.
//
// The store ingests server-delivered notification payloads, stamps them with
// the session's scoping attributes, keeps the 50 most recent entries
// (newest first) with read/unread tracking, and persists the full list to a
// single durable slot after every mutation. The unread counter is updated in
// the same critical section as the list, so the two can never drift apart.
//
// Persistence fails open in both directions: a slot write failure never loses
// a live in-memory notification, and an absent or corrupt slot on startup
// yields an empty store.
//
// # Usage
//
//	slot, err := notify.NewSQLiteSlot("notify.db", "notifications")
//	if err != nil {
//	    // handle error
//	}
//	store := notify.NewStore(slot)
//	store.Load(ctx)
//
//	n := store.Ingest(ctx, payload, provider.Identity())
//	store.MarkAsRead(ctx, n.ID)
package notify
