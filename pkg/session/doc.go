// Package session exposes the authenticated-session identity consumed by the
// notification pipeline.
//
// The pipeline never owns authentication: it only reads the identity used for
// the join handshake and for stamping ingested notifications, and it updates
// the cached hostel status when the server approves a hostel.
//
// # Usage
//
//	provider := session.NewStaticProvider(session.Identity{
//	    Role:  session.RoleOwner,
//	    Email: "owner@example.com",
//	    Name:  "Asha",
//	})
//
//	identity := provider.Identity()
package session
