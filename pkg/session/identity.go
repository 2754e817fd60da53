package session

// Role identifies the kind of authenticated user a session belongs to.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
	RoleTenant Role = "tenant"
	RoleStaff  Role = "staff"
)

// HostelStatus is the activation state of the hostel the session is scoped to.
type HostelStatus string

const (
	HostelStatusPending  HostelStatus = "pending"
	HostelStatusApproved HostelStatus = "approved"
	HostelStatusActive   HostelStatus = "active"
	HostelStatusInactive HostelStatus = "inactive"
)

// Identity carries the session attributes the notification pipeline needs:
// the join handshake fields and the scoping attributes stamped onto ingested
// notifications. HostelID is nil for sessions not bound to a hostel
// (e.g. platform admins).
type Identity struct {
	Role         Role         `json:"role"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	HostelID     *string      `json:"hostelId,omitempty"`
	HostelStatus HostelStatus `json:"hostelStatus,omitempty"`
}

// Scoped reports whether the identity is bound to a hostel.
func (i Identity) Scoped() bool {
	return i.HostelID != nil && *i.HostelID != ""
}
