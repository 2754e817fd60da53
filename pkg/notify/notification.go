package notify

import (
	"time"

	"github.com/hostelhub/notifykit/pkg/session"
)

// Type classifies a notification by the domain event that produced it.
type Type string

const (
	TypeComplaint          Type = "complaint"
	TypeComplaintUpdate    Type = "complaint_update"
	TypePayment            Type = "payment"
	TypeHostelRequest      Type = "hostel_request"
	TypeHostelApproved     Type = "hostel_approved"
	TypeHostelStatusChange Type = "hostel_status_change"
	TypeGeneral            Type = "general"
	TypeTest               Type = "test"
)

// Interrupting reports whether the type must interrupt the user instead of
// only incrementing the unread counter.
func (t Type) Interrupting() bool {
	return t == TypeHostelStatusChange || t == TypeHostelApproved
}

// Priority is display metadata only; it never influences delivery order.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Payload is the notification shape delivered by the push server. ID is
// optional; the store generates one when the server did not assign it.
type Payload struct {
	ID        string    `json:"id,omitempty"`
	Type      Type      `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Priority  Priority  `json:"priority"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notification is the stored notification model. Values are immutable once
// created except for the Read flag. TargetRole and HostelID are stamped from
// the authenticated session at ingestion time, never taken from the server
// payload.
type Notification struct {
	ID         string       `json:"id"`
	Type       Type         `json:"type"`
	Title      string       `json:"title"`
	Message    string       `json:"message"`
	Priority   Priority     `json:"priority"`
	Read       bool         `json:"isRead"`
	CreatedAt  time.Time    `json:"createdAt"`
	TargetRole session.Role `json:"targetRole,omitempty"`
	HostelID   *string      `json:"hostelId,omitempty"`
}
