package realtime

import (
	"encoding/json"

	"github.com/hostelhub/notifykit/pkg/session"
)

// Frame types exchanged with the push server.
const (
	frameTypeJoin         = "join"
	frameTypeNotification = "notification"
)

// joinFrame is the first message a client sends after opening a connection,
// identifying the session so the server can target notifications.
type joinFrame struct {
	Type string   `json:"type"`
	Data joinData `json:"data"`
}

type joinData struct {
	Role     session.Role `json:"role"`
	Email    string       `json:"email"`
	Name     string       `json:"name"`
	HostelID *string      `json:"hostelId"`
}

func encodeJoinFrame(identity session.Identity) ([]byte, error) {
	return json.Marshal(joinFrame{
		Type: frameTypeJoin,
		Data: joinData{
			Role:     identity.Role,
			Email:    identity.Email,
			Name:     identity.Name,
			HostelID: identity.HostelID,
		},
	})
}

// inboundFrame is the envelope of every server-to-client message. Only
// notification frames are interpreted as domain events; everything else is
// ignored.
type inboundFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}
