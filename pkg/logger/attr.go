package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// NotificationID records the notification identifier under the key "notification_id".
func NotificationID(id string) slog.Attr {
	return slog.String("notification_id", id)
}

// HostelID records the hostel scoping identifier under the key "hostel_id".
// If id is nil, it returns an empty Attr.
func HostelID(id *string) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.String("hostel_id", *id)
}

// Role records a session role under the key "role".
func Role(role any) slog.Attr {
	if role == nil {
		return slog.Attr{}
	}
	return slog.Any("role", role)
}

// EventType records the notification type under the key "event_type".
func EventType(eventType string) slog.Attr {
	return slog.String("event_type", eventType)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// ConnState records the connection state under the key "conn_state".
func ConnState(state string) slog.Attr {
	return slog.String("conn_state", state)
}
