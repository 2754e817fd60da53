package notify

import "errors"

var (
	// ErrEmptySlotName is returned when a durable slot is created without a name.
	ErrEmptySlotName = errors.New("notify: slot name must not be empty")
)
