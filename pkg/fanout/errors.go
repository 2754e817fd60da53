package fanout

import "errors"

var (
	// ErrBusClosed is returned when publishing on a closed bus.
	ErrBusClosed = errors.New("fanout: bus is closed")
)
